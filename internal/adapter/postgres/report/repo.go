// Package report implements the primary-store repository for field reports.
package report

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/pantau-subsidi/internal/adapter/postgres"
	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

const table = "reports"

var columns = []string{
	"id", "task_id", "reporter_id", "komoditas", "kuota_tersalurkan",
	"lokasi", "catatan", "status", "created_at", "updated_at",
}

type row struct {
	ID               string    `db:"id"`
	TaskID           string    `db:"task_id"`
	ReporterID       string    `db:"reporter_id"`
	Komoditas        string    `db:"komoditas"`
	KuotaTersalurkan float64   `db:"kuota_tersalurkan"`
	Lokasi           string    `db:"lokasi"`
	Catatan          string    `db:"catatan"`
	Status           string    `db:"status"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (r row) toDomain() domain.Report {
	return domain.Report{
		ID:               r.ID,
		TaskID:           r.TaskID,
		ReporterID:       r.ReporterID,
		Komoditas:        r.Komoditas,
		KuotaTersalurkan: r.KuotaTersalurkan,
		Lokasi:           r.Lokasi,
		Catatan:          r.Catatan,
		Status:           domain.ReportStatus(r.Status),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// Repo provides report persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new report repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// List returns reports matching the filter in creation order.
func (r *Repo) List(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error) {
	query := postgres.Builder().Select(columns...).From(table)
	if filter.TaskID != "" {
		query = query.Where(sq.Eq{"task_id": filter.TaskID})
	}
	if filter.ReporterID != "" {
		query = query.Where(sq.Eq{"reporter_id": filter.ReporterID})
	}
	if filter.Status != "" {
		query = query.Where(sq.Eq{"status": string(filter.Status)})
	}
	query = query.OrderBy("created_at ASC", "id ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build report list query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "report", "list")
	}

	out := make([]domain.Report, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toDomain())
	}
	return out, nil
}

// GetByID returns a report by ID.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Report, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Report{}, fmt.Errorf("build report get query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, sql, args...); err != nil {
		return domain.Report{}, postgres.MapError(err, "report", id)
	}
	return rw.toDomain(), nil
}

// Create inserts a report with its pre-assigned ID.
// A duplicate ID yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, rep domain.Report) (domain.Report, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			rep.ID, rep.TaskID, rep.ReporterID, rep.Komoditas, rep.KuotaTersalurkan,
			rep.Lokasi, rep.Catatan, string(rep.Status), rep.CreatedAt, rep.UpdatedAt,
		).
		Suffix("RETURNING " + returning()).
		ToSql()
	if err != nil {
		return domain.Report{}, fmt.Errorf("build report insert: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, sql, args...); err != nil {
		return domain.Report{}, postgres.MapError(err, "report", rep.ID)
	}
	return rw.toDomain(), nil
}

// UpdateStatus sets the report status and returns the updated record.
func (r *Repo) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus, now time.Time) (domain.Report, error) {
	sql, args, err := postgres.Builder().
		Update(table).
		Set("status", string(status)).
		Set("updated_at", now).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + returning()).
		ToSql()
	if err != nil {
		return domain.Report{}, fmt.Errorf("build report status update: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, sql, args...); err != nil {
		return domain.Report{}, postgres.MapError(err, "report", id)
	}
	return rw.toDomain(), nil
}

func returning() string {
	return postgres.JoinColumns(columns)
}
