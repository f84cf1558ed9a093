// Package verification implements the primary-store repository for report verifications.
package verification

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/pantau-subsidi/internal/adapter/postgres"
	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

const table = "verifications"

var columns = []string{"id", "report_id", "verifier_id", "verdict", "catatan", "created_at"}

type row struct {
	ID         string    `db:"id"`
	ReportID   string    `db:"report_id"`
	VerifierID string    `db:"verifier_id"`
	Verdict    string    `db:"verdict"`
	Catatan    string    `db:"catatan"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r row) toDomain() domain.Verification {
	return domain.Verification{
		ID:         r.ID,
		ReportID:   r.ReportID,
		VerifierID: r.VerifierID,
		Verdict:    domain.Verdict(r.Verdict),
		Catatan:    r.Catatan,
		CreatedAt:  r.CreatedAt,
	}
}

// Repo provides verification persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new verification repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// List returns verifications in creation order. An empty reportID lists all.
func (r *Repo) List(ctx context.Context, reportID string) ([]domain.Verification, error) {
	query := postgres.Builder().Select(columns...).From(table)
	if reportID != "" {
		query = query.Where(sq.Eq{"report_id": reportID})
	}

	sql, args, err := query.OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build verification list query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "verification", "list")
	}

	out := make([]domain.Verification, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toDomain())
	}
	return out, nil
}

// GetByID returns a verification by ID.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Verification, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Verification{}, fmt.Errorf("build verification get query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, sql, args...); err != nil {
		return domain.Verification{}, postgres.MapError(err, "verification", id)
	}
	return rw.toDomain(), nil
}

// Create inserts a verification. An unknown report yields domain.ErrNotFound
// through the foreign key.
func (r *Repo) Create(ctx context.Context, v domain.Verification) (domain.Verification, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(v.ID, v.ReportID, v.VerifierID, string(v.Verdict), v.Catatan, v.CreatedAt).
		Suffix("RETURNING " + postgres.JoinColumns(columns)).
		ToSql()
	if err != nil {
		return domain.Verification{}, fmt.Errorf("build verification insert: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, sql, args...); err != nil {
		return domain.Verification{}, postgres.MapError(err, "verification", v.ID)
	}
	return rw.toDomain(), nil
}
