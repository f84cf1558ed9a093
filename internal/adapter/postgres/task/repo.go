// Package task implements the primary-store repository for distribution tasks.
package task

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/pantau-subsidi/internal/adapter/postgres"
	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

const table = "tasks"

var columns = []string{
	"id", "title", "komoditas", "lokasi", "kuota_target",
	"assignee_id", "status", "due_at", "created_at", "updated_at",
}

type row struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Komoditas   string     `db:"komoditas"`
	Lokasi      string     `db:"lokasi"`
	KuotaTarget float64    `db:"kuota_target"`
	AssigneeID  string     `db:"assignee_id"`
	Status      string     `db:"status"`
	DueAt       *time.Time `db:"due_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (r row) toDomain() domain.Task {
	return domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Komoditas:   r.Komoditas,
		Lokasi:      r.Lokasi,
		KuotaTarget: r.KuotaTarget,
		AssigneeID:  r.AssigneeID,
		Status:      domain.TaskStatus(r.Status),
		DueAt:       r.DueAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Repo provides task persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new task repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// List returns tasks matching the filter in creation order.
func (r *Repo) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	query := postgres.Builder().Select(columns...).From(table)
	if filter.AssigneeID != "" {
		query = query.Where(sq.Eq{"assignee_id": filter.AssigneeID})
	}
	if filter.Status != "" {
		query = query.Where(sq.Eq{"status": string(filter.Status)})
	}

	sql, args, err := query.OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build task list query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "task", "list")
	}

	out := make([]domain.Task, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toDomain())
	}
	return out, nil
}

// GetByID returns a task by ID.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Task, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Task{}, fmt.Errorf("build task get query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, sql, args...); err != nil {
		return domain.Task{}, postgres.MapError(err, "task", id)
	}
	return rw.toDomain(), nil
}

// Create inserts a task with its pre-assigned ID.
func (r *Repo) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			t.ID, t.Title, t.Komoditas, t.Lokasi, t.KuotaTarget,
			t.AssigneeID, string(t.Status), t.DueAt, t.CreatedAt, t.UpdatedAt,
		).
		Suffix("RETURNING " + postgres.JoinColumns(columns)).
		ToSql()
	if err != nil {
		return domain.Task{}, fmt.Errorf("build task insert: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, sql, args...); err != nil {
		return domain.Task{}, postgres.MapError(err, "task", t.ID)
	}
	return rw.toDomain(), nil
}

// Update overwrites the mutable fields of an existing task.
func (r *Repo) Update(ctx context.Context, t domain.Task) (domain.Task, error) {
	sql, args, err := postgres.Builder().
		Update(table).
		Set("title", t.Title).
		Set("assignee_id", t.AssigneeID).
		Set("status", string(t.Status)).
		Set("due_at", t.DueAt).
		Set("updated_at", t.UpdatedAt).
		Where(sq.Eq{"id": t.ID}).
		Suffix("RETURNING " + postgres.JoinColumns(columns)).
		ToSql()
	if err != nil {
		return domain.Task{}, fmt.Errorf("build task update: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, sql, args...); err != nil {
		return domain.Task{}, postgres.MapError(err, "task", t.ID)
	}
	return rw.toDomain(), nil
}

// Delete removes a task. A missing task yields domain.ErrNotFound.
func (r *Repo) Delete(ctx context.Context, id string) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build task delete: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "task", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
