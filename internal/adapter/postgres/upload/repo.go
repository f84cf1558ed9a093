// Package upload implements the primary-store repository for upload metadata.
package upload

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/pantau-subsidi/internal/adapter/postgres"
	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

const table = "uploads"

var columns = []string{
	"id", "task_id", "uploader_id", "file_name", "content_type",
	"size_bytes", "row_count", "created_at",
}

type row struct {
	ID          string    `db:"id"`
	TaskID      string    `db:"task_id"`
	UploaderID  string    `db:"uploader_id"`
	FileName    string    `db:"file_name"`
	ContentType string    `db:"content_type"`
	SizeBytes   int64     `db:"size_bytes"`
	RowCount    int       `db:"row_count"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r row) toDomain() domain.Upload {
	return domain.Upload{
		ID:          r.ID,
		TaskID:      r.TaskID,
		UploaderID:  r.UploaderID,
		FileName:    r.FileName,
		ContentType: r.ContentType,
		SizeBytes:   r.SizeBytes,
		RowCount:    r.RowCount,
		CreatedAt:   r.CreatedAt,
	}
}

// Repo provides upload metadata persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new upload repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// List returns uploads in creation order. An empty taskID lists all.
func (r *Repo) List(ctx context.Context, taskID string) ([]domain.Upload, error) {
	query := postgres.Builder().Select(columns...).From(table)
	if taskID != "" {
		query = query.Where(sq.Eq{"task_id": taskID})
	}

	sql, args, err := query.OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upload list query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "upload", "list")
	}

	out := make([]domain.Upload, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toDomain())
	}
	return out, nil
}

// GetByID returns upload metadata by ID.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Upload, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Upload{}, fmt.Errorf("build upload get query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, sql, args...); err != nil {
		return domain.Upload{}, postgres.MapError(err, "upload", id)
	}
	return rw.toDomain(), nil
}

// Create inserts upload metadata with its pre-assigned ID.
func (r *Repo) Create(ctx context.Context, u domain.Upload) (domain.Upload, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(u.ID, u.TaskID, u.UploaderID, u.FileName, u.ContentType, u.SizeBytes, u.RowCount, u.CreatedAt).
		Suffix("RETURNING " + postgres.JoinColumns(columns)).
		ToSql()
	if err != nil {
		return domain.Upload{}, fmt.Errorf("build upload insert: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rw, sql, args...); err != nil {
		return domain.Upload{}, postgres.MapError(err, "upload", u.ID)
	}
	return rw.toDomain(), nil
}

// Delete removes upload metadata. A missing record yields domain.ErrNotFound.
func (r *Repo) Delete(ctx context.Context, id string) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upload delete: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "upload", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("upload %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
