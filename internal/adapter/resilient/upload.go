package resilient

import (
	"context"
	"fmt"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
	"github.com/heartmarshall/pantau-subsidi/internal/fallback"
)

// UploadPrimary is the primary-store upload repository.
type UploadPrimary interface {
	List(ctx context.Context, taskID string) ([]domain.Upload, error)
	GetByID(ctx context.Context, id string) (domain.Upload, error)
	Create(ctx context.Context, u domain.Upload) (domain.Upload, error)
	Delete(ctx context.Context, id string) error
}

// UploadRepo is the dual-path upload metadata repository.
type UploadRepo struct {
	exec    *Executor
	primary UploadPrimary
	table   fallback.Store[domain.Upload]
	written *overlay
	removed *overlay
}

// NewUploadRepo creates an UploadRepo.
func NewUploadRepo(exec *Executor, primary UploadPrimary, table fallback.Store[domain.Upload]) *UploadRepo {
	return &UploadRepo{exec: exec, primary: primary, table: table, written: newOverlay(), removed: newOverlay()}
}

// List returns uploads of a task, or all when taskID is empty.
func (r *UploadRepo) List(ctx context.Context, taskID string) ([]domain.Upload, error) {
	match := func(u domain.Upload) bool { return taskID == "" || u.TaskID == taskID }

	out, path, err := Do(ctx, r.exec, Op{"upload", "list"},
		func(ctx context.Context) ([]domain.Upload, error) {
			return r.primary.List(ctx, taskID)
		},
		func() ([]domain.Upload, error) {
			return r.table.List(match), nil
		},
	)
	if err != nil || path == PathFallback || r.written.empty() {
		return out, err
	}

	extra := r.table.List(func(u domain.Upload) bool { return r.written.has(u.ID) && match(u) })
	return mergeByCreation(out, extra,
		func(u domain.Upload) string { return u.ID },
		func(u domain.Upload) time.Time { return u.CreatedAt },
	), nil
}

// GetByID returns upload metadata.
func (r *UploadRepo) GetByID(ctx context.Context, id string) (domain.Upload, error) {
	u, _, err := Do(ctx, r.exec, Op{"upload", "get"},
		func(ctx context.Context) (domain.Upload, error) {
			return r.primary.GetByID(ctx, id)
		},
		func() (domain.Upload, error) {
			return r.table.Get(id)
		},
	)
	return u, err
}

// Create stores upload metadata under its pre-assigned ID.
func (r *UploadRepo) Create(ctx context.Context, u domain.Upload) (domain.Upload, error) {
	if r.written.has(u.ID) || r.removed.has(u.ID) {
		return domain.Upload{}, fmt.Errorf("upload %s: %w", u.ID, domain.ErrAlreadyExists)
	}

	out, path, err := Do(ctx, r.exec, Op{"upload", "create"},
		func(ctx context.Context) (domain.Upload, error) {
			return r.primary.Create(ctx, u)
		},
		func() (domain.Upload, error) {
			return r.table.Create(u)
		},
	)
	if err == nil && path == PathFallback {
		r.written.mark(out.ID)
	}
	return out, err
}

// Remove deletes upload metadata.
func (r *UploadRepo) Remove(ctx context.Context, id string) error {
	_, _, err := Do(ctx, r.exec, Op{"upload", "remove"},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, r.primary.Delete(ctx, id)
		},
		func() (struct{}, error) {
			return struct{}{}, r.table.Remove(id)
		},
	)
	if err == nil {
		r.removed.mark(id)
	}
	return err
}
