package resilient

import (
	"context"
	"fmt"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
	"github.com/heartmarshall/pantau-subsidi/internal/fallback"
)

// TaskPrimary is the primary-store task repository.
type TaskPrimary interface {
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	GetByID(ctx context.Context, id string) (domain.Task, error)
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	Update(ctx context.Context, t domain.Task) (domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// TaskRepo is the dual-path task repository.
type TaskRepo struct {
	exec    *Executor
	tx      TxRunner
	primary TaskPrimary
	table   fallback.Store[domain.Task]
	written *overlay
	removed *overlay
}

// NewTaskRepo creates a TaskRepo.
func NewTaskRepo(exec *Executor, tx TxRunner, primary TaskPrimary, table fallback.Store[domain.Task]) *TaskRepo {
	return &TaskRepo{exec: exec, tx: tx, primary: primary, table: table, written: newOverlay(), removed: newOverlay()}
}

// List returns tasks matching filter in creation order.
func (r *TaskRepo) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	out, path, err := Do(ctx, r.exec, Op{"task", "list"},
		func(ctx context.Context) ([]domain.Task, error) {
			return r.primary.List(ctx, filter)
		},
		func() ([]domain.Task, error) {
			return r.table.List(filter.Matches), nil
		},
	)
	if err != nil || path == PathFallback || r.written.empty() {
		return out, err
	}

	extra := r.table.List(func(t domain.Task) bool { return r.written.has(t.ID) && filter.Matches(t) })
	return mergeByCreation(out, extra,
		func(t domain.Task) string { return t.ID },
		func(t domain.Task) time.Time { return t.CreatedAt },
	), nil
}

// GetByID returns a task.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (domain.Task, error) {
	t, _, err := Do(ctx, r.exec, Op{"task", "get"},
		func(ctx context.Context) (domain.Task, error) {
			return r.primary.GetByID(ctx, id)
		},
		func() (domain.Task, error) {
			return r.table.Get(id)
		},
	)
	return t, err
}

// Create stores a task under its pre-assigned ID.
func (r *TaskRepo) Create(ctx context.Context, t domain.Task) (domain.Task, error) {
	if r.written.has(t.ID) || r.removed.has(t.ID) {
		return domain.Task{}, fmt.Errorf("task %s: %w", t.ID, domain.ErrAlreadyExists)
	}

	out, path, err := Do(ctx, r.exec, Op{"task", "create"},
		func(ctx context.Context) (domain.Task, error) {
			return r.primary.Create(ctx, t)
		},
		func() (domain.Task, error) {
			return r.table.Create(t)
		},
	)
	if err == nil && path == PathFallback {
		r.written.mark(out.ID)
	}
	return out, err
}

// Update applies patch to the task with the given id.
func (r *TaskRepo) Update(ctx context.Context, id string, patch domain.TaskPatch, now time.Time) (domain.Task, error) {
	out, _, err := Do(ctx, r.exec, Op{"task", "update"},
		func(ctx context.Context) (domain.Task, error) {
			var updated domain.Task
			err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
				cur, err := r.primary.GetByID(ctx, id)
				if err != nil {
					return err
				}
				updated, err = r.primary.Update(ctx, patch.Apply(cur, now))
				return err
			})
			return updated, err
		},
		func() (domain.Task, error) {
			return r.table.Update(id, func(cur domain.Task) (domain.Task, error) {
				return patch.Apply(cur, now), nil
			})
		},
	)
	return out, err
}

// Remove deletes a task.
func (r *TaskRepo) Remove(ctx context.Context, id string) error {
	_, _, err := Do(ctx, r.exec, Op{"task", "remove"},
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
