package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/pantau-subsidi/internal/domain"
	"github.com/heartmarshall/pantau-subsidi/pkg/ctxutil"
)

// Create stores a new task in the open state.
func (s *Service) Create(ctx context.Context, input CreateInput) (CreateResult, error) {
	if _, ok := ctxutil.AccountIDFromCtx(ctx); !ok {
		return CreateResult{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return CreateResult{}, err
	}

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	now := time.Now().UTC()
	created, err := s.tasks.Create(ctx, domain.Task{
		ID:          id,
		Title:       strings.TrimSpace(input.Title),
		Komoditas:   strings.TrimSpace(input.Komoditas),
		Lokasi:      strings.TrimSpace(input.Lokasi),
		KuotaTarget: input.KuotaTarget,
		AssigneeID:  input.AssigneeID,
		Status:      domain.TaskStatusOpen,
		DueAt:       input.DueAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) && input.ID != "" {
			if stored, getErr := s.tasks.GetByID(ctx, id); getErr == nil {
				return CreateResult{Task: stored, Replayed: true}, nil
			}
		}
		return CreateResult{}, fmt.Errorf("task.Create: %w", err)
	}

	s.log.InfoContext(ctx, "task created",
		slog.String("task_id", created.ID),
		slog.String("assignee_id", created.AssigneeID),
	)

	return CreateResult{Task: created}, nil
}

// Update applies a partial update to an existing task.
func (s *Service) Update(ctx context.Context, input UpdateInput) (domain.Task, error) {
	if _, ok := ctxutil.AccountIDFromCtx(ctx); !ok {
		return domain.Task{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Task{}, err
	}

	updated, err := s.tasks.Update(ctx, input.ID, input.patch(), time.Now().UTC())
	if err != nil {
		return domain.Task{}, fmt.Errorf("task.Update: %w", err)
	}

	s.log.InfoContext(ctx, "task updated",
		slog.String("task_id", updated.ID),
		slog.String("status", updated.Status.String()),
	)

	return updated, nil
}

// Remove deletes a task.
func (s *Service) Remove(ctx context.Context, id string) error {
	if _, ok := ctxutil.AccountIDFromCtx(ctx); !ok {
		return domain.ErrUnauthorized
	}
	if id == "" {
		return domain.NewValidationError("id", "required")
	}

	if err := s.tasks.Remove(ctx, id); err != nil {
		return fmt.Errorf("task.Remove: %w", err)
	}

	s.log.InfoContext(ctx, "task removed", slog.String("task_id", id))
	return nil
}

// List returns tasks matching the input filter, oldest first.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.Task, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.List(ctx, domain.TaskFilter{
		AssigneeID: input.AssigneeID,
		Status:     domain.TaskStatus(input.Status),
	})
	if err != nil {
		return nil, fmt.Errorf("task.List: %w", err)
	}
	return tasks, nil
}

// Get returns a single task by ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Task, error) {
	if id == "" {
		return domain.Task{}, domain.NewValidationError("id", "required")
	}
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task.Get: %w", err)
	}
	return t, nil
}
