package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

type taskRepo interface {
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	GetByID(ctx context.Context, id string) (domain.Task, error)
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch, now time.Time) (domain.Task, error)
	Remove(ctx context.Context, id string) error
}

// Service provides distribution task operations.
type Service struct {
	tasks taskRepo
	log   *slog.Logger
}

// NewService creates a new task service.
func NewService(log *slog.Logger, tasks taskRepo) *Service {
	return &Service{
		tasks: tasks,
		log:   log.With("service", "task"),
	}
}
