package upload

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

type uploadRepo interface {
	List(ctx context.Context, taskID string) ([]domain.Upload, error)
	GetByID(ctx context.Context, id string) (domain.Upload, error)
	Create(ctx context.Context, u domain.Upload) (domain.Upload, error)
	Remove(ctx context.Context, id string) error
}

// Service manages upload metadata. File contents are stored elsewhere.
type Service struct {
	uploads uploadRepo
	log     *slog.Logger
}

// NewService creates a new upload service.
func NewService(log *slog.Logger, uploads uploadRepo) *Service {
	return &Service{
		uploads: uploads,
		log:     log.With("service", "upload"),
	}
}

// CreateResult is returned by Create.
type CreateResult struct {
	Upload   domain.Upload
	Replayed bool
}
