package report

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

type reportRepo interface {
	List(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error)
	GetByID(ctx context.Context, id string) (domain.Report, error)
	Create(ctx context.Context, r domain.Report) (domain.Report, error)
}

// Service provides field report operations.
type Service struct {
	reports reportRepo
	log     *slog.Logger
}

// NewService creates a new report service.
func NewService(log *slog.Logger, reports reportRepo) *Service {
	return &Service{
		reports: reports,
		log:     log.With("service", "report"),
	}
}
