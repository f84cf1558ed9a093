package report

import (
	"context"
	"fmt"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

// List returns reports matching the input filter, oldest first.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.Report, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	reports, err := s.reports.List(ctx, domain.ReportFilter{
		TaskID:     input.TaskID,
		ReporterID: input.ReporterID,
		Status:     domain.ReportStatus(input.Status),
	})
	if err != nil {
		return nil, fmt.Errorf("report.List: %w", err)
	}
	return reports, nil
}

// Get returns a single report by ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Report, error) {
	if id == "" {
		return domain.Report{}, domain.NewValidationError("id", "required")
	}
	r, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return domain.Report{}, fmt.Errorf("report.Get: %w", err)
	}
	return r, nil
}
