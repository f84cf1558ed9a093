package report

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

// Submit stores a new field report on behalf of the calling account.
// Resubmitting a known id returns the stored report with Replayed set.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (SubmitResult, error) {
	reporterID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return SubmitResult{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return SubmitResult{}, err
	}

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	now := time.Now().UTC()
	created, err := s.reports.Create(ctx, domain.Report{
		ID:               id,
		TaskID:           strings.TrimSpace(input.TaskID),
		ReporterID:       reporterID,
		Komoditas:        strings.TrimSpace(input.Komoditas),
		KuotaTersalurkan: input.KuotaTersalurkan,
		Lokasi:           strings.TrimSpace(input.Lokasi),
		Catatan:          strings.TrimSpace(input.Catatan),
		Status:           domain.ReportStatusSubmitted,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) && input.ID != "" {
			if stored, getErr := s.reports.GetByID(ctx, id); getErr == nil {
				s.log.InfoContext(ctx, "report replay acknowledged",
					slog.String("report_id", id))
				return SubmitResult{Report: stored, Replayed: true}, nil
			}
		}
		return SubmitResult{}, fmt.Errorf("report.Submit: %w", err)
	}

	s.log.InfoContext(ctx, "report submitted",
		slog.String("report_id", created.ID),
		slog.String("reporter_id", reporterID),
		slog.String("komoditas", created.Komoditas),
	)

	return SubmitResult{Report: created}, nil
}
