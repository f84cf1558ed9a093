package verification

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

type verificationRepo interface {
	List(ctx context.Context, reportID string) ([]domain.Verification, error)
	GetByID(ctx context.Context, id string) (domain.Verification, error)
	Create(ctx context.Context, v domain.Verification) (domain.Verification, error)
}

// Service records verifier verdicts on field reports.
type Service struct {
	verifications verificationRepo
	log           *slog.Logger
}

// NewService creates a new verification service.
func NewService(log *slog.Logger, verifications verificationRepo) *Service {
	return &Service{
		verifications: verifications,
		log:           log.With("service", "verification"),
	}
}

// CreateInput holds the parameters of a verdict.
type CreateInput struct {
	ID       string
	ReportID string
	Verdict  string
	Catatan  string
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	errs := &domain.ValidationError{}

	if i.ID != "" {
		if _, err := uuid.Parse(i.ID); err != nil {
			errs.Add("id", "must be a UUID")
		}
	}
	if strings.TrimSpace(i.ReportID) == "" {
		errs.Add("reportId", "required")
	}
	if !domain.Verdict(i.Verdict).IsValid() {
		errs.Add("verdict", "must be approved or rejected")
	}
	if len(i.Catatan) > 2000 {
		errs.Add("catatan", "max 2000 characters")
	}

	return errs.OrNil()
}

// CreateResult is returned by Create.
type CreateResult struct {
	Verification domain.Verification
	Replayed     bool
}

// Create records a verdict. The verified report's status follows the verdict.
func (s *Service) Create(ctx context.Context, input CreateInput) (CreateResult, error) {
	verifierID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return CreateResult{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return CreateResult{}, err
	}

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	created, err := s.verifications.Create(ctx, domain.Verification{
		ID:         id,
		ReportID:   strings.TrimSpace(input.ReportID),
		VerifierID: verifierID,
		Verdict:    domain.Verdict(input.Verdict),
		Catatan:    strings.TrimSpace(input.Catatan),
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) && input.ID != "" {
			if stored, getErr := s.verifications.GetByID(ctx, id); getErr == nil {
				return CreateResult{Verification: stored, Replayed: true}, nil
			}
		}
		return CreateResult{}, fmt.Errorf("verification.Create: %w", err)
	}

	s.log.InfoContext(ctx, "report verified",
		slog.String("verification_id", created.ID),
		slog.String("report_id", created.ReportID),
		slog.String("verdict", created.Verdict.String()),
	)

	return CreateResult{Verification: created}, nil
}

// List returns the verifications of one report, or all when reportID is empty.
func (s *Service) List(ctx context.Context, reportID string) ([]domain.Verification, error) {
	vs, err := s.verifications.List(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("verification.List: %w", err)
	}
	return vs, nil
}
