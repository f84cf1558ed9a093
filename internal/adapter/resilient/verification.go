package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
	"github.com/heartmarshall/pantau-subsidi/internal/fallback"
)

// VerificationPrimary is the primary-store verification repository.
type VerificationPrimary interface {
	List(ctx context.Context, reportID string) ([]domain.Verification, error)
	GetByID(ctx context.Context, id string) (domain.Verification, error)
	Create(ctx context.Context, v domain.Verification) (domain.Verification, error)
}

// VerificationRepo is the dual-path verification repository. Creating a
// verification also moves the verified report to the verdict's status, in one
// transaction on the primary path and synchronously on the fallback path.
type VerificationRepo struct {
	exec    *Executor
	tx      TxRunner
	primary VerificationPrimary
	reports *ReportRepo
	table   fallback.Store[domain.Verification]
	written *overlay
}

// NewVerificationRepo creates a VerificationRepo.
func NewVerificationRepo(exec *Executor, tx TxRunner, primary VerificationPrimary, reports *ReportRepo, table fallback.Store[domain.Verification]) *VerificationRepo {
	return &VerificationRepo{
		exec:    exec,
		tx:      tx,
		primary: primary,
		reports: reports,
		table:   table,
		written: newOverlay(),
	}
}

// List returns the verifications of a report, or all when reportID is empty.
func (r *VerificationRepo) List(ctx context.Context, reportID string) ([]domain.Verification, error) {
	match := func(v domain.Verification) bool { return reportID == "" || v.ReportID == reportID }

	out, path, err := Do(ctx, r.exec, Op{"verification", "list"},
		func(ctx context.Context) ([]domain.Verification, error) {
			return r.primary.List(ctx, reportID)
		},
		func() ([]domain.Verification, error) {
			return r.table.List(match), nil
		},
	)
	if err != nil || path == PathFallback || r.written.empty() {
		return out, err
	}

	extra := r.table.List(func(v domain.Verification) bool { return r.written.has(v.ID) && match(v) })
	return mergeByCreation(out, extra,
		func(v domain.Verification) string { return v.ID },
		func(v domain.Verification) time.Time { return v.CreatedAt },
	), nil
}

// GetByID returns a verification.
func (r *VerificationRepo) GetByID(ctx context.Context, id string) (domain.Verification, error) {
	v, _, err := Do(ctx, r.exec, Op{"verification", "get"},
		func(ctx context.Context) (domain.Verification, error) {
			return r.primary.GetByID(ctx, id)
		},
		func() (domain.Verification, error) {
			return r.table.Get(id)
		},
	)
	return v, err
}

// Create records v and projects its verdict onto the report status.
// An unknown report yields domain.ErrNotFound.
func (r *VerificationRepo) Create(ctx context.Context, v domain.Verification) (domain.Verification, error) {
	if r.written.has(v.ID) {
		return domain.Verification{}, fmt.Errorf("verification %s: %w", v.ID, domain.ErrAlreadyExists)
	}

	status := v.Verdict.ReportStatus()

	out, path, err := Do(ctx, r.exec, Op{"verification", "create"},
		func(ctx context.Context) (domain.Verification, error) {
			var created domain.Verification
			err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
				var err error
				if created, err = r.primary.Create(ctx, v); err != nil {
					return err
				}
				_, err = r.reports.primary.UpdateStatus(ctx, v.ReportID, status, v.CreatedAt)
				return err
			})
			return created, err
		},
		func() (domain.Verification, error) {
			if !r.reports.existsInFallback(v.ReportID) {
				return domain.Verification{}, fmt.Errorf("report %s: %w", v.ReportID, domain.ErrNotFound)
			}
			created, err := r.table.Create(v)
			if err != nil {
				return domain.Verification{}, err
			}
			if _, err := r.reports.setFallbackStatus(v.ReportID, status, v.CreatedAt); err != nil {
				if rmErr := r.table.Discard(created.ID); rmErr != nil {
					err = errors.Join(err, rmErr)
				}
				return domain.Verification{}, err
			}
			return created, nil
		},
	)
	if err == nil && path == PathFallback {
		r.written.mark(out.ID)
	}
	return out, err
}
