package resilient

import (
	"context"
	"fmt"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
	"github.com/heartmarshall/pantau-subsidi/internal/fallback"
)

// ReportPrimary is the primary-store report repository.
type ReportPrimary interface {
	List(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error)
	GetByID(ctx context.Context, id string) (domain.Report, error)
	Create(ctx context.Context, r domain.Report) (domain.Report, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReportStatus, now time.Time) (domain.Report, error)
}

// ReportRepo is the dual-path report repository.
type ReportRepo struct {
	exec    *Executor
	primary ReportPrimary
	table   fallback.Store[domain.Report]
	written *overlay
}

// NewReportRepo creates a ReportRepo.
func NewReportRepo(exec *Executor, primary ReportPrimary, table fallback.Store[domain.Report]) *ReportRepo {
	return &ReportRepo{exec: exec, primary: primary, table: table, written: newOverlay()}
}

func reportID(r domain.Report) string { return r.ID }
func reportCreated(r domain.Report) time.Time { return r.CreatedAt }

// List returns reports matching filter in creation order.
func (r *ReportRepo) List(ctx context.Context, filter domain.ReportFilter) ([]domain.Report, error) {
	out, path, err := Do(ctx, r.exec, Op{"report", "list"},
		func(ctx context.Context) ([]domain.Report, error) {
			return r.primary.List(ctx, filter)
		},
		func() ([]domain.Report, error) {
			return r.table.List(filter.Matches), nil
		},
	)
	if err != nil || path == PathFallback || r.written.empty() {
		return out, err
	}

	extra := r.table.List(func(rep domain.Report) bool {
		return r.written.has(rep.ID) && filter.Matches(rep)
	})
	return mergeByCreation(out, extra, reportID, reportCreated), nil
}

// GetByID returns a report.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (domain.Report, error) {
	rep, _, err := Do(ctx, r.exec, Op{"report", "get"},
		func(ctx context.Context) (domain.Report, error) {
			return r.primary.GetByID(ctx, id)
		},
		func() (domain.Report, error) {
			return r.table.Get(id)
		},
	)
	return rep, err
}

// Create stores a report under its pre-assigned ID. An ID already accepted
// by either path yields domain.ErrAlreadyExists.
func (r *ReportRepo) Create(ctx context.Context, rep domain.Report) (domain.Report, error) {
	if r.written.has(rep.ID) {
		return domain.Report{}, fmt.Errorf("report %s: %w", rep.ID, domain.ErrAlreadyExists)
	}

	out, path, err := Do(ctx, r.exec, Op{"report", "create"},
		func(ctx context.Context) (domain.Report, error) {
			return r.primary.Create(ctx, rep)
		},
		func() (domain.Report, error) {
			return r.table.Create(rep)
		},
	)
	if err == nil && path == PathFallback {
		r.written.mark(out.ID)
	}
	return out, err
}

// UpdateStatus sets the status of a report.
func (r *ReportRepo) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus, now time.Time) (domain.Report, error) {
	out, _, err := Do(ctx, r.exec, Op{"report", "update_status"},
		func(ctx context.Context) (domain.Report, error) {
			return r.primary.UpdateStatus(ctx, id, status, now)
		},
		func() (domain.Report, error) {
			return r.setFallbackStatus(id, status, now)
		},
	)
	return out, err
}

// setFallbackStatus is the report-table projection of a verification.
func (r *ReportRepo) setFallbackStatus(id string, status domain.ReportStatus, now time.Time) (domain.Report, error) {
	return r.table.Update(id, func(cur domain.Report) (domain.Report, error) {
		cur.Status = status
		cur.UpdatedAt = now
		return cur, nil
	})
}

// existsInFallback reports whether the fallback table holds id.
func (r *ReportRepo) existsInFallback(id string) bool {
	_, err := r.table.Get(id)
	return err == nil
}
