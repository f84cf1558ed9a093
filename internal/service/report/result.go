package report

import "github.com/heartmarshall/pantau-subsidi/internal/domain"

// SubmitResult is returned by Submit. Replayed is true when the id was
// already known and the stored report is returned unchanged.
type SubmitResult struct {
	Report   domain.Report
	Replayed bool
}
