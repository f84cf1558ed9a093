package domain

import "time"

// Verification records a verifier's verdict on a report.
type Verification struct {
	ID         string
	ReportID   string
	VerifierID string
	Verdict    Verdict
	Catatan    string
	CreatedAt  time.Time
}
