package report

import (
	"strings"

	"github.com/google/uuid"
	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

// SubmitInput holds the parameters of a report submission. ID is optional;
// devices generate it before the first attempt and resend it on every replay.
type SubmitInput struct {
	ID               string
	TaskID           string
	Komoditas        string
	KuotaTersalurkan float64
	Lokasi           string
	Catatan          string
}

// Validate checks all fields and collects all errors.
func (i SubmitInput) Validate() error {
	var errs []domain.FieldError

	if i.ID != "" {
		if _, err := uuid.Parse(i.ID); err != nil {
			errs = append(errs, domain.FieldError{Field: "id", Message: "must be a UUID"})
		}
	}

	komoditas := strings.TrimSpace(i.Komoditas)
	if komoditas == "" {
		errs = append(errs, domain.FieldError{Field: "komoditas", Message: "required"})
	}
	if len(komoditas) > 200 {
		errs = append(errs, domain.FieldError{Field: "komoditas", Message: "max 200 characters"})
	}
	if i.KuotaTersalurkan < 0 {
		errs = append(errs, domain.FieldError{Field: "kuotaTersalurkan", Message: "must be non-negative"})
	}
	if len(i.Lokasi) > 500 {
		errs = append(errs, domain.FieldError{Field: "lokasi", Message: "max 500 characters"})
	}
	if len(i.Catatan) > 2000 {
		errs = append(errs, domain.FieldError{Field: "catatan", Message: "max 2000 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListInput narrows a report listing.
type ListInput struct {
	TaskID     string
	ReporterID string
	Status     string
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	if i.Status != "" && !domain.ReportStatus(i.Status).IsValid() {
		return domain.NewValidationError("status", "must be one of submitted, verified, rejected")
	}
	return nil
}
