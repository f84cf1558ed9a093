package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

// CreateInput holds the parameters for creating a task.
type CreateInput struct {
	ID          string
	Title       string
	Komoditas   string
	Lokasi      string
	KuotaTarget float64
	AssigneeID  string
	DueAt       *time.Time
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.ID != "" {
		if _, err := uuid.Parse(i.ID); err != nil {
			errs = append(errs, domain.FieldError{Field: "id", Message: "must be a UUID"})
		}
	}

	title := strings.TrimSpace(i.Title)
	if title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(title) > 300 {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 300 characters"})
	}
	if i.KuotaTarget < 0 {
		errs = append(errs, domain.FieldError{Field: "kuotaTarget", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds a partial task update. Nil fields are left unchanged.
type UpdateInput struct {
	ID         string
	Title      *string
	AssigneeID *string
	Status     *string
	DueAt      *time.Time
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.ID == "" {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.Title == nil && i.AssigneeID == nil && i.Status == nil && i.DueAt == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.Title != nil && strings.TrimSpace(*i.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "must not be empty"})
	}
	if i.Status != nil && !domain.TaskStatus(*i.Status).IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be one of open, in_progress, done"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i UpdateInput) patch() domain.TaskPatch {
	p := domain.TaskPatch{AssigneeID: i.AssigneeID, DueAt: i.DueAt}
	if i.Title != nil {
		title := strings.TrimSpace(*i.Title)
		p.Title = &title
	}
	if i.Status != nil {
		status := domain.TaskStatus(*i.Status)
		p.Status = &status
	}
	return p
}

// ListInput narrows a task listing.
type ListInput struct {
	AssigneeID string
	Status     string
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	if i.Status != "" && !domain.TaskStatus(i.Status).IsValid() {
		return domain.NewValidationError("status", "must be one of open, in_progress, done")
	}
	return nil
}
