package upload

import (
	"strings"

	"github.com/google/uuid"
	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

// MaxSizeBytes bounds the declared size of an uploaded file.
const MaxSizeBytes = 50 << 20

// CreateInput holds upload metadata. RowCount is counted by the caller.
type CreateInput struct {
	ID          string
	TaskID      string
	FileName    string
	ContentType string
	SizeBytes   int64
	RowCount    int
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.ID != "" {
		if _, err := uuid.Parse(i.ID); err != nil {
			errs = append(errs, domain.FieldError{Field: "id", Message: "must be a UUID"})
		}
	}
	if strings.TrimSpace(i.TaskID) == "" {
		errs = append(errs, domain.FieldError{Field: "taskId", Message: "required"})
	}
	name := strings.TrimSpace(i.FileName)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "fileName", Message: "required"})
	}
	if len(name) > 255 {
		errs = append(errs, domain.FieldError{Field: "fileName", Message: "max 255 characters"})
	}
	if i.SizeBytes < 0 || i.SizeBytes > MaxSizeBytes {
		errs = append(errs, domain.FieldError{Field: "sizeBytes", Message: "out of range"})
	}
	if i.RowCount < 0 {
		errs = append(errs, domain.FieldError{Field: "rowCount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
