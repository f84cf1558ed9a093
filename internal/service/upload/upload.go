package upload

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

// Create records the metadata of an uploaded file.
func (s *Service) Create(ctx context.Context, input CreateInput) (CreateResult, error) {
	uploaderID, ok := ctxutil.AccountIDFromCtx(ctx)
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

	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	created, err := s.uploads.Create(ctx, domain.Upload{
		ID:          id,
		TaskID:      strings.TrimSpace(input.TaskID),
		UploaderID:  uploaderID,
		FileName:    strings.TrimSpace(input.FileName),
		ContentType: contentType,
		SizeBytes:   input.SizeBytes,
		RowCount:    input.RowCount,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) && input.ID != "" {
			if stored, getErr := s.uploads.GetByID(ctx, id); getErr == nil {
				return CreateResult{Upload: stored, Replayed: true}, nil
			}
		}
		return CreateResult{}, fmt.Errorf("upload.Create: %w", err)
	}

	s.log.InfoContext(ctx, "upload recorded",
		slog.String("upload_id", created.ID),
		slog.String("task_id", created.TaskID),
		slog.Int("row_count", created.RowCount),
	)

	return CreateResult{Upload: created}, nil
}

// List returns the uploads of one task, or all when taskID is empty.
func (s *Service) List(ctx context.Context, taskID string) ([]domain.Upload, error) {
	us, err := s.uploads.List(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("upload.List: %w", err)
	}
	return us, nil
}

// Remove deletes an upload record.
func (s *Service) Remove(ctx context.Context, id string) error {
	if _, ok := ctxutil.AccountIDFromCtx(ctx); !ok {
		return domain.ErrUnauthorized
	}
	if id == "" {
		return domain.NewValidationError("id", "required")
	}
	if err := s.uploads.Remove(ctx, id); err != nil {
		return fmt.Errorf("upload.Remove: %w", err)
	}
	s.log.InfoContext(ctx, "upload removed", slog.String("upload_id", id))
	return nil
}
