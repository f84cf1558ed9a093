package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
	"github.com/heartmarshall/pantau-subsidi/internal/service/upload"
)

type uploadService interface {
	Create(ctx context.Context, input upload.CreateInput) (upload.CreateResult, error)
	List(ctx context.Context, taskID string) ([]domain.Upload, error)
	Remove(ctx context.Context, id string) error
}

// UploadHandler serves /uploads.
type UploadHandler struct {
	svc uploadService
	log *slog.Logger
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(svc uploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{svc: svc, log: logger.With("handler", "upload")}
}

type createUploadRequest struct {
	ID          string `json:"id"`
	TaskID      string `json:"taskId"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
	RowCount    int    `json:"rowCount"`
}

type uploadResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	UploaderID  string    `json:"uploaderId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	RowCount    int       `json:"rowCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Create handles POST /uploads.
func (h *UploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	res, err := h.svc.Create(r.Context(), upload.CreateInput{
		ID:          req.ID,
		TaskID:      req.TaskID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		RowCount:    req.RowCount,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, createdStatus(res.Replayed), toUploadResponse(res.Upload))
}

// List handles GET /uploads?taskId=.
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	us, err := h.svc.List(r.Context(), r.URL.Query().Get("taskId"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]uploadResponse, 0, len(us))
	for _, u := range us {
		out = append(out, toUploadResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

// Remove handles DELETE /uploads/{id}.
func (h *UploadHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), r.PathValue("id")); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toUploadResponse(u domain.Upload) uploadResponse {
	return uploadResponse{
		ID:          u.ID,
		TaskID:      u.TaskID,
		UploaderID:  u.UploaderID,
		FileName:    u.FileName,
		ContentType: u.ContentType,
		SizeBytes:   u.SizeBytes,
		RowCount:    u.RowCount,
		CreatedAt:   u.CreatedAt,
	}
}
