package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
	"github.com/heartmarshall/pantau-subsidi/internal/service/task"
	"github.com/heartmarshall/pantau-subsidi/internal/transport/middleware"
)

type taskService interface {
	Create(ctx context.Context, input task.CreateInput) (task.CreateResult, error)
	Update(ctx context.Context, input task.UpdateInput) (domain.Task, error)
	Remove(ctx context.Context, id string) error
	List(ctx context.Context, input task.ListInput) ([]domain.Task, error)
	Get(ctx context.Context, id string) (domain.Task, error)
}

// TaskHandler serves /tasks. Writes are restricted to admins.
type TaskHandler struct {
	svc taskService
	log *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(svc taskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, log: logger.With("handler", "task")}
}

type createTaskRequest struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Komoditas   string     `json:"komoditas"`
	Lokasi      string     `json:"lokasi"`
	KuotaTarget float64    `json:"kuotaTarget"`
	AssigneeID  string     `json:"assigneeId"`
	DueAt       *time.Time `json:"dueAt"`
}

type updateTaskRequest struct {
	Title      *string    `json:"title"`
	AssigneeID *string    `json:"assigneeId"`
	Status     *string    `json:"status"`
	DueAt      *time.Time `json:"dueAt"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Komoditas   string     `json:"komoditas,omitempty"`
	Lokasi      string     `json:"lokasi,omitempty"`
	KuotaTarget float64    `json:"kuotaTarget"`
	AssigneeID  string     `json:"assigneeId,omitempty"`
	Status      string     `json:"status"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r.Context(), domain.RoleAdmin); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	res, err := h.svc.Create(r.Context(), task.CreateInput{
		ID:          req.ID,
		Title:       req.Title,
		Komoditas:   req.Komoditas,
		Lokasi:      req.Lokasi,
		KuotaTarget: req.KuotaTarget,
		AssigneeID:  req.AssigneeID,
		DueAt:       req.DueAt,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, createdStatus(res.Replayed), toTaskResponse(res.Task))
}

// Update handles PATCH /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r.Context(), domain.RoleAdmin, domain.RolePetugas); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	t, err := h.svc.Update(r.Context(), task.UpdateInput{
		ID:         r.PathValue("id"),
		Title:      req.Title,
		AssigneeID: req.AssigneeID,
		Status:     req.Status,
		DueAt:      req.DueAt,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

// Remove handles DELETE /tasks/{id}.
func (h *TaskHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r.Context(), domain.RoleAdmin); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.svc.Remove(r.Context(), r.PathValue("id")); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /tasks?assigneeId=&status=.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := h.svc.List(r.Context(), task.ListInput{
		AssigneeID: q.Get("assigneeId"),
		Status:     q.Get("status"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func toTaskResponse(t domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Komoditas:   t.Komoditas,
		Lokasi:      t.Lokasi,
		KuotaTarget: t.KuotaTarget,
		AssigneeID:  t.AssigneeID,
		Status:      t.Status.String(),
		DueAt:       t.DueAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
