package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
	"github.com/heartmarshall/pantau-subsidi/internal/service/report"
)

type reportService interface {
	Submit(ctx context.Context, input report.SubmitInput) (report.SubmitResult, error)
	List(ctx context.Context, input report.ListInput) ([]domain.Report, error)
	Get(ctx context.Context, id string) (domain.Report, error)
}

// ReportHandler serves /reports.
type ReportHandler struct {
	svc reportService
	log *slog.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(svc reportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, log: logger.With("handler", "report")}
}

type submitReportRequest struct {
	ID               string  `json:"id"`
	TaskID           string  `json:"taskId"`
	Komoditas        string  `json:"komoditas"`
	KuotaTersalurkan float64 `json:"kuotaTersalurkan"`
	Lokasi           string  `json:"lokasi"`
	Catatan          string  `json:"catatan"`
}

type reportResponse struct {
	ID               string    `json:"id"`
	TaskID           string    `json:"taskId,omitempty"`
	ReporterID       string    `json:"reporterId"`
	Komoditas        string    `json:"komoditas"`
	KuotaTersalurkan float64   `json:"kuotaTersalurkan"`
	Lokasi           string    `json:"lokasi,omitempty"`
	Catatan          string    `json:"catatan,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Submit handles POST /reports.
func (h *ReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitReportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	res, err := h.svc.Submit(r.Context(), report.SubmitInput{
		ID:               req.ID,
		TaskID:           req.TaskID,
		Komoditas:        req.Komoditas,
		KuotaTersalurkan: req.KuotaTersalurkan,
		Lokasi:           req.Lokasi,
		Catatan:          req.Catatan,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, createdStatus(res.Replayed), toReportResponse(res.Report))
}

// List handles GET /reports?taskId=&reporterId=&status=.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reports, err := h.svc.List(r.Context(), report.ListInput{
		TaskID:     q.Get("taskId"),
		ReporterID: q.Get("reporterId"),
		Status:     q.Get("status"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]reportResponse, 0, len(reports))
	for _, rep := range reports {
		out = append(out, toReportResponse(rep))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /reports/{id}.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportResponse(rep))
}

func toReportResponse(r domain.Report) reportResponse {
	return reportResponse{
		ID:               r.ID,
		TaskID:           r.TaskID,
		ReporterID:       r.ReporterID,
		Komoditas:        r.Komoditas,
		KuotaTersalurkan: r.KuotaTersalurkan,
		Lokasi:           r.Lokasi,
		Catatan:          r.Catatan,
		Status:           r.Status.String(),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
