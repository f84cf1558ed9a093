package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
	"github.com/heartmarshall/pantau-subsidi/internal/service/verification"
	"github.com/heartmarshall/pantau-subsidi/internal/transport/middleware"
)

type verificationService interface {
	Create(ctx context.Context, input verification.CreateInput) (verification.CreateResult, error)
	List(ctx context.Context, reportID string) ([]domain.Verification, error)
}

// VerificationHandler serves /verifications.
type VerificationHandler struct {
	svc verificationService
	log *slog.Logger
}

// NewVerificationHandler creates a VerificationHandler.
func NewVerificationHandler(svc verificationService, logger *slog.Logger) *VerificationHandler {
	return &VerificationHandler{svc: svc, log: logger.With("handler", "verification")}
}

type createVerificationRequest struct {
	ID       string `json:"id"`
	ReportID string `json:"reportId"`
	Verdict  string `json:"verdict"`
	Catatan  string `json:"catatan"`
}

type verificationResponse struct {
	ID         string    `json:"id"`
	ReportID   string    `json:"reportId"`
	VerifierID string    `json:"verifierId"`
	Verdict    string    `json:"verdict"`
	Catatan    string    `json:"catatan,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Create handles POST /verifications. Verifiers and admins only.
func (h *VerificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireRole(r.Context(), domain.RoleVerifikator, domain.RoleAdmin); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req createVerificationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	res, err := h.svc.Create(r.Context(), verification.CreateInput{
		ID:       req.ID,
		ReportID: req.ReportID,
		Verdict:  req.Verdict,
		Catatan:  req.Catatan,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, createdStatus(res.Replayed), toVerificationResponse(res.Verification))
}

// List handles GET /verifications?reportId=.
func (h *VerificationHandler) List(w http.ResponseWriter, r *http.Request) {
	vs, err := h.svc.List(r.Context(), r.URL.Query().Get("reportId"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]verificationResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, toVerificationResponse(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func toVerificationResponse(v domain.Verification) verificationResponse {
	return verificationResponse{
		ID:         v.ID,
		ReportID:   v.ReportID,
		VerifierID: v.VerifierID,
		Verdict:    v.Verdict.String(),
		Catatan:    v.Catatan,
		CreatedAt:  v.CreatedAt,
	}
}
