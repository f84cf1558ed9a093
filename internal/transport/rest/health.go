package rest

import (
	"context"
	"net/http"
	"time"
)

// storeProber reports whether the primary store currently answers.
type storeProber interface {
	Reachable(ctx context.Context) bool
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	primary storeProber
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(primary storeProber, version string) *HealthHandler {
	return &HealthHandler{primary: primary, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. The service keeps serving from the fallback
// dataset while the primary store is down, so it is always ready; the
// status reads "degraded" in that case.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !h.primary.Reachable(r.Context()) {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
	})
}

// Health is the full health check with per-component status and version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components := map[string]CompStatus{
		"fallback": {Status: "ok"},
	}
	overallStatus := "ok"

	start := time.Now()
	reachable := h.primary.Reachable(r.Context())
	latency := time.Since(start)

	if reachable {
		components["primary_store"] = CompStatus{
			Status:  "ok",
			Latency: latency.String(),
		}
	} else {
		components["primary_store"] = CompStatus{Status: "down"}
		overallStatus = "degraded"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     overallStatus,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}
