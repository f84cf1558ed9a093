package rest

import (
	"net/http"

	"github.com/heartmarshall/pantau-subsidi/internal/transport/middleware"
)

// Handlers groups every REST handler mounted by NewRouter.
type Handlers struct {
	Health        *HealthHandler
	Auth          *AuthHandler
	Reports       *ReportHandler
	Tasks         *TaskHandler
	Verifications *VerificationHandler
	Uploads       *UploadHandler
	// Metrics serves the Prometheus exposition format. Optional.
	Metrics http.Handler
}

// NewRouter registers all routes. authLimit wraps the /auth endpoints and
// may be nil.
func NewRouter(h Handlers, authLimit middleware.Middleware) *http.ServeMux {
	if authLimit == nil {
		authLimit = func(next http.Handler) http.Handler { return next }
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}

	mux.Handle("POST /auth/register", authLimit(http.HandlerFunc(h.Auth.Register)))
	mux.Handle("POST /auth/login", authLimit(http.HandlerFunc(h.Auth.Login)))
	mux.HandleFunc("GET /accounts", h.Auth.ListAccounts)

	mux.HandleFunc("GET /reports", h.Reports.List)
	mux.HandleFunc("POST /reports", h.Reports.Submit)
	mux.HandleFunc("GET /reports/{id}", h.Reports.Get)

	mux.HandleFunc("GET /tasks", h.Tasks.List)
	mux.HandleFunc("POST /tasks", h.Tasks.Create)
	mux.HandleFunc("GET /tasks/{id}", h.Tasks.Get)
	mux.HandleFunc("PATCH /tasks/{id}", h.Tasks.Update)
	mux.HandleFunc("DELETE /tasks/{id}", h.Tasks.Remove)

	mux.HandleFunc("GET /verifications", h.Verifications.List)
	mux.HandleFunc("POST /verifications", h.Verifications.Create)

	mux.HandleFunc("GET /uploads", h.Uploads.List)
	mux.HandleFunc("POST /uploads", h.Uploads.Create)
	mux.HandleFunc("DELETE /uploads/{id}", h.Uploads.Remove)

	return mux
}
