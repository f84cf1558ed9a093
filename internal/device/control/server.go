// Package control is the local endpoint of a running field agent. Agent mode
// holds the device database exclusively, so other fieldagent commands hand
// their writes and sync requests to the agent over a unix socket under the
// data dir.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/heartmarshall/pantau-subsidi/internal/device/api"
	"github.com/heartmarshall/pantau-subsidi/internal/device/syncer"
	"github.com/heartmarshall/pantau-subsidi/internal/device/syncqueue"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Writer submits writes through the agent's API client.
type Writer interface {
	SubmitReport(ctx context.Context, in api.ReportInput) (api.WriteResult, error)
	SubmitVerification(ctx context.Context, in api.VerificationInput) (api.WriteResult, error)
	SubmitUpload(ctx context.Context, in api.UploadInput) (api.WriteResult, error)
}

// Syncer is the agent's running syncer.
type Syncer interface {
	Drain(ctx context.Context) (syncer.Result, error)
	Post(msg string) bool
}

// Pending lists the agent's queue.
type Pending interface {
	ListPending(ctx context.Context) ([]syncqueue.Item, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageRequest struct {
	Message string `json:"message"`
}

// Server answers control requests for one agent.
type Server struct {
	writes  Writer
	sync    Syncer
	pending Pending
	log     *slog.Logger
}

// NewServer creates a Server.
func NewServer(w Writer, s Syncer, p Pending, logger *slog.Logger) *Server {
	return &Server{writes: w, sync: s, pending: p, log: logger.With("component", "control")}
}

// Handler returns the control routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /"+api.EndpointReports, handleWrite(s, s.writes.SubmitReport))
	mux.HandleFunc("POST /"+api.EndpointVerifications, handleWrite(s, s.writes.SubmitVerification))
	mux.HandleFunc("POST /"+api.EndpointUploads, handleWrite(s, s.writes.SubmitUpload))
	mux.HandleFunc("GET /pending", s.listPending)
	mux.HandleFunc("POST /sync", s.drain)
	mux.HandleFunc("POST /messages", s.message)
	return mux
}

// Serve listens on the unix socket at path until ctx ends. A socket file
// left behind by a crashed agent is replaced.
func (s *Server) Serve(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("control: remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("control: listen %s: %w", path, err)
	}
	defer os.Remove(path) //nolint:errcheck
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		return fmt.Errorf("control: chmod socket: %w", err)
	}

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	serveErr := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "control socket listening", slog.String("path", path))
		serveErr <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("control: shutdown: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("control: serve: %w", err)
	}
}

func handleWrite[In any](s *Server, submit func(context.Context, In) (api.WriteResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "decode body: " + err.Error()})
			return
		}
		res, err := submit(r.Context(), in)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) listPending(w http.ResponseWriter, r *http.Request) {
	items, err := s.pending.ListPending(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if items == nil {
		items = []syncqueue.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) drain(w http.ResponseWriter, r *http.Request) {
	res, err := s.sync.Drain(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) message(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "decode body: " + err.Error()})
		return
	}
	if req.Message != syncer.MessageForceSync {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown message %q", req.Message)})
		return
	}
	if !s.sync.Post(req.Message) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "syncer is busy, try again"})
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "control request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
