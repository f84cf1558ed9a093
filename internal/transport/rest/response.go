package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Fields  []fieldErrorPayload `json:"fields,omitempty"`
}

type fieldErrorPayload struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// createdStatus is 201 for a first write and 200 for an acknowledged replay.
func createdStatus(replayed bool) int {
	if replayed {
		return http.StatusOK
	}
	return http.StatusCreated
}

// statusByCode maps domain error codes onto HTTP statuses.
var statusByCode = map[string]int{
	"validation_error": http.StatusBadRequest,
	"not_found":        http.StatusNotFound,
	"already_exists":   http.StatusConflict,
	"conflict":         http.StatusConflict,
	"unauthorized":     http.StatusUnauthorized,
	"forbidden":        http.StatusForbidden,
}

// messageByCode keeps internal identifiers out of client-facing messages.
var messageByCode = map[string]string{
	"not_found":      "resource not found",
	"already_exists": "resource already exists",
	"conflict":       "conflicting update",
	"unauthorized":   "authentication required",
	"forbidden":      "insufficient role",
}

// handleError maps domain errors onto HTTP responses. Anything else is an
// unexpected failure and is logged at ERROR.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	code := domain.Code(err)
	if code == "" {
		log.ErrorContext(r.Context(), "internal error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	resp := errorResponse{Error: code, Message: messageByCode[code]}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp.Message = ve.Error()
		for _, fe := range ve.Errors {
			resp.Fields = append(resp.Fields, fieldErrorPayload{Field: fe.Field, Message: fe.Message})
		}
	} else if resp.Message == "" {
		resp.Message = err.Error()
	}
	writeJSON(w, statusByCode[code], resp)
}
