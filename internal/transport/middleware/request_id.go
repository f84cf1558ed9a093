package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/heartmarshall/pantau-subsidi/pkg/ctxutil"
)

// RequestIDHeader carries the correlation id between field devices and the
// server. Devices reuse it when replaying a queued write.
const RequestIDHeader = "X-Request-Id"

const maxRequestIDLen = 128

// RequestID tags every request with a correlation id. A sane incoming id is
// reused, anything else is replaced with a fresh UUID.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if !validRequestID(id) {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctxutil.WithRequestID(r.Context(), id)))
		})
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
