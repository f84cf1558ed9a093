package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/heartmarshall/pantau-subsidi/internal/config"
)

// exposedHeaders are readable by browser clients on cross-origin responses.
// The field shell needs X-Cache and X-Offline to label stale data.
const exposedHeaders = "X-Request-Id,X-Cache,X-Offline"

// originSet is the parsed allow list. "*" admits every origin.
type originSet struct {
	any     bool
	allowed map[string]struct{}
}

func parseOrigins(list string) originSet {
	set := originSet{allowed: make(map[string]struct{})}
	for _, o := range strings.Split(list, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			set.any = true
		default:
			set.allowed[o] = struct{}{}
		}
	}
	return set
}

func (s originSet) admits(origin string) bool {
	if origin == "" {
		return false
	}
	if s.any {
		return true
	}
	_, ok := s.allowed[origin]
	return ok
}

// CORS echoes admitted origins and answers preflight requests. A preflight
// from an origin that is not admitted is refused with 403 so the browser
// never sends the write.
func CORS(cfg config.CORSConfig) Middleware {
	origins := parseOrigins(cfg.AllowedOrigins)
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			admitted := origins.admits(origin)

			h := w.Header()
			h.Add("Vary", "Origin")
			if admitted {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Expose-Headers", exposedHeaders)
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
			}

			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if !preflight {
				next.ServeHTTP(w, r)
				return
			}
			if !admitted {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			h.Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
			h.Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)
			h.Set("Access-Control-Max-Age", maxAge)
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
