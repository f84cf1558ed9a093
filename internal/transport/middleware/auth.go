package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/pantau-subsidi/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (accountID string, role string, err error)
}

// Auth attaches the bearer token's account and role to the request context.
// Requests without a bearer token pass through anonymously; an invalid token
// is rejected with 401.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			accountID, role, err := validator.ValidateAccessToken(token)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"invalid token"}`)) //nolint:errcheck
				return
			}
			ctx := ctxutil.WithAccountID(r.Context(), accountID)
			ctx = ctxutil.WithRole(ctx, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
