package middleware

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/pantau-subsidi/internal/config"
)

// Middleware is a function that wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middleware outermost first: Chain(a, b)(h) is a(b(h)).
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}

// Standard is the stack every API route runs behind. Recovery sits inside
// Auth so a recovered panic is logged with the caller's account and still
// reaches the access log as a 500.
func Standard(logger *slog.Logger, cors config.CORSConfig, validator tokenValidator) Middleware {
	return Chain(
		RequestID(),
		Logger(logger),
		CORS(cors),
		Auth(validator),
		Recovery(logger),
	)
}
