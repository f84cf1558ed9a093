package middleware

import (
	"context"
	"slices"

	"github.com/heartmarshall/pantau-subsidi/internal/domain"
	"github.com/heartmarshall/pantau-subsidi/pkg/ctxutil"
)

// RequireRole returns domain.ErrUnauthorized for anonymous callers and
// domain.ErrForbidden if the caller's role is not one of roles.
// Use in REST handlers, not as HTTP middleware.
func RequireRole(ctx context.Context, roles ...domain.Role) error {
	if _, ok := ctxutil.AccountIDFromCtx(ctx); !ok {
		return domain.ErrUnauthorized
	}
	if !slices.Contains(roles, domain.Role(ctxutil.RoleFromCtx(ctx))) {
		return domain.ErrForbidden
	}
	return nil
}
