// Package ctxutil carries request-scoped identity through the context.
package ctxutil

import (
	"context"

	"github.com/jmkivinen/trialreg/internal/domain"
)

type ctxKey string

const (
	userKey      ctxKey = "user"
	requestIDKey ctxKey = "request_id"
)

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromCtx extracts the authenticated user from the context.
// Returns false for anonymous requests.
func UserFromCtx(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userKey).(domain.User)
	if !ok || user.ID == [16]byte{} {
		return domain.User{}, false
	}
	return user, true
}

// IsAdminCtx reports whether the context user carries the admin flag.
func IsAdminCtx(ctx context.Context) bool {
	user, ok := UserFromCtx(ctx)
	return ok && user.Admin
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
