package internal

import (
	"context"
)

type ctxKey string

const ContextAuthorizationKey ctxKey = "authorization"

// AuthorizationFromContext returns the raw Authorization header value accepted by
// the token gate, exactly as the client sent it.
func AuthorizationFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ContextAuthorizationKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithAuthorization(ctx context.Context, header string) context.Context {
	return context.WithValue(ctx, ContextAuthorizationKey, header)
}
