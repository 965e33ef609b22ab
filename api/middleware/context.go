package middleware

import (
	"context"

	"github.com/tradevista/websights-backend/internal/auth"
)

type contextKey string

const ctxCaller contextKey = "caller"

// CallerFromContext returns the identity resolved by SessionAuth, or nil.
func CallerFromContext(ctx context.Context) *auth.Caller {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxCaller).(*auth.Caller); ok {
		return v
	}
	return nil
}

// WithCaller injects the resolved identity into the context.
func WithCaller(ctx context.Context, caller *auth.Caller) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCaller, caller)
}
