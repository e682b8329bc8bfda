// Package requestctx carries request-scoped identity through contexts.
package requestctx

import "context"

// sessionIDContextKey is the context key for the browser session.
type sessionIDContextKey struct{}

// WithSessionID stores a browser session identifier in context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionIDContextKey{}, sessionID)
}

// SessionIDFromContext returns the session identifier stored in context.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(sessionIDContextKey{}).(string)
	return value
}
