// Package correlation carries the per-request correlation ID through contexts.
package correlation

import "context"

const Header = "X-Correlation-ID"

type ctxKey struct{}

// WithID returns a copy of ctx carrying id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext retrieves the correlation ID from the context, or "" if none is set.
func FromContext(ctx context.Context) string {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok {
		return ""
	}
	return id
}
