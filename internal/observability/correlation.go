package observability

import (
	"context"
	"strings"
)

type correlationIDKey struct{}

// WithCorrelationID binds the request correlation identifier to ctx. Blank
// identifiers leave ctx untouched.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationID returns the identifier stored by WithCorrelationID, if any.
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}
