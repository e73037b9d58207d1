package logging

import "context"

type ctxKey struct{}

// ContextWithRequestID returns a copy of ctx carrying an API request id.
// Backends add it to every entry logged with that context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestIDFromContext returns the request id stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

func withContextArgs(ctx context.Context, args []any) []any {
	if id, ok := RequestIDFromContext(ctx); ok {
		return append(args, "request_id", id)
	}
	return args
}
