package logging

import (
	"context"

	"go.uber.org/zap"
)

type sessionCtxKey struct{}
type nodeCtxKey struct{}

// WithSessionID returns a context whose log lines carry session.id.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionCtxKey{}, id)
}

// SessionIDFromContext returns the session id set by WithSessionID.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionCtxKey{}).(string)
	return id
}

// WithNodeID returns a context whose log lines carry node.id.
func WithNodeID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, nodeCtxKey{}, id)
}

// NodeIDFromContext returns the node id set by WithNodeID.
func NodeIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(nodeCtxKey{}).(string)
	return id
}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	fields := make([]zap.Field, 0, 2)
	if id := SessionIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("session.id", id))
	}
	if id := NodeIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("node.id", id))
	}
	return fields
}
