package shared

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

type traceIDKey struct{}

// TraceIDHeader carries a caller-supplied trace ID in and the effective one out.
const TraceIDHeader = "X-Trace-ID"

// TraceIDLength is the length in bytes of a trace ID; it renders as twice
// as many hex characters.
const TraceIDLength = 16

// WithTraceID returns a copy of ctx carrying id.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// SetTraceID returns a copy of ctx carrying a freshly generated trace ID.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, NewTraceID())
}

// GetTraceID returns the trace ID stored in ctx, or "".
func GetTraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// NewTraceID returns a random trace ID in lowercase hex.
func NewTraceID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// ParseTraceID normalizes a caller-supplied trace ID. Only hex strings of
// the expected length are accepted, so header values cannot inject
// arbitrary text into logs.
func ParseTraceID(raw string) (string, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if len(raw) != TraceIDLength*2 {
		return "", false
	}
	if _, err := hex.DecodeString(raw); err != nil {
		return "", false
	}
	return raw, true
}
