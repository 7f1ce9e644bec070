package middleware

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// SplitIDKey is the context key for the ID of the split being shared.
const SplitIDKey contextKey = "split_id"

// WithSplitID returns ctx carrying the split ID.
func WithSplitID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SplitIDKey, id)
}

// GetSplitID extracts the split ID from the context.
// Returns empty string if not found.
func GetSplitID(ctx context.Context) string {
	id, _ := ctx.Value(SplitIDKey).(string)
	return id
}
