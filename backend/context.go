package backend

import "context"

// staffIDContextKey is the context key for the acting staff id.
type staffIDContextKey struct{}

// WithStaffID returns a context carrying the staff id used for API calls.
func WithStaffID(ctx context.Context, staffID string) context.Context {
	return context.WithValue(ctx, staffIDContextKey{}, staffID)
}

// StaffIDFromContext returns the staff id stored by WithStaffID.
// It returns ErrNoStaff if none is present or it is empty.
func StaffIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(staffIDContextKey{}).(string)
	if !ok || id == "" {
		return "", ErrNoStaff
	}
	return id, nil
}
