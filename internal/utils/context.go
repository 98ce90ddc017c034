// Package utils provides small helpers shared across transport layers:
// type-safe context keys and JSON response writing.
package utils

import (
	"context"

	"github.com/MKhiriev/bsdr/internal/auth"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// CallerCtxKey is the key under which the auth middleware stores the resolved
// [auth.Caller] for downstream handlers.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.CallerCtxKey, caller)
var CallerCtxKey = contextKey("caller")

// GetCallerFromContext retrieves the resolved caller from the context.
//
// Returns the caller and an ok flag:
//   - ok == true  — value is found and has the correct type
//   - ok == false — value is missing or has an unexpected type
func GetCallerFromContext(ctx context.Context) (auth.Caller, bool) {
	caller, ok := ctx.Value(CallerCtxKey).(auth.Caller)
	return caller, ok
}
