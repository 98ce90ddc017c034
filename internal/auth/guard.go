package auth

import (
	"fmt"
	"strings"
)

// ForbiddenError is returned by [Caller.Allow] when the caller's role is not
// in the operation's allow-list. It records both sides of the check so the
// request boundary can log a precise denial.
type ForbiddenError struct {
	// Role is the caller's resolved role.
	Role Role

	// Allowed lists the roles the operation permits.
	Allowed []Role
}

// Error implements the error interface.
func (e *ForbiddenError) Error() string {
	names := make([]string, 0, len(e.Allowed))
	for _, r := range e.Allowed {
		names = append(names, r.String())
	}

	return fmt.Sprintf("role %s is not allowed, permitted roles: %s", e.Role, strings.Join(names, ", "))
}

// Allow checks the caller's role against an operation allow-list.
//
// The check is pure and must run before any partition-scoped query so that
// a forbidden caller learns nothing about resource existence — not even
// through response timing.
//
// Returns nil when the role is permitted, otherwise a [*ForbiddenError].
func (c Caller) Allow(allowed ...Role) error {
	for _, r := range allowed {
		if c.Role == r {
			return nil
		}
	}

	return &ForbiddenError{Role: c.Role, Allowed: allowed}
}
