package auth

import "errors"

// Sentinel errors returned by the token codec and the role resolver.
// Callers should match against them with [errors.Is].
var (
	// ErrTokenExpired is returned when the token's expiry instant is not
	// in the future. The boundary is strict: exp == now is expired.
	ErrTokenExpired = errors.New("token is expired")

	// ErrTokenMalformed is returned when the token cannot be decoded as a
	// compact JWS or its claims do not have the expected shape.
	ErrTokenMalformed = errors.New("token is malformed")

	// ErrTokenSignature is returned when the token decodes correctly but
	// its signature does not verify against the configured secret.
	ErrTokenSignature = errors.New("token signature is invalid")

	// ErrInconsistentTriple is returned when a verified claims triple
	// matches none of the four hierarchy patterns. This is an internal
	// defect — issuance never produces such a triple — and is surfaced
	// as a server fault, never silently defaulted.
	ErrInconsistentTriple = errors.New("claims triple matches no hierarchy pattern")
)
