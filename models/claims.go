package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the bearer-token payload. It carries the raw hierarchy triple
// exactly as issued; zero values mean "not bound at this level". Claims are
// owned by the token codec and are immutable once issued — authorization
// decisions are derived from them per request, never stored.
type Claims struct {
	// ApxID is the owning agency id, 0 when the principal is an agency
	// itself or the platform operator.
	ApxID int64 `json:"apx_id"`

	// VdrID is the owning vendor id, 0 above the individual tier.
	VdrID int64 `json:"vdr_id"`

	// UsrID is the principal's own id, 0 only for the operator sentinel.
	UsrID int64 `json:"usr_id"`

	// Email is the login identifier the token was issued for.
	Email string `json:"email"`

	// Type is the participant type recorded at issue time.
	Type UserType `json:"type"`

	// IsStaff carries the staff delegation flag fixed at issue time.
	// Clearing the stored flag later does not invalidate issued tokens.
	IsStaff bool `json:"is_staff"`

	jwt.RegisteredClaims
}
