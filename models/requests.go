package models

// LoginRequest carries credentials for the tiered login operation. The tier
// itself is addressed by the request path, not the body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// ExpireHours overrides the default token lifetime when present.
	// Zero is honored literally and yields an immediately expired token.
	ExpireHours *int64 `json:"expire_hours,omitempty"`
}

// CreateUserRequest carries the fields for creating a principal. Which tier
// gets created is decided by the caller's role, never by the body.
type CreateUserRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Type     *UserType `json:"type,omitempty"`

	// BgnAt and EndAt are datetime strings in the wire layout.
	BgnAt string `json:"bgn_at"`
	EndAt string `json:"end_at"`

	// Vendor-only fields.
	BasePoint    *int64   `json:"base_point,omitempty"`
	BelongRate   *float64 `json:"belong_rate,omitempty"`
	MaxWorks     *int64   `json:"max_works,omitempty"`
	FlushFeeRate *float64 `json:"flush_fee_rate,omitempty"`

	// Corporate-individual-only fields.
	FlushDays *int64   `json:"flush_days,omitempty"`
	Rate      *float64 `json:"rate,omitempty"`
}

// UpdateUserRequest carries a partial update. Nil fields are untouched.
// The target id comes from the request path.
type UpdateUserRequest struct {
	ID int64 `json:"-"`

	Name     *string   `json:"name,omitempty"`
	Email    *string   `json:"email,omitempty"`
	Password *string   `json:"password,omitempty"`
	Type     *UserType `json:"type,omitempty"`

	BgnAt *string `json:"bgn_at,omitempty"`
	EndAt *string `json:"end_at,omitempty"`

	BasePoint    *int64   `json:"base_point,omitempty"`
	BelongRate   *float64 `json:"belong_rate,omitempty"`
	MaxWorks     *int64   `json:"max_works,omitempty"`
	FlushFeeRate *float64 `json:"flush_fee_rate,omitempty"`

	FlushDays *int64   `json:"flush_days,omitempty"`
	Rate      *float64 `json:"rate,omitempty"`
}

// OperatorSecretRequest carries a new operator secret and its validity
// window.
type OperatorSecretRequest struct {
	Password string `json:"password"`
	BgnAt    string `json:"bgn_at"`
	EndAt    string `json:"end_at"`
}
