package models

import "time"

// UserType distinguishes corporate participants from personal ones.
// Agencies and vendors are always corporate; individuals may be either.
type UserType int

const (
	// TypeNone marks principals without a participant type (operator tokens).
	TypeNone UserType = 0

	// TypeCorporate marks corporate principals (agencies, vendors, corporate individuals).
	TypeCorporate UserType = 1

	// TypePersonal marks personal individuals.
	TypePersonal UserType = 2
)

// User represents a principal at any tier of the hierarchy: agency, vendor
// or individual. The tier is never stored — it is derived structurally from
// which of the owning identifiers are set:
//
//	agency:     ApxID == nil, VdrID == nil
//	vendor:     ApxID != nil, VdrID == nil
//	individual: ApxID != nil, VdrID != nil
//
// Tier-specific numeric fields are mutually exclusive: BasePoint, BelongRate,
// MaxWorks and FlushFeeRate belong to vendors; FlushDays and Rate belong to
// corporate individuals.
type User struct {
	// ID is the internal unique identifier of the principal.
	ID int64 `json:"id"`

	// ApxID is the owning agency id. Nil for agency rows.
	ApxID *int64 `json:"apx_id,omitempty"`

	// VdrID is the owning vendor id. Nil for agency and vendor rows.
	VdrID *int64 `json:"vdr_id,omitempty"`

	// Name is the display name. For personal individuals it must contain
	// a single space between family and given name.
	Name string `json:"name"`

	// Email is the login identifier, unique within (ApxID, VdrID).
	Email string `json:"email"`

	// Password stores the bcrypt hash of the password, never plaintext.
	// It is never exposed via JSON.
	Password string `json:"-"`

	// Type is the participant type. See [UserType].
	Type UserType `json:"type"`

	// IsStaff marks an individual granted vendor-equivalent authority.
	// The flag is read at token issue time only; issued tokens are not
	// invalidated when it is cleared.
	IsStaff bool `json:"is_staff"`

	// BgnAt and EndAt bound the validity window [BgnAt, EndAt).
	BgnAt time.Time `json:"bgn_at"`
	EndAt time.Time `json:"end_at"`

	// Vendor-only fields.
	BasePoint    int64   `json:"base_point"`
	BelongRate   float64 `json:"belong_rate"`
	MaxWorks     int64   `json:"max_works"`
	FlushFeeRate float64 `json:"flush_fee_rate"`

	// Corporate-individual-only fields.
	FlushDays int64   `json:"flush_days"`
	Rate      float64 `json:"rate"`

	// CreatedAt and UpdatedAt are maintained by the database.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "usrs"
}

// IsVendor reports whether the stored row is a vendor principal.
func (u User) IsVendor() bool {
	return u.ApxID != nil && u.VdrID == nil
}

// IsIndividual reports whether the stored row is an individual principal.
func (u User) IsIndividual() bool {
	return u.ApxID != nil && u.VdrID != nil
}
