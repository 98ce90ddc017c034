package models

import "time"

// UserUpdate carries a partial update for a principal. Nil fields are left
// untouched; the storage layer builds the UPDATE statement from the present
// fields only.
type UserUpdate struct {
	// ID identifies the row to update inside the caller's partition.
	ID int64 `json:"id"`

	Name     *string   `json:"name,omitempty"`
	Email    *string   `json:"email,omitempty"`
	Password *string   `json:"password,omitempty"`
	Type     *UserType `json:"type,omitempty"`

	BgnAt *time.Time `json:"bgn_at,omitempty"`
	EndAt *time.Time `json:"end_at,omitempty"`

	// Vendor-only fields.
	BasePoint    *int64   `json:"base_point,omitempty"`
	BelongRate   *float64 `json:"belong_rate,omitempty"`
	MaxWorks     *int64   `json:"max_works,omitempty"`
	FlushFeeRate *float64 `json:"flush_fee_rate,omitempty"`

	// Corporate-individual-only fields.
	FlushDays *int64   `json:"flush_days,omitempty"`
	Rate      *float64 `json:"rate,omitempty"`
}
