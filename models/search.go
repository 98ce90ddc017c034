package models

// UserSearchFilter narrows a user search inside the caller's partition.
// Zero-valued fields are ignored.
type UserSearchFilter struct {
	// IDs restricts the result to the given principal ids.
	IDs []int64 `json:"ids,omitempty"`

	// Email matches as a case-insensitive substring.
	Email string `json:"email,omitempty"`

	// Name matches as a case-insensitive substring.
	Name string `json:"name,omitempty"`

	// Type restricts by account type when non-nil.
	Type *UserType `json:"type,omitempty"`

	// IsStaff restricts by the staff flag when non-nil.
	IsStaff *bool `json:"is_staff,omitempty"`

	// BgnAt and EndAt bound a validity window in the wire datetime layout.
	// A present bound keeps only rows whose own window overlaps it:
	// bgn_at <= EndAt and end_at >= BgnAt.
	BgnAt string `json:"bgn_at,omitempty"`
	EndAt string `json:"end_at,omitempty"`

	// Limit and Offset page the result. A zero Limit returns everything.
	Limit  uint64 `json:"limit,omitempty"`
	Offset uint64 `json:"offset,omitempty"`
}
