package models

import "time"

// Credential is a vault record: an opaque lookup key mapped to an encrypted
// long-lived token. Ownership is fixed by the first writer; only the owning
// (ApxID, VdrID) pair may overwrite the value afterwards.
type Credential struct {
	// ID is the internal row identifier.
	ID int64 `json:"-"`

	// Key is the unique opaque lookup key: exactly 50 characters from
	// the [A-Za-z0-9_-] alphabet. The key itself is the retrieval secret.
	Key string `json:"key"`

	// Value is the AEAD-encrypted token, hex transport encoding.
	// Plaintext never reaches storage.
	Value string `json:"value"`

	// ApxID and VdrID identify the owning tenant. Nil when the record
	// was written without an owner.
	ApxID *int64 `json:"-"`
	VdrID *int64 `json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the Credential model.
func (c Credential) TableName() string {
	return "cryptos"
}
