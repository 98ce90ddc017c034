package store

import (
	"context"
	"time"

	"github.com/MKhiriev/bsdr/models"
)

// Scope is the storage-level form of a caller's partition. Zero fields apply
// no predicate; SelfID narrows an individual caller to its own row.
type Scope struct {
	ApxID  int64
	VdrID  int64
	SelfID int64
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// UserRepository is the persistence contract for principals in the usrs
// table. Every read and update is bounded by the caller's [Scope]; a row
// outside the scope behaves exactly like a missing row.
type UserRepository interface {
	FindByID(ctx context.Context, scope Scope, id int64) (models.User, error)
	Search(ctx context.Context, scope Scope, filter models.UserSearchFilter) ([]models.User, error)
	FindForLogin(ctx context.Context, apxID, vdrID int64, email string) (models.User, error)
	Create(ctx context.Context, user models.User) (models.User, error)
	Update(ctx context.Context, scope Scope, update models.UserUpdate) (models.User, error)
	UpdateStaff(ctx context.Context, scope Scope, id int64, isStaff bool) error
	DeleteCascade(ctx context.Context, scope Scope, id int64) error
}

// CredentialRepository is the persistence contract for the vault records in
// the cryptos table.
type CredentialRepository interface {
	FindByKey(ctx context.Context, key string) (models.Credential, error)
	Upsert(ctx context.Context, credential models.Credential) (models.Credential, error)
}

// OperatorRepository is the persistence contract for the operator secrets
// in the bds table.
type OperatorRepository interface {
	ActiveHashes(ctx context.Context, now time.Time) ([]string, error)
	Save(ctx context.Context, hash string, bgnAt, endAt time.Time) (int64, error)
}
