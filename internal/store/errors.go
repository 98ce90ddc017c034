package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an insert or update collides
	// with the unique (apx_id, vdr_id, email) constraint.
	ErrEmailAlreadyExists = errors.New("email already exists in this partition")

	// ErrUserNotFound is returned when a user lookup scoped to a caller's
	// partition matches no row. A row outside the partition produces the
	// same error; existence must not leak across partition boundaries.
	ErrUserNotFound = errors.New("user was not found")

	// ErrCredentialNotFound is returned when a vault lookup key matches
	// no stored record.
	ErrCredentialNotFound = errors.New("credential was not found")

	// ErrCredentialOwnership is returned when a vault write targets a key
	// first written by a different tenant pair.
	ErrCredentialOwnership = errors.New("credential is owned by another tenant")

	// ErrOperatorSecretNotFound is returned when no operator secret is
	// active at the current instant.
	ErrOperatorSecretNotFound = errors.New("no active operator secret")

	// ErrCascadeUnsupported is returned when a cascading delete targets a
	// tier other than vendor or individual.
	ErrCascadeUnsupported = errors.New("principal tier does not support cascading delete")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
