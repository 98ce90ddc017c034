package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/models"
)

const (
	findCredentialByKey = `SELECT id, key, value, apx_id, vdr_id, created_at, updated_at
    FROM cryptos
    WHERE key = $1;`

	lockCredentialByKey = `SELECT id, apx_id, vdr_id
    FROM cryptos
    WHERE key = $1
    FOR UPDATE;`

	insertCredential = `INSERT INTO cryptos (key, value, apx_id, vdr_id)
    VALUES ($1, $2, $3, $4)
    RETURNING id, key, value, apx_id, vdr_id, created_at, updated_at;`

	updateCredentialValue = `UPDATE cryptos
    SET value = $2, updated_at = NOW()
    WHERE id = $1
    RETURNING id, key, value, apx_id, vdr_id, created_at, updated_at;`
)

// credentialRepository is the PostgreSQL-backed implementation of
// [CredentialRepository] over the cryptos table.
type credentialRepository struct {
	logger *logger.Logger
	pools  *Pools
}

// NewCredentialRepository constructs a [CredentialRepository] backed by the
// provided database pools and logger.
func NewCredentialRepository(pools *Pools, logger *logger.Logger) CredentialRepository {
	logger.Debug().Msg("creating credential repository")
	return &credentialRepository{
		pools:  pools,
		logger: logger,
	}
}

func scanCredential(row interface{ Scan(...any) error }) (models.Credential, error) {
	var credential models.Credential

	err := row.Scan(
		&credential.ID,
		&credential.Key,
		&credential.Value,
		&credential.ApxID,
		&credential.VdrID,
		&credential.CreatedAt,
		&credential.UpdatedAt,
	)

	return credential, err
}

// FindByKey retrieves a vault record by its lookup key. Returns
// [ErrCredentialNotFound] when the key is unknown.
func (r *credentialRepository) FindByKey(ctx context.Context, key string) (models.Credential, error) {
	log := logger.FromContext(ctx)

	credential, err := scanCredential(r.pools.Read().QueryRowContext(ctx, findCredentialByKey, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Credential{}, ErrCredentialNotFound
		}
		log.Err(err).Str("func", "*credentialRepository.FindByKey").Msg("error: scanning error")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return credential, nil
}

// Upsert writes a vault record with first-writer ownership. The key row is
// locked for the duration of the transaction, so two concurrent first
// writes serialize: one inserts and becomes the owner, the other sees the
// owner and fails.
//
// Error handling:
//   - Existing row owned by a different (apx_id, vdr_id) pair →
//     [ErrCredentialOwnership]. The stored value is untouched.
//   - Any driver-level error → wrapped [ErrExecutingStatement].
func (r *credentialRepository) Upsert(ctx context.Context, credential models.Credential) (models.Credential, error) {
	log := logger.FromContext(ctx)

	tx, err := r.pools.Write().BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*credentialRepository.Upsert").Msg("failed to begin transaction")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var (
		existingID    int64
		ownerApxID    *int64
		ownerVdrID    *int64
		existingFound = true
	)

	err = tx.QueryRowContext(ctx, lockCredentialByKey, credential.Key).Scan(&existingID, &ownerApxID, &ownerVdrID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Err(err).Str("func", "*credentialRepository.Upsert").Msg("failed to lock credential row")
			return models.Credential{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		existingFound = false
	}

	var saved models.Credential
	if existingFound {
		if !sameOwner(ownerApxID, credential.ApxID) || !sameOwner(ownerVdrID, credential.VdrID) {
			return models.Credential{}, ErrCredentialOwnership
		}

		saved, err = scanCredential(tx.QueryRowContext(ctx, updateCredentialValue, existingID, credential.Value))
	} else {
		saved, err = scanCredential(tx.QueryRowContext(ctx, insertCredential, credential.Key, credential.Value, credential.ApxID, credential.VdrID))
	}
	if err != nil {
		log.Err(err).Str("func", "*credentialRepository.Upsert").Msg("failed to write credential")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*credentialRepository.Upsert").Msg("failed to commit transaction")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return saved, nil
}

func sameOwner(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}
