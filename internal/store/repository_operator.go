package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/bsdr/internal/logger"
)

const (
	findActiveOperatorHashes = `SELECT password
    FROM bds
    WHERE bgn_at <= $1 AND end_at > $1;`

	insertOperatorHash = `INSERT INTO bds (password, bgn_at, end_at)
    VALUES ($1, $2, $3)
    RETURNING id;`
)

// operatorRepository is the PostgreSQL-backed implementation of
// [OperatorRepository] over the bds table of operator secrets.
type operatorRepository struct {
	logger *logger.Logger
	pools  *Pools
}

// NewOperatorRepository constructs an [OperatorRepository] backed by the
// provided database pools and logger.
func NewOperatorRepository(pools *Pools, logger *logger.Logger) OperatorRepository {
	logger.Debug().Msg("creating operator repository")
	return &operatorRepository{
		pools:  pools,
		logger: logger,
	}
}

// ActiveHashes retrieves every operator secret hash whose validity window
// covers now. Multiple secrets may be active at once during rotation.
// Returns [ErrOperatorSecretNotFound] when none is active.
func (r *operatorRepository) ActiveHashes(ctx context.Context, now time.Time) ([]string, error) {
	log := logger.FromContext(ctx)

	rows, err := r.pools.Read().QueryContext(ctx, findActiveOperatorHashes, now)
	if err != nil {
		log.Err(err).Str("func", "*operatorRepository.ActiveHashes").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	hashes := make([]string, 0, 2)

	for rows.Next() {
		var hash string
		if scanErr := rows.Scan(&hash); scanErr != nil {
			log.Err(scanErr).Str("func", "*operatorRepository.ActiveHashes").Msg("failed to scan hash row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		hashes = append(hashes, hash)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*operatorRepository.ActiveHashes").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	if len(hashes) == 0 {
		return nil, ErrOperatorSecretNotFound
	}

	return hashes, nil
}

// Save stores a new operator secret hash with its validity window and
// returns the assigned row id.
func (r *operatorRepository) Save(ctx context.Context, hash string, bgnAt, endAt time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	var id int64
	err := r.pools.Write().QueryRowContext(ctx, insertOperatorHash, hash, bgnAt, endAt).Scan(&id)
	if err != nil {
		log.Err(err).Str("func", "*operatorRepository.Save").Msg("failed to insert operator hash")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return id, nil
}
