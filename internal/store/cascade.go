package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/bsdr/internal/logger"
)

// vendorCascade lists every DELETE run when a vendor principal is removed,
// in execution order. Dependent rows go first; the principal row is deleted
// separately at the end. Each statement takes the vendor id as $1.
var vendorCascade = []string{
	`DELETE FROM usrs WHERE vdr_id = $1;`,
	`DELETE FROM jobs WHERE vdr_id = $1;`,
	`DELETE FROM matches WHERE vdr_id = $1;`,
	`DELETE FROM match_statuses WHERE vdr_id = $1;`,
	`DELETE FROM works WHERE vdr_id = $1;`,
	`DELETE FROM belongs WHERE vdr_id = $1;`,
	`DELETE FROM badges WHERE vdr_id = $1;`,
	`DELETE FROM usr_badges WHERE vdr_id = $1;`,
	`DELETE FROM points WHERE vdr_id = $1;`,
	`DELETE FROM payments WHERE vdr_id = $1;`,
	`DELETE FROM pools WHERE vdr_id = $1;`,
	`DELETE FROM flushes WHERE vdr_id = $1;`,
	`DELETE FROM payouts WHERE vdr_id = $1;`,
	`DELETE FROM cryptos WHERE vdr_id = $1;`,
}

// individualCascade lists every DELETE run when an individual principal is
// removed, in execution order. An individual appears in dependent tables
// through several foreign keys (as a counterparty, as a corporate owner, as
// a payout target), so each statement matches all of them. Each statement
// takes the individual id as $1.
var individualCascade = []string{
	`DELETE FROM matches WHERE from_usr_id = $1 OR to_usr_id = $1;`,
	`DELETE FROM match_statuses WHERE from_usr_id = $1 OR to_usr_id = $1;`,
	`DELETE FROM works WHERE from_usr_id = $1 OR to_usr_id = $1;`,
	`DELETE FROM belongs WHERE corp_id = $1 OR usr_id = $1;`,
	`DELETE FROM badges WHERE corp_id = $1;`,
	`DELETE FROM usr_badges WHERE corp_id = $1 OR from_usr_id = $1 OR to_usr_id = $1;`,
	`DELETE FROM points WHERE corp_id = $1 OR from_usr_id = $1 OR to_usr_id = $1;`,
	`DELETE FROM payments WHERE corp_id = $1;`,
	`DELETE FROM payouts WHERE usr_id = $1;`,
	`DELETE FROM jobs WHERE corp_id = $1;`,
}

const deletePrincipal = `DELETE FROM usrs WHERE id = $1;`

// DeleteCascade removes a principal together with every dependent row in a
// single transaction. The target is loaded inside the transaction, bounded
// by the caller's partition, so an out-of-partition id fails with
// [ErrUserNotFound] before anything is touched. The tier of the loaded row
// selects the statement list; only vendors and individuals can cascade.
//
// Either every statement commits or none does. No partial teardown is ever
// visible, and dependent rows are gone before the principal row so no
// orphan window exists even inside the transaction.
func (r *userRepository) DeleteCascade(ctx context.Context, scope Scope, id int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserByIDQuery(scope, id)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteCascade").Int64("id", id).Msg("failed to build query")
		return err
	}

	db := r.pools.Write()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteCascade").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	target, err := scanUser(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		log.Err(err).Str("func", "*userRepository.DeleteCascade").Int64("id", id).Msg("error: scanning error")
		return fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	var statements []string
	switch {
	case target.IsVendor():
		statements = vendorCascade
	case target.IsIndividual():
		statements = individualCascade
	default:
		return ErrCascadeUnsupported
	}

	for _, statement := range statements {
		if _, err := tx.ExecContext(ctx, statement, id); err != nil {
			log.Err(err).
				Str("func", "*userRepository.DeleteCascade").
				Int64("id", id).
				Bool("retryable", db.errorClassificator.Classify(err) == Retryable).
				Msg("failed to delete dependent rows")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if _, err := tx.ExecContext(ctx, deletePrincipal, id); err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteCascade").Int64("id", id).Msg("failed to delete principal")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteCascade").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	log.Info().
		Str("func", "*userRepository.DeleteCascade").
		Int64("id", id).
		Bool("vendor", target.IsVendor()).
		Msg("cascading delete committed")

	return nil
}
