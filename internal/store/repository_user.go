package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/models"
	"github.com/jackc/pgerrcode"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// Reads run against the read pool, writes against the read-write pool.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	pools  *Pools
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database pools and logger.
//
// A debug-level log message is emitted at construction time to aid
// application startup diagnostics.
func NewUserRepository(pools *Pools, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		pools:  pools,
		logger: logger,
	}
}

// scanUser scans one usrs row in [userColumns] order.
func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var user models.User

	err := row.Scan(
		&user.ID,
		&user.ApxID,
		&user.VdrID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Type,
		&user.IsStaff,
		&user.BgnAt,
		&user.EndAt,
		&user.BasePoint,
		&user.BelongRate,
		&user.MaxWorks,
		&user.FlushFeeRate,
		&user.FlushDays,
		&user.Rate,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	return user, err
}

// FindByID retrieves a principal by id inside the caller's partition.
//
// Error handling:
//   - No row inside the partition → [ErrUserNotFound]. Rows outside the
//     partition are indistinguishable from absent rows.
//   - Any other driver-level error → wrapped [ErrExecutingQuery].
func (r *userRepository) FindByID(ctx context.Context, scope Scope, id int64) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserByIDQuery(scope, id)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindByID").Int64("id", id).Msg("failed to build query")
		return models.User{}, err
	}

	user, err := scanUser(r.pools.Read().QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(err).Str("func", "*userRepository.FindByID").Int64("id", id).Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return user, nil
}

// Search retrieves every principal matching filter inside the caller's
// partition, ordered by id. An empty result is not an error.
func (r *userRepository) Search(ctx context.Context, scope Scope, filter models.UserSearchFilter) ([]models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSearchUsersQuery(scope, filter)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Search").Msg("failed to build query")
		return nil, err
	}

	rows, err := r.pools.Read().QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Search").Msg("failed to execute search query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.User, 0, 50)

	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*userRepository.Search").Msg("failed to scan user row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, user)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*userRepository.Search").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// FindForLogin retrieves the principal addressed by the login path. The
// tier is matched exactly: zero apxID or vdrID requires the column to be
// NULL.
func (r *userRepository) FindForLogin(ctx context.Context, apxID, vdrID int64, email string) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindForLoginQuery(apxID, vdrID, email)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindForLogin").Msg("failed to build query")
		return models.User{}, err
	}

	user, err := scanUser(r.pools.Read().QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(err).Str("func", "*userRepository.FindForLogin").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return user, nil
}

// Create persists a new principal and returns the fully populated
// [models.User] with server-assigned fields (ID, CreatedAt, UpdatedAt).
//
// A vendor principal also gets its points-pool row, created in the same
// transaction so a vendor can never exist without a pool.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped [ErrExecutingStatement].
func (r *userRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertUserQuery(user)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Create").Msg("failed to build query")
		return models.User{}, err
	}

	tx, err := r.pools.Write().BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Create").Msg("failed to begin transaction")
		return models.User{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	created, err := scanUser(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Create").Str("email", user.Email).Msg("failed to insert user")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		default:
			return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if created.IsVendor() {
		if _, err := tx.ExecContext(ctx, createVendorPool, created.ID); err != nil {
			log.Err(err).Str("func", "*userRepository.Create").Int64("vdr_id", created.ID).Msg("failed to create vendor pool")
			return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*userRepository.Create").Msg("failed to commit transaction")
		return models.User{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return created, nil
}

// Update applies a partial update inside the caller's partition and returns
// the updated row.
//
// Error handling:
//   - No row inside the partition → [ErrUserNotFound].
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
func (r *userRepository) Update(ctx context.Context, scope Scope, update models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateUserQuery(scope, update)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.Update").Int64("id", update.ID).Msg("failed to build query")
		return models.User{}, err
	}

	user, err := scanUser(r.pools.Write().QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}

		log.Err(err).Str("func", "*userRepository.Update").Int64("id", update.ID).Msg("failed to update user")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		default:
			return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	return user, nil
}

// UpdateStaff transitions the staff flag of an individual inside the
// caller's partition. Returns [ErrUserNotFound] when the row is absent,
// outside the partition, or already holds the requested flag.
func (r *userRepository) UpdateStaff(ctx context.Context, scope Scope, id int64, isStaff bool) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateStaffQuery(scope, id, isStaff)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateStaff").Int64("id", id).Msg("failed to build query")
		return err
	}

	result, err := r.pools.Write().ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateStaff").Int64("id", id).Msg("failed to update staff flag")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}
