package store

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/bsdr/models"
)

// psql is the shared statement builder configured for PostgreSQL $N
// placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const createVendorPool = `INSERT INTO pools (vdr_id, point)
    VALUES ($1, 0);`

// userColumns lists every usrs column in scan order. All SELECT and
// RETURNING clauses must use this list so row scanning stays uniform.
var userColumns = []string{
	"id", "apx_id", "vdr_id", "name", "email", "password", "type", "is_staff",
	"bgn_at", "end_at", "base_point", "belong_rate", "max_works",
	"flush_fee_rate", "flush_days", "rate", "created_at", "updated_at",
}

// scopeUsers applies the caller's partition predicates to a usrs query.
// This is the single place partition isolation is enforced for reads; every
// builder below routes through it.
func scopeUsers(builder sq.SelectBuilder, scope Scope) sq.SelectBuilder {
	if scope.ApxID > 0 {
		builder = builder.Where(sq.Eq{"apx_id": scope.ApxID})
	}
	if scope.VdrID > 0 {
		builder = builder.Where(sq.Eq{"vdr_id": scope.VdrID})
	}
	if scope.SelfID > 0 {
		builder = builder.Where(sq.Eq{"id": scope.SelfID})
	}

	return builder
}

// buildSelectUserByIDQuery builds the scoped single-row lookup.
func buildSelectUserByIDQuery(scope Scope, id int64) (string, []any, error) {
	query, args, err := scopeUsers(
		psql.Select(userColumns...).From("usrs").Where(sq.Eq{"id": id}),
		scope,
	).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildSearchUsersQuery builds the scoped search. Filter fields are optional
// and combine with AND; the result is ordered by id for stable paging.
// Window bounds arrive pre-validated in the wire datetime layout.
func buildSearchUsersQuery(scope Scope, filter models.UserSearchFilter) (string, []any, error) {
	builder := scopeUsers(psql.Select(userColumns...).From("usrs"), scope)

	if len(filter.IDs) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.IDs})
	}
	if filter.Email != "" {
		builder = builder.Where(sq.ILike{"email": "%" + filter.Email + "%"})
	}
	if filter.Name != "" {
		builder = builder.Where(sq.ILike{"name": "%" + filter.Name + "%"})
	}
	if filter.Type != nil {
		builder = builder.Where(sq.Eq{"type": *filter.Type})
	}
	if filter.IsStaff != nil {
		builder = builder.Where(sq.Eq{"is_staff": *filter.IsStaff})
	}
	if filter.EndAt != "" {
		builder = builder.Where(sq.Expr("bgn_at <= ?::timestamp", filter.EndAt))
	}
	if filter.BgnAt != "" {
		builder = builder.Where(sq.Expr("end_at >= ?::timestamp", filter.BgnAt))
	}

	builder = builder.OrderBy("id")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit).Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildFindForLoginQuery builds the login lookup. The tier is addressed
// exactly: a zero apxID or vdrID in the login path means the column must be
// NULL, not merely unchecked, so an agency cannot log in through a vendor
// path or vice versa.
func buildFindForLoginQuery(apxID, vdrID int64, email string) (string, []any, error) {
	builder := psql.Select(userColumns...).From("usrs").Where(sq.Eq{"email": email})

	if apxID > 0 {
		builder = builder.Where(sq.Eq{"apx_id": apxID})
	} else {
		builder = builder.Where("apx_id IS NULL")
	}

	if vdrID > 0 {
		builder = builder.Where(sq.Eq{"vdr_id": vdrID})
	} else {
		builder = builder.Where("vdr_id IS NULL")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildInsertUserQuery builds the principal INSERT with a RETURNING clause
// covering all columns.
func buildInsertUserQuery(user models.User) (string, []any, error) {
	query, args, err := psql.Insert("usrs").
		Columns("apx_id", "vdr_id", "name", "email", "password", "type",
			"is_staff", "bgn_at", "end_at", "base_point", "belong_rate",
			"max_works", "flush_fee_rate", "flush_days", "rate").
		Values(user.ApxID, user.VdrID, user.Name, user.Email, user.Password,
			user.Type, user.IsStaff, user.BgnAt, user.EndAt, user.BasePoint,
			user.BelongRate, user.MaxWorks, user.FlushFeeRate, user.FlushDays,
			user.Rate).
		Suffix("RETURNING " + joinColumns(userColumns)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildUpdateUserQuery builds a partial UPDATE from the present fields of
// update, bounded by the caller's scope. updated_at always advances.
func buildUpdateUserQuery(scope Scope, update models.UserUpdate) (string, []any, error) {
	builder := psql.Update("usrs").Set("updated_at", sq.Expr("NOW()"))

	if update.Name != nil {
		builder = builder.Set("name", *update.Name)
	}
	if update.Email != nil {
		builder = builder.Set("email", *update.Email)
	}
	if update.Password != nil {
		builder = builder.Set("password", *update.Password)
	}
	if update.Type != nil {
		builder = builder.Set("type", *update.Type)
	}
	if update.BgnAt != nil {
		builder = builder.Set("bgn_at", *update.BgnAt)
	}
	if update.EndAt != nil {
		builder = builder.Set("end_at", *update.EndAt)
	}
	if update.BasePoint != nil {
		builder = builder.Set("base_point", *update.BasePoint)
	}
	if update.BelongRate != nil {
		builder = builder.Set("belong_rate", *update.BelongRate)
	}
	if update.MaxWorks != nil {
		builder = builder.Set("max_works", *update.MaxWorks)
	}
	if update.FlushFeeRate != nil {
		builder = builder.Set("flush_fee_rate", *update.FlushFeeRate)
	}
	if update.FlushDays != nil {
		builder = builder.Set("flush_days", *update.FlushDays)
	}
	if update.Rate != nil {
		builder = builder.Set("rate", *update.Rate)
	}

	builder = builder.Where(sq.Eq{"id": update.ID})
	if scope.ApxID > 0 {
		builder = builder.Where(sq.Eq{"apx_id": scope.ApxID})
	}
	if scope.VdrID > 0 {
		builder = builder.Where(sq.Eq{"vdr_id": scope.VdrID})
	}
	if scope.SelfID > 0 {
		builder = builder.Where(sq.Eq{"id": scope.SelfID})
	}

	query, args, err := builder.
		Suffix("RETURNING " + joinColumns(userColumns)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildUpdateStaffQuery builds the staff-flag transition, bounded by the
// caller's scope. The predicate requires the row to hold the opposite flag,
// so a target already in the requested state matches zero rows.
func buildUpdateStaffQuery(scope Scope, id int64, isStaff bool) (string, []any, error) {
	builder := psql.Update("usrs").
		Set("is_staff", isStaff).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"is_staff": !isStaff})

	if scope.ApxID > 0 {
		builder = builder.Where(sq.Eq{"apx_id": scope.ApxID})
	}
	if scope.VdrID > 0 {
		builder = builder.Where(sq.Eq{"vdr_id": scope.VdrID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
