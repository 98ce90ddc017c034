package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/bsdr/internal/auth"
	"github.com/MKhiriev/bsdr/internal/crypto"
	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/internal/store"
	"github.com/MKhiriev/bsdr/internal/validate"
	"github.com/MKhiriev/bsdr/models"
)

// userService is the concrete implementation of [UserService]. All reads
// and writes are bounded by the caller's partition; the tier of a created
// principal follows from the caller's role, never from the request body.
type userService struct {
	userRepository store.UserRepository
	logger         *logger.Logger
}

// NewUserService constructs a [UserService] wired to the given repository.
func NewUserService(users store.UserRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepository: users,
		logger:         logger,
	}
}

// scopeOf maps a resolved caller onto its storage scope. An individual is
// additionally narrowed to its own row.
func scopeOf(caller auth.Caller) store.Scope {
	scope := store.Scope{ApxID: caller.Scope.ApxID, VdrID: caller.Scope.VdrID}
	if caller.Role == auth.RoleIndividual {
		scope.SelfID = caller.UsrID
	}

	return scope
}

// Search lists principals matching filter inside the caller's partition.
// Window bounds are validated here; the repository trusts their layout.
func (s *userService) Search(ctx context.Context, caller auth.Caller, filter models.UserSearchFilter) ([]models.User, error) {
	checker := validate.New()
	checker.Datetime("bgn_at", filter.BgnAt)
	checker.Datetime("end_at", filter.EndAt)
	if err := checker.Err(); err != nil {
		return nil, err
	}

	users, err := s.userRepository.Search(ctx, scopeOf(caller), filter)
	if err != nil {
		return nil, fmt.Errorf("user search failed: %w", err)
	}

	return users, nil
}

// Get retrieves one principal inside the caller's partition.
func (s *userService) Get(ctx context.Context, caller auth.Caller, id int64) (models.User, error) {
	user, err := s.userRepository.FindByID(ctx, scopeOf(caller), id)
	if err != nil {
		return models.User{}, fmt.Errorf("user lookup failed: %w", err)
	}

	return user, nil
}

// Create persists a new principal one tier below the caller: the operator
// creates agencies, an agency creates vendors, a vendor (or its staff)
// creates individuals. The owning identifiers always come from the caller's
// own identity, so a principal can never be planted outside the caller's
// partition.
func (s *userService) Create(ctx context.Context, caller auth.Caller, request models.CreateUserRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := caller.Allow(auth.RoleOperator, auth.RoleAgency, auth.RoleVendor); err != nil {
		return models.User{}, err
	}

	checker := validate.New().
		Required("name", request.Name).
		Required("email", request.Email).
		Email("email", request.Email).
		Required("password", request.Password).
		Length("password", request.Password, 8, 72).
		Required("bgn_at", request.BgnAt).
		Required("end_at", request.EndAt)

	bgnAt := checker.Datetime("bgn_at", request.BgnAt)
	endAt := checker.Datetime("end_at", request.EndAt)
	if !bgnAt.IsZero() && !endAt.IsZero() {
		checker.Must("end_at", endAt.After(bgnAt), validate.CodeRange, "end_at must be after bgn_at")
	}

	user := models.User{
		Name:  request.Name,
		Email: request.Email,
		Type:  models.TypeCorporate,
		BgnAt: bgnAt,
		EndAt: endAt,
	}

	switch caller.Role {
	case auth.RoleOperator:
		// agency: no owning identifiers
		checker.Must("type", request.Type == nil || *request.Type == models.TypeCorporate,
			validate.CodeRange, "an agency must be corporate")
		forbidFields(checker, "an agency", vendorTierFields(request))
		forbidFields(checker, "an agency", individualTierFields(request))

	case auth.RoleAgency:
		apxID := caller.UsrID
		user.ApxID = &apxID
		checker.Must("type", request.Type == nil || *request.Type == models.TypeCorporate,
			validate.CodeRange, "a vendor must be corporate")
		for _, f := range vendorTierFields(request) {
			checker.Must(f.field, f.present, validate.CodeRequired, f.field+" is required for a vendor")
		}
		forbidFields(checker, "a vendor", individualTierFields(request))
		user.BasePoint = valueOr(request.BasePoint, 0)
		user.BelongRate = valueOrFloat(request.BelongRate, 0)
		user.MaxWorks = valueOr(request.MaxWorks, 0)
		user.FlushFeeRate = valueOrFloat(request.FlushFeeRate, 0)

	case auth.RoleVendor:
		apxID, vdrID := caller.Scope.ApxID, caller.Scope.VdrID
		user.ApxID = &apxID
		user.VdrID = &vdrID

		checker.Must("type", request.Type != nil &&
			(*request.Type == models.TypeCorporate || *request.Type == models.TypePersonal),
			validate.CodeRequired, "type is required for an individual")
		if request.Type != nil {
			user.Type = *request.Type
		}

		forbidFields(checker, "an individual", vendorTierFields(request))
		if user.Type == models.TypePersonal {
			forbidFields(checker, "a personal individual", individualTierFields(request))
			normalized, hasSpace := validate.NormalizePersonalName(request.Name)
			checker.Must("name", hasSpace, validate.CodePattern,
				"a personal name must contain family and given parts")
			user.Name = normalized
		} else {
			user.FlushDays = valueOr(request.FlushDays, 0)
			user.Rate = valueOrFloat(request.Rate, 0)
		}
	}

	if err := checker.Err(); err != nil {
		log.Error().Err(err).Str("email", request.Email).Msg("invalid user data provided")
		return models.User{}, err
	}

	hashed, err := crypto.HashPassword(request.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}
	user.Password = hashed

	created, err := s.userRepository.Create(ctx, user)
	if err != nil {
		log.Err(err).Str("email", request.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return created, nil
}

// Update applies a partial update to a principal inside the caller's
// partition. A password in the request is re-hashed; datetime strings are
// parsed before they reach storage.
func (s *userService) Update(ctx context.Context, caller auth.Caller, request models.UpdateUserRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	checker := validate.New()
	if request.Email != nil {
		checker.Required("email", *request.Email).Email("email", *request.Email)
	}
	if request.Password != nil {
		checker.Required("password", *request.Password).Length("password", *request.Password, 8, 72)
	}

	update := models.UserUpdate{
		ID:           request.ID,
		Name:         request.Name,
		Email:        request.Email,
		Type:         request.Type,
		BasePoint:    request.BasePoint,
		BelongRate:   request.BelongRate,
		MaxWorks:     request.MaxWorks,
		FlushFeeRate: request.FlushFeeRate,
		FlushDays:    request.FlushDays,
		Rate:         request.Rate,
	}

	if request.BgnAt != nil {
		bgnAt := checker.Datetime("bgn_at", *request.BgnAt)
		update.BgnAt = &bgnAt
	}
	if request.EndAt != nil {
		endAt := checker.Datetime("end_at", *request.EndAt)
		update.EndAt = &endAt
	}

	// Renames follow the rules of the row's effective type, so a personal
	// individual keeps the family-and-given-name rule even when the request
	// omits type.
	if request.Name != nil {
		userType := request.Type
		if userType == nil {
			current, err := s.userRepository.FindByID(ctx, scopeOf(caller), request.ID)
			if err != nil {
				return models.User{}, fmt.Errorf("user lookup failed: %w", err)
			}
			userType = &current.Type
		}

		if *userType == models.TypePersonal {
			normalized, hasSpace := validate.NormalizePersonalName(*request.Name)
			checker.Must("name", hasSpace, validate.CodePattern,
				"a personal name must contain family and given parts")
			update.Name = &normalized
		}
	}

	if err := checker.Err(); err != nil {
		log.Error().Err(err).Int64("id", request.ID).Msg("invalid user data provided")
		return models.User{}, err
	}

	if request.Password != nil {
		hashed, err := crypto.HashPassword(*request.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("password hashing failed: %w", err)
		}
		update.Password = &hashed
	}

	updated, err := s.userRepository.Update(ctx, scopeOf(caller), update)
	if err != nil {
		log.Err(err).Int64("id", request.ID).Msg("user update ended with error")
		return models.User{}, fmt.Errorf("user update ended with error: %w", err)
	}

	return updated, nil
}

// Delete removes a principal and every dependent row in one transaction.
// Only an agency or a vendor may delete; the cascade itself rejects a target
// that is neither a vendor nor an individual.
func (s *userService) Delete(ctx context.Context, caller auth.Caller, id int64) error {
	log := logger.FromContext(ctx)

	if err := caller.Allow(auth.RoleAgency, auth.RoleVendor); err != nil {
		return err
	}

	if err := s.userRepository.DeleteCascade(ctx, scopeOf(caller), id); err != nil {
		log.Err(err).Int64("id", id).Msg("cascading delete ended with error")
		return fmt.Errorf("cascading delete ended with error: %w", err)
	}

	return nil
}

// Hire grants an individual staff authority. An already-staff target
// answers like a missing row.
func (s *userService) Hire(ctx context.Context, caller auth.Caller, id int64) error {
	return s.setStaff(ctx, caller, id, true)
}

// Dehire withdraws staff authority from a staff individual. Tokens issued
// while the individual was staff keep their delegation until they expire.
func (s *userService) Dehire(ctx context.Context, caller auth.Caller, id int64) error {
	return s.setStaff(ctx, caller, id, false)
}

func (s *userService) setStaff(ctx context.Context, caller auth.Caller, id int64, isStaff bool) error {
	log := logger.FromContext(ctx)

	if err := caller.Allow(auth.RoleOperator, auth.RoleVendor); err != nil {
		return err
	}

	if err := s.userRepository.UpdateStaff(ctx, scopeOf(caller), id, isStaff); err != nil {
		log.Err(err).Int64("id", id).Bool("is_staff", isStaff).Msg("staff flag update ended with error")
		return fmt.Errorf("staff flag update ended with error: %w", err)
	}

	return nil
}

// fieldPresence pairs a request field name with whether the request carries
// it. Tier rules work on presence, not on values.
type fieldPresence struct {
	field   string
	present bool
}

func vendorTierFields(request models.CreateUserRequest) []fieldPresence {
	return []fieldPresence{
		{"base_point", request.BasePoint != nil},
		{"belong_rate", request.BelongRate != nil},
		{"max_works", request.MaxWorks != nil},
		{"flush_fee_rate", request.FlushFeeRate != nil},
	}
}

func individualTierFields(request models.CreateUserRequest) []fieldPresence {
	return []fieldPresence{
		{"flush_days", request.FlushDays != nil},
		{"rate", request.Rate != nil},
	}
}

func forbidFields(checker *validate.Checker, tier string, fields []fieldPresence) {
	for _, f := range fields {
		checker.Must(f.field, !f.present, validate.CodeRange, f.field+" is not allowed for "+tier)
	}
}

func valueOr(v *int64, fallback int64) int64 {
	if v == nil {
		return fallback
	}
	return *v
}

func valueOrFloat(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
