package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/bsdr/internal/auth"
	"github.com/MKhiriev/bsdr/internal/config"
	"github.com/MKhiriev/bsdr/internal/crypto"
	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/internal/store"
	"github.com/MKhiriev/bsdr/internal/validate"
	"github.com/MKhiriev/bsdr/models"
)

// operatorEmail is the synthetic email carried by operator tokens. The
// operator is a sentinel identity and has no stored row.
const operatorEmail = "bd@bd.com"

// authService is the concrete implementation of [AuthService]. It combines
// the stored principals, the rotating operator secrets and the token codec.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
type authService struct {
	userRepository     store.UserRepository
	operatorRepository store.OperatorRepository

	// codec signs and verifies every bearer token.
	codec *auth.Codec

	// tokenDuration is the default lifetime of login tokens. A request
	// may override it explicitly.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an [AuthService] wired to the given repositories
// and populated with security parameters from cfg.
func NewAuthService(users store.UserRepository, operators store.OperatorRepository, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:     users,
		operatorRepository: operators,
		codec:              auth.NewCodec(cfg.TokenSignKey),
		tokenDuration:      cfg.TokenDuration,
		logger:             logger,
	}
}

// Login authenticates the principal addressed by the path pair and the body
// email, and issues a bearer token carrying the matching claims triple.
//
// The path pair selects the tier exactly: 0/0 is an agency login, apx/0 a
// vendor login, apx/vdr an individual login. An unknown email and a wrong
// password both surface as [ErrWrongPassword]; a principal outside its
// validity window surfaces as [ErrAccountInactive].
func (a *authService) Login(ctx context.Context, apxID, vdrID int64, request models.LoginRequest) (string, error) {
	log := logger.FromContext(ctx)

	if err := validate.New().
		Required("email", request.Email).
		Email("email", request.Email).
		Required("password", request.Password).
		Err(); err != nil {
		return "", err
	}

	if apxID < 0 || vdrID < 0 || (apxID == 0 && vdrID > 0) {
		log.Error().Int64("apx_id", apxID).Int64("vdr_id", vdrID).Msg("invalid login path pair")
		return "", ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindForLogin(ctx, apxID, vdrID, request.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same answer as a wrong password: the email must not be
			// probeable.
			return "", ErrWrongPassword
		}
		log.Err(err).Str("email", request.Email).Msg("login lookup failed")
		return "", fmt.Errorf("login lookup failed: %w", err)
	}

	if err := crypto.CheckPassword(user.Password, request.Password); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			return "", ErrWrongPassword
		}
		log.Err(err).Int64("id", user.ID).Msg("password comparison failed")
		return "", fmt.Errorf("password comparison failed: %w", err)
	}

	now := time.Now()
	if now.Before(user.BgnAt) || !now.Before(user.EndAt) {
		log.Warn().Int64("id", user.ID).Time("bgn_at", user.BgnAt).Time("end_at", user.EndAt).Msg("login outside validity window")
		return "", ErrAccountInactive
	}

	ttl := a.tokenDuration
	if request.ExpireHours != nil {
		ttl = time.Duration(*request.ExpireHours) * time.Hour
	}

	token, err := a.codec.Issue(apxID, vdrID, user.ID, user.Email, user.Type, user.IsStaff, ttl)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// OperatorLogin exchanges an X-BD secret for an operator token. The secret
// is compared against every hash active at the current instant, so a
// rotation window with two valid secrets works without downtime.
func (a *authService) OperatorLogin(ctx context.Context, secret string) (string, error) {
	log := logger.FromContext(ctx)

	if secret == "" {
		return "", ErrOperatorSecretRejected
	}

	hashes, err := a.operatorRepository.ActiveHashes(ctx, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrOperatorSecretNotFound) {
			return "", ErrOperatorSecretRejected
		}
		log.Err(err).Msg("operator hash lookup failed")
		return "", fmt.Errorf("operator hash lookup failed: %w", err)
	}

	matched := false
	for _, hash := range hashes {
		if crypto.CheckPassword(hash, secret) == nil {
			matched = true
			break
		}
	}
	if !matched {
		return "", ErrOperatorSecretRejected
	}

	token, err := a.codec.Issue(0, 0, 0, operatorEmail, models.TypeNone, false, a.tokenDuration)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// VerifyToken verifies a bearer token and resolves the caller. Every
// verification failure is normalised to [ErrTokenIsExpiredOrInvalid]; a
// triple that matches no hierarchy pattern is a server fault and is passed
// through for the boundary to report as such.
func (a *authService) VerifyToken(ctx context.Context, token string) (auth.Caller, error) {
	claims, err := a.codec.Verify(token)
	if err != nil {
		return auth.Caller{}, fmt.Errorf("%w: %w", ErrTokenIsExpiredOrInvalid, err)
	}

	caller, err := auth.Resolve(claims)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("verified token carries an inconsistent triple")
		return auth.Caller{}, fmt.Errorf("caller resolution failed: %w", err)
	}

	return caller, nil
}
