package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/bsdr/internal/crypto"
	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/internal/store"
	"github.com/MKhiriev/bsdr/internal/validate"
	"github.com/MKhiriev/bsdr/models"
)

// operatorService is the concrete implementation of [OperatorService] over
// the rotating operator secrets.
type operatorService struct {
	operatorRepository store.OperatorRepository
	logger             *logger.Logger
}

// NewOperatorService constructs an [OperatorService].
func NewOperatorService(operators store.OperatorRepository, logger *logger.Logger) OperatorService {
	return &operatorService{
		operatorRepository: operators,
		logger:             logger,
	}
}

// CreateSecret hashes and stores a new operator secret with its validity
// window, returning the stored hash. Overlapping windows are allowed; that
// is how rotation without downtime works.
func (s *operatorService) CreateSecret(ctx context.Context, request models.OperatorSecretRequest) (string, error) {
	log := logger.FromContext(ctx)

	checker := validate.New().
		Required("password", request.Password).
		Length("password", request.Password, 8, 72).
		Required("bgn_at", request.BgnAt).
		Required("end_at", request.EndAt)

	bgnAt := checker.Datetime("bgn_at", request.BgnAt)
	endAt := checker.Datetime("end_at", request.EndAt)
	if !bgnAt.IsZero() && !endAt.IsZero() {
		checker.Must("end_at", endAt.After(bgnAt), validate.CodeRange, "end_at must be after bgn_at")
	}

	if err := checker.Err(); err != nil {
		return "", err
	}

	hash, err := crypto.HashPassword(request.Password)
	if err != nil {
		return "", fmt.Errorf("password hashing failed: %w", err)
	}

	if _, err := s.operatorRepository.Save(ctx, hash, bgnAt, endAt); err != nil {
		log.Err(err).Msg("operator secret save ended with error")
		return "", fmt.Errorf("operator secret save ended with error: %w", err)
	}

	return hash, nil
}

// CheckSecret reports whether password matches any operator secret active
// at the current instant. An empty active set is a plain false, not an
// error.
func (s *operatorService) CheckSecret(ctx context.Context, password string) (bool, error) {
	if err := validate.New().Required("password", password).Err(); err != nil {
		return false, err
	}

	hashes, err := s.operatorRepository.ActiveHashes(ctx, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrOperatorSecretNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("operator hash lookup failed: %w", err)
	}

	for _, hash := range hashes {
		if crypto.CheckPassword(hash, password) == nil {
			return true, nil
		}
	}

	return false, nil
}
