package service

import "errors"

var (
	// ErrInvalidDataProvided is returned when a request body misses
	// required fields or carries malformed values. Specific field
	// violations travel as [*github.com/MKhiriev/bsdr/internal/validate.Error].
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrWrongPassword is returned when a login candidate does not match
	// the stored hash. Deliberately indistinguishable from an unknown
	// email at the API surface.
	ErrWrongPassword = errors.New("wrong password")

	// ErrAccountInactive is returned when a login targets a principal
	// outside its validity window.
	ErrAccountInactive = errors.New("account is outside its validity window")

	// ErrTokenIsExpiredOrInvalid normalises every token verification
	// failure so callers never inspect low-level JWT errors.
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	// ErrTokenCreationFailed is returned when signing a token fails.
	ErrTokenCreationFailed = errors.New("token creation failed")

	// ErrOperatorSecretRejected is returned when an X-BD secret matches
	// no operator hash active at the current instant.
	ErrOperatorSecretRejected = errors.New("operator secret rejected")
)
