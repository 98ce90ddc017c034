package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/bsdr/internal/auth"
	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/internal/service"
	"github.com/MKhiriev/bsdr/internal/store"
	"github.com/MKhiriev/bsdr/internal/utils"
	"github.com/MKhiriev/bsdr/internal/validate"
	"github.com/MKhiriev/bsdr/models"
)

// Stable envelope codes for non-field errors. Field-level validation codes
// live in the validate package.
const (
	codeUnexpected     = "E0001"
	codeDatabase       = "E0002"
	codeAuth           = "E0003"
	codeInvalidRequest = "E0005"
	codeNotFound       = "E0012"
)

// errorClass binds a sentinel error to its HTTP status and envelope code.
// The slice is matched in order; keep specific sentinels before generic ones.
type errorClass struct {
	target error
	status int
	code   string
}

var errorClasses = []errorClass{
	{service.ErrWrongPassword, http.StatusUnauthorized, codeAuth},
	{service.ErrAccountInactive, http.StatusUnauthorized, codeAuth},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized, codeAuth},
	{service.ErrOperatorSecretRejected, http.StatusUnauthorized, codeAuth},
	{ErrEmptyAuthorizationHeader, http.StatusUnauthorized, codeAuth},
	{ErrInvalidAuthorizationHeader, http.StatusUnauthorized, codeAuth},
	{ErrEmptyToken, http.StatusUnauthorized, codeAuth},

	{store.ErrCredentialOwnership, http.StatusForbidden, codeAuth},

	{store.ErrUserNotFound, http.StatusNotFound, codeNotFound},
	{store.ErrCredentialNotFound, http.StatusNotFound, codeNotFound},
	// A delete target that is neither a vendor nor an individual is
	// indistinguishable from a missing row.
	{store.ErrCascadeUnsupported, http.StatusNotFound, codeNotFound},

	{service.ErrInvalidDataProvided, http.StatusBadRequest, codeInvalidRequest},
	{store.ErrEmailAlreadyExists, http.StatusBadRequest, codeInvalidRequest},
	{errInvalidJSON, http.StatusBadRequest, codeInvalidRequest},
	{errInvalidPathParameter, http.StatusBadRequest, codeInvalidRequest},

	{store.ErrBuildingSQLQuery, http.StatusInternalServerError, codeDatabase},
	{store.ErrExecutingQuery, http.StatusInternalServerError, codeDatabase},
	{store.ErrBeginningTransaction, http.StatusInternalServerError, codeDatabase},
	{store.ErrCommitingTransaction, http.StatusInternalServerError, codeDatabase},
	{store.ErrExecutingStatement, http.StatusInternalServerError, codeDatabase},
	{store.ErrScanningRow, http.StatusInternalServerError, codeDatabase},
	{store.ErrScanningRows, http.StatusInternalServerError, codeDatabase},
}

// writeError resolves any error escaping a handler into the uniform
// {status, errors:[{field, code, message}]} envelope.
//
// Validation errors keep their per-field details with a 422 status; forbidden
// roles and vault ownership answer 403; everything unknown collapses into a
// logged 500 so internals never leak to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	var validationErr *validate.Error
	if errors.As(err, &validationErr) {
		log.Warn().Err(err).Msg("request validation failed")
		writeEnvelope(w, http.StatusUnprocessableEntity, validationErr.Details...)
		return
	}

	var forbiddenErr *auth.ForbiddenError
	if errors.As(err, &forbiddenErr) {
		log.Warn().Str("role", forbiddenErr.Role.String()).Msg("operation forbidden for role")
		writeEnvelope(w, http.StatusForbidden, models.ErrorDetail{
			Field:   "system",
			Code:    codeAuth,
			Message: forbiddenErr.Error(),
		})
		return
	}

	for _, class := range errorClasses {
		if errors.Is(err, class.target) {
			log.Warn().Err(err).Int("status", class.status).Msg("request failed")
			writeEnvelope(w, class.status, models.ErrorDetail{
				Field:   "system",
				Code:    class.code,
				Message: class.target.Error(),
			})
			return
		}
	}

	log.Err(err).Msg("unexpected error")
	writeEnvelope(w, http.StatusInternalServerError, models.ErrorDetail{
		Field:   "system",
		Code:    codeUnexpected,
		Message: "unexpected error",
	})
}

func writeEnvelope(w http.ResponseWriter, status int, details ...models.ErrorDetail) {
	utils.WriteJSON(w, models.APIError{Status: status, Errors: details}, status) //nolint:errcheck
}
