package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/bsdr/internal/auth"
	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/internal/utils"
	"github.com/MKhiriev/bsdr/models"
)

// pathInt64 parses a numeric chi path parameter.
func pathInt64(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errInvalidPathParameter, name)
	}

	return value, nil
}

// decodeJSON decodes the request body into dst, answering the 400 envelope
// itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.FromRequest(r).Warn().Err(err).Msg("invalid JSON was passed")
		writeError(w, r, errInvalidJSON)
		return false
	}

	return true
}

// callerFromRequest retrieves the caller stored by the auth middleware. A
// missing caller behind the middleware is a wiring fault and answers 500.
func callerFromRequest(w http.ResponseWriter, r *http.Request) (auth.Caller, bool) {
	caller, ok := utils.GetCallerFromContext(r.Context())
	if !ok {
		logger.FromRequest(r).Error().Msg("caller missing from authorized request context")
		writeEnvelope(w, http.StatusInternalServerError, models.ErrorDetail{
			Field:   "system",
			Code:    codeUnexpected,
			Message: "unexpected error",
		})
	}

	return caller, ok
}
