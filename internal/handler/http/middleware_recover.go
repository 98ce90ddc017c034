package http

import (
	"net/http"
	"runtime/debug"

	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/models"
)

// withRecovery converts a panicking handler into a logged 500 envelope. No
// unrecovered fault may cross the transport boundary.
func (h *Handler) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.FromRequest(r).Error().
					Any("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("handler panicked")

				writeEnvelope(w, http.StatusInternalServerError, models.ErrorDetail{
					Field:   "system",
					Code:    codeUnexpected,
					Message: "unexpected error",
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
