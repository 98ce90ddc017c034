package http

import (
	"net/http"

	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/internal/utils"
	"github.com/MKhiriev/bsdr/models"
)

// createOperatorSecret stores a new rotating operator secret. The secret
// travels in the "bd" query parameter, its validity window in "bgn_at" and
// "end_at" (wire datetime layout).
func (h *Handler) createOperatorSecret(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	hash, err := h.services.Operator.CreateSecret(r.Context(), models.OperatorSecretRequest{
		Password: query.Get("bd"),
		BgnAt:    query.Get("bgn_at"),
		EndAt:    query.Get("end_at"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().Msg("operator secret stored")
	utils.WriteJSON(w, models.OperatorHashResponse{Hash: hash}, http.StatusOK)
}

// checkOperatorSecret reports whether the "bd" query parameter matches an
// operator secret active right now.
func (h *Handler) checkOperatorSecret(w http.ResponseWriter, r *http.Request) {
	ok, err := h.services.Operator.CheckSecret(r.Context(), r.URL.Query().Get("bd"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.OperatorCheckResponse{Ok: ok}, http.StatusOK)
}
