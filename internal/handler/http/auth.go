package http

import (
	"net/http"

	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/internal/utils"
	"github.com/MKhiriev/bsdr/models"
)

// operatorSecretHeader carries the platform operator's rotating secret. A
// login request with this header bypasses the credential flow entirely.
const operatorSecretHeader = "X-BD"

// login authenticates a principal of the tier addressed by the path pair:
// 0/0 an agency, apx/0 a vendor, apx/vdr an individual. A valid X-BD header
// short-circuits into an operator token regardless of path and body.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if secret := r.Header.Get(operatorSecretHeader); secret != "" {
		token, err := h.services.Auth.OperatorLogin(ctx, secret)
		if err != nil {
			writeError(w, r, err)
			return
		}

		log.Info().Msg("operator logged in")
		utils.WriteJSON(w, models.TokenResponse{Token: token}, http.StatusOK)
		return
	}

	apxID, err := pathInt64(r, "apx_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	vdrID, err := pathInt64(r, "vdr_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var request models.LoginRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	token, err := h.services.Auth.Login(ctx, apxID, vdrID, request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Debug().Int64("apx_id", apxID).Int64("vdr_id", vdrID).Msg("user logged in")
	utils.WriteJSON(w, models.TokenResponse{Token: token}, http.StatusOK)
}
