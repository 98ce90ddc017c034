package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/bsdr/internal/utils"
	"github.com/MKhiriev/bsdr/models"
)

// encrypt seals the "text" query parameter with the vault cipher.
func (h *Handler) encrypt(w http.ResponseWriter, r *http.Request) {
	encrypted, err := h.services.Vault.Encrypt(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.CryptoTextResponse{Data: encrypted}, http.StatusOK)
}

// decrypt reverses encrypt for the "text" query parameter.
func (h *Handler) decrypt(w http.ResponseWriter, r *http.Request) {
	plaintext, err := h.services.Vault.Decrypt(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.CryptoTextResponse{Data: plaintext}, http.StatusOK)
}

// putVendorToken issues and stores a long-lived vendor token under the path
// key, owned by the addressed (apx_id, vdr_id) pair.
func (h *Handler) putVendorToken(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
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

	response, err := h.services.Vault.PutVendorToken(r.Context(), caller, chi.URLParam(r, "key"), apxID, vdrID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

// getVendorToken hands back the ciphertext stored under the path key.
// Deliberately unauthenticated: the unguessable key is the credential.
func (h *Handler) getVendorToken(w http.ResponseWriter, r *http.Request) {
	response, err := h.services.Vault.GetVendorToken(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
