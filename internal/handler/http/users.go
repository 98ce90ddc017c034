package http

import (
	"net/http"

	"github.com/MKhiriev/bsdr/internal/utils"
	"github.com/MKhiriev/bsdr/models"
)

func (h *Handler) searchUsers(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	var filter models.UserSearchFilter
	if !decodeJSON(w, r, &filter) {
		return
	}

	users, err := h.services.User.Search(r.Context(), caller, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if users == nil {
		users = []models.User{}
	}
	utils.WriteJSON(w, models.SearchUsersResponse{Usrs: users}, http.StatusOK)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.User.Get(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	var request models.CreateUserRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.services.User.Create(r.Context(), caller, request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var request models.UpdateUserRequest
	if !decodeJSON(w, r, &request) {
		return
	}
	request.ID = id

	updated, err := h.services.User.Update(r.Context(), caller, request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, updated, http.StatusOK)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.User.Delete(r.Context(), caller, id); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.IDResponse{ID: id}, http.StatusOK)
}

func (h *Handler) hireUser(w http.ResponseWriter, r *http.Request) {
	h.setStaff(w, r, true)
}

func (h *Handler) dehireUser(w http.ResponseWriter, r *http.Request) {
	h.setStaff(w, r, false)
}

func (h *Handler) setStaff(w http.ResponseWriter, r *http.Request, hire bool) {
	caller, ok := callerFromRequest(w, r)
	if !ok {
		return
	}

	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var opErr error
	if hire {
		opErr = h.services.User.Hire(r.Context(), caller, id)
	} else {
		opErr = h.services.User.Dehire(r.Context(), caller, id)
	}
	if opErr != nil {
		writeError(w, r, opErr)
		return
	}

	utils.WriteJSON(w, models.IDResponse{ID: id}, http.StatusOK)
}
