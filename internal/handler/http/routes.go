package http

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, h.withRecovery)

	router.Route("/v1", func(r chi.Router) {
		// routes without authorization
		r.Group(func(r chi.Router) {
			r.Post("/auth/{apx_id}/{vdr_id}", h.login)
			r.Get("/bds/create", h.createOperatorSecret)
			r.Get("/bds/check", h.checkOperatorSecret)
			r.Get("/crypto/enc", h.encrypt)
			r.Get("/crypto/dec", h.decrypt)
			// possession of the 50-character key is the authorization
			r.Get("/crypto/vdr/{key}", h.getVendorToken)
		})

		// routes behind bearer authorization
		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Put("/crypto/vdr/{key}/{apx_id}/{vdr_id}", h.putVendorToken)

			r.Post("/usrs/search", h.searchUsers)
			r.Post("/usrs", h.createUser)
			r.Get("/usrs/{id}", h.getUser)
			r.Patch("/usrs/{id}", h.updateUser)
			r.Delete("/usrs/{id}", h.deleteUser)
			r.Post("/usrs/{id}/hire", h.hireUser)
			r.Post("/usrs/{id}/dehire", h.dehireUser)
		})
	})

	return router
}
