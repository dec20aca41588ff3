package reports

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/animalrescue/rescue-connect/internal/identity"
)

// RegisterRoutes mounts the reports API. submitLimit guards report creation.
func RegisterRoutes(r chi.Router, h *Handler, submitLimit func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(identity.RequireRole())
		r.Post("/api/triage", h.HandleTriage)
		r.With(submitLimit).Post("/api/reports", h.HandleSubmit)
		r.Get("/api/reports/mine", h.HandleMine)
	})

	r.Group(func(r chi.Router) {
		r.Use(identity.RequireRole(identity.RoleNGO))
		r.Get("/api/reports", h.HandleList)
		r.Get("/api/reports/board", h.HandleBoard)
		r.Patch("/api/reports/{id}/status", h.HandleUpdateStatus)
	})

	r.With(identity.RequireRole(identity.RoleNGO, identity.RoleHospital)).
		Get("/api/reports/{id}", h.HandleGet)
}
