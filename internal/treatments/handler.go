package treatments

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/animalrescue/rescue-connect/internal/httpx"
	"github.com/animalrescue/rescue-connect/internal/identity"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Group(func(r chi.Router) {
		r.Use(identity.RequireRole(identity.RoleHospital))
		r.Get("/api/treatments", h.HandleList)
		r.Post("/api/treatments", h.HandleAdmit)
		r.Patch("/api/treatments/{id}/status", h.HandleUpdateStatus)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) HandleAdmit(w http.ResponseWriter, r *http.Request) {
	var cmd AdmitCommand
	if err := httpx.DecodeJSON(w, r, &cmd); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	t, err := h.svc.Admit(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status Status `json:"status"`
	}
	if err := httpx.DecodeJSON(w, r, &payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	t, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), payload.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func writeError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.WriteError(w, http.StatusBadRequest, "missing required fields", ve.Fields...)
	case errors.Is(err, ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "processing error")
	}
}
