package reports

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/animalrescue/rescue-connect/internal/httpx"
	"github.com/animalrescue/rescue-connect/internal/identity"
	"github.com/animalrescue/rescue-connect/internal/triage"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// HandleTriage classifies without saving anything.
func (h *Handler) HandleTriage(w http.ResponseWriter, r *http.Request) {
	caller, _ := identity.FromContext(r.Context())

	var sub Submission
	if err := httpx.DecodeJSON(w, r, &sub); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	v, err := h.svc.Preview(r.Context(), sub, caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

// HandleSubmit handles the "Report an Animal in Need" form.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	caller, _ := identity.FromContext(r.Context())

	var sub Submission
	if err := httpx.DecodeJSON(w, r, &sub); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	rep, err := h.svc.Submit(r.Context(), sub, caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, rep)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) HandleMine(w http.ResponseWriter, r *http.Request) {
	caller, _ := identity.FromContext(r.Context())

	list, err := h.svc.ListByUser(r.Context(), caller.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Board(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rep, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rep)
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status Status `json:"status"`
	}
	if err := httpx.DecodeJSON(w, r, &payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	rep, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), payload.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rep)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var (
		ve *triage.ValidationError
		be *triage.BackendUnavailableError
		se *triage.SchemaValidationError
	)
	switch {
	case errors.As(err, &ve):
		httpx.WriteError(w, http.StatusBadRequest, "missing required fields", ve.Fields...)
	case errors.As(err, &be):
		httpx.WriteError(w, http.StatusServiceUnavailable, "triage service is unavailable, please resubmit")
	case errors.As(err, &se):
		httpx.WriteError(w, http.StatusBadGateway, "triage service returned an invalid answer, please resubmit")
	case errors.Is(err, ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "processing error")
	}
}
