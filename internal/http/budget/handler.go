package budget

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/envelope/internal/budget"
	"github.com/MrJamesThe3rd/envelope/internal/http/auth"
	"github.com/MrJamesThe3rd/envelope/internal/http/response"
)

type Handler struct {
	svc *budget.Service
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the budget endpoints. {month} is a YYYY-MM key or a month id.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/months/{month}", h.getMonth)
	r.Patch("/months/{month}/categories/{categoryID}", h.updateEntry)
}

func (h *Handler) getMonth(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.GetMonth(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "month"))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, m)
}

type updateEntryRequest struct {
	Assigned  *decimal.Decimal `json:"assigned,omitempty"`
	Activity  *decimal.Decimal `json:"activity,omitempty"`
	Available *decimal.Decimal `json:"available,omitempty"`
}

func (h *Handler) updateEntry(w http.ResponseWriter, r *http.Request) {
	categoryID, err := response.IDParam(r, "categoryID")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req updateEntryRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	e, err := h.svc.UpdateEntry(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "month"), categoryID, budget.EntryPatch{
		Assigned:  req.Assigned,
		Activity:  req.Activity,
		Available: req.Available,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, e)
}
