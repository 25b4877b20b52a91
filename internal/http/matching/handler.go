package matching

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/http/auth"
	"github.com/MrJamesThe3rd/envelope/internal/http/response"
	"github.com/MrJamesThe3rd/envelope/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
	r.Delete("/{ruleID}", h.forget)
}

type suggestResponse struct {
	Label      string     `json:"label"`
	CategoryID *uuid.UUID `json:"category_id"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get("label")
	if label == "" {
		response.Error(w, r, apperr.Validation("label query parameter is required"))
		return
	}

	categoryID, err := h.svc.Suggest(r.Context(), auth.UserID(r.Context()), label)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, suggestResponse{Label: label, CategoryID: categoryID})
}

type learnRequest struct {
	Pattern    string    `json:"pattern"`
	CategoryID uuid.UUID `json:"category_id"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	rule, err := h.svc.Learn(r.Context(), auth.UserID(r.Context()), req.Pattern, req.CategoryID)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, rule)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.Rules(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if rules == nil {
		rules = []*matching.Rule{}
	}

	response.JSON(w, http.StatusOK, rules)
}

func (h *Handler) forget(w http.ResponseWriter, r *http.Request) {
	id, err := response.IDParam(r, "ruleID")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := h.svc.Forget(r.Context(), auth.UserID(r.Context()), id); err != nil {
		response.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
