package account

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/envelope/internal/account"
	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/http/auth"
	"github.com/MrJamesThe3rd/envelope/internal/http/response"
)

type Handler struct {
	svc *account.Service
}

func NewHandler(svc *account.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
}

// ItemRoutes mounts the single-account endpoints under /accounts/{accountID}.
func (h *Handler) ItemRoutes(r chi.Router) {
	r.Get("/", h.get)
	r.Patch("/", h.update)
	r.Post("/archive", h.archive)
}

type createAccountRequest struct {
	Name     string       `json:"name"`
	Type     account.Type `json:"type"`
	Currency string       `json:"currency"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	acc, err := h.svc.Create(r.Context(), auth.UserID(r.Context()), account.CreateParams{
		Name:     req.Name,
		Type:     req.Type,
		Currency: req.Currency,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, acc)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var archived bool

	if s := r.URL.Query().Get("archived"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			response.Error(w, r, apperr.Validation("archived must be a boolean"))
			return
		}

		archived = v
	}

	accounts, err := h.svc.List(r.Context(), auth.UserID(r.Context()), archived)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if accounts == nil {
		accounts = []*account.Account{}
	}

	response.JSON(w, http.StatusOK, accounts)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := response.IDParam(r, "accountID")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	acc, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, acc)
}

type updateAccountRequest struct {
	Name     *string       `json:"name,omitempty"`
	Type     *account.Type `json:"type,omitempty"`
	Currency *string       `json:"currency,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := response.IDParam(r, "accountID")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req updateAccountRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	acc, err := h.svc.Update(r.Context(), auth.UserID(r.Context()), id, account.UpdateParams{
		Name:     req.Name,
		Type:     req.Type,
		Currency: req.Currency,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, acc)
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	id, err := response.IDParam(r, "accountID")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	acc, err := h.svc.Archive(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, acc)
}
