package transaction

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/http/auth"
	"github.com/MrJamesThe3rd/envelope/internal/http/response"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the per-account endpoints under /accounts/{accountID}.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions", h.list)
	r.Post("/transactions", h.create)
	r.Get("/transactions/{transactionID}", h.get)
	r.Patch("/transactions/{transactionID}", h.update)
	r.Delete("/transactions/{transactionID}", h.delete)
	r.Post("/initial", h.createInitial)
}

func (h *Handler) TransferRoutes(r chi.Router) {
	r.Post("/", h.createTransfer)
}

type createTransactionRequest struct {
	Date                response.Date      `json:"date"`
	Label               string             `json:"label"`
	Amount              decimal.Decimal    `json:"amount"`
	CategoryID          *uuid.UUID         `json:"category_id,omitempty"`
	Status              transaction.Status `json:"status,omitempty"`
	Type                transaction.Type   `json:"type,omitempty"`
	LinkedTransactionID *uuid.UUID         `json:"linked_transaction_id,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	accountID, err := response.IDParam(r, "accountID")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req createTransactionRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	t, err := h.svc.Create(r.Context(), auth.UserID(r.Context()), accountID, transaction.CreateParams{
		Date:                req.Date.Time,
		Label:               req.Label,
		Amount:              req.Amount,
		CategoryID:          req.CategoryID,
		Status:              req.Status,
		Type:                req.Type,
		LinkedTransactionID: req.LinkedTransactionID,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, toResponse(t))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accountID, err := response.IDParam(r, "accountID")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	txs, err := h.svc.List(r.Context(), auth.UserID(r.Context()), accountID, filter)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponseList(txs))
}

func parseFilter(r *http.Request) (transaction.ListFilter, error) {
	q := r.URL.Query()
	filter := transaction.ListFilter{Search: q.Get("search")}

	if s := q.Get("status"); s != "" {
		filter.Status = new(transaction.Status(s))
	}

	if s := q.Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	for name, dst := range map[string]**time.Time{"date_from": &filter.DateFrom, "date_to": &filter.DateTo} {
		if s := q.Get(name); s != "" {
			t, err := response.ParseDate(s)
			if err != nil {
				return filter, apperr.Validation("%s: %s", name, err)
			}

			*dst = &t
		}
	}

	for name, dst := range map[string]*int{"skip": &filter.Skip, "take": &filter.Take} {
		if s := q.Get(name); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return filter, apperr.Validation("%s must be an integer", name)
			}

			*dst = n
		}
	}

	return filter, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	accountID, id, err := ids(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	t, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), accountID, id)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(t))
}

type updateTransactionRequest struct {
	Date                *response.Date      `json:"date,omitempty"`
	Label               *string             `json:"label,omitempty"`
	Amount              *decimal.Decimal    `json:"amount,omitempty"`
	CategoryID          *uuid.UUID          `json:"category_id,omitempty"`
	Status              *transaction.Status `json:"status,omitempty"`
	Type                *transaction.Type   `json:"type,omitempty"`
	LinkedTransactionID *uuid.UUID          `json:"linked_transaction_id,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	accountID, id, err := ids(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req updateTransactionRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	params := transaction.UpdateParams{
		Label:               req.Label,
		Amount:              req.Amount,
		CategoryID:          req.CategoryID,
		Status:              req.Status,
		Type:                req.Type,
		LinkedTransactionID: req.LinkedTransactionID,
	}

	if req.Date != nil {
		params.Date = &req.Date.Time
	}

	t, err := h.svc.Update(r.Context(), auth.UserID(r.Context()), accountID, id, params)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	accountID, id, err := ids(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), auth.UserID(r.Context()), accountID, id); err != nil {
		response.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type createInitialRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	CategoryID *uuid.UUID      `json:"category_id,omitempty"`
	Date       *response.Date  `json:"date,omitempty"`
}

func (h *Handler) createInitial(w http.ResponseWriter, r *http.Request) {
	accountID, err := response.IDParam(r, "accountID")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req createInitialRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	params := transaction.InitialParams{Amount: req.Amount, CategoryID: req.CategoryID}
	if req.Date != nil {
		params.Date = &req.Date.Time
	}

	t, err := h.svc.CreateInitial(r.Context(), auth.UserID(r.Context()), accountID, params)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, toResponse(t))
}

type createTransferRequest struct {
	FromAccountID uuid.UUID          `json:"from_account_id"`
	ToAccountID   uuid.UUID          `json:"to_account_id"`
	Date          response.Date      `json:"date"`
	Label         string             `json:"label,omitempty"`
	Amount        decimal.Decimal    `json:"amount"`
	Status        transaction.Status `json:"status,omitempty"`
}

func (h *Handler) createTransfer(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	tr, err := h.svc.CreateTransfer(r.Context(), auth.UserID(r.Context()), transaction.TransferParams{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Date:          req.Date.Time,
		Label:         req.Label,
		Amount:        req.Amount,
		Status:        req.Status,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, transferResponse{Out: toResponse(tr.Out), In: toResponse(tr.In)})
}

func ids(r *http.Request) (accountID, id uuid.UUID, err error) {
	accountID, err = response.IDParam(r, "accountID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	id, err = response.IDParam(r, "transactionID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	return accountID, id, nil
}
