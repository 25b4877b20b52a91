package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/http/auth"
	"github.com/MrJamesThe3rd/envelope/internal/http/response"
	"github.com/MrJamesThe3rd/envelope/internal/importer"
	"github.com/MrJamesThe3rd/envelope/internal/matching"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
	matchSvc  *matching.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service, matchSvc *matching.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
		matchSvc:  matchSvc,
	}
}

// Routes mounts the import endpoints under /accounts/{accountID}/import.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

// BankRoutes lists the supported bank formats.
func (h *Handler) BankRoutes(r chi.Router) {
	r.Get("/", h.banks)
}

type transactionResponse struct {
	ID         uuid.UUID          `json:"id"`
	Date       response.Date      `json:"date"`
	Label      string             `json:"label"`
	Amount     decimal.Decimal    `json:"amount"`
	CategoryID *uuid.UUID         `json:"category_id,omitempty"`
	Status     transaction.Status `json:"status"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

type createParamsDTO struct {
	Date       response.Date      `json:"date"`
	Label      string             `json:"label"`
	Amount     decimal.Decimal    `json:"amount"`
	CategoryID *uuid.UUID         `json:"category_id,omitempty"`
	Status     transaction.Status `json:"status,omitempty"`
}

type conflictDTO struct {
	Incoming createParamsDTO     `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

func (h *Handler) banks(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, h.importSvc.Banks())
}

// importCSV parses an uploaded statement, pre-categorizes it with the
// user's rules and imports it. When some rows look like duplicates nothing
// is written and both sets are returned with 409 so the client can confirm.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	accountID, err := response.IDParam(r, "accountID")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.Error(w, r, apperr.Validation("failed to parse form: %s", err))
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		response.Error(w, r, apperr.Validation("bank field is required"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.Error(w, r, apperr.Validation("file field is required"))
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(bank, file)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	userID := auth.UserID(r.Context())

	h.matchSvc.Categorize(r.Context(), userID, params)

	result, err := h.txSvc.ImportBatch(r.Context(), userID, accountID, params)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toTxResponse(c.Existing),
			})
		}

		response.JSON(w, http.StatusConflict, resp)

		return
	}

	response.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	accountID, err := response.IDParam(r, "accountID")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req confirmRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, transaction.CreateParams{
			Date:       p.Date.Time,
			Label:      p.Label,
			Amount:     p.Amount,
			CategoryID: p.CategoryID,
			Status:     p.Status,
			Type:       transaction.TypeNone,
		})
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), auth.UserID(r.Context()), accountID, params)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, toSuccessResponse(txs))
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		responses = append(responses, toTxResponse(t))
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: responses,
	}
}

func toTxResponse(t *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:         t.ID,
		Date:       response.Date{Time: t.Date},
		Label:      t.Label,
		Amount:     t.Amount,
		CategoryID: t.CategoryID,
		Status:     t.Status,
	}
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	return createParamsDTO{
		Date:       response.Date{Time: p.Date},
		Label:      p.Label,
		Amount:     p.Amount,
		CategoryID: p.CategoryID,
		Status:     p.Status,
	}
}
