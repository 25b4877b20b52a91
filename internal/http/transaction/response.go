package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/envelope/internal/http/response"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

type transactionResponse struct {
	ID                  uuid.UUID          `json:"id"`
	AccountID           uuid.UUID          `json:"account_id"`
	Date                response.Date      `json:"date"`
	Label               string             `json:"label"`
	Amount              decimal.Decimal    `json:"amount"`
	Balance             decimal.Decimal    `json:"balance"`
	CategoryID          *uuid.UUID         `json:"category_id,omitempty"`
	Status              transaction.Status `json:"status"`
	Type                transaction.Type   `json:"type"`
	LinkedTransactionID *uuid.UUID         `json:"linked_transaction_id,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           *time.Time         `json:"updated_at,omitempty"`
}

func toResponse(t *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:                  t.ID,
		AccountID:           t.AccountID,
		Date:                response.Date{Time: t.Date},
		Label:               t.Label,
		Amount:              t.Amount,
		Balance:             t.Balance,
		CategoryID:          t.CategoryID,
		Status:              t.Status,
		Type:                t.Type,
		LinkedTransactionID: t.LinkedTransactionID,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, t := range txs {
		resp[i] = toResponse(t)
	}

	return resp
}

type transferResponse struct {
	Out transactionResponse `json:"out"`
	In  transactionResponse `json:"in"`
}
