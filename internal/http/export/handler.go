package export

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/export"
	"github.com/MrJamesThe3rd/envelope/internal/http/auth"
	"github.com/MrJamesThe3rd/envelope/internal/http/response"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes serves the zip archive of every ledger.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.archive)
}

// AccountRoutes serves the CSV ledger of the account under /accounts/{accountID}.
func (h *Handler) AccountRoutes(r chi.Router) {
	r.Get("/export", h.account)
}

func dateRange(r *http.Request) (transaction.ListFilter, error) {
	var filter transaction.ListFilter

	q := r.URL.Query()

	for name, dst := range map[string]**time.Time{"date_from": &filter.DateFrom, "date_to": &filter.DateTo} {
		if s := q.Get(name); s != "" {
			t, err := response.ParseDate(s)
			if err != nil {
				return filter, apperr.Validation("%s: %s", name, err)
			}

			*dst = &t
		}
	}

	return filter, nil
}

func (h *Handler) account(w http.ResponseWriter, r *http.Request) {
	accountID, err := response.IDParam(r, "accountID")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	filter, err := dateRange(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	// Buffered so a failure halfway still gets a proper error status.
	var buf bytes.Buffer
	if err := h.svc.WriteAccount(r.Context(), &buf, auth.UserID(r.Context()), accountID, filter); err != nil {
		response.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"ledger-%s.csv\"", accountID))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	filter, err := dateRange(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.svc.WriteArchive(r.Context(), &buf, auth.UserID(r.Context()), filter); err != nil {
		response.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"ledgers-%s.zip\"", time.Now().Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
