package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/envelope/internal/account"
	"github.com/MrJamesThe3rd/envelope/internal/budget"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/event"
	"github.com/MrJamesThe3rd/envelope/internal/export"
	apphttp "github.com/MrJamesThe3rd/envelope/internal/http"
	accountHandler "github.com/MrJamesThe3rd/envelope/internal/http/account"
	"github.com/MrJamesThe3rd/envelope/internal/http/auth"
	budgetHandler "github.com/MrJamesThe3rd/envelope/internal/http/budget"
	categoryHandler "github.com/MrJamesThe3rd/envelope/internal/http/category"
	eventsHandler "github.com/MrJamesThe3rd/envelope/internal/http/events"
	exportHandler "github.com/MrJamesThe3rd/envelope/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/envelope/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/envelope/internal/http/matching"
	"github.com/MrJamesThe3rd/envelope/internal/http/response"
	txHandler "github.com/MrJamesThe3rd/envelope/internal/http/transaction"
	"github.com/MrJamesThe3rd/envelope/internal/importer"
	"github.com/MrJamesThe3rd/envelope/internal/matching"
	"github.com/MrJamesThe3rd/envelope/internal/store/memory"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

type fixture struct {
	t      *testing.T
	router http.Handler
	authn  *auth.Authenticator
	token  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := memory.New()
	bus := event.NewBus()
	t.Cleanup(bus.Close)

	var (
		accountSvc  = account.NewService(st.Accounts(), bus)
		categorySvc = category.NewService(st.CategoryTransactor(), bus)
		budgetSvc   = budget.NewService(st.BudgetTransactor(), bus)
		txSvc       = transaction.NewService(st.LedgerTransactor(), bus)
		matchingSvc = matching.NewService(st.Rules(), st.Categories())
	)

	authn := auth.New("test-secret")

	router := apphttp.New(authn, []string{"*"}, apphttp.Handlers{
		Accounts:     accountHandler.NewHandler(accountSvc),
		Categories:   categoryHandler.NewHandler(categorySvc),
		Transactions: txHandler.NewHandler(txSvc),
		Import:       importHandler.NewHandler(importer.NewService(), txSvc, matchingSvc),
		Rules:        matchingHandler.NewHandler(matchingSvc),
		Budget:       budgetHandler.NewHandler(budgetSvc),
		Events:       eventsHandler.NewHandler(bus, 16, time.Minute),
		Export:       exportHandler.NewHandler(export.NewService(accountSvc, txSvc, categorySvc)),
	})

	f := &fixture{t: t, router: router, authn: authn}
	f.token = f.tokenFor(uuid.New())

	return f
}

func (f *fixture) tokenFor(userID uuid.UUID) string {
	token, err := f.authn.Sign(userID, time.Hour)
	require.NoError(f.t, err)

	return token
}

func (f *fixture) doAs(token, method, path string, body any) *httptest.ResponseRecorder {
	f.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+token)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	return f.doAs(f.token, method, path, body)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

type idBody struct {
	ID uuid.UUID `json:"id"`
}

func (f *fixture) createAccount(name string) uuid.UUID {
	rec := f.do(http.MethodPost, "/api/v1/accounts", map[string]any{"name": name, "type": "checking"})
	require.Equal(f.t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[idBody](f.t, rec).ID
}

func (f *fixture) createCategory(name string, parent *uuid.UUID) uuid.UUID {
	body := map[string]any{"name": name}
	if parent != nil {
		body["parent_id"] = parent
	}

	rec := f.do(http.MethodPost, "/api/v1/categories", body)
	require.Equal(f.t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[idBody](f.t, rec).ID
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LedgerAndBudget(t *testing.T) {
	f := newFixture(t)

	accountID := f.createAccount("Checking")
	food := f.createCategory("Food", nil)
	groceries := f.createCategory("Groceries", &food)

	base := "/api/v1/accounts/" + accountID.String()

	rec := f.do(http.MethodPost, base+"/initial", map[string]any{"amount": "100", "date": "2024-01-01"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPost, base+"/transactions", map[string]any{
		"date":        "2024-01-15",
		"label":       "Market",
		"amount":      "-40",
		"category_id": groceries,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	type txBody struct {
		ID      uuid.UUID       `json:"id"`
		Date    string          `json:"date"`
		Balance decimal.Decimal `json:"balance"`
	}

	created := decode[txBody](t, rec)
	assert.Equal(t, "2024-01-15", created.Date)
	assertDecimal(t, "60.00", created.Balance)

	rec = f.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assertDecimal(t, "60.00", decode[account.Account](t, rec).CurrentBalance)

	rec = f.do(http.MethodGet, base+"/transactions?take=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]txBody](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, created.ID, list[0].ID)
	assertDecimal(t, "100.00", list[1].Balance)

	rec = f.do(http.MethodGet, "/api/v1/budget/months/2024-01", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	month := decode[budget.Month](t, rec)
	require.Len(t, month.Groups, 1)
	require.Len(t, month.Groups[0].Entries, 1)
	assertDecimal(t, "-40.00", month.Groups[0].Entries[0].Activity)

	rec = f.do(http.MethodPatch, "/api/v1/budget/months/2024-01/categories/"+groceries.String(), map[string]any{"assigned": "100"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	entry := decode[budget.Entry](t, rec)
	assertDecimal(t, "100.00", entry.Assigned)
	assertDecimal(t, "60.00", entry.Available)

	rec = f.do(http.MethodDelete, base+"/transactions/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodGet, base, nil)
	assertDecimal(t, "100.00", decode[account.Account](t, rec).CurrentBalance)
}

func TestRouter_Errors(t *testing.T) {
	f := newFixture(t)

	accountID := f.createAccount("Checking")
	base := "/api/v1/accounts/" + accountID.String()

	rec := f.do(http.MethodPost, base+"/initial", map[string]any{"amount": "10", "date": "2024-01-01"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	tests := []struct {
		name       string
		token      string
		method     string
		path       string
		body       any
		wantStatus int
		wantKind   string
	}{
		{
			name:       "UnknownAccount",
			method:     http.MethodGet,
			path:       "/api/v1/accounts/" + uuid.NewString(),
			wantStatus: http.StatusNotFound,
			wantKind:   "not_found",
		},
		{
			name:       "OtherUsersAccount",
			token:      f.tokenFor(uuid.New()),
			method:     http.MethodGet,
			path:       base,
			wantStatus: http.StatusNotFound,
			wantKind:   "not_found",
		},
		{
			name:       "SecondInitial",
			method:     http.MethodPost,
			path:       base + "/initial",
			body:       map[string]any{"amount": "5"},
			wantStatus: http.StatusConflict,
			wantKind:   "already_exists",
		},
		{
			name:       "InitialViaCreate",
			method:     http.MethodPost,
			path:       base + "/transactions",
			body:       map[string]any{"date": "2024-01-02", "label": "x", "amount": "1", "type": "INITIAL"},
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "validation_failed",
		},
		{
			name:       "BadMonthKey",
			method:     http.MethodGet,
			path:       "/api/v1/budget/months/2024-13",
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "validation_failed",
		},
		{
			name:       "TakeTooLarge",
			method:     http.MethodGet,
			path:       base + "/transactions?take=500",
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "validation_failed",
		},
		{
			name:       "UnknownField",
			method:     http.MethodPost,
			path:       "/api/v1/accounts",
			body:       map[string]any{"name": "x", "colour": "red"},
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "validation_failed",
		},
		{
			name:       "MalformedID",
			method:     http.MethodGet,
			path:       "/api/v1/categories/not-a-uuid",
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "validation_failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := tt.token
			if token == "" {
				token = f.token
			}

			rec := f.doAs(token, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantKind, decode[response.ErrorBody](t, rec).Kind)
		})
	}
}

func TestRouter_Transfer(t *testing.T) {
	f := newFixture(t)

	from := f.createAccount("Checking")
	to := f.createAccount("Savings")

	rec := f.do(http.MethodPost, "/api/v1/transfers", map[string]any{
		"from_account_id": from,
		"to_account_id":   to,
		"date":            "2024-03-01",
		"amount":          "25",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(http.MethodGet, "/api/v1/accounts/"+to.String(), nil)
	assertDecimal(t, "25.00", decode[account.Account](t, rec).CurrentBalance)

	rec = f.do(http.MethodGet, "/api/v1/accounts/"+from.String(), nil)
	assertDecimal(t, "-25.00", decode[account.Account](t, rec).CurrentBalance)
}

func TestRouter_Export(t *testing.T) {
	f := newFixture(t)

	acc := f.createAccount("Checking")

	rec := f.do(http.MethodPost, "/api/v1/accounts/"+acc.String()+"/transactions", map[string]any{
		"date":   "2024-03-02",
		"label":  "bakery",
		"amount": "-3.20",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(http.MethodGet, "/api/v1/accounts/"+acc.String()+"/export?date_from=2024-03-01", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "2024-03-02,bakery,-3.20,-3.20")

	rec = f.do(http.MethodGet, "/api/v1/accounts/"+acc.String()+"/export?date_from=yesterday", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.doAs(f.tokenFor(uuid.New()), http.MethodGet, "/api/v1/accounts/"+acc.String()+"/export", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/export", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
}

func (f *fixture) upload(accountID uuid.UUID, csv string) *httptest.ResponseRecorder {
	f.t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	require.NoError(f.t, mw.WriteField("bank", string(importer.BankCGD)))

	part, err := mw.CreateFormFile("file", "statement.csv")
	require.NoError(f.t, err)

	_, err = part.Write([]byte(csv))
	require.NoError(f.t, err)
	require.NoError(f.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/"+accountID.String()+"/import", &buf)
	req.Header.Set("Authorization", "Bearer "+f.token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func TestRouter_ImportWithRules(t *testing.T) {
	f := newFixture(t)

	accountID := f.createAccount("Checking")
	food := f.createCategory("Food", nil)
	coffee := f.createCategory("Coffee", &food)

	rec := f.do(http.MethodPost, "/api/v1/rules", map[string]any{"pattern": "cafe", "category_id": coffee})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(http.MethodGet, "/api/v1/rules/suggest?label=CAFE+CENTRAL", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	type suggestion struct {
		CategoryID *uuid.UUID `json:"category_id"`
	}

	got := decode[suggestion](t, rec)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, coffee, *got.CategoryID)

	csv := "Data mov.;Descrição;Montante\n30-01-2026;CAFE CENTRAL;-2,50\n29-01-2026;SALARIO;1.000,00\n"

	rec = f.upload(accountID, csv)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	type imported struct {
		Imported     int `json:"imported"`
		Transactions []struct {
			Label      string     `json:"label"`
			CategoryID *uuid.UUID `json:"category_id"`
		} `json:"transactions"`
	}

	res := decode[imported](t, rec)
	require.Equal(t, 2, res.Imported)

	for _, tx := range res.Transactions {
		if tx.Label == "CAFE CENTRAL" {
			require.NotNil(t, tx.CategoryID)
			assert.Equal(t, coffee, *tx.CategoryID)
		} else {
			assert.Nil(t, tx.CategoryID)
		}
	}

	rec = f.upload(accountID, csv)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	type conflicts struct {
		New       []any `json:"new"`
		Conflicts []any `json:"conflicts"`
	}

	c := decode[conflicts](t, rec)
	assert.Empty(t, c.New)
	assert.Len(t, c.Conflicts, 2)

	rec = f.do(http.MethodPost, "/api/v1/accounts/"+accountID.String()+"/import/confirm", map[string]any{
		"params": []map[string]any{{"date": "2026-01-30", "label": "CAFE CENTRAL", "amount": "-2.50"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(http.MethodGet, "/api/v1/accounts/"+accountID.String(), nil)
	assertDecimal(t, "995.00", decode[account.Account](t, rec).CurrentBalance)
}

func TestRouter_EventStream(t *testing.T) {
	f := newFixture(t)

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events?access_token="+f.token, nil)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	other := f.tokenFor(uuid.New())
	rec := f.doAs(other, http.MethodPost, "/api/v1/accounts", map[string]any{"name": "Theirs", "type": "cash"})
	require.Equal(t, http.StatusCreated, rec.Code)

	f.createAccount("Mine")

	scanner := bufio.NewScanner(resp.Body)

	var name, data string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}

		if data != "" {
			break
		}
	}

	assert.Equal(t, event.AccountCreated, name)
	assert.Contains(t, data, `"name":"Mine"`)
	assert.NotContains(t, data, "Theirs")
}
