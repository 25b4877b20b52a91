package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/envelope/internal/account"
	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/event"
	"github.com/MrJamesThe3rd/envelope/internal/export"
	"github.com/MrJamesThe3rd/envelope/internal/store/memory"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

type fixture struct {
	ctx      context.Context
	userID   uuid.UUID
	accounts *account.Service
	txs      *transaction.Service
	svc      *export.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := memory.New()

	f := &fixture{
		ctx:      context.Background(),
		userID:   uuid.New(),
		accounts: account.NewService(st.Accounts(), event.Nop{}),
		txs:      transaction.NewService(st.LedgerTransactor(), event.Nop{}),
	}

	f.svc = export.NewService(f.accounts, f.txs, category.NewService(st.CategoryTransactor(), event.Nop{}))

	return f
}

func (f *fixture) account(t *testing.T, name string) *account.Account {
	t.Helper()

	acc, err := f.accounts.Create(f.ctx, f.userID, account.CreateParams{Name: name, Type: account.TypeChecking})
	require.NoError(t, err)

	return acc
}

func (f *fixture) spend(t *testing.T, accountID uuid.UUID, day int, label, amount string) {
	t.Helper()

	_, err := f.txs.Create(f.ctx, f.userID, accountID, transaction.CreateParams{
		Date:   time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC),
		Label:  label,
		Amount: decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
}

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()

	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)

	return records
}

func TestService_WriteAccount(t *testing.T) {
	f := newFixture(t)
	acc := f.account(t, "Main")

	_, err := f.txs.CreateInitial(f.ctx, f.userID, acc.ID, transaction.InitialParams{
		Amount: decimal.NewFromInt(100),
		Date:   new(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	f.spend(t, acc.ID, 5, "Groceries, weekly", "-40")

	var buf bytes.Buffer
	require.NoError(t, f.svc.WriteAccount(f.ctx, &buf, f.userID, acc.ID, transaction.ListFilter{}))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 3)
	assert.Equal(t, export.Header, records[0])

	var groceries []string
	for _, r := range records[1:] {
		if r[1] == "Groceries, weekly" {
			groceries = r
		}
	}

	require.NotNil(t, groceries, "quoted label survives the round trip")
	assert.Equal(t, "2024-03-05", groceries[0])
	assert.Equal(t, "-40.00", groceries[2])
	assert.Equal(t, "60.00", groceries[3])
	assert.Equal(t, string(transaction.StatusNone), groceries[5])
}

func TestService_WriteAccount_DateFilter(t *testing.T) {
	f := newFixture(t)
	acc := f.account(t, "Main")

	f.spend(t, acc.ID, 1, "early", "-1")
	f.spend(t, acc.ID, 20, "late", "-2")

	from := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, f.svc.WriteAccount(f.ctx, &buf, f.userID, acc.ID, transaction.ListFilter{DateFrom: &from}))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 2)
	assert.Equal(t, "late", records[1][1])
}

func TestService_WriteAccount_OtherUser(t *testing.T) {
	f := newFixture(t)
	acc := f.account(t, "Main")

	var buf bytes.Buffer
	err := f.svc.WriteAccount(f.ctx, &buf, uuid.New(), acc.ID, transaction.ListFilter{})

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Zero(t, buf.Len())
}

func TestService_Ledger_Pages(t *testing.T) {
	f := newFixture(t)
	acc := f.account(t, "Busy")

	n := transaction.MaxTake + 5
	for i := range n {
		f.spend(t, acc.ID, 1+i%28, fmt.Sprintf("tx %d", i), "-1")
	}

	txs, err := f.svc.Ledger(f.ctx, f.userID, acc.ID, transaction.ListFilter{Take: 10})
	require.NoError(t, err)
	assert.Len(t, txs, n)
}

func TestService_WriteArchive(t *testing.T) {
	f := newFixture(t)

	main := f.account(t, "Main")
	f.account(t, "Main")
	savings := f.account(t, "Savings / 2024")

	f.spend(t, main.ID, 3, "coffee", "-2.50")

	_, err := f.accounts.Archive(f.ctx, f.userID, savings.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.WriteArchive(f.ctx, &buf, f.userID, transaction.ListFilter{}))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var names []string
	for _, file := range zr.File {
		names = append(names, file.Name)
	}

	assert.ElementsMatch(t, []string{"Main.csv", "Main_2.csv", "Savings___2024.csv"}, names)
}

func TestFileName(t *testing.T) {
	used := map[string]int{}

	assert.Equal(t, "Conta_Ordem.csv", export.FileName(&account.Account{Name: "Conta Ordem"}, used))
	assert.Equal(t, "Conta_Ordem_2.csv", export.FileName(&account.Account{Name: "Conta/Ordem"}, used))
	assert.Equal(t, "account.csv", export.FileName(&account.Account{}, used))
}
