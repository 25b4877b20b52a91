package transaction

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/envelope/internal/account"
	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/budget"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/event"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, t *Transaction) error
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, t *Transaction) error
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error

	ListTransactions(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error)
	// ListLedger returns every transaction of the account ordered by date,
	// then creation time.
	ListLedger(ctx context.Context, userID, accountID uuid.UUID) ([]*Transaction, error)
	FindInitial(ctx context.Context, userID, accountID uuid.UUID) (*Transaction, error)
	FindDuplicates(ctx context.Context, userID, accountID uuid.UUID, params []CreateParams) ([]*Transaction, error)
}

type AccountRepository interface {
	GetAccount(ctx context.Context, userID, id uuid.UUID) (*account.Account, error)
	GetAccountForUpdate(ctx context.Context, userID, id uuid.UUID) (*account.Account, error)
	UpdateBalances(ctx context.Context, a *account.Account) error
}

type CategoryRepository interface {
	GetCategory(ctx context.Context, userID, id uuid.UUID) (*category.Category, error)
	CreateCategory(ctx context.Context, c *category.Category) error
	FindSystemCategory(ctx context.Context, userID uuid.UUID, kind category.Kind) (*category.Category, error)
}

// Stores are the repositories of one unit of work.
type Stores struct {
	Transactions Repository
	Accounts     AccountRepository
	Categories   CategoryRepository
	Budget       budget.Repository
}

// Transactor runs fn inside a single unit of work spanning all Stores.
type Transactor interface {
	InTx(ctx context.Context, fn func(st Stores) error) error
}

type Service struct {
	tx     Transactor
	events event.Publisher
	now    func() time.Time
}

func NewService(tx Transactor, events event.Publisher) *Service {
	return &Service{tx: tx, events: events, now: time.Now}
}

type CreateParams struct {
	Date                time.Time
	Label               string
	Amount              decimal.Decimal
	CategoryID          *uuid.UUID
	Status              Status
	Type                Type
	LinkedTransactionID *uuid.UUID
}

// UpdateParams patches a transaction. A CategoryID or LinkedTransactionID
// pointing at uuid.Nil clears the field.
type UpdateParams struct {
	Date                *time.Time
	Label               *string
	Amount              *decimal.Decimal
	CategoryID          *uuid.UUID
	Status              *Status
	Type                *Type
	LinkedTransactionID *uuid.UUID
}

type InitialParams struct {
	Amount     decimal.Decimal
	CategoryID *uuid.UUID
	Date       *time.Time
}

type TransferParams struct {
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Date          time.Time
	Label         string
	Amount        decimal.Decimal
	Status        Status
}

// Transfer holds the two legs of a transfer.
type Transfer struct {
	Out *Transaction `json:"out"`
	In  *Transaction `json:"in"`
}

const (
	DefaultTake = 50
	MaxTake     = 200
)

type ListFilter struct {
	AccountID uuid.UUID
	DateFrom  *time.Time
	DateTo    *time.Time
	Search    string
	Status    *Status
	Type      *Type
	Skip      int
	Take      int
}

// mutation gathers what a unit of work changed, for publishing after commit.
// Partners relinked or unlinked along the way count as updated.
type mutation struct {
	accounts []*account.Account
	created  []*Transaction
	updated  []*Transaction
	deleted  []*Transaction
	budget   *budget.ChangeSet
}

func (m *mutation) publish(p event.Publisher) {
	for _, a := range m.accounts {
		p.Notify(event.AccountUpdated, a)
	}

	for _, t := range m.created {
		p.Notify(event.TransactionCreated, t)
	}

	for _, t := range m.updated {
		p.Notify(event.TransactionUpdated, t)
	}

	for _, t := range m.deleted {
		p.Notify(event.TransactionDeleted, t)
	}

	if m.budget != nil {
		m.budget.Publish(p)
	}
}

func (s *Service) Create(ctx context.Context, userID, accountID uuid.UUID, params CreateParams) (*Transaction, error) {
	if err := validateCreate(&params); err != nil {
		return nil, err
	}

	m := &mutation{}

	err := s.tx.InTx(ctx, func(st Stores) error {
		if _, err := st.Accounts.GetAccountForUpdate(ctx, userID, accountID); err != nil {
			return err
		}

		t, err := s.create(ctx, st, m, userID, accountID, params)
		if err != nil {
			return err
		}

		return s.settle(ctx, st, userID, m, []uuid.UUID{accountID}, []*Transaction{t})
	})
	if err != nil {
		return nil, err
	}

	m.publish(s.events)

	return m.created[0], nil
}

// create validates the references of params and inserts the transaction,
// linking the partner back when a link is given.
func (s *Service) create(ctx context.Context, st Stores, m *mutation, userID, accountID uuid.UUID, params CreateParams) (*Transaction, error) {
	if params.CategoryID != nil {
		if err := checkCategory(ctx, st, userID, *params.CategoryID); err != nil {
			return nil, err
		}
	}

	var partner *Transaction

	if params.LinkedTransactionID != nil {
		p, err := checkPartner(ctx, st, userID, uuid.Nil, *params.LinkedTransactionID)
		if err != nil {
			return nil, err
		}

		partner = p
	}

	t := &Transaction{
		UserID:              userID,
		AccountID:           accountID,
		Date:                params.Date,
		Label:               params.Label,
		Amount:              params.Amount,
		CategoryID:          params.CategoryID,
		Status:              params.Status,
		Type:                params.Type,
		LinkedTransactionID: params.LinkedTransactionID,
	}
	if err := st.Transactions.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}

	m.created = append(m.created, t)

	if partner != nil {
		partner.LinkedTransactionID = &t.ID
		if err := st.Transactions.UpdateTransaction(ctx, partner); err != nil {
			return nil, fmt.Errorf("linking partner transaction: %w", err)
		}

		m.updated = append(m.updated, partner)
	}

	return t, nil
}

// CreateInitial records the opening balance of an account. An account has
// at most one initial transaction.
func (s *Service) CreateInitial(ctx context.Context, userID, accountID uuid.UUID, params InitialParams) (*Transaction, error) {
	date := Day(s.now())
	if params.Date != nil {
		date = Day(*params.Date)
	}

	m := &mutation{}

	err := s.tx.InTx(ctx, func(st Stores) error {
		if _, err := st.Accounts.GetAccountForUpdate(ctx, userID, accountID); err != nil {
			return err
		}

		_, err := st.Transactions.FindInitial(ctx, userID, accountID)
		if err == nil {
			return apperr.Conflict("account already has an initial transaction")
		}

		if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}

		categoryID := params.CategoryID
		if categoryID != nil {
			if _, err := st.Categories.GetCategory(ctx, userID, *categoryID); err != nil {
				return err
			}
		} else {
			c, err := category.EnsureSystemCategory(ctx, st.Categories, userID, category.KindInitial)
			if err != nil {
				return err
			}

			categoryID = &c.ID
		}

		t := &Transaction{
			UserID:     userID,
			AccountID:  accountID,
			Date:       date,
			Label:      InitialLabel,
			Amount:     params.Amount,
			CategoryID: categoryID,
			Status:     StatusReconciled,
			Type:       TypeInitial,
		}
		if err := st.Transactions.CreateTransaction(ctx, t); err != nil {
			return err
		}

		m.created = append(m.created, t)

		return s.settle(ctx, st, userID, m, []uuid.UUID{accountID}, []*Transaction{t})
	})
	if err != nil {
		return nil, err
	}

	m.publish(s.events)

	return m.created[0], nil
}

// CreateTransfer moves money between two accounts of the user as a pair of
// linked TRANSFER transactions.
func (s *Service) CreateTransfer(ctx context.Context, userID uuid.UUID, params TransferParams) (*Transfer, error) {
	if params.FromAccountID == params.ToAccountID {
		return nil, apperr.Validation("cannot transfer to the same account")
	}

	if !params.Amount.IsPositive() {
		return nil, apperr.Validation("transfer amount must be positive")
	}

	if params.Date.IsZero() {
		return nil, apperr.Validation("date is required")
	}

	if params.Status == "" {
		params.Status = StatusNone
	}

	if !params.Status.Valid() {
		return nil, apperr.Validation("unknown status %q", params.Status)
	}

	label := strings.TrimSpace(params.Label)
	if label == "" {
		label = TransferLabel
	}

	m := &mutation{}

	err := s.tx.InTx(ctx, func(st Stores) error {
		first, second := params.FromAccountID, params.ToAccountID
		if strings.Compare(first.String(), second.String()) > 0 {
			first, second = second, first
		}

		for _, id := range []uuid.UUID{first, second} {
			if _, err := st.Accounts.GetAccountForUpdate(ctx, userID, id); err != nil {
				return err
			}
		}

		c, err := category.EnsureSystemCategory(ctx, st.Categories, userID, category.KindTransfer)
		if err != nil {
			return err
		}

		out := &Transaction{
			UserID:     userID,
			AccountID:  params.FromAccountID,
			Date:       Day(params.Date),
			Label:      label,
			Amount:     params.Amount.Neg(),
			CategoryID: &c.ID,
			Status:     params.Status,
			Type:       TypeTransfer,
		}
		if err := st.Transactions.CreateTransaction(ctx, out); err != nil {
			return err
		}

		in := &Transaction{
			UserID:              userID,
			AccountID:           params.ToAccountID,
			Date:                Day(params.Date),
			Label:               label,
			Amount:              params.Amount,
			CategoryID:          &c.ID,
			Status:              params.Status,
			Type:                TypeTransfer,
			LinkedTransactionID: &out.ID,
		}
		if err := st.Transactions.CreateTransaction(ctx, in); err != nil {
			return err
		}

		out.LinkedTransactionID = &in.ID
		if err := st.Transactions.UpdateTransaction(ctx, out); err != nil {
			return fmt.Errorf("linking transfer legs: %w", err)
		}

		m.created = append(m.created, out, in)

		return s.settle(ctx, st, userID, m, []uuid.UUID{params.FromAccountID, params.ToAccountID}, []*Transaction{out, in})
	})
	if err != nil {
		return nil, err
	}

	m.publish(s.events)

	return &Transfer{Out: m.created[0], In: m.created[1]}, nil
}

func (s *Service) Get(ctx context.Context, userID, accountID, id uuid.UUID) (*Transaction, error) {
	var t *Transaction

	err := s.tx.InTx(ctx, func(st Stores) error {
		var err error

		t, err = getOnAccount(ctx, st, userID, accountID, id)
		if err != nil {
			return err
		}

		ledger, err := st.Transactions.ListLedger(ctx, userID, accountID)
		if err != nil {
			return err
		}

		t.Balance = RunningBalances(ledger)[t.ID]

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

// List returns a page of the account's transactions, newest first, each
// with its running balance.
func (s *Service) List(ctx context.Context, userID, accountID uuid.UUID, filter ListFilter) ([]*Transaction, error) {
	if filter.Take == 0 {
		filter.Take = DefaultTake
	}

	if filter.Take < 0 || filter.Take > MaxTake {
		return nil, apperr.Validation("take must be between 1 and %d", MaxTake)
	}

	if filter.Skip < 0 {
		return nil, apperr.Validation("skip must not be negative")
	}

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperr.Validation("unknown status %q", *filter.Status)
	}

	if filter.Type != nil && !filter.Type.Valid() {
		return nil, apperr.Validation("unknown type %q", *filter.Type)
	}

	filter.AccountID = accountID
	filter.Search = strings.TrimSpace(filter.Search)

	var txs []*Transaction

	err := s.tx.InTx(ctx, func(st Stores) error {
		if _, err := st.Accounts.GetAccount(ctx, userID, accountID); err != nil {
			return err
		}

		var err error

		txs, err = st.Transactions.ListTransactions(ctx, userID, filter)
		if err != nil {
			return err
		}

		ledger, err := st.Transactions.ListLedger(ctx, userID, accountID)
		if err != nil {
			return err
		}

		balances := RunningBalances(ledger)
		for _, t := range txs {
			t.Balance = balances[t.ID]
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return txs, nil
}

// Update applies params to a transaction. On an INITIAL transaction only
// date, amount and status may change; no transaction becomes INITIAL.
func (s *Service) Update(ctx context.Context, userID, accountID, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	var updated *Transaction

	m := &mutation{}

	err := s.tx.InTx(ctx, func(st Stores) error {
		if _, err := st.Accounts.GetAccountForUpdate(ctx, userID, accountID); err != nil {
			return err
		}

		t, err := getOnAccount(ctx, st, userID, accountID, id)
		if err != nil {
			return err
		}

		before := *t

		if t.Type == TypeInitial {
			err = checkInitialPatch(t, params)
		} else {
			err = s.applyLinkPatch(ctx, st, m, userID, t, params)
		}

		if err != nil {
			return err
		}

		if err := s.applyPatch(ctx, st, userID, t, params); err != nil {
			return err
		}

		if err := st.Transactions.UpdateTransaction(ctx, t); err != nil {
			return err
		}

		m.updated = append(m.updated, t)
		updated = t

		return s.settle(ctx, st, userID, m, []uuid.UUID{accountID}, []*Transaction{&before, t})
	})
	if err != nil {
		return nil, err
	}

	m.publish(s.events)

	return updated, nil
}

func checkInitialPatch(t *Transaction, params UpdateParams) error {
	if params.Label != nil && *params.Label != t.Label {
		return apperr.Validation("the label of an initial transaction cannot change")
	}

	if params.CategoryID != nil && !sameRef(t.CategoryID, *params.CategoryID) {
		return apperr.Validation("the category of an initial transaction cannot change")
	}

	if params.Type != nil && *params.Type != TypeInitial {
		return apperr.Validation("the type of an initial transaction cannot change")
	}

	if params.LinkedTransactionID != nil && !sameRef(t.LinkedTransactionID, *params.LinkedTransactionID) {
		return apperr.Validation("an initial transaction cannot be linked")
	}

	return nil
}

// sameRef reports whether the optional reference cur equals the patch
// value next, where uuid.Nil stands for no reference.
func sameRef(cur *uuid.UUID, next uuid.UUID) bool {
	if cur == nil {
		return next == uuid.Nil
	}

	return *cur == next
}

func (s *Service) applyPatch(ctx context.Context, st Stores, userID uuid.UUID, t *Transaction, params UpdateParams) error {
	if params.Type != nil {
		if !params.Type.Valid() {
			return apperr.Validation("unknown type %q", *params.Type)
		}

		if *params.Type == TypeInitial && t.Type != TypeInitial {
			return apperr.Validation("a transaction cannot become an initial transaction")
		}

		t.Type = *params.Type
	}

	if params.Status != nil {
		if !params.Status.Valid() {
			return apperr.Validation("unknown status %q", *params.Status)
		}

		t.Status = *params.Status
	}

	if params.Date != nil {
		if params.Date.IsZero() {
			return apperr.Validation("date is required")
		}

		t.Date = Day(*params.Date)
	}

	if params.Amount != nil {
		t.Amount = *params.Amount
	}

	if params.Label != nil {
		label := strings.TrimSpace(*params.Label)
		if label == "" {
			return apperr.Validation("label is required")
		}

		t.Label = label
	}

	if params.CategoryID != nil && !sameRef(t.CategoryID, *params.CategoryID) {
		if *params.CategoryID == uuid.Nil {
			t.CategoryID = nil
		} else {
			if err := checkCategory(ctx, st, userID, *params.CategoryID); err != nil {
				return err
			}

			t.CategoryID = new(*params.CategoryID)
		}
	}

	return nil
}

// applyLinkPatch moves the link of t to a new partner, unlinking the old one.
func (s *Service) applyLinkPatch(ctx context.Context, st Stores, m *mutation, userID uuid.UUID, t *Transaction, params UpdateParams) error {
	if params.LinkedTransactionID == nil || sameRef(t.LinkedTransactionID, *params.LinkedTransactionID) {
		return nil
	}

	var partner *Transaction

	if *params.LinkedTransactionID != uuid.Nil {
		p, err := checkPartner(ctx, st, userID, t.ID, *params.LinkedTransactionID)
		if err != nil {
			return err
		}

		partner = p
	}

	if err := unlinkPartner(ctx, st, m, userID, t); err != nil {
		return err
	}

	t.LinkedTransactionID = nil

	if partner != nil {
		partner.LinkedTransactionID = &t.ID
		if err := st.Transactions.UpdateTransaction(ctx, partner); err != nil {
			return fmt.Errorf("linking partner transaction: %w", err)
		}

		m.updated = append(m.updated, partner)
		t.LinkedTransactionID = &partner.ID
	}

	return nil
}

// Delete removes a transaction. Initial transactions cannot be deleted.
func (s *Service) Delete(ctx context.Context, userID, accountID, id uuid.UUID) error {
	m := &mutation{}

	err := s.tx.InTx(ctx, func(st Stores) error {
		if _, err := st.Accounts.GetAccountForUpdate(ctx, userID, accountID); err != nil {
			return err
		}

		t, err := getOnAccount(ctx, st, userID, accountID, id)
		if err != nil {
			return err
		}

		if t.Type == TypeInitial {
			return apperr.Validation("an initial transaction cannot be deleted")
		}

		if err := unlinkPartner(ctx, st, m, userID, t); err != nil {
			return err
		}

		if err := st.Transactions.DeleteTransaction(ctx, userID, t.ID); err != nil {
			return err
		}

		m.deleted = append(m.deleted, t)

		return s.settle(ctx, st, userID, m, []uuid.UUID{accountID}, []*Transaction{t})
	})
	if err != nil {
		return err
	}

	m.publish(s.events)

	return nil
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

// ImportBatch creates params on the account unless some of them already
// exist with the same date, amount and label. When they do, nothing is
// written and the conflicts are returned for review.
func (s *Service) ImportBatch(ctx context.Context, userID, accountID uuid.UUID, params []CreateParams) (*ImportResult, error) {
	return s.importBatch(ctx, userID, accountID, params, true)
}

// CreateBatch creates params on the account without duplicate detection.
func (s *Service) CreateBatch(ctx context.Context, userID, accountID uuid.UUID, params []CreateParams) ([]*Transaction, error) {
	res, err := s.importBatch(ctx, userID, accountID, params, false)
	if err != nil {
		return nil, err
	}

	return res.Imported, nil
}

func (s *Service) importBatch(ctx context.Context, userID, accountID uuid.UUID, params []CreateParams, detect bool) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	for i := range params {
		if params[i].Type == TypeTransfer || params[i].LinkedTransactionID != nil {
			return nil, apperr.Validation("imported transactions cannot be transfers")
		}

		if err := validateCreate(&params[i]); err != nil {
			return nil, err
		}
	}

	res := &ImportResult{}
	m := &mutation{}

	err := s.tx.InTx(ctx, func(st Stores) error {
		if _, err := st.Accounts.GetAccountForUpdate(ctx, userID, accountID); err != nil {
			return fmt.Errorf("begin import: %w", err)
		}

		if detect {
			duplicates, err := st.Transactions.FindDuplicates(ctx, userID, accountID, params)
			if err != nil {
				return fmt.Errorf("find duplicates: %w", err)
			}

			res.New, res.Conflicts = splitDuplicates(params, duplicates)
			if len(res.Conflicts) > 0 {
				return nil
			}
		}

		for _, p := range params {
			if _, err := s.create(ctx, st, m, userID, accountID, p); err != nil {
				return fmt.Errorf("create transactions: %w", err)
			}
		}

		return s.settle(ctx, st, userID, m, []uuid.UUID{accountID}, m.created)
	})
	if err != nil {
		return nil, err
	}

	if len(res.Conflicts) > 0 {
		return res, nil
	}

	m.publish(s.events)

	return &ImportResult{Imported: m.created}, nil
}

type dupKey struct {
	Date   string
	Amount string
	Label  string
}

func keyOf(date time.Time, amount decimal.Decimal, label string) dupKey {
	return dupKey{
		Date:   date.Format(time.DateOnly),
		Amount: amount.StringFixed(2),
		Label:  label,
	}
}

func splitDuplicates(params []CreateParams, duplicates []*Transaction) ([]CreateParams, []Conflict) {
	lookup := make(map[dupKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[keyOf(d.Date, d.Amount, d.Label)] = d
	}

	var (
		fresh     []CreateParams
		conflicts []Conflict
	)

	for _, p := range params {
		existing, found := lookup[keyOf(p.Date, p.Amount, p.Label)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		fresh = append(fresh, p)
	}

	return fresh, conflicts
}

// settle recomputes the balances of accountIDs and the budget months
// touched by txs, recording the results in m. The created and updated rows
// of m get their running balance.
func (s *Service) settle(ctx context.Context, st Stores, userID uuid.UUID, m *mutation, accountIDs []uuid.UUID, txs []*Transaction) error {
	for _, id := range accountIDs {
		a, err := recomputeAccount(ctx, st, userID, id)
		if err != nil {
			return err
		}

		m.accounts = append(m.accounts, a)
	}

	var months []time.Time

	for _, t := range txs {
		ms, err := affectedMonths(ctx, st, userID, t)
		if err != nil {
			return err
		}

		months = append(months, ms...)
	}

	cs, err := budget.RecalculateFrom(ctx, st.Budget, userID, months...)
	if err != nil {
		return fmt.Errorf("recalculating budget: %w", err)
	}

	m.budget = cs

	return fillBalances(ctx, st, userID, slices.Concat(m.created, m.updated))
}

// fillBalances sets the running balance of every transaction in txs, loading
// each account's ledger once.
func fillBalances(ctx context.Context, st Stores, userID uuid.UUID, txs []*Transaction) error {
	byAccount := make(map[uuid.UUID]map[uuid.UUID]decimal.Decimal)

	for _, t := range txs {
		balances, ok := byAccount[t.AccountID]
		if !ok {
			ledger, err := st.Transactions.ListLedger(ctx, userID, t.AccountID)
			if err != nil {
				return fmt.Errorf("loading ledger: %w", err)
			}

			balances = RunningBalances(ledger)
			byAccount[t.AccountID] = balances
		}

		t.Balance = balances[t.ID]
	}

	return nil
}

// recomputeAccount derives the balances of the account from its full ledger.
func recomputeAccount(ctx context.Context, st Stores, userID, accountID uuid.UUID) (*account.Account, error) {
	a, err := st.Accounts.GetAccountForUpdate(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	ledger, err := st.Transactions.ListLedger(ctx, userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	b := ComputeBalances(ledger)

	a.InitialBalance = decimal.Zero
	for _, t := range ledger {
		if t.Type == TypeInitial {
			a.InitialBalance = t.Amount
			break
		}
	}

	a.CurrentBalance = b.Current
	a.PointedBalance = b.Pointed
	a.ReconciledBalance = b.Reconciled

	if err := st.Accounts.UpdateBalances(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

// affectedMonths returns the budget months whose figures depend on t: its
// own month, and the previous one for income counted a month early.
func affectedMonths(ctx context.Context, st Stores, userID uuid.UUID, t *Transaction) ([]time.Time, error) {
	months := []time.Time{budget.StartOfMonth(t.Date)}

	if t.CategoryID == nil {
		return months, nil
	}

	c, err := st.Categories.GetCategory(ctx, userID, *t.CategoryID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return months, nil
		}

		return nil, err
	}

	if c.Kind == category.KindIncomePlusOne {
		months = append(months, budget.StartOfMonth(t.Date).AddDate(0, -1, 0))
	}

	return months, nil
}

func getOnAccount(ctx context.Context, st Stores, userID, accountID, id uuid.UUID) (*Transaction, error) {
	t, err := st.Transactions.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if t.AccountID != accountID {
		return nil, ErrNotFound
	}

	return t, nil
}

func checkCategory(ctx context.Context, st Stores, userID, id uuid.UUID) error {
	c, err := st.Categories.GetCategory(ctx, userID, id)
	if err != nil {
		return err
	}

	if c.Kind == category.KindInitial {
		return apperr.Validation("the %s category is reserved for initial transactions", c.Name)
	}

	return nil
}

// checkPartner loads the transaction self wants to link to.
func checkPartner(ctx context.Context, st Stores, userID, self, id uuid.UUID) (*Transaction, error) {
	if id == self {
		return nil, apperr.Validation("a transaction cannot be linked to itself")
	}

	p, err := st.Transactions.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if p.Type == TypeInitial {
		return nil, apperr.Validation("an initial transaction cannot be linked")
	}

	if p.LinkedTransactionID != nil && *p.LinkedTransactionID != self {
		return nil, apperr.Validation("transaction %s is already linked", p.ID)
	}

	return p, nil
}

func unlinkPartner(ctx context.Context, st Stores, m *mutation, userID uuid.UUID, t *Transaction) error {
	if t.LinkedTransactionID == nil {
		return nil
	}

	p, err := st.Transactions.GetTransaction(ctx, userID, *t.LinkedTransactionID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}

		return err
	}

	if p.LinkedTransactionID == nil || *p.LinkedTransactionID != t.ID {
		return nil
	}

	p.LinkedTransactionID = nil
	if err := st.Transactions.UpdateTransaction(ctx, p); err != nil {
		return fmt.Errorf("unlinking partner transaction: %w", err)
	}

	m.updated = append(m.updated, p)

	return nil
}

func validateCreate(p *CreateParams) error {
	if p.Type == "" {
		p.Type = TypeNone
	}

	if p.Type == TypeInitial {
		return apperr.Validation("initial transactions are created with the account's opening balance")
	}

	if !p.Type.Valid() {
		return apperr.Validation("unknown type %q", p.Type)
	}

	if p.Status == "" {
		p.Status = StatusNone
	}

	if !p.Status.Valid() {
		return apperr.Validation("unknown status %q", p.Status)
	}

	if p.Date.IsZero() {
		return apperr.Validation("date is required")
	}

	p.Date = Day(p.Date)

	p.Label = strings.TrimSpace(p.Label)
	if p.Label == "" {
		return apperr.Validation("label is required")
	}

	return nil
}
