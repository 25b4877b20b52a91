package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/envelope/internal/account"
	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/budget"
	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/matching"
	"github.com/MrJamesThe3rd/envelope/internal/transaction"
)

// repo implements every repository on tables the caller already holds the
// lock for. Rows go in and come out as copies.
type repo struct {
	d    *data
	tick func() time.Time
}

// Accounts

func (r *repo) CreateAccount(_ context.Context, a *account.Account) error {
	a.ID = uuid.New()
	a.CreatedAt = r.tick()
	r.d.accounts[a.ID] = *a

	return nil
}

func (r *repo) GetAccount(_ context.Context, userID, id uuid.UUID) (*account.Account, error) {
	a, ok := r.d.accounts[id]
	if !ok || a.UserID != userID {
		return nil, account.ErrNotFound
	}

	return &a, nil
}

func (r *repo) GetAccountForUpdate(ctx context.Context, userID, id uuid.UUID) (*account.Account, error) {
	return r.GetAccount(ctx, userID, id)
}

func (r *repo) ListAccounts(_ context.Context, userID uuid.UUID, includeArchived bool) ([]*account.Account, error) {
	var out []*account.Account

	for _, a := range r.d.accounts {
		if a.UserID != userID || (a.Archived && !includeArchived) {
			continue
		}

		out = append(out, &a)
	}

	slices.SortFunc(out, func(a, b *account.Account) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), a.CreatedAt.Compare(b.CreatedAt))
	})

	return out, nil
}

func (r *repo) UpdateAccount(_ context.Context, a *account.Account) error {
	cur, ok := r.d.accounts[a.ID]
	if !ok || cur.UserID != a.UserID {
		return account.ErrNotFound
	}

	cur.Name, cur.Type, cur.Currency = a.Name, a.Type, a.Currency
	cur.UpdatedAt = new(r.tick())
	a.UpdatedAt = cur.UpdatedAt
	r.d.accounts[a.ID] = cur

	return nil
}

func (r *repo) ArchiveAccount(_ context.Context, userID, id uuid.UUID) error {
	cur, ok := r.d.accounts[id]
	if !ok || cur.UserID != userID {
		return account.ErrNotFound
	}

	cur.Archived = true
	cur.UpdatedAt = new(r.tick())
	r.d.accounts[id] = cur

	return nil
}

func (r *repo) UpdateBalances(_ context.Context, a *account.Account) error {
	cur, ok := r.d.accounts[a.ID]
	if !ok || cur.UserID != a.UserID {
		return account.ErrNotFound
	}

	cur.InitialBalance = a.InitialBalance
	cur.CurrentBalance = a.CurrentBalance
	cur.PointedBalance = a.PointedBalance
	cur.ReconciledBalance = a.ReconciledBalance
	cur.UpdatedAt = new(r.tick())
	a.UpdatedAt = cur.UpdatedAt
	r.d.accounts[a.ID] = cur

	return nil
}

// Categories

func (r *repo) CreateCategory(_ context.Context, c *category.Category) error {
	if c.Kind.System() {
		for _, other := range r.d.categories {
			if other.UserID == c.UserID && other.Kind == c.Kind {
				return apperr.Conflict("a %s category already exists", c.Kind)
			}
		}
	}

	c.ID = uuid.New()
	c.CreatedAt = r.tick()
	r.d.categories[c.ID] = *c

	return nil
}

func (r *repo) GetCategory(_ context.Context, userID, id uuid.UUID) (*category.Category, error) {
	c, ok := r.d.categories[id]
	if !ok || c.UserID != userID {
		return nil, category.ErrNotFound
	}

	return &c, nil
}

func (r *repo) FindSystemCategory(_ context.Context, userID uuid.UUID, kind category.Kind) (*category.Category, error) {
	for _, c := range r.d.categories {
		if c.UserID == userID && c.Kind == kind {
			return &c, nil
		}
	}

	return nil, category.ErrNotFound
}

func (r *repo) listCategories(userID uuid.UUID, keep func(category.Category) bool) []*category.Category {
	var out []*category.Category

	for _, c := range r.d.categories {
		if c.UserID == userID && keep(c) {
			out = append(out, &c)
		}
	}

	slices.SortFunc(out, func(a, b *category.Category) int {
		ga, gb := 0, 0
		if !a.IsGroup() {
			ga = 1
		}

		if !b.IsGroup() {
			gb = 1
		}

		return cmp.Or(cmp.Compare(ga, gb), cmp.Compare(a.Name, b.Name), a.CreatedAt.Compare(b.CreatedAt))
	})

	return out
}

func (r *repo) ListCategories(_ context.Context, userID uuid.UUID) ([]*category.Category, error) {
	return r.listCategories(userID, func(category.Category) bool { return true }), nil
}

func (r *repo) ListExpenseCategories(_ context.Context, userID uuid.UUID) ([]*category.Category, error) {
	return r.listCategories(userID, func(c category.Category) bool { return c.Kind == category.KindExpense }), nil
}

func (r *repo) UpdateCategory(_ context.Context, c *category.Category) error {
	cur, ok := r.d.categories[c.ID]
	if !ok || cur.UserID != c.UserID {
		return category.ErrNotFound
	}

	cur.Name, cur.ParentID = c.Name, c.ParentID
	cur.UpdatedAt = new(r.tick())
	c.UpdatedAt = cur.UpdatedAt
	r.d.categories[c.ID] = cur

	return nil
}

// DeleteCategory mirrors the foreign keys of the SQL schema: children block
// the delete, transactions lose the category, budget rows and rules go.
func (r *repo) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	c, ok := r.d.categories[id]
	if !ok || c.UserID != userID {
		return category.ErrNotFound
	}

	if n, _ := r.CountChildren(ctx, userID, id); n > 0 {
		return apperr.Conflict("category %q still has child categories", c.Name)
	}

	delete(r.d.categories, id)

	for tid, t := range r.d.transactions {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
			r.d.transactions[tid] = t
		}
	}

	for gid, g := range r.d.groups {
		if g.CategoryID == id {
			delete(r.d.groups, gid)
		}
	}

	for eid, e := range r.d.entries {
		if _, ok := r.d.groups[e.GroupID]; !ok || e.CategoryID == id {
			delete(r.d.entries, eid)
		}
	}

	for rid, rule := range r.d.rules {
		if rule.CategoryID == id {
			delete(r.d.rules, rid)
		}
	}

	return nil
}

func (r *repo) CountChildren(_ context.Context, userID, id uuid.UUID) (int, error) {
	n := 0

	for _, c := range r.d.categories {
		if c.UserID == userID && c.ParentID != nil && *c.ParentID == id {
			n++
		}
	}

	return n, nil
}

// Budget

func (r *repo) FirstMonthWithCategory(_ context.Context, userID, categoryID uuid.UUID) (*budget.Month, error) {
	months := make(map[uuid.UUID]bool)

	for _, g := range r.d.groups {
		if g.CategoryID == categoryID {
			months[g.MonthID] = true
		}
	}

	for _, e := range r.d.entries {
		if e.CategoryID != categoryID {
			continue
		}

		if g, ok := r.d.groups[e.GroupID]; ok {
			months[g.MonthID] = true
		}
	}

	var found *budget.Month

	for id := range months {
		m, ok := r.d.months[id]
		if !ok || m.UserID != userID {
			continue
		}

		if found == nil || m.Month.Before(found.Month) {
			found = &m
		}
	}

	if found == nil {
		return nil, budget.ErrMonthNotFound
	}

	return found, nil
}

// FindMonthForUpdate needs no row lock: units of work on the store already
// run one at a time.
func (r *repo) FindMonthForUpdate(ctx context.Context, userID uuid.UUID, month time.Time) (*budget.Month, error) {
	return r.FindMonth(ctx, userID, month)
}

func (r *repo) FindMonth(_ context.Context, userID uuid.UUID, month time.Time) (*budget.Month, error) {
	start := budget.StartOfMonth(month)
	end := start.AddDate(0, 1, 0)

	var found *budget.Month

	for _, m := range r.d.months {
		if m.UserID != userID || m.Month.Before(start) || !m.Month.Before(end) {
			continue
		}

		if found == nil || m.Month.Before(found.Month) {
			found = &m
		}
	}

	if found == nil {
		return nil, budget.ErrMonthNotFound
	}

	return found, nil
}

func (r *repo) GetMonth(_ context.Context, userID, id uuid.UUID) (*budget.Month, error) {
	m, ok := r.d.months[id]
	if !ok || m.UserID != userID {
		return nil, budget.ErrMonthNotFound
	}

	return &m, nil
}

func (r *repo) CreateMonth(_ context.Context, m *budget.Month) error {
	for _, other := range r.d.months {
		if other.UserID == m.UserID && other.Month.Equal(m.Month) {
			return apperr.Conflict("budget month %s already exists", budget.MonthKey(m.Month))
		}
	}

	m.ID = uuid.New()
	m.CreatedAt = r.tick()

	row := *m
	row.Groups = nil
	r.d.months[m.ID] = row

	return nil
}

func (r *repo) UpdateMonth(_ context.Context, m *budget.Month) error {
	cur, ok := r.d.months[m.ID]
	if !ok || cur.UserID != m.UserID {
		return budget.ErrMonthNotFound
	}

	m.UpdatedAt = new(r.tick())

	row := *m
	row.CreatedAt = cur.CreatedAt
	row.Groups = nil
	r.d.months[m.ID] = row

	return nil
}

func (r *repo) ListMonthsFrom(_ context.Context, userID uuid.UUID, from time.Time) ([]*budget.Month, error) {
	start := budget.StartOfMonth(from)

	var out []*budget.Month

	for _, m := range r.d.months {
		if m.UserID == userID && !m.Month.Before(start) {
			out = append(out, &m)
		}
	}

	slices.SortFunc(out, func(a, b *budget.Month) int { return a.Month.Compare(b.Month) })

	return out, nil
}

func (r *repo) ListGroups(_ context.Context, monthID uuid.UUID) ([]*budget.Group, error) {
	m := r.d.months[monthID]

	var out []*budget.Group

	for _, g := range r.d.groups {
		if g.MonthID == monthID {
			g.UserID = m.UserID
			out = append(out, &g)
		}
	}

	return out, nil
}

func (r *repo) CreateGroup(_ context.Context, g *budget.Group) error {
	for _, other := range r.d.groups {
		if other.MonthID == g.MonthID && other.CategoryID == g.CategoryID {
			return apperr.Conflict("budget group already exists")
		}
	}

	g.ID = uuid.New()

	row := *g
	row.Name, row.Entries = "", nil
	r.d.groups[g.ID] = row

	return nil
}

func (r *repo) UpdateGroup(_ context.Context, g *budget.Group) error {
	cur, ok := r.d.groups[g.ID]
	if !ok {
		return nil
	}

	cur.Assigned, cur.Activity, cur.Available = g.Assigned, g.Activity, g.Available
	r.d.groups[g.ID] = cur

	return nil
}

func (r *repo) ListEntries(_ context.Context, monthID uuid.UUID) ([]*budget.Entry, error) {
	m := r.d.months[monthID]

	var out []*budget.Entry

	for _, e := range r.d.entries {
		if g, ok := r.d.groups[e.GroupID]; ok && g.MonthID == monthID {
			e.UserID = m.UserID
			out = append(out, &e)
		}
	}

	return out, nil
}

func (r *repo) CreateEntry(_ context.Context, e *budget.Entry) error {
	for _, other := range r.d.entries {
		if other.GroupID == e.GroupID && other.CategoryID == e.CategoryID {
			return apperr.Conflict("budget entry already exists")
		}
	}

	e.ID = uuid.New()

	row := *e
	row.Name = ""
	r.d.entries[e.ID] = row

	return nil
}

func (r *repo) UpdateEntry(_ context.Context, e *budget.Entry) error {
	cur, ok := r.d.entries[e.ID]
	if !ok {
		return nil
	}

	cur.GroupID, cur.Assigned, cur.Activity, cur.Available = e.GroupID, e.Assigned, e.Activity, e.Available
	r.d.entries[e.ID] = cur

	return nil
}

// categorized calls fn for every categorized transaction of userID dated
// in [from, to).
func (r *repo) categorized(userID uuid.UUID, from, to time.Time, fn func(t transaction.Transaction)) {
	for _, t := range r.d.transactions {
		if t.UserID != userID || t.CategoryID == nil || t.Date.Before(from) || !t.Date.Before(to) {
			continue
		}

		fn(t)
	}
}

func (r *repo) SumByCategoryKind(_ context.Context, userID uuid.UUID, kind category.Kind, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero

	r.categorized(userID, from, to, func(t transaction.Transaction) {
		if c, ok := r.d.categories[*t.CategoryID]; ok && c.Kind == kind {
			sum = sum.Add(t.Amount)
		}
	})

	return sum, nil
}

func (r *repo) ActivityByCategory(_ context.Context, userID uuid.UUID, from, to time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	activity := make(map[uuid.UUID]decimal.Decimal)

	r.categorized(userID, from, to, func(t transaction.Transaction) {
		activity[*t.CategoryID] = activity[*t.CategoryID].Add(t.Amount)
	})

	return activity, nil
}

func (r *repo) MonthlyActivity(_ context.Context, userID uuid.UUID, from, to time.Time) ([]budget.CategoryActivity, error) {
	type key struct {
		category uuid.UUID
		month    time.Time
	}

	sums := make(map[key]decimal.Decimal)

	r.categorized(userID, from, to, func(t transaction.Transaction) {
		k := key{category: *t.CategoryID, month: budget.StartOfMonth(t.Date)}
		sums[k] = sums[k].Add(t.Amount)
	})

	history := make([]budget.CategoryActivity, 0, len(sums))
	for k, sum := range sums {
		history = append(history, budget.CategoryActivity{CategoryID: k.category, Month: k.month, Amount: sum})
	}

	slices.SortFunc(history, func(a, b budget.CategoryActivity) int {
		return cmp.Or(a.Month.Compare(b.Month), strings.Compare(a.CategoryID.String(), b.CategoryID.String()))
	})

	return history, nil
}

// Transactions

func (r *repo) CreateTransaction(_ context.Context, t *transaction.Transaction) error {
	if t.Type == transaction.TypeInitial {
		for _, other := range r.d.transactions {
			if other.AccountID == t.AccountID && other.Type == transaction.TypeInitial {
				return apperr.Conflict("account already has an initial transaction")
			}
		}
	}

	t.ID = uuid.New()
	t.CreatedAt = r.tick()

	row := *t
	row.Balance = decimal.Zero
	r.d.transactions[t.ID] = row

	return nil
}

func (r *repo) GetTransaction(_ context.Context, userID, id uuid.UUID) (*transaction.Transaction, error) {
	t, ok := r.d.transactions[id]
	if !ok || t.UserID != userID {
		return nil, transaction.ErrNotFound
	}

	return &t, nil
}

func (r *repo) FindInitial(_ context.Context, userID, accountID uuid.UUID) (*transaction.Transaction, error) {
	for _, t := range r.d.transactions {
		if t.UserID == userID && t.AccountID == accountID && t.Type == transaction.TypeInitial {
			return &t, nil
		}
	}

	return nil, transaction.ErrNotFound
}

func (r *repo) UpdateTransaction(_ context.Context, t *transaction.Transaction) error {
	cur, ok := r.d.transactions[t.ID]
	if !ok || cur.UserID != t.UserID {
		return transaction.ErrNotFound
	}

	t.UpdatedAt = new(r.tick())

	row := *t
	row.AccountID, row.CreatedAt = cur.AccountID, cur.CreatedAt
	row.Balance = decimal.Zero
	r.d.transactions[t.ID] = row

	return nil
}

func (r *repo) DeleteTransaction(_ context.Context, userID, id uuid.UUID) error {
	t, ok := r.d.transactions[id]
	if !ok || t.UserID != userID {
		return transaction.ErrNotFound
	}

	delete(r.d.transactions, id)

	for oid, other := range r.d.transactions {
		if other.LinkedTransactionID != nil && *other.LinkedTransactionID == id {
			other.LinkedTransactionID = nil
			r.d.transactions[oid] = other
		}
	}

	return nil
}

func (r *repo) accountTransactions(userID, accountID uuid.UUID, keep func(transaction.Transaction) bool) []*transaction.Transaction {
	var out []*transaction.Transaction

	for _, t := range r.d.transactions {
		if t.UserID == userID && t.AccountID == accountID && keep(t) {
			out = append(out, &t)
		}
	}

	transaction.SortLedger(out)

	return out
}

func (r *repo) ListLedger(_ context.Context, userID, accountID uuid.UUID) ([]*transaction.Transaction, error) {
	return r.accountTransactions(userID, accountID, func(transaction.Transaction) bool { return true }), nil
}

func (r *repo) ListTransactions(_ context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	search := strings.ToLower(filter.Search)

	txs := r.accountTransactions(userID, filter.AccountID, func(t transaction.Transaction) bool {
		switch {
		case filter.DateFrom != nil && t.Date.Before(*filter.DateFrom),
			filter.DateTo != nil && t.Date.After(*filter.DateTo),
			search != "" && !strings.Contains(strings.ToLower(t.Label), search),
			filter.Status != nil && t.Status != *filter.Status,
			filter.Type != nil && t.Type != *filter.Type:
			return false
		}

		return true
	})

	slices.Reverse(txs)

	start := min(filter.Skip, len(txs))
	end := min(start+filter.Take, len(txs))

	return txs[start:end], nil
}

func (r *repo) FindDuplicates(_ context.Context, userID, accountID uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	type dupKey struct {
		date   string
		amount string
		label  string
	}

	keys := make(map[dupKey]struct{}, len(params))
	for _, p := range params {
		keys[dupKey{p.Date.Format(time.DateOnly), p.Amount.StringFixed(2), p.Label}] = struct{}{}
	}

	return r.accountTransactions(userID, accountID, func(t transaction.Transaction) bool {
		_, dup := keys[dupKey{t.Date.Format(time.DateOnly), t.Amount.StringFixed(2), t.Label}]
		return dup
	}), nil
}

// Rules

func (r *repo) FindMatch(_ context.Context, userID uuid.UUID, label string) (*matching.Rule, error) {
	label = strings.ToLower(label)

	var best *matching.Rule

	for _, rule := range r.d.rules {
		if rule.UserID != userID || !strings.Contains(label, strings.ToLower(rule.Pattern)) {
			continue
		}

		if best == nil || len(rule.Pattern) > len(best.Pattern) ||
			(len(rule.Pattern) == len(best.Pattern) && rule.CreatedAt.After(best.CreatedAt)) {
			best = &rule
		}
	}

	return best, nil
}

func (r *repo) SaveRule(_ context.Context, rule *matching.Rule) error {
	for id, existing := range r.d.rules {
		if existing.UserID == rule.UserID && existing.Pattern == rule.Pattern {
			existing.CategoryID = rule.CategoryID
			r.d.rules[id] = existing
			*rule = existing

			return nil
		}
	}

	rule.ID = uuid.New()
	rule.CreatedAt = r.tick()
	r.d.rules[rule.ID] = *rule

	return nil
}

func (r *repo) ListRules(_ context.Context, userID uuid.UUID) ([]*matching.Rule, error) {
	var out []*matching.Rule

	for _, rule := range r.d.rules {
		if rule.UserID == userID {
			out = append(out, &rule)
		}
	}

	slices.SortFunc(out, func(a, b *matching.Rule) int { return cmp.Compare(a.Pattern, b.Pattern) })

	return out, nil
}

func (r *repo) DeleteRule(_ context.Context, userID, id uuid.UUID) error {
	rule, ok := r.d.rules[id]
	if !ok || rule.UserID != userID {
		return matching.ErrNotFound
	}

	delete(r.d.rules, id)

	return nil
}
