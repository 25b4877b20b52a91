package account

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/apperr"
	"github.com/MrJamesThe3rd/envelope/internal/event"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, userID, id uuid.UUID) (*Account, error)
	ListAccounts(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*Account, error)
	UpdateAccount(ctx context.Context, a *Account) error
	ArchiveAccount(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	repo   Repository
	events event.Publisher
}

func NewService(repo Repository, events event.Publisher) *Service {
	return &Service{repo: repo, events: events}
}

type CreateParams struct {
	Name     string
	Type     Type
	Currency string
}

type UpdateParams struct {
	Name     *string
	Type     *Type
	Currency *string
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Account, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperr.Validation("account name is required")
	}

	if !params.Type.Valid() {
		return nil, apperr.Validation("unknown account type %q", params.Type)
	}

	currency := DefaultCurrency
	if params.Currency != "" {
		c, err := normalizeCurrency(params.Currency)
		if err != nil {
			return nil, err
		}

		currency = c
	}

	a := &Account{
		UserID:   userID,
		Name:     name,
		Type:     params.Type,
		Currency: currency,
	}
	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, err
	}

	s.events.Notify(event.AccountCreated, a)

	return a, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*Account, error) {
	return s.repo.ListAccounts(ctx, userID, includeArchived)
}

// Update changes the descriptive fields of an account. Balances are never
// touched here.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Account, error) {
	a, err := s.repo.GetAccount(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, apperr.Validation("account name is required")
		}

		a.Name = name
	}

	if params.Type != nil {
		if !params.Type.Valid() {
			return nil, apperr.Validation("unknown account type %q", *params.Type)
		}

		a.Type = *params.Type
	}

	if params.Currency != nil {
		c, err := normalizeCurrency(*params.Currency)
		if err != nil {
			return nil, err
		}

		a.Currency = c
	}

	if err := s.repo.UpdateAccount(ctx, a); err != nil {
		return nil, err
	}

	s.events.Notify(event.AccountUpdated, a)

	return a, nil
}

// Archive soft-deletes an account. Its transactions stay in the ledger and
// keep counting towards the budget.
func (s *Service) Archive(ctx context.Context, userID, id uuid.UUID) (*Account, error) {
	if err := s.repo.ArchiveAccount(ctx, userID, id); err != nil {
		return nil, err
	}

	a, err := s.repo.GetAccount(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	s.events.Notify(event.AccountArchived, a)

	return a, nil
}

func normalizeCurrency(s string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(s))
	if len(c) != 3 {
		return "", apperr.Validation("currency must be a 3-letter ISO 4217 code")
	}

	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", apperr.Validation("currency must be a 3-letter ISO 4217 code")
		}
	}

	return c, nil
}
