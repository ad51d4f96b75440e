package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"mulesync/internal/models"
	"mulesync/internal/structures"
)

var ErrUnknownAccount = errors.New("unknown account")

// accountNamespace seeds the deterministic ids of accounts configured without one.
var accountNamespace = uuid.MustParse("9b0d6c39-3c8f-4e7a-a1f4-5f2b0d7c6e11")

type AccountServiceInterface interface {
	List() []models.Credential
	Get(id uuid.UUID) (models.Credential, error)
}

type AccountService struct {
	accounts []models.Credential
	byID     map[uuid.UUID]int
}

func NewAccountService(conf *structures.Config) (AccountServiceInterface, error) {
	as := &AccountService{
		accounts: make([]models.Credential, 0, len(conf.Accounts)),
		byID:     make(map[uuid.UUID]int, len(conf.Accounts)),
	}

	for i, acc := range conf.Accounts {
		email := strings.TrimSpace(acc.Email)
		id := AccountID(email)
		if acc.ID != "" {
			parsed, err := uuid.Parse(acc.ID)
			if err != nil {
				return nil, fmt.Errorf("accounts[%d]: %w", i, err)
			}
			id = parsed
		}
		if prev, dup := as.byID[id]; dup {
			return nil, fmt.Errorf("accounts[%d]: id %s duplicates accounts[%d]", i, id, prev)
		}

		as.byID[id] = len(as.accounts)
		as.accounts = append(as.accounts, models.Credential{
			ID:       id,
			Email:    email,
			Password: acc.Password,
		})
	}

	return as, nil
}

// AccountID derives the stable id of an account configured without one.
func AccountID(email string) uuid.UUID {
	return uuid.NewSHA1(accountNamespace, []byte(strings.ToLower(strings.TrimSpace(email))))
}

// List returns the accounts in configuration order.
func (as *AccountService) List() []models.Credential {
	out := make([]models.Credential, len(as.accounts))
	copy(out, as.accounts)
	return out
}

func (as *AccountService) Get(id uuid.UUID) (models.Credential, error) {
	idx, ok := as.byID[id]
	if !ok {
		return models.Credential{}, fmt.Errorf("%w: %s", ErrUnknownAccount, id)
	}
	return as.accounts[idx], nil
}
