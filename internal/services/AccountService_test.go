package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mulesync/internal/structures"
)

func accountsConfig(accounts ...structures.AccountConfig) *structures.Config {
	return &structures.Config{Accounts: accounts}
}

func TestNewAccountService_KeepsOrder(t *testing.T) {
	as, err := NewAccountService(accountsConfig(
		structures.AccountConfig{Email: "b@example.com", Password: "pb"},
		structures.AccountConfig{Email: "a@example.com", Password: "pa"},
		structures.AccountConfig{Email: "steamworks:123456", Password: "secret"},
	))
	require.NoError(t, err)

	list := as.List()
	require.Len(t, list, 3)
	assert.Equal(t, "b@example.com", list[0].Email)
	assert.Equal(t, "a@example.com", list[1].Email)
	assert.Equal(t, "steamworks:123456", list[2].Email)
	assert.True(t, list[2].IsSecretBased())
}

func TestNewAccountService_ExplicitID(t *testing.T) {
	id := uuid.New()
	as, err := NewAccountService(accountsConfig(
		structures.AccountConfig{ID: id.String(), Email: "a@example.com", Password: "pa"},
	))
	require.NoError(t, err)

	cred, err := as.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", cred.Email)
	assert.Equal(t, "pa", cred.Password)
}

func TestNewAccountService_DerivedIDIsStable(t *testing.T) {
	conf := accountsConfig(structures.AccountConfig{Email: " Mule@Example.com ", Password: "p"})

	first, err := NewAccountService(conf)
	require.NoError(t, err)
	second, err := NewAccountService(conf)
	require.NoError(t, err)

	assert.Equal(t, first.List()[0].ID, second.List()[0].ID)
	assert.Equal(t, AccountID("mule@example.com"), first.List()[0].ID)
	assert.Equal(t, "Mule@Example.com", first.List()[0].Email)
	assert.NotEqual(t, AccountID("mule@example.com"), AccountID("other@example.com"))
}

func TestNewAccountService_DuplicateID(t *testing.T) {
	id := uuid.New().String()
	_, err := NewAccountService(accountsConfig(
		structures.AccountConfig{ID: id, Email: "a@example.com", Password: "pa"},
		structures.AccountConfig{ID: id, Email: "b@example.com", Password: "pb"},
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates accounts[0]")
}

func TestNewAccountService_InvalidID(t *testing.T) {
	_, err := NewAccountService(accountsConfig(
		structures.AccountConfig{ID: "not-a-uuid", Email: "a@example.com", Password: "pa"},
	))
	assert.Error(t, err)
}

func TestAccountService_GetUnknown(t *testing.T) {
	as, err := NewAccountService(accountsConfig())
	require.NoError(t, err)

	_, err = as.Get(uuid.New())
	assert.True(t, errors.Is(err, ErrUnknownAccount))
	assert.Empty(t, as.List())
}

func TestAccountService_ListIsACopy(t *testing.T) {
	as, err := NewAccountService(accountsConfig(structures.AccountConfig{Email: "a@example.com", Password: "pa"}))
	require.NoError(t, err)

	list := as.List()
	list[0].Email = "changed"
	assert.Equal(t, "a@example.com", as.List()[0].Email)
}
