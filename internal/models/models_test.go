package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredential_IsSecretBased(t *testing.T) {
	tests := []struct {
		email    string
		expected bool
	}{
		{"mule@example.com", false},
		{"steamworks:76561198000000000", true},
		{"kongregate:12345", true},
		{"odd:name@example.com", false},
		{"plain", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.expected, Credential{Email: tt.email}.IsSecretBased())
		})
	}
}

func TestIsLockoutMessage(t *testing.T) {
	assert.True(t, IsLockoutMessage("LOGIN ATTEMPT LIMIT REACHED"))
	assert.True(t, IsLockoutMessage("Error: Login attempt limit reached, try later"))
	assert.False(t, IsLockoutMessage(""))
	assert.False(t, IsLockoutMessage("Password error"))
}

func TestServiceError(t *testing.T) {
	err := fmt.Errorf("verify: %w", &ServiceError{Op: "verify", Status: 500, Message: "HTTP 500: Internal Server Error"})
	assert.True(t, IsServiceError(err))
	assert.Equal(t, "verify: verify: HTTP 500: Internal Server Error (status 500)", err.Error())

	var se *ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 500, se.Status)

	assert.Equal(t, "char list: boom", (&ServiceError{Op: "char list", Message: "boom"}).Error())
	assert.False(t, IsServiceError(ErrRateLimited))
}

func TestNewSnapshot_Empty(t *testing.T) {
	id := uuid.New()
	snap := NewSnapshot(id)

	assert.Equal(t, id, snap.CredentialID)
	assert.NotNil(t, snap.UniqueItemData)
	assert.NotNil(t, snap.MaterialStorageItemData)
	assert.Empty(t, snap.Characters)
	assert.Empty(t, snap.Pets)
	assert.False(t, snap.HasError())
}

func TestSnapshot_HasError(t *testing.T) {
	snap := NewSnapshot(uuid.New())
	snap.PasswordError = true
	assert.True(t, snap.HasError())

	snap = NewSnapshot(uuid.New())
	snap.ErrorMessage = "Missing access token"
	assert.True(t, snap.HasError())
}

func TestSnapshot_PetByInstanceID(t *testing.T) {
	snap := NewSnapshot(uuid.New())
	snap.Pets = append(snap.Pets, &Pet{InstanceID: 3, Name: "Kitty"}, &Pet{InstanceID: 9, Name: "Dragon"})

	require.NotNil(t, snap.PetByInstanceID(9))
	assert.Equal(t, "Dragon", snap.PetByInstanceID(9).Name)
	assert.Nil(t, snap.PetByInstanceID(4))
}

func TestCharacter_EnchantmentFor(t *testing.T) {
	char := NewCharacter(1)
	char.UniqueItemData["2512"] = []string{"AQ", "Ag"}

	assert.Equal(t, "AQ", char.EnchantmentFor("2512"))
	assert.Equal(t, "", char.EnchantmentFor("1"))
}

func TestItemContainer(t *testing.T) {
	var c ItemContainer
	c.Add(NewItem(2512, "AQ"))
	c.Add(NewItem(-1, ""))

	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Items[0].HasEnchantment())
	assert.False(t, c.Items[1].HasEnchantment())
}
