package stubserver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvault/portal/pkg/types"
)

func TestMemoryRegistry_CreateAndGet(t *testing.T) {
	registry := NewMemoryRegistry()

	account := &Account{
		User: types.User{
			ID:    "acc-1",
			Name:  "Pat Patient",
			Email: "pat@medvault.dev",
			Role:  types.RolePatient,
		},
		PasswordHash: "hash",
	}
	require.NoError(t, registry.Create(account))

	byEmail, err := registry.GetByEmail("pat@medvault.dev")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", byEmail.ID)

	byID, err := registry.GetByID("acc-1")
	require.NoError(t, err)
	assert.Equal(t, "pat@medvault.dev", byID.Email)
}

func TestMemoryRegistry_EmailLookupIsCaseInsensitive(t *testing.T) {
	registry := NewMemoryRegistry()

	require.NoError(t, registry.Create(&Account{
		User: types.User{ID: "acc-1", Email: "pat@medvault.dev", Role: types.RolePatient},
	}))

	account, err := registry.GetByEmail("  PAT@MedVault.dev ")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)
}

func TestMemoryRegistry_DuplicateEmail(t *testing.T) {
	registry := NewMemoryRegistry()

	require.NoError(t, registry.Create(&Account{
		User: types.User{ID: "acc-1", Email: "pat@medvault.dev", Role: types.RolePatient},
	}))

	err := registry.Create(&Account{
		User: types.User{ID: "acc-2", Email: "PAT@medvault.dev", Role: types.RoleDoctor},
	})
	require.Error(t, err)

	var portalErr *types.PortalError
	require.True(t, errors.As(err, &portalErr))
	assert.Equal(t, types.ErrorTypeConflict, portalErr.Type)
}

func TestMemoryRegistry_NotFound(t *testing.T) {
	registry := NewMemoryRegistry()

	_, err := registry.GetByEmail("nobody@medvault.dev")
	require.Error(t, err)

	_, err = registry.GetByID("missing")
	require.Error(t, err)

	var portalErr *types.PortalError
	require.True(t, errors.As(err, &portalErr))
	assert.Equal(t, types.ErrorTypeNotFound, portalErr.Type)
}

func TestMemoryRegistry_ReturnsCopies(t *testing.T) {
	registry := NewMemoryRegistry()

	require.NoError(t, registry.Create(&Account{
		User: types.User{ID: "acc-1", Email: "pat@medvault.dev", Role: types.RolePatient},
	}))

	first, err := registry.GetByEmail("pat@medvault.dev")
	require.NoError(t, err)
	first.Name = "Mutated"

	second, err := registry.GetByEmail("pat@medvault.dev")
	require.NoError(t, err)
	assert.Empty(t, second.Name)
}
