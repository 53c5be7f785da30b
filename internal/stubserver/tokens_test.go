package stubserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvault/portal/pkg/types"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	account := &Account{
		User: types.User{ID: "acc-1", Email: "doc@medvault.dev", Role: types.RoleDoctor},
	}

	token, err := issuer.Issue(account)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.UserID)
	assert.Equal(t, "doc@medvault.dev", claims.Email)
	assert.Equal(t, "doctor", claims.Role)
	assert.Equal(t, "medvault-stub-auth", claims.Issuer)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	account := &Account{User: types.User{ID: "acc-1", Role: types.RolePatient}}

	token, err := other.Issue(account)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.Error(t, err)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	account := &Account{User: types.User{ID: "acc-1", Role: types.RolePatient}}

	token, err := issuer.Issue(account)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.Error(t, err)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	_, err := issuer.Verify("not-a-jwt")
	assert.Error(t, err)
}
