package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	tok, err := m.GenerateToken(42)
	require.NoError(t, err)

	id, err := m.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestValidateToken_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	tok, err := m.GenerateToken(1)
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).ValidateToken(tok)
	assert.Error(t, err)

	_, err = m.ValidateToken("not.a.token")
	assert.Error(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.ValidateToken(tok)
	assert.Error(t, err)
}
