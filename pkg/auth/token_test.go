package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuerRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", "vagas", time.Hour)

	token, expiresAt, err := issuer.Issue("candidate-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	subject, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "candidate-1", subject)
}

func TestIssuerRejects(t *testing.T) {
	issuer := NewIssuer("secret", "vagas", time.Hour)
	token, _, err := issuer.Issue("candidate-1")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewIssuer("other", "vagas", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := NewIssuer("secret", "someone-else", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered", func(t *testing.T) {
		_, err := issuer.Parse(token + "x")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewIssuer("secret", "vagas", time.Minute)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		old, _, err := past.Issue("candidate-1")
		require.NoError(t, err)

		_, err = issuer.Parse(old)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
