package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/iou/internal/models"
)

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	party := models.NewParty("+13125555555", "Eric", true)

	t.Run("round trip", func(t *testing.T) {
		token, err := manager.Generate(party)
		require.NoError(t, err)

		claims, err := manager.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "+13125555555", claims.PartyID)
		assert.Equal(t, "+13125555555", claims.Subject)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager("other-secret", time.Hour).Generate(party)
		require.NoError(t, err)

		_, err = manager.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := NewJWTManager("test-secret", -time.Minute).Generate(party)
		require.NoError(t, err)

		_, err = manager.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := manager.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned token is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{PartyID: party.ID})
		s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = manager.Validate(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other HMAC algorithm is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{PartyID: party.ID})
		s, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = manager.Validate(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token without party is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{})
		s, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = manager.Validate(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
