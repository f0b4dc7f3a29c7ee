package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/iou/internal/models"
	"github.com/mmynk/iou/internal/phone"
	"github.com/mmynk/iou/internal/storage"
	"github.com/mmynk/iou/internal/storage/sqlite"
)

func TestIssuer_IssueToken(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "iou.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	err = store.InTx(ctx, func(repo storage.Repository) error {
		return repo.InsertParty(ctx, models.NewParty("+12015550123", "bob", false))
	})
	require.NoError(t, err)

	manager := NewJWTManager("test-secret", time.Hour)
	issuer := NewIssuer(store, phone.NewValidator("US"), manager)

	t.Run("registered party", func(t *testing.T) {
		token, err := issuer.IssueToken(ctx, "(201) 555-0123")
		require.NoError(t, err)

		claims, err := manager.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "+12015550123", claims.PartyID)
	})

	t.Run("unknown party", func(t *testing.T) {
		_, err := issuer.IssueToken(ctx, "2015550124")
		assert.ErrorIs(t, err, ErrUnknownParty)
	})

	t.Run("invalid number", func(t *testing.T) {
		_, err := issuer.IssueToken(ctx, "444")
		assert.ErrorIs(t, err, phone.ErrInvalidNumber)
	})
}
