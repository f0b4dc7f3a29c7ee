//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mmynk/iou/internal/models"
	"github.com/mmynk/iou/internal/storage"
)

func newContainerStore(t *testing.T) *PostgresStore {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("iou_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := New(dsn, 4)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPostgresStore_Integration(t *testing.T) {
	store := newContainerStore(t)
	ctx := context.Background()

	eric := models.NewParty("+13125555555", "eric", true)
	kristi := models.NewParty("+13126666666", "kristi", false)

	err := store.InTx(ctx, func(repo storage.Repository) error {
		for _, p := range []*models.Party{eric, kristi} {
			if err := repo.InsertParty(ctx, p); err != nil {
				return err
			}
		}
		forward, reverse := models.NewContactPair(eric, kristi, "kristi")
		if err := repo.InsertContact(ctx, &forward); err != nil {
			return err
		}
		return repo.InsertContact(ctx, &reverse)
	})
	require.NoError(t, err)

	err = store.InTx(ctx, func(repo storage.Repository) error {
		return repo.InsertParty(ctx, models.NewParty(eric.ID, "dup", false))
	})
	assert.True(t, errors.Is(err, storage.ErrUniqueViolation), "got %v", err)

	err = store.InTx(ctx, func(repo storage.Repository) error {
		for _, amount := range []string{"100.10", "0.20"} {
			if err := repo.InsertObligation(ctx, &models.Obligation{
				OwerID: eric.ID, OweeID: kristi.ID,
				Amount: decimal.RequireFromString(amount), Reason: models.DefaultReason,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	err = store.InTx(ctx, func(repo storage.Repository) error {
		sum, err := repo.SumObligations(ctx, eric.ID, kristi.ID)
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.RequireFromString("100.3")), "sum = %s", sum)

		sum, err = repo.SumObligations(ctx, kristi.ID, eric.ID)
		require.NoError(t, err)
		assert.True(t, sum.IsZero())

		contact, err := repo.FindContact(ctx, kristi.ID, "eric")
		require.NoError(t, err)
		require.NotNil(t, contact)
		assert.Equal(t, eric.ID, contact.TargetID)

		list, err := repo.ListObligations(ctx, kristi.ID, eric.ID)
		require.NoError(t, err)
		assert.Len(t, list, 2)
		return nil
	})
	require.NoError(t, err)
}
