package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/iou/internal/models"
	"github.com/mmynk/iou/internal/storage"
)

const partyColumns = "id, name, trusted, created_at"

func scanParty(row *sql.Row) (*models.Party, error) {
	party := &models.Party{}
	err := row.Scan(&party.ID, &party.Name, &party.Trusted, &party.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return party, nil
}

// FindPartyByID retrieves a party by phone number.
func (r *repository) FindPartyByID(ctx context.Context, id string) (*models.Party, error) {
	party, err := scanParty(r.tx.QueryRowContext(ctx,
		"SELECT "+partyColumns+" FROM parties WHERE id = $1", id))
	if err != nil {
		return nil, fmt.Errorf("failed to get party by ID: %w", err)
	}
	return party, nil
}

// FindPartyByAlias retrieves the first party whose name contains pattern.
func (r *repository) FindPartyByAlias(ctx context.Context, pattern string) (*models.Party, error) {
	party, err := scanParty(r.tx.QueryRowContext(ctx,
		"SELECT "+partyColumns+" FROM parties WHERE name ILIKE $1 ORDER BY created_at, id LIMIT 1",
		"%"+pattern+"%"))
	if err != nil {
		return nil, fmt.Errorf("failed to get party by alias: %w", err)
	}
	return party, nil
}

// InsertParty inserts a new party.
func (r *repository) InsertParty(ctx context.Context, party *models.Party) error {
	if party.CreatedAt == 0 {
		party.CreatedAt = time.Now().Unix()
	}

	_, err := r.tx.ExecContext(ctx,
		"INSERT INTO parties ("+partyColumns+") VALUES ($1, $2, $3, $4)",
		party.ID, party.Name, party.Trusted, party.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("party %s: %w", party.ID, storage.ErrUniqueViolation)
	}
	if err != nil {
		return fmt.Errorf("failed to create party: %w", err)
	}
	return nil
}
