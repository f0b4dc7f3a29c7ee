package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/iou/internal/models"
	"github.com/mmynk/iou/internal/storage"
)

// FindPartyByID retrieves a party by phone number.
func (r *repository) FindPartyByID(ctx context.Context, id string) (*models.Party, error) {
	query := `
		SELECT id, name, trusted, created_at
		FROM parties
		WHERE id = ?
	`

	party := &models.Party{}
	err := r.tx.QueryRowContext(ctx, query, id).Scan(
		&party.ID,
		&party.Name,
		&party.Trusted,
		&party.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // Party not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get party by ID: %w", err)
	}

	return party, nil
}

// FindPartyByAlias retrieves the first party whose name contains pattern.
// SQLite's LIKE is case-insensitive for ASCII.
func (r *repository) FindPartyByAlias(ctx context.Context, pattern string) (*models.Party, error) {
	query := `
		SELECT id, name, trusted, created_at
		FROM parties
		WHERE name LIKE ?
		ORDER BY created_at, id
		LIMIT 1
	`

	party := &models.Party{}
	err := r.tx.QueryRowContext(ctx, query, "%"+pattern+"%").Scan(
		&party.ID,
		&party.Name,
		&party.Trusted,
		&party.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get party by alias: %w", err)
	}

	return party, nil
}

// InsertParty inserts a new party into the database.
func (r *repository) InsertParty(ctx context.Context, party *models.Party) error {
	if party.CreatedAt == 0 {
		party.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO parties (id, name, trusted, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.tx.ExecContext(ctx, query,
		party.ID,
		party.Name,
		party.Trusted,
		party.CreatedAt,
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("party %s: %w", party.ID, storage.ErrUniqueViolation)
	}
	if err != nil {
		return fmt.Errorf("failed to create party: %w", err)
	}

	return nil
}
