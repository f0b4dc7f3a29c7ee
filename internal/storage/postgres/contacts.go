package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/iou/internal/models"
	"github.com/mmynk/iou/internal/storage"
)

// FindContact retrieves the contact ownerID knows as alias.
func (r *repository) FindContact(ctx context.Context, ownerID, alias string) (*models.Contact, error) {
	contact := &models.Contact{}
	err := r.tx.QueryRowContext(ctx,
		"SELECT owner_id, alias, target_id FROM contacts WHERE owner_id = $1 AND alias = $2",
		ownerID, alias,
	).Scan(&contact.OwnerID, &contact.Alias, &contact.TargetID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

// InsertContact persists a new contact.
func (r *repository) InsertContact(ctx context.Context, contact *models.Contact) error {
	_, err := r.tx.ExecContext(ctx,
		"INSERT INTO contacts (owner_id, alias, target_id) VALUES ($1, $2, $3)",
		contact.OwnerID, contact.Alias, contact.TargetID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("contact %s/%s: %w", contact.OwnerID, contact.Alias, storage.ErrUniqueViolation)
	}
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

// ListContacts retrieves all contacts of an owner, ordered by alias.
func (r *repository) ListContacts(ctx context.Context, ownerID string) ([]*models.Contact, error) {
	rows, err := r.tx.QueryContext(ctx,
		"SELECT owner_id, alias, target_id FROM contacts WHERE owner_id = $1 ORDER BY alias",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact := &models.Contact{}
		if err := rows.Scan(&contact.OwnerID, &contact.Alias, &contact.TargetID); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}
