// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmynk/iou/internal/models"
)

// ErrUniqueViolation is returned when an insert collides with an existing
// party ID or (owner, alias) contact.
var ErrUniqueViolation = errors.New("unique constraint violation")

// Repository defines the record operations used while handling one message.
// Lookups return nil and no error when nothing matches.
type Repository interface {
	// FindPartyByID retrieves a party by phone number.
	FindPartyByID(ctx context.Context, id string) (*models.Party, error)

	// FindPartyByAlias retrieves the first party whose name contains pattern,
	// case-insensitively.
	//
	// Deprecated: names are resolved through the sender's contacts with
	// FindContact. This global lookup ignores who is asking.
	FindPartyByAlias(ctx context.Context, pattern string) (*models.Party, error)

	// InsertParty persists a new party.
	// Returns ErrUniqueViolation if the ID is taken.
	InsertParty(ctx context.Context, party *models.Party) error

	// FindContact retrieves the contact ownerID knows as alias.
	// alias must already be lower-cased.
	FindContact(ctx context.Context, ownerID, alias string) (*models.Contact, error)

	// InsertContact persists a new contact.
	// Returns ErrUniqueViolation if the owner already uses the alias.
	InsertContact(ctx context.Context, contact *models.Contact) error

	// ListContacts retrieves all contacts of an owner, ordered by alias.
	ListContacts(ctx context.Context, ownerID string) ([]*models.Contact, error)

	// InsertObligation appends an obligation to the ledger.
	// The ID is generated if empty.
	InsertObligation(ctx context.Context, obligation *models.Obligation) error

	// SumObligations returns the total owerID owes oweeID.
	SumObligations(ctx context.Context, owerID, oweeID string) (decimal.Decimal, error)

	// ListObligations retrieves all obligations between two parties in both
	// directions, oldest first.
	ListObligations(ctx context.Context, partyA, partyB string) ([]*models.Obligation, error)
}

// Store defines the interface for ledger storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the interpreter.
type Store interface {
	// InTx runs fn inside a single transaction. The transaction commits if fn
	// returns nil and rolls back otherwise; fn's error is returned unchanged.
	InTx(ctx context.Context, fn func(repo Repository) error) error

	// Close releases any resources held by the store.
	Close() error
}
