package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultReason is recorded when a debt message has no "for <reason>" part.
const DefaultReason = "General"

// AmountScale is the most decimal places an amount may carry. Together with
// MaxAmount it matches the NUMERIC(20, 4) column amounts are stored in.
const AmountScale = 4

// MaxAmount is the exclusive upper bound of an amount.
var MaxAmount = decimal.New(1, 16)

// ErrAmountOutOfRange is returned for an amount that cannot be stored.
var ErrAmountOutOfRange = errors.New("amount must be positive, below 10^16 and have at most 4 decimal places")

// ValidateAmount reports whether amount can be recorded on every backend.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.LessThan(MaxAmount) || !amount.Equal(amount.Truncate(AmountScale)) {
		return ErrAmountOutOfRange
	}
	return nil
}

// Obligation records that OwerID owes OweeID Amount.
// Obligations are append-only: they are never edited or removed.
type Obligation struct {
	// ID is the unique identifier for the obligation (UUID format).
	ID string

	// OwerID is the party who owes money.
	OwerID string

	// OweeID is the party who is owed money. Never equal to OwerID.
	OweeID string

	// Amount is positive and currency-agnostic.
	Amount decimal.Decimal

	// Reason is free text describing the debt.
	Reason string

	// CreatedAt is when the obligation was recorded, in the ledger's
	// reference timezone.
	CreatedAt time.Time

	// Settled is reserved for a future settlement workflow.
	Settled bool
}
