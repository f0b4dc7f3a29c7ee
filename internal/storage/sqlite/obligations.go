package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/iou/internal/models"
)

// InsertObligation appends an obligation to the ledger.
func (r *repository) InsertObligation(ctx context.Context, obligation *models.Obligation) error {
	if err := models.ValidateAmount(obligation.Amount); err != nil {
		return fmt.Errorf("failed to insert obligation: %w: %s", err, obligation.Amount)
	}
	// Generate ID if not set
	if obligation.ID == "" {
		obligation.ID = uuid.New().String()
	}
	if obligation.CreatedAt.IsZero() {
		obligation.CreatedAt = time.Now()
	}

	_, err := r.tx.ExecContext(ctx,
		`INSERT INTO obligations (id, ower_id, owee_id, amount, reason, created_at, settled)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		obligation.ID, obligation.OwerID, obligation.OweeID, obligation.Amount.String(),
		obligation.Reason, obligation.CreatedAt.Format(time.RFC3339Nano), obligation.Settled,
	)
	if err != nil {
		return fmt.Errorf("failed to insert obligation: %w", err)
	}

	return nil
}

// SumObligations returns the total owerID owes oweeID.
// Amounts are summed as decimals in Go; SQLite would sum them as floats.
func (r *repository) SumObligations(ctx context.Context, owerID, oweeID string) (decimal.Decimal, error) {
	rows, err := r.tx.QueryContext(ctx,
		"SELECT amount FROM obligations WHERE ower_id = ? AND owee_id = ?",
		owerID, oweeID,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum obligations: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan amount: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", amount, err)
		}
		total = total.Add(d)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to iterate amounts: %w", err)
	}

	return total, nil
}

// ListObligations retrieves all obligations between two parties in insertion order.
func (r *repository) ListObligations(ctx context.Context, partyA, partyB string) ([]*models.Obligation, error) {
	rows, err := r.tx.QueryContext(ctx,
		`SELECT id, ower_id, owee_id, amount, reason, created_at, settled
		 FROM obligations
		 WHERE (ower_id = ? AND owee_id = ?) OR (ower_id = ? AND owee_id = ?)
		 ORDER BY rowid`,
		partyA, partyB, partyB, partyA,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	var obligations []*models.Obligation
	for rows.Next() {
		o := &models.Obligation{}
		var amount, createdAt string
		if err := rows.Scan(&o.ID, &o.OwerID, &o.OweeID, &amount, &o.Reason, &createdAt, &o.Settled); err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		if o.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
		}
		if o.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
		}
		obligations = append(obligations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate obligations: %w", err)
	}

	return obligations, nil
}
