package postgres

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
	if obligation.ID == "" {
		obligation.ID = uuid.New().String()
	}
	if obligation.CreatedAt.IsZero() {
		obligation.CreatedAt = time.Now()
	}

	_, err := r.tx.ExecContext(ctx,
		`INSERT INTO obligations (id, ower_id, owee_id, amount, reason, created_at, settled)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		obligation.ID, obligation.OwerID, obligation.OweeID, obligation.Amount,
		obligation.Reason, obligation.CreatedAt, obligation.Settled,
	)
	if err != nil {
		return fmt.Errorf("failed to insert obligation: %w", err)
	}
	return nil
}

// SumObligations returns the total owerID owes oweeID.
func (r *repository) SumObligations(ctx context.Context, owerID, oweeID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.tx.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM obligations WHERE ower_id = $1 AND owee_id = $2",
		owerID, oweeID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum obligations: %w", err)
	}
	return total, nil
}

// ListObligations retrieves all obligations between two parties, oldest first.
func (r *repository) ListObligations(ctx context.Context, partyA, partyB string) ([]*models.Obligation, error) {
	rows, err := r.tx.QueryContext(ctx,
		`SELECT id, ower_id, owee_id, amount, reason, created_at, settled
		 FROM obligations
		 WHERE (ower_id = $1 AND owee_id = $2) OR (ower_id = $2 AND owee_id = $1)
		 ORDER BY seq`,
		partyA, partyB,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	var obligations []*models.Obligation
	for rows.Next() {
		o := &models.Obligation{}
		if err := rows.Scan(&o.ID, &o.OwerID, &o.OweeID, &o.Amount, &o.Reason, &o.CreatedAt, &o.Settled); err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		obligations = append(obligations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate obligations: %w", err)
	}
	return obligations, nil
}
