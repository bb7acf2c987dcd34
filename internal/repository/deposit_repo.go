package repository

import (
	"context"

	"referral_rewards/internal/domain"
)

type DepositRepository struct {
	db DBTX
}

func NewDepositRepository(db DBTX) *DepositRepository {
	return &DepositRepository{db: db}
}

// CreateDeposit creates a new deposit record
func (r *DepositRepository) CreateDeposit(ctx context.Context, d *domain.Deposit) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO deposits (user_id, amount)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, d.UserID, d.Amount).Scan(&d.ID, &d.CreatedAt)
}
