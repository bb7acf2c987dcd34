package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit is an append-only record of money put in by a user
type Deposit struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
