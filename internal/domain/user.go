package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID            int64           `db:"id" json:"id"`
	Email         string          `db:"email" json:"email"`
	ReferralCode  string          `db:"referral_code" json:"referral_code"`
	ReferredBy    *int64          `db:"referred_by" json:"referred_by,omitempty"`
	TotalDeposits decimal.Decimal `db:"total_deposits" json:"total_deposits"`
	TotalEarnings decimal.Decimal `db:"total_earnings" json:"total_earnings"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}
