package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reward is owed to UserID because FromUserID deposited DepositAmount.
type Reward struct {
	ID            int64           `db:"id" json:"id"`
	UserID        int64           `db:"user_id" json:"user_id"`
	FromUserID    int64           `db:"from_user_id" json:"from_user_id"`
	Level         int             `db:"level" json:"level"`
	DepositAmount decimal.Decimal `db:"deposit_amount" json:"deposit_amount"`
	RewardAmount  decimal.Decimal `db:"reward_amount" json:"reward_amount"`
	Claimed       bool            `db:"claimed" json:"claimed"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// RewardView adds the depositor's email for display
type RewardView struct {
	Reward
	FromEmail string `json:"from_email"`
}

// RewardLevel is one row of the level -> percentage schedule
type RewardLevel struct {
	Level      int             `db:"level" json:"level"`
	Percentage decimal.Decimal `db:"percentage" json:"percentage"`
}

// RewardSchedule maps a level to its percentage.
type RewardSchedule map[int]decimal.Decimal

// Percentage returns the configured percentage, zero when the level is missing.
func (s RewardSchedule) Percentage(level int) decimal.Decimal {
	if p, ok := s[level]; ok {
		return p
	}
	return decimal.Zero
}

// RewardFor computes amount * percentage(level) / 100.
func (s RewardSchedule) RewardFor(level int, amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(s.Percentage(level)).Div(decimal.NewFromInt(100))
}
