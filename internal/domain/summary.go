package domain

import "github.com/shopspring/decimal"

// Summary is the read model returned for a single user
type Summary struct {
	User           User           `json:"user"`
	Referrals      []ReferralView `json:"referrals"`
	Rewards        []RewardView   `json:"rewards"`
	PendingRewards string         `json:"pending_rewards"`
}

// ProgramStats aggregates the whole program
type ProgramStats struct {
	TotalUsers     int64           `json:"total_users"`
	ReferredUsers  int64           `json:"referred_users"`
	TotalDeposits  int64           `json:"total_deposits"`
	DepositVolume  decimal.Decimal `json:"deposit_volume"`
	TotalRewards   int64           `json:"total_rewards"`
	PendingRewards decimal.Decimal `json:"pending_rewards"`
	ClaimedRewards decimal.Decimal `json:"claimed_rewards"`
	RewardsByLevel map[int]int64   `json:"rewards_by_level"`
}

// FormatMoney renders an amount with exactly two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
