package repository

import (
	"context"

	"referral_rewards/internal/domain"

	"github.com/shopspring/decimal"
)

type RewardRepository struct {
	db DBTX
}

func NewRewardRepository(db DBTX) *RewardRepository {
	return &RewardRepository{db: db}
}

// CreateReward inserts an unclaimed reward
func (r *RewardRepository) CreateReward(ctx context.Context, rw *domain.Reward) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO rewards (user_id, from_user_id, level, deposit_amount, reward_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, claimed, created_at
	`, rw.UserID, rw.FromUserID, rw.Level, rw.DepositAmount, rw.RewardAmount).Scan(&rw.ID, &rw.Claimed, &rw.CreatedAt)
}

// ClaimPendingRewards flips every unclaimed reward of the user to claimed and
// returns how many rows changed and their sum. A concurrent claimer blocked on
// the same rows re-checks "NOT claimed" and sees none.
func (r *RewardRepository) ClaimPendingRewards(ctx context.Context, userID int64) (int, decimal.Decimal, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE rewards SET claimed = true
		WHERE user_id = $1 AND NOT claimed
		RETURNING reward_amount
	`, userID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	defer rows.Close()

	count := 0
	sum := decimal.Zero
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return 0, decimal.Zero, err
		}
		sum = sum.Add(amount)
		count++
	}
	return count, sum, rows.Err()
}

// GetRewardsByUser returns rewards the user is the beneficiary of, newest first
func (r *RewardRepository) GetRewardsByUser(ctx context.Context, userID int64) ([]domain.RewardView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT rw.id, rw.user_id, rw.from_user_id, rw.level, rw.deposit_amount,
		       rw.reward_amount, rw.claimed, rw.created_at, u.email
		FROM rewards rw
		JOIN users u ON u.id = rw.from_user_id
		WHERE rw.user_id = $1
		ORDER BY rw.created_at DESC, rw.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rewards := []domain.RewardView{}
	for rows.Next() {
		var v domain.RewardView
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.FromUserID, &v.Level, &v.DepositAmount,
			&v.RewardAmount, &v.Claimed, &v.CreatedAt, &v.FromEmail,
		); err != nil {
			return nil, err
		}
		rewards = append(rewards, v)
	}
	return rewards, rows.Err()
}

// GetRewardLevels reads the externally managed percentage schedule
func (r *RewardRepository) GetRewardLevels(ctx context.Context) ([]domain.RewardLevel, error) {
	rows, err := r.db.Query(ctx, `SELECT level, percentage FROM reward_levels ORDER BY level`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	levels := []domain.RewardLevel{}
	for rows.Next() {
		var l domain.RewardLevel
		if err := rows.Scan(&l.Level, &l.Percentage); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

// UpsertRewardLevel sets the percentage paid at one level
func (r *RewardRepository) UpsertRewardLevel(ctx context.Context, l domain.RewardLevel) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reward_levels (level, percentage)
		VALUES ($1, $2)
		ON CONFLICT (level) DO UPDATE SET percentage = EXCLUDED.percentage
	`, l.Level, l.Percentage)
	return err
}

// GetProgramStats aggregates counters over the whole program
func (r *RewardRepository) GetProgramStats(ctx context.Context) (*domain.ProgramStats, error) {
	stats := &domain.ProgramStats{RewardsByLevel: map[int]int64{}}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(referred_by) FROM users
	`).Scan(&stats.TotalUsers, &stats.ReferredUsers)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM deposits
	`).Scan(&stats.TotalDeposits, &stats.DepositVolume)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(reward_amount) FILTER (WHERE NOT claimed), 0),
		       COALESCE(SUM(reward_amount) FILTER (WHERE claimed), 0)
		FROM rewards
	`).Scan(&stats.TotalRewards, &stats.PendingRewards, &stats.ClaimedRewards)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT level, COUNT(*) FROM rewards GROUP BY level`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var level int
		var count int64
		if err := rows.Scan(&level, &count); err != nil {
			return nil, err
		}
		stats.RewardsByLevel[level] = count
	}

	return stats, rows.Err()
}
