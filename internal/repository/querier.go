package repository

import (
	"context"

	"referral_rewards/internal/domain"

	"github.com/shopspring/decimal"
)

// Querier is everything the referral service reads or writes. Queries
// implements it on top of a pool or a transaction.
type Querier interface {
	// users
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	LockUserByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetUserIDByReferralCode(ctx context.Context, code string) (int64, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	CreateUser(ctx context.Context, u *domain.User) error
	GetParentID(ctx context.Context, userID int64) (parent *int64, found bool, err error)
	AddDeposits(ctx context.Context, userID int64, amount decimal.Decimal) error
	AddEarnings(ctx context.Context, userID int64, amount decimal.Decimal) error

	// referral edges
	CreateReferral(ctx context.Context, r *domain.Referral) error
	GetAncestorEdges(ctx context.Context, referredID int64) ([]domain.Referral, error)
	GetReferralsByReferrer(ctx context.Context, referrerID int64) ([]domain.ReferralView, error)

	// deposits
	CreateDeposit(ctx context.Context, d *domain.Deposit) error

	// rewards
	CreateReward(ctx context.Context, r *domain.Reward) error
	ClaimPendingRewards(ctx context.Context, userID int64) (int, decimal.Decimal, error)
	GetRewardsByUser(ctx context.Context, userID int64) ([]domain.RewardView, error)
	GetRewardLevels(ctx context.Context) ([]domain.RewardLevel, error)
	UpsertRewardLevel(ctx context.Context, l domain.RewardLevel) error

	// reporting
	GetProgramStats(ctx context.Context) (*domain.ProgramStats, error)
	CreateAuditLog(ctx context.Context, log *domain.AuditLog) error
}

// Queries bundles the table repositories over one DBTX.
type Queries struct {
	*UserRepository
	*ReferralRepository
	*DepositRepository
	*RewardRepository
	*AuditRepository
}

func NewQueries(db DBTX) *Queries {
	return &Queries{
		UserRepository:     NewUserRepository(db),
		ReferralRepository: NewReferralRepository(db),
		DepositRepository:  NewDepositRepository(db),
		RewardRepository:   NewRewardRepository(db),
		AuditRepository:    NewAuditRepository(db),
	}
}

var _ Querier = (*Queries)(nil)
