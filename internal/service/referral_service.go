package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"referral_rewards/internal/domain"
	"referral_rewards/internal/logger"
	"referral_rewards/internal/repository"

	"github.com/shopspring/decimal"
)

// DefaultLinkTemplate is used when no registration link template is configured.
const DefaultLinkTemplate = "https://example.com/register?ref=%s"

// maxRegisterAttempts bounds retries after two registrations raced for the
// same freshly generated referral code.
const maxRegisterAttempts = 5

// Notifier receives events once the transaction that produced them committed.
type Notifier interface {
	Publish(event domain.RewardEvent)
}

// Options configures the referral service
type Options struct {
	MaxDepth     int
	LinkTemplate string
}

// ReferralService owns registration, reward fan-out and claims.
type ReferralService struct {
	store        repository.TxRunner
	notifier     Notifier
	maxDepth     int
	linkTemplate string
}

// NewReferralService creates a new referral service
func NewReferralService(store repository.TxRunner, opts Options) *ReferralService {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.LinkTemplate == "" {
		opts.LinkTemplate = DefaultLinkTemplate
	}
	return &ReferralService{
		store:        store,
		maxDepth:     opts.MaxDepth,
		linkTemplate: opts.LinkTemplate,
	}
}

// SetNotifier attaches the live reward feed
func (s *ReferralService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Registration is what a new user gets back
type Registration struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	ReferralCode string `json:"code"`
	Link         string `json:"link"`
}

// DepositResult is the deposit row plus the rewards it produced
type DepositResult struct {
	Deposit domain.Deposit  `json:"deposit"`
	Rewards []domain.Reward `json:"rewards"`
}

// Register creates a user, optionally under the owner of referralCode, and
// materializes one referral edge per ancestor. Nothing is persisted on error.
func (s *ReferralService) Register(ctx context.Context, email, referralCode string) (*Registration, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	referralCode = strings.TrimSpace(referralCode)

	var (
		user  *domain.User
		edges int
		err   error
	)
	for attempt := 1; attempt <= maxRegisterAttempts; attempt++ {
		user, edges, err = s.register(ctx, email, referralCode)
		if !errors.Is(err, repository.ErrDuplicateReferralCode) {
			break
		}
		logger.WithContext(ctx).Warn("referral code collision, retrying", "attempt", attempt)
	}
	if err != nil {
		return nil, err
	}

	referred := user.ReferredBy != nil
	RegistrationsTotal.WithLabelValues(strconv.FormatBool(referred)).Inc()
	logger.WithContext(ctx).Info("user registered",
		"user_id", user.ID,
		"referred", referred,
		"ancestor_edges", edges,
	)

	return &Registration{
		ID:           user.ID,
		Email:        user.Email,
		ReferralCode: user.ReferralCode,
		Link:         s.Link(user.ReferralCode),
	}, nil
}

func (s *ReferralService) register(ctx context.Context, email, referralCode string) (*domain.User, int, error) {
	var (
		user  *domain.User
		edges int
	)

	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		exists, err := q.EmailExists(ctx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return ErrDuplicateEmail
		}

		var referrerID *int64
		if referralCode != "" {
			id, err := q.GetUserIDByReferralCode(ctx, referralCode)
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidReferralCode
			}
			if err != nil {
				return fmt.Errorf("resolve referral code: %w", err)
			}
			referrerID = &id
		}

		code, err := NewUniqueCode(ctx, q.ReferralCodeExists)
		if err != nil {
			return err
		}

		user = &domain.User{
			Email:        email,
			ReferralCode: code,
			ReferredBy:   referrerID,
		}
		if err := q.CreateUser(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("create user: %w", err)
		}

		if referrerID != nil {
			ancestors, err := AncestorsOf(ctx, q, user.ID, s.maxDepth)
			if err != nil {
				return fmt.Errorf("resolve ancestors: %w", err)
			}
			for _, a := range ancestors {
				ref := &domain.Referral{ReferrerID: a.UserID, ReferredID: user.ID, Level: a.Level}
				if err := q.CreateReferral(ctx, ref); err != nil {
					return fmt.Errorf("create referral level %d: %w", a.Level, err)
				}
			}
			edges = len(ancestors)
		}

		return q.CreateAuditLog(ctx, &domain.AuditLog{
			UserID:   user.ID,
			Action:   domain.AuditActionRegister,
			Category: domain.AuditCategoryReferral,
			Details: map[string]interface{}{
				"referral_code_used": referralCode,
				"ancestor_edges":     edges,
			},
		})
	})
	if err != nil {
		return nil, 0, err
	}
	return user, edges, nil
}

// Link embeds a referral code into the registration link template
func (s *ReferralService) Link(code string) string {
	return fmt.Sprintf(s.linkTemplate, code)
}

// RecordDeposit stores a deposit, bumps the depositor's total and writes one
// unclaimed reward per referral edge recorded at the depositor's signup.
func (s *ReferralService) RecordDeposit(ctx context.Context, email string, amount decimal.Decimal) (*DepositResult, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)

	result := &DepositResult{Rewards: []domain.Reward{}}
	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		user, err := q.LockUserByEmail(ctx, email)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}

		result.Deposit = domain.Deposit{UserID: user.ID, Amount: amount}
		if err := q.CreateDeposit(ctx, &result.Deposit); err != nil {
			return fmt.Errorf("create deposit: %w", err)
		}
		if err := q.AddDeposits(ctx, user.ID, amount); err != nil {
			return fmt.Errorf("update total deposits: %w", err)
		}

		edges, err := q.GetAncestorEdges(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("load referral edges: %w", err)
		}
		levels, err := q.GetRewardLevels(ctx)
		if err != nil {
			return fmt.Errorf("load reward levels: %w", err)
		}
		schedule := scheduleOf(levels)

		for _, edge := range edges {
			reward := domain.Reward{
				UserID:        edge.ReferrerID,
				FromUserID:    user.ID,
				Level:         edge.Level,
				DepositAmount: amount,
				RewardAmount:  schedule.RewardFor(edge.Level, amount),
			}
			if err := q.CreateReward(ctx, &reward); err != nil {
				return fmt.Errorf("create reward level %d: %w", edge.Level, err)
			}
			result.Rewards = append(result.Rewards, reward)
		}

		return q.CreateAuditLog(ctx, &domain.AuditLog{
			UserID:   user.ID,
			Action:   domain.AuditActionDeposit,
			Category: domain.AuditCategoryPayment,
			Details: map[string]interface{}{
				"deposit_id": result.Deposit.ID,
				"amount":     amount.String(),
				"rewards":    len(result.Rewards),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	DepositsTotal.Inc()
	for _, r := range result.Rewards {
		RewardsCreatedTotal.WithLabelValues(levelLabel(r.Level)).Inc()
		s.publish(domain.RewardEvent{
			Type:      domain.RewardEventCreated,
			UserID:    r.UserID,
			FromEmail: email,
			Level:     r.Level,
			Amount:    domain.FormatMoney(r.RewardAmount),
			At:        r.CreatedAt,
		})
	}
	logger.WithContext(ctx).Info("deposit recorded",
		"user_id", result.Deposit.UserID,
		"deposit_id", result.Deposit.ID,
		"amount", amount.String(),
		"rewards", len(result.Rewards),
	)

	return result, nil
}

// Claim marks every pending reward of the user claimed and adds their sum to
// the user's earnings. The returned amount is rounded to two decimals.
func (s *ReferralService) Claim(ctx context.Context, email string) (decimal.Decimal, error) {
	email = NormalizeEmail(email)

	var (
		userID int64
		count  int
		sum    decimal.Decimal
	)
	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		user, err := q.LockUserByEmail(ctx, email)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		userID = user.ID

		count, sum, err = q.ClaimPendingRewards(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("claim rewards: %w", err)
		}
		if count == 0 {
			return ErrNoPendingRewards
		}

		if err := q.AddEarnings(ctx, user.ID, sum); err != nil {
			return fmt.Errorf("update total earnings: %w", err)
		}

		return q.CreateAuditLog(ctx, &domain.AuditLog{
			UserID:   user.ID,
			Action:   domain.AuditActionClaim,
			Category: domain.AuditCategoryReward,
			Details: map[string]interface{}{
				"rewards": count,
				"amount":  sum.String(),
			},
		})
	})
	if err != nil {
		return decimal.Zero, err
	}

	claimed := sum.Round(2)
	ClaimsTotal.Inc()
	ClaimedAmountTotal.Add(claimed.InexactFloat64())
	s.publish(domain.RewardEvent{
		Type:   domain.RewardEventClaimed,
		UserID: userID,
		Amount: domain.FormatMoney(claimed),
		At:     time.Now().UTC(),
	})
	logger.WithContext(ctx).Info("rewards claimed", "user_id", userID, "rewards", count, "amount", claimed.String())

	return claimed, nil
}

// Summary returns a user's totals, referrals and rewards
func (s *ReferralService) Summary(ctx context.Context, email string) (*domain.Summary, error) {
	email = NormalizeEmail(email)
	q := s.store.Reader()

	user, err := q.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	referrals, err := q.GetReferralsByReferrer(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load referrals: %w", err)
	}
	rewards, err := q.GetRewardsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load rewards: %w", err)
	}

	pending := decimal.Zero
	for _, r := range rewards {
		if !r.Claimed {
			pending = pending.Add(r.RewardAmount)
		}
	}

	return &domain.Summary{
		User:           *user,
		Referrals:      referrals,
		Rewards:        rewards,
		PendingRewards: domain.FormatMoney(pending),
	}, nil
}

// Stats returns program-wide totals
func (s *ReferralService) Stats(ctx context.Context) (*domain.ProgramStats, error) {
	stats, err := s.store.Reader().GetProgramStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	return stats, nil
}

// RewardLevels returns the configured level percentages
func (s *ReferralService) RewardLevels(ctx context.Context) ([]domain.RewardLevel, error) {
	levels, err := s.store.Reader().GetRewardLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reward levels: %w", err)
	}
	return levels, nil
}

// SetRewardLevels upserts the schedule in one transaction. Levels must be
// positive and percentages within [0, 100].
func (s *ReferralService) SetRewardLevels(ctx context.Context, levels []domain.RewardLevel) error {
	hundred := decimal.NewFromInt(100)
	seen := make(map[int]bool, len(levels))
	for _, l := range levels {
		if l.Level < 1 {
			return fmt.Errorf("%w: level must be at least 1, got %d", ErrValidation, l.Level)
		}
		if l.Percentage.IsNegative() || l.Percentage.GreaterThan(hundred) {
			return fmt.Errorf("%w: percentage for level %d must be between 0 and 100", ErrValidation, l.Level)
		}
		if seen[l.Level] {
			return fmt.Errorf("%w: level %d listed twice", ErrValidation, l.Level)
		}
		seen[l.Level] = true
	}

	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		for _, l := range levels {
			if err := q.UpsertRewardLevel(ctx, l); err != nil {
				return fmt.Errorf("upsert level %d: %w", l.Level, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.WithContext(ctx).Info("reward levels updated", "levels", len(levels))
	return nil
}

// UserIDByEmail resolves an email for the live feed
func (s *ReferralService) UserIDByEmail(ctx context.Context, email string) (int64, error) {
	user, err := s.store.Reader().GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load user: %w", err)
	}
	return user.ID, nil
}

func (s *ReferralService) publish(event domain.RewardEvent) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(event)
}

func scheduleOf(levels []domain.RewardLevel) domain.RewardSchedule {
	schedule := make(domain.RewardSchedule, len(levels))
	for _, l := range levels {
		schedule[l.Level] = l.Percentage
	}
	return schedule
}
