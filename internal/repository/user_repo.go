package repository

import (
	"context"
	"errors"

	"referral_rewards/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const userColumns = `id, email, referral_code, referred_by, total_deposits, total_earnings, created_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	)
	return scanUser(row)
}

// LockUserByEmail loads the user and holds its row lock until the
// surrounding transaction ends.
func (r *UserRepository) LockUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 FOR UPDATE`,
		email,
	)
	return scanUser(row)
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

// GetUserIDByReferralCode finds the owner of a referral code
func (r *UserRepository) GetUserIDByReferralCode(ctx context.Context, code string) (int64, error) {
	var userID int64
	err := r.db.QueryRow(ctx,
		`SELECT id FROM users WHERE referral_code = $1`,
		code,
	).Scan(&userID)
	return userID, translateError(err)
}

func (r *UserRepository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE referral_code = $1)`,
		code,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts the user with zero totals and fills ID and CreatedAt.
func (r *UserRepository) CreateUser(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (email, referral_code, referred_by)
		 VALUES ($1, $2, $3)
		 RETURNING id, total_deposits, total_earnings, created_at`,
		u.Email, u.ReferralCode, u.ReferredBy,
	).Scan(&u.ID, &u.TotalDeposits, &u.TotalEarnings, &u.CreatedAt)
	return translateError(err)
}

// GetParentID returns the user's referred_by pointer. found is false when the
// user row itself does not exist.
func (r *UserRepository) GetParentID(ctx context.Context, userID int64) (*int64, bool, error) {
	var parent *int64
	err := r.db.QueryRow(ctx,
		`SELECT referred_by FROM users WHERE id = $1`,
		userID,
	).Scan(&parent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return parent, true, nil
}

func (r *UserRepository) AddDeposits(ctx context.Context, userID int64, amount decimal.Decimal) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET total_deposits = total_deposits + $1 WHERE id = $2`,
		amount, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) AddEarnings(ctx context.Context, userID int64, amount decimal.Decimal) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET total_earnings = total_earnings + $1 WHERE id = $2`,
		amount, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.ReferralCode,
		&u.ReferredBy,
		&u.TotalDeposits,
		&u.TotalEarnings,
		&u.CreatedAt,
	); err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}
