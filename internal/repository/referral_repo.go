package repository

import (
	"context"

	"referral_rewards/internal/domain"
)

type ReferralRepository struct {
	db DBTX
}

func NewReferralRepository(db DBTX) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// CreateReferral records that referredID's deposits pay referrerID at r.Level
func (r *ReferralRepository) CreateReferral(ctx context.Context, ref *domain.Referral) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO referrals (referrer_id, referred_id, level)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		ref.ReferrerID, ref.ReferredID, ref.Level,
	).Scan(&ref.CreatedAt)
}

// GetAncestorEdges returns the edges stored for referredID at signup, nearest first.
func (r *ReferralRepository) GetAncestorEdges(ctx context.Context, referredID int64) ([]domain.Referral, error) {
	rows, err := r.db.Query(ctx,
		`SELECT referrer_id, referred_id, level, created_at
		 FROM referrals
		 WHERE referred_id = $1
		 ORDER BY level ASC`,
		referredID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []domain.Referral
	for rows.Next() {
		var ref domain.Referral
		if err := rows.Scan(&ref.ReferrerID, &ref.ReferredID, &ref.Level, &ref.CreatedAt); err != nil {
			return nil, err
		}
		edges = append(edges, ref)
	}
	return edges, rows.Err()
}

// GetReferralsByReferrer lists everyone a user earns from, by level then recency
func (r *ReferralRepository) GetReferralsByReferrer(ctx context.Context, referrerID int64) ([]domain.ReferralView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.referrer_id, r.referred_id, r.level, r.created_at, u.email
		 FROM referrals r
		 JOIN users u ON u.id = r.referred_id
		 WHERE r.referrer_id = $1
		 ORDER BY r.level ASC, r.created_at DESC`,
		referrerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	referrals := []domain.ReferralView{}
	for rows.Next() {
		var v domain.ReferralView
		if err := rows.Scan(&v.ReferrerID, &v.ReferredID, &v.Level, &v.CreatedAt, &v.ReferredEmail); err != nil {
			return nil, err
		}
		referrals = append(referrals, v)
	}
	return referrals, rows.Err()
}
