package domain

import "time"

// Referral is a materialized ancestor edge: deposits made by ReferredID pay
// ReferrerID at the given level. Rows are written once at registration.
type Referral struct {
	ReferrerID int64     `db:"referrer_id" json:"referrer_id"`
	ReferredID int64     `db:"referred_id" json:"referred_id"`
	Level      int       `db:"level" json:"level"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ReferralView is a referral edge as seen by the referrer.
type ReferralView struct {
	Referral
	ReferredEmail string `json:"referred_email"`
}

// Ancestor is one step of a user's referral chain.
type Ancestor struct {
	UserID int64
	Level  int
}
