package service

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrUserNotFound        = errors.New("user not found")
	ErrNoPendingRewards    = errors.New("no pending rewards")
)

// ErrorKind classifies an error for the request boundary.
type ErrorKind string

const (
	KindValidation          ErrorKind = "validation"
	KindDuplicateEmail      ErrorKind = "duplicate_email"
	KindInvalidReferralCode ErrorKind = "invalid_referral_code"
	KindUserNotFound        ErrorKind = "user_not_found"
	KindNoPendingRewards    ErrorKind = "no_pending_rewards"
	KindInternal            ErrorKind = "internal"
)

// Kind reports which business rule rejected the request. Anything that is not
// one of the sentinels above is internal and must not be shown to callers.
func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDuplicateEmail):
		return KindDuplicateEmail
	case errors.Is(err, ErrInvalidReferralCode):
		return KindInvalidReferralCode
	case errors.Is(err, ErrUserNotFound):
		return KindUserNotFound
	case errors.Is(err, ErrNoPendingRewards):
		return KindNoPendingRewards
	default:
		return KindInternal
	}
}
