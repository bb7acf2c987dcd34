package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

const (
	minReferralCode = 100000
	maxReferralCode = 999999
)

var referralCodeSpan = big.NewInt(maxReferralCode - minReferralCode + 1)

// CodeExistsFunc reports whether a referral code is already taken.
type CodeExistsFunc func(ctx context.Context, code string) (bool, error)

// GenerateReferralCode draws a uniformly random 6-digit code
func GenerateReferralCode() (string, error) {
	n, err := rand.Int(rand.Reader, referralCodeSpan)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+minReferralCode, 10), nil
}

// NewUniqueCode keeps drawing codes until exists reports a free one. There is
// no attempt cap; the loop ends on success, a lookup error or ctx cancellation.
func NewUniqueCode(ctx context.Context, exists CodeExistsFunc) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("generate referral code: %w", err)
		}
		code, err := GenerateReferralCode()
		if err != nil {
			return "", fmt.Errorf("generate referral code: %w", err)
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check referral code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
}
