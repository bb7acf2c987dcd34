package service

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last@example.com", "x+tag@sub.domain.org"}
	for _, e := range valid {
		require.NoError(t, ValidateEmail(e), e)
	}

	invalid := []string{"", "plain", "a@b", "a b@c.de", "@b.co", "a@.", strings.Repeat("a", 250) + "@b.co"}
	for _, e := range invalid {
		err := ValidateEmail(e)
		require.ErrorIs(t, err, ErrValidation, e)
	}
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}

func TestValidateAmount(t *testing.T) {
	require.NoError(t, ValidateAmount(decimal.RequireFromString("0.01")))
	require.NoError(t, ValidateAmount(decimal.RequireFromString("100.50")))

	for _, s := range []string{"0", "-5", "1.005"} {
		require.ErrorIs(t, ValidateAmount(decimal.RequireFromString(s)), ErrValidation, s)
	}
}

func TestKind(t *testing.T) {
	require.Equal(t, KindValidation, Kind(ValidateEmail("bad")))
	require.Equal(t, KindDuplicateEmail, Kind(ErrDuplicateEmail))
	require.Equal(t, KindInvalidReferralCode, Kind(ErrInvalidReferralCode))
	require.Equal(t, KindUserNotFound, Kind(ErrUserNotFound))
	require.Equal(t, KindNoPendingRewards, Kind(ErrNoPendingRewards))
	require.Equal(t, KindInternal, Kind(errStoreDown))
}
