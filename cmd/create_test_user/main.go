package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"referral_rewards/internal/config"
	"referral_rewards/internal/db"
	"referral_rewards/internal/logger"
	"referral_rewards/internal/repository"
	"referral_rewards/internal/service"

	"github.com/shopspring/decimal"
)

// Seeds a three-user chain root <- mid <- leaf and one deposit by the leaf so
// the summary endpoints have data to show.
func main() {
	prefix := flag.String("prefix", "demo", "email local-part prefix")
	deposit := flag.String("deposit", "100.00", "deposit made by the leaf user")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	amount, err := decimal.NewFromString(*deposit)
	if err != nil {
		logger.Fatal("invalid deposit amount", "value", *deposit)
	}

	pool := db.Connect(cfg.DatabaseURL, 2)
	defer pool.Close()

	svc := service.NewReferralService(repository.NewStore(pool), service.Options{
		MaxDepth:     cfg.MaxReferralDepth,
		LinkTemplate: cfg.ReferralLinkTemplate,
	})
	ctx := context.Background()

	code := ""
	var emails []string
	for _, name := range []string{"root", "mid", "leaf"} {
		email := fmt.Sprintf("%s-%s@example.com", *prefix, name)
		reg, err := svc.Register(ctx, email, code)
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			logger.Fatal("test users already exist, pick another -prefix", "email", email)
		case err != nil:
			logger.Fatal("register failed", "email", email, "error", err)
		}
		fmt.Printf("registered %-28s id=%d code=%s link=%s\n", reg.Email, reg.ID, reg.ReferralCode, reg.Link)
		code = reg.ReferralCode
		emails = append(emails, reg.Email)
	}

	res, err := svc.RecordDeposit(ctx, emails[2], amount)
	if err != nil {
		logger.Fatal("deposit failed", "error", err)
	}
	fmt.Printf("deposit id=%d amount=%s rewards=%d\n", res.Deposit.ID, amount.StringFixed(2), len(res.Rewards))

	for _, email := range emails[:2] {
		sum, err := svc.Summary(ctx, email)
		if err != nil {
			logger.Fatal("summary failed", "email", email, "error", err)
		}
		fmt.Printf("%s pending=%s referrals=%d\n", email, sum.PendingRewards, len(sum.Referrals))
	}
}
