package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"referral_rewards/internal/config"
	"referral_rewards/internal/db"
	"referral_rewards/internal/domain"
	"referral_rewards/internal/logger"
	"referral_rewards/internal/repository"
	"referral_rewards/internal/service"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// levelsFile is the on-disk schedule, e.g.
//
//	levels:
//	  - level: 1
//	    percentage: "10"
type levelsFile struct {
	Levels []struct {
		Level      int    `yaml:"level"`
		Percentage string `yaml:"percentage"`
	} `yaml:"levels"`
}

func parseLevels(b []byte) ([]domain.RewardLevel, error) {
	var f levelsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(f.Levels) == 0 {
		return nil, fmt.Errorf("no levels defined")
	}

	levels := make([]domain.RewardLevel, 0, len(f.Levels))
	for _, l := range f.Levels {
		pct, err := decimal.NewFromString(l.Percentage)
		if err != nil {
			return nil, fmt.Errorf("level %d: invalid percentage %q", l.Level, l.Percentage)
		}
		levels = append(levels, domain.RewardLevel{Level: l.Level, Percentage: pct})
	}
	return levels, nil
}

func main() {
	path := flag.String("file", "reward_levels.yaml", "YAML file with the reward schedule")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	b, err := os.ReadFile(*path)
	if err != nil {
		logger.Fatal("read levels file", "file", *path, "error", err)
	}
	levels, err := parseLevels(b)
	if err != nil {
		logger.Fatal("invalid levels file", "file", *path, "error", err)
	}

	pool := db.Connect(cfg.DatabaseURL, 2)
	defer pool.Close()

	svc := service.NewReferralService(repository.NewStore(pool), service.Options{})
	if err := svc.SetRewardLevels(context.Background(), levels); err != nil {
		logger.Fatal("seed reward levels", "error", err)
	}

	for _, l := range levels {
		fmt.Printf("level %d: %s%%\n", l.Level, l.Percentage.String())
	}
}
