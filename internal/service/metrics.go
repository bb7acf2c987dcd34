package service

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_registrations_total",
			Help: "Users registered, split by whether a referral code was used",
		},
		[]string{"referred"},
	)
	DepositsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_deposits_total",
			Help: "Deposits recorded",
		},
	)
	RewardsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_rewards_created_total",
			Help: "Reward rows created, by level",
		},
		[]string{"level"},
	)
	ClaimsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_claims_total",
			Help: "Successful reward claims",
		},
	)
	ClaimedAmountTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_claimed_amount_total",
			Help: "Sum of claimed reward amounts",
		},
	)
)

func init() {
	prometheus.MustRegister(RegistrationsTotal)
	prometheus.MustRegister(DepositsTotal)
	prometheus.MustRegister(RewardsCreatedTotal)
	prometheus.MustRegister(ClaimsTotal)
	prometheus.MustRegister(ClaimedAmountTotal)
}

func levelLabel(level int) string {
	return strconv.Itoa(level)
}
