package handlers

import (
	"context"
	"net/http"

	"referral_rewards/internal/domain"
	"referral_rewards/internal/logger"
	"referral_rewards/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ReferralService is the part of service.ReferralService the HTTP layer uses
type ReferralService interface {
	Register(ctx context.Context, email, referralCode string) (*service.Registration, error)
	RecordDeposit(ctx context.Context, email string, amount decimal.Decimal) (*service.DepositResult, error)
	Claim(ctx context.Context, email string) (decimal.Decimal, error)
	Summary(ctx context.Context, email string) (*domain.Summary, error)
	Stats(ctx context.Context) (*domain.ProgramStats, error)
	RewardLevels(ctx context.Context) ([]domain.RewardLevel, error)
	UserIDByEmail(ctx context.Context, email string) (int64, error)
}

type Handler struct {
	Service ReferralService
}

func NewHandler(svc ReferralService) *Handler {
	return &Handler{Service: svc}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string            `json:"error"`
	Kind  service.ErrorKind `json:"kind"`
}

func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation, service.KindInvalidReferralCode, service.KindNoPendingRewards:
		return http.StatusBadRequest
	case service.KindDuplicateEmail:
		return http.StatusConflict
	case service.KindUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders err by kind. Internal errors are logged and hidden.
func respondError(c *gin.Context, err error) {
	kind := service.Kind(err)
	msg := err.Error()
	if kind == service.KindInternal {
		logger.WithContext(c.Request.Context()).Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(statusFor(kind), ErrorResponse{Error: msg, Kind: kind})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg, Kind: service.KindValidation})
}
