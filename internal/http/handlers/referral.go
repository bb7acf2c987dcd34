package handlers

import (
	"net/http"

	"referral_rewards/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Email        string `json:"email" binding:"required"`
	ReferralCode string `json:"referralCode"`
}

// Register creates a user, optionally referred by the owner of referralCode
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email is required")
		return
	}

	reg, err := h.Service.Register(c.Request.Context(), req.Email, req.ReferralCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": reg})
}

type DepositRequest struct {
	Email  string          `json:"email" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// Deposit records a deposit and pays rewards up the referral chain
func (h *Handler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and a numeric amount are required")
		return
	}

	res, err := h.Service.RecordDeposit(c.Request.Context(), req.Email, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"depositId": res.Deposit.ID,
		"rewards":   len(res.Rewards),
	})
}

type ClaimRequest struct {
	Email string `json:"email" binding:"required"`
}

// Claim pays out all pending rewards of a user
func (h *Handler) Claim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email is required")
		return
	}

	amount, err := h.Service.Claim(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"claimedAmount": domain.FormatMoney(amount),
	})
}

// UserSummary returns totals, referrals and rewards of one user
func (h *Handler) UserSummary(c *gin.Context) {
	summary, err := h.Service.Summary(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.Service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) RewardLevels(c *gin.Context) {
	levels, err := h.Service.RewardLevels(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"levels": levels})
}
