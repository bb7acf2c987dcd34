package domain

import "time"

// AuditLog records an action that changed referral or reward state
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Audit action categories
const (
	AuditCategoryReferral = "referral"
	AuditCategoryPayment  = "payment"
	AuditCategoryReward   = "reward"
)

// Audit actions
const (
	AuditActionRegister = "register"
	AuditActionDeposit  = "deposit"
	AuditActionClaim    = "claim"
)
