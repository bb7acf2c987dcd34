package repository

import (
	"context"
	"encoding/json"

	"referral_rewards/internal/domain"
)

// AuditRepository handles audit log database operations
type AuditRepository struct {
	db DBTX
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog inserts a new audit log entry. Inside a transaction the row
// commits or rolls back together with the change it describes.
func (r *AuditRepository) CreateAuditLog(ctx context.Context, log *domain.AuditLog) error {
	detailsJSON, err := json.Marshal(log.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, action, category, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, log.UserID, log.Action, log.Category, detailsJSON).Scan(&log.ID, &log.CreatedAt)
}
