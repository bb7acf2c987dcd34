package domain

import "time"

type RewardEventType string

const (
	RewardEventCreated RewardEventType = "reward"
	RewardEventClaimed RewardEventType = "claim"
)

// RewardEvent is pushed to connected beneficiaries after a commit.
type RewardEvent struct {
	Type      RewardEventType `json:"type"`
	UserID    int64           `json:"user_id"`
	FromEmail string          `json:"from_email,omitempty"`
	Level     int             `json:"level,omitempty"`
	Amount    string          `json:"amount"`
	At        time.Time       `json:"at"`
}
