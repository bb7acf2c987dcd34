package ws

import (
	"encoding/json"

	"referral_rewards/internal/domain"
)

// Message is the envelope of every frame sent to a client
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// ErrorPayload is sent when a client message cannot be handled
type ErrorPayload struct {
	Message string `json:"message"`
}

func encode(msgType string, data interface{}) []byte {
	b, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		// only reachable with unmarshalable data, which none of our payloads are
		return []byte(`{"type":"error"}`)
	}
	return b
}

func eventMessage(event domain.RewardEvent) []byte {
	msgType := MsgReward
	if event.Type == domain.RewardEventClaimed {
		msgType = MsgClaim
	}
	return encode(msgType, event)
}
