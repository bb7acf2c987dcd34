package ws

const (
	// client - server
	MsgPing = "ping"

	// server - client
	MsgReady  = "ready"
	MsgPong   = "pong"
	MsgReward = "reward"
	MsgClaim  = "claim"
	MsgError  = "error"
)
