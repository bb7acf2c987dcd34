package handlers

import (
	"net/http"

	"referral_rewards/internal/logger"
	"referral_rewards/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// RewardFeed upgrades to a websocket that streams reward and claim events of
// the user identified by ?email=.
func (h *Handler) RewardFeed(hub *ws.Hub, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			badRequest(c, "email is required")
			return
		}

		userID, err := h.Service.UserIDByEmail(c.Request.Context(), email)
		if err != nil {
			respondError(c, err)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("ws upgrade failed", "error", err)
			return
		}

		client := ws.NewClient(userID, conn, hub)
		go client.Run()
	}
}
