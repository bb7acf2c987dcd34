package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"referral_rewards/internal/domain"
	"referral_rewards/internal/service"
	"referral_rewards/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestRewardFeed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := ws.NewHub()
	svc := &stubService{userID: func(email string) (int64, error) {
		if email == "b@example.com" {
			return 2, nil
		}
		return 0, service.ErrUserNotFound
	}}
	h := NewHandler(svc)
	r := gin.New()
	r.GET("/ws/rewards", h.RewardFeed(hub, ""))

	srv := httptest.NewServer(r)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/rewards"

	_, res, err := websocket.DefaultDialer.Dial(base, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	_, res, err = websocket.DefaultDialer.Dial(base+"?email=ghost@example.com", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(base+"?email=b@example.com", nil)
	require.NoError(t, err)
	defer conn.Close()

	var ready ws.Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&ready))
	require.Equal(t, ws.MsgReady, ready.Type)
	require.Equal(t, 1, hub.ClientCount(2))

	hub.Publish(domain.RewardEvent{Type: domain.RewardEventCreated, UserID: 2, Level: 1, Amount: "10.00"})

	var msg struct {
		Type string             `json:"type"`
		Data domain.RewardEvent `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, ws.MsgReward, msg.Type)
	require.Equal(t, "10.00", msg.Data.Amount)
}
