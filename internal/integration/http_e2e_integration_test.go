package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpServer "referral_rewards/internal/http"
	"referral_rewards/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer res.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return res.StatusCode, out
}

func TestHTTPFlowWithRewardFeed(t *testing.T) {
	db, svc := setup(t)
	gin.SetMode(gin.TestMode)

	hub := ws.NewHub()
	svc.SetNotifier(hub)
	srv := httptest.NewServer(httpServer.NewRouter(httpServer.Deps{
		Service:   svc,
		DB:        db,
		Hub:       hub,
		Version:   "e2e",
		RateLimit: 1000,
	}))
	defer srv.Close()

	rootEmail := uniqueEmail("http-root")
	status, body := postJSON(t, srv.URL+"/api/v1/register", map[string]string{"email": rootEmail})
	require.Equal(t, http.StatusCreated, status)
	code := body["user"].(map[string]interface{})["code"].(string)

	leafEmail := uniqueEmail("http-leaf")
	status, _ = postJSON(t, srv.URL+"/api/v1/register", map[string]string{"email": leafEmail, "referralCode": code})
	require.Equal(t, http.StatusCreated, status)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/rewards?email=" + rootEmail
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var ready ws.Message
	require.NoError(t, conn.ReadJSON(&ready))
	require.Equal(t, ws.MsgReady, ready.Type)

	status, body = postJSON(t, srv.URL+"/api/v1/deposit", map[string]interface{}{"email": leafEmail, "amount": "40.00"})
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 1, body["rewards"])

	var event struct {
		Type string `json:"type"`
		Data struct {
			Amount string `json:"amount"`
			Level  int    `json:"level"`
		} `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, ws.MsgReward, event.Type)
	require.Equal(t, "4.00", event.Data.Amount)
	require.Equal(t, 1, event.Data.Level)

	status, body = postJSON(t, srv.URL+"/api/v1/claim", map[string]string{"email": rootEmail})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "4.00", body["claimedAmount"])

	status, body = postJSON(t, srv.URL+"/api/v1/claim", map[string]string{"email": rootEmail})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "no_pending_rewards", body["kind"])
}
