package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"referral_rewards/internal/logger"

	"github.com/gorilla/websocket"
)

// Connects to the reward feed of -email, optionally triggers a deposit by
// -depositor over the REST API, and prints every frame received until -wait
// elapses.
func main() {
	email := flag.String("email", "", "beneficiary whose feed to watch")
	depositor := flag.String("depositor", "", "user that deposits to trigger rewards")
	amount := flag.String("amount", "25.00", "deposit amount")
	wait := flag.Duration("wait", 3*time.Second, "how long to listen")
	flag.Parse()

	if *email == "" {
		logger.Fatal("-email is required")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := "127.0.0.1:" + port

	wsURL := url.URL{Scheme: "ws", Host: base, Path: "/ws/rewards", RawQuery: url.Values{"email": {*email}}.Encode()}
	conn, res, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		status := 0
		if res != nil {
			status = res.StatusCode
		}
		logger.Fatal("dial feed", "url", wsURL.String(), "status", status, "error", err)
	}
	defer conn.Close()

	if *depositor != "" {
		body, _ := json.Marshal(map[string]string{"email": *depositor, "amount": *amount})
		resp, err := http.Post("http://"+base+"/api/v1/deposit", "application/json", bytes.NewReader(body))
		if err != nil {
			logger.Fatal("deposit request", "error", err)
		}
		resp.Body.Close()
		logger.Info("deposit posted", "status", resp.StatusCode)
	}

	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		fmt.Println(string(msg))
	}

	logger.Info("smoke test finished")
}
