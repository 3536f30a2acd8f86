package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/park285/Cheese-ClickChess/internal/obslog"
	"github.com/park285/Cheese-ClickChess/internal/relay"
)

// relaycheck calls the relay's health endpoint, then prints websocket
// traffic for a short window.
func main() {
	if err := obslog.Init(obslog.Options{Level: "info", Console: true, Format: "console"}); err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	logger := obslog.L()

	baseURL := os.Getenv("RELAY_BASE_URL")
	wsURL := os.Getenv("RELAY_WS_URL")
	userID := os.Getenv("X_USER_ID")
	sessionID := os.Getenv("X_SESSION_ID")
	if baseURL == "" {
		logger.Fatal("RELAY_BASE_URL is required")
	}

	headers := func() map[string]string {
		m := map[string]string{}
		if userID != "" {
			m["X-User-Id"] = userID
		}
		if sessionID != "" {
			m["X-Session-Id"] = sessionID
		}
		return m
	}

	client := relay.NewClient(baseURL,
		relay.WithHeaderProvider(headers),
		relay.WithTimeout(8*time.Second),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if h, err := client.Health(ctx); err != nil {
		logger.Warn("health_failed", zap.Error(err))
	} else {
		logger.Info("health_ok", zap.String("status", h.Status), zap.String("version", h.Version))
	}

	if wsURL == "" {
		logger.Info("RELAY_WS_URL not set; skipping websocket check")
		return
	}

	ws := relay.NewWebSocket(wsURL, 0, time.Second)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state relay.WebSocketState) {
		logger.Info("ws_state", zap.String("state", string(state)))
	})
	ws.OnMessage(func(msg *relay.Message) {
		fmt.Printf("room=%s from=%s text=%q\n", msg.Room, msg.Sender, msg.Msg)
	})

	cctx, ccancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer ccancel()
	if err := ws.Connect(cctx); err != nil {
		logger.Warn("ws_connect_failed", zap.Error(err))
		return
	}

	time.Sleep(10 * time.Second)
	_ = ws.Close(context.Background())
}
