// Package telegram sends best-effort operational alerts to a Telegram chat.
package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kfenech/ferrywatch/infra/logger"
)

// Config defines the bot credentials. Alerting is disabled when either field
// is empty.
type Config struct {
	BotToken string `json:"bot_token"`
	ChatID   string `json:"chat_id"`
}

// Alerter posts messages to the configured chat. Sends are fire-and-forget:
// a failed alert is logged and dropped, never retried, and never blocks the
// caller for more than the HTTP timeout.
type Alerter struct {
	cfg    Config
	client *http.Client
	log    logger.Logger
}

// NewAlerter creates an Alerter.
func NewAlerter(cfg Config) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 5 * time.Second},
		log:    logger.New("telegram"),
	}
}

// Enabled reports whether credentials are configured.
func (a *Alerter) Enabled() bool {
	return a.cfg.BotToken != "" && a.cfg.ChatID != ""
}

// Alert sends one message. Safe to call from any goroutine.
func (a *Alerter) Alert(msg string) {
	if !a.Enabled() {
		return
	}
	payload, err := json.Marshal(map[string]string{
		"chat_id": a.cfg.ChatID,
		"text":    msg,
	})
	if err != nil {
		return
	}
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", a.cfg.BotToken)
	resp, err := a.client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		a.log.Warnf("telegram alert failed: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		a.log.Warnf("telegram alert status %d", resp.StatusCode)
	}
}
