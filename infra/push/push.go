// Package push delivers safety-change notifications over Firebase Cloud
// Messaging.
package push

import (
	"context"
	"encoding/base64"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/kfenech/ferrywatch/infra/logger"
)

// Config defines the FCM credentials. Push is disabled when the service
// account is empty.
type Config struct {
	// ServiceAccount is the base64-encoded service account JSON.
	ServiceAccount string `json:"service_account"`
}

// Sender sends one notification to one device token.
type Sender interface {
	Send(ctx context.Context, token, title, body string) error
}

// FCMSender implements Sender on Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
	log    logger.Logger
}

// NewFCMSender initializes the Firebase app from the configured service
// account.
func NewFCMSender(ctx context.Context, cfg Config) (*FCMSender, error) {
	decoded, err := base64.StdEncoding.DecodeString(cfg.ServiceAccount)
	if err != nil {
		return nil, fmt.Errorf("decode service account: %w", err)
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(decoded))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init messaging client: %w", err)
	}
	return &FCMSender{client: client, log: logger.New("push")}, nil
}

// Send delivers one notification.
func (s *FCMSender) Send(ctx context.Context, token, title, body string) error {
	_, err := s.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	return err
}
