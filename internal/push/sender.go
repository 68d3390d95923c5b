// Package push delivers best-effort push notifications to device tokens.
// Delivery is fire-and-forget: a failed send is logged by the caller and
// never retried.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	fcmEndpoint = "https://fcm.googleapis.com/fcm/send"
	sendTimeout = 10 * time.Second
)

// Payload is the notification content plus typed data fields.
type Payload struct {
	Title string
	Body  string
	Data  map[string]string
}

// Sender attempts delivery of one payload to one device token.
type Sender interface {
	Send(ctx context.Context, token string, p Payload) error
}

// --------------------------------------------------------------------------
// FCM implementation
// --------------------------------------------------------------------------

// FCMSender sends push notifications via Firebase Cloud Messaging.
// Nil-safe: when not configured, Send is a no-op.
type FCMSender struct {
	serverKey string
	endpoint  string
	client    *http.Client
	logger    *slog.Logger
}

// NewFCMSender creates an FCM sender from a server key.
// Returns nil if serverKey is empty (push delivery disabled).
func NewFCMSender(serverKey string, logger *slog.Logger) *FCMSender {
	if serverKey == "" {
		return nil
	}
	return &FCMSender{
		serverKey: serverKey,
		endpoint:  fcmEndpoint,
		client:    &http.Client{Timeout: sendTimeout},
		logger:    logger,
	}
}

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send posts one message to FCM. No delivery confirmation is consumed
// beyond the HTTP status.
func (s *FCMSender) Send(ctx context.Context, token string, p Payload) error {
	if s == nil {
		return nil // no-op when not configured
	}

	body, err := json.Marshal(fcmMessage{
		To:           token,
		Notification: fcmNotification{Title: p.Title, Body: p.Body},
		Data:         p.Data,
	})
	if err != nil {
		return fmt.Errorf("marshal fcm message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build fcm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.serverKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fcm send: status %d", resp.StatusCode)
	}
	s.logger.Debug("fcm send ok", "title", p.Title)
	return nil
}
