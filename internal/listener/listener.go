// Package listener provides a Postgres LISTEN/NOTIFY consumer for
// data-change events. It holds a dedicated pgx connection (not from the
// pool) listening on the `doc_created` channel.
//
// schema.sql installs AFTER INSERT triggers on chat_messages and
// notifications that pg_notify the new record's ids, never the document:
// document size is user-controlled and would abort the INSERT once past the
// NOTIFY payload cap. The listener fetches the document itself, then runs
// the dispatcher once per event; duplicate delivery of an event produces a
// duplicate dispatch, as the platform has no deduplication guard.
package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hubgrove/hubgrove-engine/internal/dispatch"
	"github.com/hubgrove/hubgrove-engine/internal/store"
)

const (
	channel          = "doc_created"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// DocEvent is the JSON payload from pg_notify('doc_created', ...). It
// identifies the created record; the document is fetched separately.
type DocEvent struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	ChatID     string `json:"chat_id"`
}

// Start opens a dedicated connection and listens on the doc_created channel.
// It reconnects automatically on connection loss. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, st store.Store, d *dispatch.Dispatcher, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, st, d, logger)
		if ctx.Err() != nil {
			logger.Info("Doc-event listener stopped (context cancelled)")
			return
		}

		logger.Error("Doc-event listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, st store.Store, d *dispatch.Dispatcher, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+channel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", channel, err)
	}
	logger.Info("Doc-event listener connected", "channel", channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		var event DocEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			logger.Warn("Failed to parse doc event",
				"payload", notification.Payload, "error", err)
			continue
		}

		// Process asynchronously to avoid blocking the listener
		go handleEvent(ctx, st, d, event, logger)
	}
}

// handleEvent fetches the created document and routes it to the matching
// dispatcher trigger. A record already gone by fetch time is skipped.
func handleEvent(ctx context.Context, st store.Store, d *dispatch.Dispatcher, event DocEvent, logger *slog.Logger) {
	switch event.Collection {
	case store.ChatMessages:
		doc, err := st.GetMessage(ctx, event.ChatID, event.ID)
		if err != nil {
			logEventFetch(logger, event, err)
			return
		}
		msg := dispatch.MessageFromDoc(event.ChatID, event.ID, doc)
		outcome := d.HandleChatMessage(ctx, msg)
		logger.Info("Chat message event handled",
			"chat_id", event.ChatID, "message_id", event.ID,
			"state", outcome.State.String())

	case store.Notifications:
		doc, err := st.Get(ctx, store.Notifications, event.ID)
		if err != nil {
			logEventFetch(logger, event, err)
			return
		}
		n := dispatch.NotificationFromDoc(event.ID, doc)
		outcome := d.HandleNotification(ctx, n)
		logger.Info("Notification event handled",
			"notification_id", event.ID, "state", outcome.State.String())

	default:
		logger.Warn("Doc event for unhandled collection", "collection", event.Collection)
	}
}

func logEventFetch(logger *slog.Logger, event DocEvent, err error) {
	if errors.Is(err, store.ErrNotFound) {
		logger.Warn("Doc event record already gone",
			"collection", event.Collection, "id", event.ID)
		return
	}
	logger.Error("Doc event fetch failed",
		"collection", event.Collection, "id", event.ID, "error", err)
}
