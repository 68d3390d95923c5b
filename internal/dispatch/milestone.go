package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hubgrove/hubgrove-engine/internal/push"
	"github.com/hubgrove/hubgrove-engine/internal/store"
)

const (
	milestoneType  = "milestone"
	milestoneTitle = "Your post is trending!"
	milestoneBody  = "Your post just reached %s positive reactions! Keep it up!"
)

// Notification is a newly created notification record, as delivered by the
// create-event substrate.
type Notification struct {
	ID          string
	Type        string
	RecipientID string
	PostID      string
	Milestone   string // stringified; "" when absent or malformed
}

// NotificationFromDoc builds a Notification from a raw notifications document.
func NotificationFromDoc(id string, doc store.Doc) Notification {
	return Notification{
		ID:          id,
		Type:        store.Str(doc, "type"),
		RecipientID: store.Str(doc, "recipientId"),
		PostID:      store.Str(doc, "postId"),
		Milestone:   stringifyMilestone(doc["milestone"]),
	}
}

// HandleNotification pushes a milestone alert to the record's recipient.
// Records of any other type are suppressed without touching the database.
func (d *Dispatcher) HandleNotification(ctx context.Context, n Notification) Outcome {
	if n.Type != milestoneType {
		return d.finishNotification(n, suppressed("not a milestone notification"))
	}

	recipient, err := d.store.Get(ctx, store.Users, n.RecipientID)
	if errors.Is(err, store.ErrNotFound) {
		return d.finishNotification(n, suppressed("recipient not found"))
	}
	if err != nil {
		return d.finishNotification(n, failed("recipient lookup: "+err.Error()))
	}

	token := store.Str(recipient, "fcmToken")
	if token == "" {
		return d.finishNotification(n, suppressed("recipient has no device token"))
	}

	payload := push.Payload{
		Title: milestoneTitle,
		Body:  fmt.Sprintf(milestoneBody, n.Milestone),
		Data: map[string]string{
			"type":      milestoneType,
			"postId":    n.PostID,
			"milestone": n.Milestone,
		},
	}
	if err := d.sender.Send(ctx, token, payload); err != nil {
		return d.finishNotification(n, failed("send: "+err.Error()))
	}

	// Mark the record delivered so maintenance can purge the marker later.
	// The record itself stays: it is the milestone dedupe source and the
	// recipient's inbox entry. A failed marker write never demotes the
	// outcome; the push already went out.
	marker := store.Doc{"dispatchedAt": time.Now().UTC().Format(time.RFC3339)}
	if err := d.store.Merge(ctx, store.Notifications, n.ID, marker); err != nil {
		d.logger.Warn("milestone delivery marker write failed",
			"notification_id", n.ID, "error", err)
	}
	return d.finishNotification(n, dispatched)
}

// stringifyMilestone renders the milestone value for payload fields.
// Numbers keep their shortest decimal form; anything else degrades to "".
func stringifyMilestone(v any) string {
	switch m := v.(type) {
	case string:
		return m
	case float64:
		return strconv.FormatFloat(m, 'f', -1, 64)
	case int:
		return strconv.Itoa(m)
	case int64:
		return strconv.FormatInt(m, 10)
	default:
		return ""
	}
}

func (d *Dispatcher) finishNotification(n Notification, o Outcome) Outcome {
	switch o.State {
	case StateFailed:
		d.logger.Warn("milestone dispatch failed",
			"notification_id", n.ID, "post_id", n.PostID, "reason", o.Reason)
	case StateSuppressed:
		d.logger.Debug("milestone dispatch suppressed",
			"notification_id", n.ID, "reason", o.Reason)
	default:
		d.logger.Info("milestone notification dispatched",
			"notification_id", n.ID, "post_id", n.PostID, "milestone", n.Milestone)
	}
	return o
}
