package dispatch

import (
	"context"
	"errors"

	"github.com/hubgrove/hubgrove-engine/internal/push"
	"github.com/hubgrove/hubgrove-engine/internal/store"
)

// Title used when the sender has no fullName on record.
const fallbackSenderName = "New Message"

// Message is a newly created chat message, as delivered by the create-event
// substrate. ChatID comes from the document path.
type Message struct {
	ChatID   string
	ID       string
	SenderID string
	Text     string
}

// MessageFromDoc builds a Message from a raw chat_messages document.
func MessageFromDoc(chatID, id string, doc store.Doc) Message {
	return Message{
		ChatID:   chatID,
		ID:       id,
		SenderID: store.Str(doc, "senderId"),
		Text:     store.Str(doc, "text"),
	}
}

// HandleChatMessage notifies the other chat participant of a new message.
func (d *Dispatcher) HandleChatMessage(ctx context.Context, msg Message) Outcome {
	chat, err := d.store.Get(ctx, store.Chats, msg.ChatID)
	if errors.Is(err, store.ErrNotFound) {
		return d.finish(msg, suppressed("chat not found"))
	}
	if err != nil {
		return d.finish(msg, failed("chat lookup: "+err.Error()))
	}

	recipientID := otherParticipant(store.Strings(chat, "participants"), msg.SenderID)
	if recipientID == "" {
		return d.finish(msg, suppressed("no recipient"))
	}

	recipient, err := d.store.Get(ctx, store.Users, recipientID)
	if errors.Is(err, store.ErrNotFound) {
		return d.finish(msg, suppressed("recipient not found"))
	}
	if err != nil {
		return d.finish(msg, failed("recipient lookup: "+err.Error()))
	}

	token := store.Str(recipient, "fcmToken")
	if token == "" {
		return d.finish(msg, suppressed("recipient has no device token"))
	}

	sender, err := d.store.Get(ctx, store.Users, msg.SenderID)
	if errors.Is(err, store.ErrNotFound) {
		return d.finish(msg, suppressed("sender not found"))
	}
	if err != nil {
		return d.finish(msg, failed("sender lookup: "+err.Error()))
	}
	title := fallbackSenderName
	if name := store.Str(sender, "fullName"); name != "" {
		title = name
	}

	payload := push.Payload{
		Title: title,
		Body:  msg.Text,
		Data:  map[string]string{"type": "chat", "chatId": msg.ChatID},
	}
	if err := d.sender.Send(ctx, token, payload); err != nil {
		return d.finish(msg, failed("send: "+err.Error()))
	}
	return d.finish(msg, dispatched)
}

// otherParticipant returns the first participant that is not the sender,
// or "" when every participant is the sender.
func otherParticipant(participants []string, senderID string) string {
	for _, p := range participants {
		if p != senderID {
			return p
		}
	}
	return ""
}

func (d *Dispatcher) finish(msg Message, o Outcome) Outcome {
	switch o.State {
	case StateFailed:
		d.logger.Warn("chat dispatch failed",
			"chat_id", msg.ChatID, "message_id", msg.ID, "reason", o.Reason)
	case StateSuppressed:
		d.logger.Debug("chat dispatch suppressed",
			"chat_id", msg.ChatID, "message_id", msg.ID, "reason", o.Reason)
	default:
		d.logger.Info("chat notification dispatched",
			"chat_id", msg.ChatID, "message_id", msg.ID)
	}
	return o
}
