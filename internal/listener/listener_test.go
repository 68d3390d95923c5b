package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubgrove/hubgrove-engine/internal/dispatch"
	"github.com/hubgrove/hubgrove-engine/internal/push"
	"github.com/hubgrove/hubgrove-engine/internal/store"
)

// --------------------------------------------------------------------------
// Test doubles
// --------------------------------------------------------------------------

// eventStore holds documents for the fetch-on-event path. Chat messages are
// keyed chatID/id.
type eventStore struct {
	docs     map[string]store.Doc
	messages map[string]store.Doc
}

func newEventStore() *eventStore {
	return &eventStore{
		docs:     make(map[string]store.Doc),
		messages: make(map[string]store.Doc),
	}
}

func (s *eventStore) Get(_ context.Context, collection, id string) (store.Doc, error) {
	doc, ok := s.docs[collection+"/"+id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return doc, nil
}

func (s *eventStore) GetMessage(_ context.Context, chatID, id string) (store.Doc, error) {
	doc, ok := s.messages[chatID+"/"+id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return doc, nil
}

func (s *eventStore) Scan(context.Context, string) ([]store.Record, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *eventStore) Merge(context.Context, string, string, store.Doc) error {
	return nil
}

func (s *eventStore) Insert(context.Context, string, string, store.Doc) error {
	return fmt.Errorf("not implemented")
}

func (s *eventStore) Exists(context.Context, string, store.Doc) (bool, error) {
	return false, nil
}

type capturingSender struct {
	tokens   []string
	payloads []push.Payload
}

func (c *capturingSender) Send(_ context.Context, token string, p push.Payload) error {
	c.tokens = append(c.tokens, token)
	c.payloads = append(c.payloads, p)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --------------------------------------------------------------------------
// Event payload decoding
// --------------------------------------------------------------------------

// Payload shape produced by the notify_doc_created trigger in schema.sql:
// ids only, never the document, so payload size stays far below the NOTIFY
// cap no matter how large the record is.
func TestDocEventDecoding(t *testing.T) {
	t.Run("chat message", func(t *testing.T) {
		payload := `{"id": "m1", "chat_id": "c1", "collection": "chat_messages"}`
		var event DocEvent
		require.NoError(t, json.Unmarshal([]byte(payload), &event))
		assert.Equal(t, "chat_messages", event.Collection)
		assert.Equal(t, "c1", event.ChatID)
		assert.Equal(t, "m1", event.ID)
	})

	t.Run("notification", func(t *testing.T) {
		payload := `{"id": "n1", "collection": "notifications"}`
		var event DocEvent
		require.NoError(t, json.Unmarshal([]byte(payload), &event))
		assert.Equal(t, "notifications", event.Collection)
		assert.Equal(t, "", event.ChatID)
		assert.Equal(t, "n1", event.ID)
	})
}

// --------------------------------------------------------------------------
// Fetch-then-dispatch
// --------------------------------------------------------------------------

func TestHandleEventFetchesChatMessage(t *testing.T) {
	st := newEventStore()
	st.messages["c1/m1"] = store.Doc{"senderId": "alice", "text": "hello"}
	st.docs[store.Chats+"/c1"] = store.Doc{"participants": []any{"alice", "bob"}}
	st.docs[store.Users+"/alice"] = store.Doc{"fullName": "Alice Moreau", "fcmToken": "tok-alice"}
	st.docs[store.Users+"/bob"] = store.Doc{"fcmToken": "tok-bob"}
	sender := &capturingSender{}
	d := dispatch.New(st, sender, discardLogger())

	handleEvent(context.Background(), st, d,
		DocEvent{Collection: store.ChatMessages, ChatID: "c1", ID: "m1"}, discardLogger())

	require.Len(t, sender.tokens, 1)
	assert.Equal(t, "tok-bob", sender.tokens[0])
	assert.Equal(t, "Alice Moreau", sender.payloads[0].Title)
	assert.Equal(t, "hello", sender.payloads[0].Body)
}

func TestHandleEventFetchesNotification(t *testing.T) {
	st := newEventStore()
	st.docs[store.Notifications+"/n1"] = store.Doc{
		"type": "milestone", "recipientId": "u1", "postId": "p1", "milestone": float64(50),
	}
	st.docs[store.Users+"/u1"] = store.Doc{"fcmToken": "tok-u1"}
	sender := &capturingSender{}
	d := dispatch.New(st, sender, discardLogger())

	handleEvent(context.Background(), st, d,
		DocEvent{Collection: store.Notifications, ID: "n1"}, discardLogger())

	require.Len(t, sender.tokens, 1)
	assert.Equal(t, "tok-u1", sender.tokens[0])
	assert.Equal(t, "Your post is trending!", sender.payloads[0].Title)
}

func TestHandleEventRecordGoneSkips(t *testing.T) {
	st := newEventStore()
	sender := &capturingSender{}
	d := dispatch.New(st, sender, discardLogger())

	handleEvent(context.Background(), st, d,
		DocEvent{Collection: store.ChatMessages, ChatID: "c1", ID: "ghost"}, discardLogger())
	handleEvent(context.Background(), st, d,
		DocEvent{Collection: store.Notifications, ID: "ghost"}, discardLogger())

	assert.Empty(t, sender.tokens)
}

func TestHandleEventUnknownCollectionIgnored(t *testing.T) {
	st := newEventStore()
	sender := &capturingSender{}
	d := dispatch.New(st, sender, discardLogger())

	handleEvent(context.Background(), st, d,
		DocEvent{Collection: "hubs", ID: "h1"}, discardLogger())

	assert.Empty(t, sender.tokens)
}
