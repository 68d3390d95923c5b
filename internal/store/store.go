// Package store exposes the document database as a small capability
// interface: full-collection scan, point lookup, partial-field update, and
// insert. Collections hold schemaless field-to-value documents; everything
// the scorers and the dispatcher know about shape lives in the accessor
// helpers in doc.go.
//
// The production implementation (PG) runs on jsonb tables through the
// prepared statements registered in internal/db. Consumers take the Store
// interface so tests can substitute in-memory doubles.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hubgrove/hubgrove-engine/internal/db"
)

// Collection names — single source of truth, matches schema.sql.
const (
	Hubs          = "hubs"
	Users         = "users"
	Posts         = "posts"
	Chats         = "chats"
	ChatMessages  = "chat_messages"
	Notifications = "notifications"
)

// ErrNotFound is returned by Get when no document exists for the id.
var ErrNotFound = errors.New("document not found")

// Doc is a schemaless document: field name to value.
type Doc map[string]any

// Record is a document paired with its id, as returned by collection scans.
type Record struct {
	ID  string
	Doc Doc
}

// Store is the document database contract the engine depends on.
type Store interface {
	// Scan returns every document in a collection. No filtering, no paging.
	Scan(ctx context.Context, collection string) ([]Record, error)
	// Get returns a single document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Doc, error)
	// GetMessage returns a chat message document or ErrNotFound. Messages
	// live in a subcollection, addressed by chat id plus message id.
	GetMessage(ctx context.Context, chatID, id string) (Doc, error)
	// Merge updates only the named fields of a document; others untouched.
	Merge(ctx context.Context, collection, id string, fields Doc) error
	// Insert creates a new document.
	Insert(ctx context.Context, collection, id string, doc Doc) error
	// Exists reports whether any document in the collection contains all of
	// the given field values.
	Exists(ctx context.Context, collection string, fields Doc) (bool, error)
}

// --------------------------------------------------------------------------
// Postgres implementation
// --------------------------------------------------------------------------

var (
	scannable  = map[string]bool{Hubs: true, Users: true, Posts: true}
	gettable   = map[string]bool{Hubs: true, Users: true, Posts: true, Chats: true, Notifications: true}
	mergeable  = map[string]bool{Hubs: true, Posts: true, Notifications: true}
	insertable = map[string]bool{Notifications: true}
)

// PG is the pgx-backed Store.
type PG struct {
	pool *db.Pool
}

// New creates a Postgres-backed document store.
func New(pool *db.Pool) *PG {
	return &PG{pool: pool}
}

func (s *PG) Scan(ctx context.Context, collection string) ([]Record, error) {
	if !scannable[collection] {
		return nil, fmt.Errorf("collection %q is not scannable", collection)
	}
	rows, err := s.pool.Query(ctx, "scan_"+collection)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", collection, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Doc); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", collection, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *PG) Get(ctx context.Context, collection, id string) (Doc, error) {
	if !gettable[collection] {
		return nil, fmt.Errorf("collection %q is not gettable", collection)
	}
	var doc Doc
	err := s.pool.QueryRow(ctx, "get_"+collection, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *PG) GetMessage(ctx context.Context, chatID, id string) (Doc, error) {
	var doc Doc
	err := s.pool.QueryRow(ctx, "get_chat_messages", chatID, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s/%s: %w", Chats, chatID, id, err)
	}
	return doc, nil
}

func (s *PG) Merge(ctx context.Context, collection, id string, fields Doc) error {
	if !mergeable[collection] {
		return fmt.Errorf("collection %q is not mergeable", collection)
	}
	if _, err := s.pool.Exec(ctx, "merge_"+collection, id, fields); err != nil {
		return fmt.Errorf("merge %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PG) Insert(ctx context.Context, collection, id string, doc Doc) error {
	if !insertable[collection] {
		return fmt.Errorf("collection %q is not insertable", collection)
	}
	if _, err := s.pool.Exec(ctx, "insert_"+collection, id, doc); err != nil {
		return fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PG) Exists(ctx context.Context, collection string, fields Doc) (bool, error) {
	if !insertable[collection] {
		return false, fmt.Errorf("collection %q has no containment lookup", collection)
	}
	var n int
	err := s.pool.QueryRow(ctx, "exists_"+collection, fields).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", collection, err)
	}
	return true, nil
}
