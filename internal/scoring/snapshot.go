// Package scoring recomputes engagement-derived ranking scores for hubs and
// posts. Each batch pass loads a point-in-time snapshot of the collections it
// needs, computes every entity's score from scratch, and writes one
// partial-field update per entity. Scores are pure functions of the snapshot
// and the pass's reference instant, so re-running a pass over unchanged data
// is a no-op in effect.
package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/hubgrove/hubgrove-engine/internal/store"
)

// --------------------------------------------------------------------------
// Typed snapshot views
// --------------------------------------------------------------------------

// Hub is the scorer's view of a hub document. Membership is not stored on
// the hub; it is derived from User.JoinedHubs.
type Hub struct {
	ID string
}

// User is the scorer's view of a user document.
type User struct {
	ID         string
	JoinedHubs []string
}

// Post is the scorer's view of a post document. Counters default to 0 when
// the field is absent. Posted is false when postingTime is missing or
// malformed; such posts still exist for every purpose except recency.
type Post struct {
	ID          string
	HubID       string
	AuthorID    string
	PostingTime time.Time
	Posted      bool
	Upvotes     int
	Downvotes   int
	Comments    int
	Shares      int
}

// Snapshot holds full-collection reads taken for one batch pass.
type Snapshot struct {
	Hubs  []Hub
	Users []User
	Posts []Post
}

// --------------------------------------------------------------------------
// Loader
// --------------------------------------------------------------------------

// LoadSnapshot scans hubs, users, and posts. All three scans must succeed or
// the pass aborts — a partial snapshot would skew derived counts.
func LoadSnapshot(ctx context.Context, st store.Store) (*Snapshot, error) {
	hubRecords, err := st.Scan(ctx, store.Hubs)
	if err != nil {
		return nil, fmt.Errorf("load hubs: %w", err)
	}
	userRecords, err := st.Scan(ctx, store.Users)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	postRecords, err := st.Scan(ctx, store.Posts)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	snap := &Snapshot{
		Hubs:  make([]Hub, 0, len(hubRecords)),
		Users: make([]User, 0, len(userRecords)),
		Posts: make([]Post, 0, len(postRecords)),
	}
	for _, r := range hubRecords {
		snap.Hubs = append(snap.Hubs, Hub{ID: r.ID})
	}
	for _, r := range userRecords {
		snap.Users = append(snap.Users, parseUser(r))
	}
	for _, r := range postRecords {
		snap.Posts = append(snap.Posts, parsePost(r))
	}
	return snap, nil
}

// LoadPosts scans only the posts collection, for the trending pass.
func LoadPosts(ctx context.Context, st store.Store) ([]Post, error) {
	records, err := st.Scan(ctx, store.Posts)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}
	posts := make([]Post, 0, len(records))
	for _, r := range records {
		posts = append(posts, parsePost(r))
	}
	return posts, nil
}

func parseUser(r store.Record) User {
	return User{
		ID:         r.ID,
		JoinedHubs: store.Strings(r.Doc, "joinedHubs"),
	}
}

func parsePost(r store.Record) Post {
	t, ok := store.TimeAt(r.Doc, "postingTime")
	return Post{
		ID:          r.ID,
		HubID:       store.Str(r.Doc, "hubId"),
		AuthorID:    store.Str(r.Doc, "authorId"),
		PostingTime: t,
		Posted:      ok,
		Upvotes:     store.Int(r.Doc, "upvotes"),
		Downvotes:   store.Int(r.Doc, "downvotes"),
		Comments:    store.Int(r.Doc, "commentCount"),
		Shares:      store.Int(r.Doc, "shareCount"),
	}
}
