package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPopularityScores(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("members plus twice recent posts", func(t *testing.T) {
		snap := &Snapshot{
			Hubs: []Hub{{ID: "h1"}, {ID: "h2"}},
			Users: []User{
				{ID: "u1", JoinedHubs: []string{"h1", "h2"}},
				{ID: "u2", JoinedHubs: []string{"h1"}},
				{ID: "u3"},
			},
			Posts: []Post{
				{ID: "p1", HubID: "h1", Posted: true, PostingTime: now.Add(-time.Hour)},
				{ID: "p2", HubID: "h1", Posted: true, PostingTime: now.Add(-6 * 24 * time.Hour)},
				{ID: "p3", HubID: "h2", Posted: true, PostingTime: now.Add(-30 * 24 * time.Hour)},
			},
		}
		scores := PopularityScores(snap, now)
		assert.Equal(t, map[string]int{
			"h1": 2 + 2*2, // two members, two recent posts
			"h2": 1,       // one member, only a stale post
		}, scores)
	})

	t.Run("seven day boundary is inclusive", func(t *testing.T) {
		snap := &Snapshot{
			Hubs: []Hub{{ID: "h1"}},
			Posts: []Post{
				{ID: "exact", HubID: "h1", Posted: true, PostingTime: now.Add(-recentPostWindow)},
				{ID: "over", HubID: "h1", Posted: true, PostingTime: now.Add(-recentPostWindow - time.Millisecond)},
			},
		}
		assert.Equal(t, 2, PopularityScores(snap, now)["h1"])
	})

	t.Run("posts without postingTime are never recent", func(t *testing.T) {
		snap := &Snapshot{
			Hubs:  []Hub{{ID: "h1"}},
			Posts: []Post{{ID: "p1", HubID: "h1"}},
		}
		assert.Equal(t, 0, PopularityScores(snap, now)["h1"])
	})

	t.Run("hub without members or posts scores zero", func(t *testing.T) {
		snap := &Snapshot{Hubs: []Hub{{ID: "empty"}}}
		assert.Equal(t, 0, PopularityScores(snap, now)["empty"])
	})

	t.Run("recomputation is independent of prior value", func(t *testing.T) {
		snap := &Snapshot{
			Hubs:  []Hub{{ID: "h1"}},
			Users: []User{{ID: "u1", JoinedHubs: []string{"h1"}}},
		}
		first := PopularityScores(snap, now)
		second := PopularityScores(snap, now)
		assert.Equal(t, first, second)
	})
}
