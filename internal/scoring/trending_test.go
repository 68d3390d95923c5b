package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrendingScore(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("reference example", func(t *testing.T) {
		// up=10, 1h old: log10(12) + 0 + 0 + min(5,20) - 0.8
		p := Post{
			ID:          "p1",
			PostingTime: now.Add(-1 * time.Hour),
			Posted:      true,
			Upvotes:     10,
		}
		assert.InDelta(t, 5.279, TrendingScore(p, now), 1e-3)
	})

	t.Run("base score floors at log10(1)", func(t *testing.T) {
		cases := []struct {
			name string
			post Post
		}{
			{"zero engagement", Post{Posted: true, PostingTime: now}},
			{"net negative", Post{Posted: true, PostingTime: now, Downvotes: 100}},
			{"net below one", Post{Posted: true, PostingTime: now, Upvotes: 2, Downvotes: 2}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				score := TrendingScore(tc.post, now)
				// velocity and counters may contribute, but the base term
				// must be exactly 0 — never log of a non-positive number.
				expected := float64(tc.post.Comments)*commentWeight +
					float64(tc.post.Shares)*shareWeight +
					min(float64(tc.post.Upvotes+tc.post.Comments+tc.post.Shares)*velocityWeight, velocityCap)
				assert.InDelta(t, expected, score, 1e-9)
			})
		}
	})

	t.Run("velocity bonus capped at 20", func(t *testing.T) {
		p := Post{Posted: true, PostingTime: now, Upvotes: 1000}
		// base=log10(1200), velocity capped at 20, no decay
		assert.InDelta(t, 3.0792+20, TrendingScore(p, now), 1e-3)
	})

	t.Run("missing postingTime means zero decay", func(t *testing.T) {
		p := Post{Upvotes: 10}
		assert.InDelta(t, 1.0792+5, TrendingScore(p, now), 1e-3)
	})

	t.Run("decay grows with age", func(t *testing.T) {
		young := Post{Posted: true, PostingTime: now.Add(-1 * time.Hour), Upvotes: 10}
		old := Post{Posted: true, PostingTime: now.Add(-10 * time.Hour), Upvotes: 10}
		assert.InDelta(t, 7.2, TrendingScore(young, now)-TrendingScore(old, now), 1e-9)
	})

	t.Run("idempotent for identical now", func(t *testing.T) {
		p := Post{Posted: true, PostingTime: now.Add(-3 * time.Hour), Upvotes: 7, Comments: 2, Shares: 1}
		assert.Equal(t, TrendingScore(p, now), TrendingScore(p, now))
	})
}

func TestTrendingScores(t *testing.T) {
	now := time.Now()
	posts := []Post{
		{ID: "a", Posted: true, PostingTime: now, Upvotes: 10},
		{ID: "b"},
	}
	scores := TrendingScores(posts, now)
	assert.Len(t, scores, 2)
	assert.InDelta(t, TrendingScore(posts[0], now), scores["a"], 1e-9)
	assert.InDelta(t, TrendingScore(posts[1], now), scores["b"], 1e-9)
}
