package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubgrove/hubgrove-engine/internal/store"
)

func TestHighestMilestone(t *testing.T) {
	cases := []struct {
		upvotes int
		want    int
		reached bool
	}{
		{0, 0, false},
		{9, 0, false},
		{10, 10, true},
		{49, 10, true},
		{50, 50, true},
		{499, 100, true},
		{500, 500, true},
		{10000, 500, true},
	}
	for _, tc := range cases {
		got, ok := highestMilestone(tc.upvotes)
		assert.Equal(t, tc.reached, ok, "upvotes=%d", tc.upvotes)
		assert.Equal(t, tc.want, got, "upvotes=%d", tc.upvotes)
	}
}

func TestTrendingPassAnnouncesMilestoneOnce(t *testing.T) {
	ms := newMemStore()
	ms.put(store.Posts, "p1", store.Doc{
		"hubId":       "h1",
		"authorId":    "u1",
		"postingTime": rfc3339(testNow.Add(-time.Hour)),
		"upvotes":     75,
	})

	runner := newTestRunner(ms)
	result, err := runner.RunPostTrending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Milestones)
	require.Len(t, ms.inserted, 1)

	record := ms.docs[store.Notifications][ms.inserted[0][len(store.Notifications)+1:]]
	assert.Equal(t, "milestone", record["type"])
	assert.Equal(t, "u1", record["recipientId"])
	assert.Equal(t, "p1", record["postId"])
	assert.Equal(t, 50, record["milestone"])

	// Second pass over unchanged data announces nothing new.
	result, err = runner.RunPostTrending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Milestones)
	assert.Len(t, ms.inserted, 1)
}

func TestTrendingPassSkipsBelowMilestoneAndAuthorless(t *testing.T) {
	ms := newMemStore()
	ms.put(store.Posts, "quiet", store.Doc{"authorId": "u1", "upvotes": 9})
	ms.put(store.Posts, "orphan", store.Doc{"upvotes": 200})

	result, err := newTestRunner(ms).RunPostTrending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Milestones)
	assert.Empty(t, ms.inserted)
}
