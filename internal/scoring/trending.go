package scoring

import (
	"math"
	"time"
)

// Trending weights. Engagement recency is weighted over raw volume: the log
// damps big vote totals, the velocity bonus is capped, and decay grows
// linearly with age.
const (
	upvoteWeight   = 1.2
	downvoteWeight = 1.5
	commentWeight  = 1.0
	shareWeight    = 0.8
	velocityWeight = 0.5
	velocityCap    = 20.0
	decayPerHour   = 0.8
)

// TrendingScore computes a post's trending score at instant now.
//
// The net-engagement term is floored at 1 before the log. This collapses
// every post with net engagement <= 1 to a base score of 0, no matter how
// downvote-heavy; the platform has always ranked that way, so keep it.
func TrendingScore(p Post, now time.Time) float64 {
	net := float64(p.Upvotes)*upvoteWeight - float64(p.Downvotes)*downvoteWeight
	baseScore := math.Log10(math.Max(net, 1))

	commentScore := float64(p.Comments) * commentWeight
	shareScore := float64(p.Shares) * shareWeight
	velocityBonus := math.Min(float64(p.Upvotes+p.Comments+p.Shares)*velocityWeight, velocityCap)

	timeDecay := 0.0
	if p.Posted {
		timeDecay = math.Max(0, now.Sub(p.PostingTime).Hours()*decayPerHour)
	}

	return baseScore + commentScore + shareScore + velocityBonus - timeDecay
}

// TrendingScores computes the score for every post in the snapshot.
func TrendingScores(posts []Post, now time.Time) map[string]float64 {
	scores := make(map[string]float64, len(posts))
	for _, p := range posts {
		scores[p.ID] = TrendingScore(p, now)
	}
	return scores
}
