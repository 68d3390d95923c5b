package scoring

import "time"

const (
	// A post counts as recent for exactly seven days after postingTime;
	// the boundary instant itself is still recent.
	recentPostWindow = 7 * 24 * time.Hour

	recentPostWeight = 2
)

// PopularityScores computes every hub's popularity score from the snapshot:
// member count plus twice the hub's recent-post count. Counts are aggregated
// with hub-id keyed maps instead of nested iteration, which keeps the pass
// linear in users+posts.
func PopularityScores(snap *Snapshot, now time.Time) map[string]int {
	members := make(map[string]int, len(snap.Hubs))
	for _, u := range snap.Users {
		for _, hubID := range u.JoinedHubs {
			members[hubID]++
		}
	}

	recent := make(map[string]int, len(snap.Hubs))
	for _, p := range snap.Posts {
		if !p.Posted {
			continue
		}
		// now-postingTime <= window; a clock-skewed future post satisfies
		// this too, matching the signed comparison the platform always used.
		if now.Sub(p.PostingTime) <= recentPostWindow {
			recent[p.HubID]++
		}
	}

	scores := make(map[string]int, len(snap.Hubs))
	for _, h := range snap.Hubs {
		scores[h.ID] = members[h.ID] + recentPostWeight*recent[h.ID]
	}
	return scores
}
