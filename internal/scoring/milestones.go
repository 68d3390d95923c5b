package scoring

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hubgrove/hubgrove-engine/internal/store"
)

// Reaction milestones that produce a "your post is trending" notification.
var reactionMilestones = []int{10, 50, 100, 500}

// highestMilestone returns the largest milestone reached by an upvote count.
func highestMilestone(upvotes int) (int, bool) {
	reached := 0
	for _, m := range reactionMilestones {
		if upvotes >= m {
			reached = m
		}
	}
	return reached, reached > 0
}

// announceMilestones inserts a milestone notification record for each post
// that has crossed a reaction milestone not yet announced. The insert fires
// the doc_created trigger, which hands the record to the dispatcher.
// Posts without an author are skipped — there is nobody to notify.
func (r *Runner) announceMilestones(ctx context.Context, posts []Post) int {
	created := 0
	for _, p := range posts {
		if p.AuthorID == "" {
			continue
		}
		milestone, ok := highestMilestone(p.Upvotes)
		if !ok {
			continue
		}

		key := store.Doc{"type": "milestone", "postId": p.ID, "milestone": milestone}
		exists, err := r.store.Exists(ctx, store.Notifications, key)
		if err != nil {
			r.logger.Warn("milestone lookup failed", "post_id", p.ID, "error", err)
			continue
		}
		if exists {
			continue
		}

		doc := store.Doc{
			"type":        "milestone",
			"recipientId": p.AuthorID,
			"postId":      p.ID,
			"milestone":   milestone,
			"createdAt":   r.now().UTC().Format(time.RFC3339),
		}
		if err := r.store.Insert(ctx, store.Notifications, uuid.NewString(), doc); err != nil {
			r.logger.Warn("milestone insert failed", "post_id", p.ID, "milestone", milestone, "error", err)
			continue
		}
		created++
	}
	return created
}
