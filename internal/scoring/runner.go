package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hubgrove/hubgrove-engine/internal/store"
)

const defaultWriteWorkers = 4

// Runner orchestrates the two scheduled batch passes: hub popularity and
// post trending. Passes are independent; each loads its own snapshot, so
// concurrent runs converge on the same values (every write-back is a full
// recomputation, never a delta).
type Runner struct {
	store   store.Store
	logger  *slog.Logger
	now     func() time.Time
	workers int
}

// NewRunner creates a batch runner over a document store.
func NewRunner(st store.Store, logger *slog.Logger) *Runner {
	return &Runner{
		store:   st,
		logger:  logger,
		now:     time.Now,
		workers: defaultWriteWorkers,
	}
}

// PassResult summarizes one batch pass.
type PassResult struct {
	Entities   int
	Written    int
	Failed     int
	Milestones int
	Duration   time.Duration
}

// Summary renders the result for log output.
func (r PassResult) Summary() string {
	return fmt.Sprintf("entities=%d written=%d failed=%d milestones=%d duration=%s",
		r.Entities, r.Written, r.Failed, r.Milestones, r.Duration.Round(time.Millisecond))
}

// RunHubPopularity recomputes and persists every hub's popularity score.
// A snapshot read failure aborts the pass; a single hub's write failure is
// logged and skipped so the rest of the pass still lands.
func (r *Runner) RunHubPopularity(ctx context.Context) (PassResult, error) {
	start := r.now()
	var result PassResult

	snap, err := LoadSnapshot(ctx, r.store)
	if err != nil {
		return result, fmt.Errorf("hub popularity pass: %w", err)
	}

	scores := PopularityScores(snap, start)
	updates := make(map[string]store.Doc, len(scores))
	for hubID, score := range scores {
		updates[hubID] = store.Doc{"popularityScore": score}
	}

	result.Entities = len(updates)
	result.Written, result.Failed = r.writeBack(ctx, store.Hubs, updates)
	result.Duration = r.now().Sub(start)

	r.logger.Info("hub popularity pass complete", "summary", result.Summary())
	return result, nil
}

// RunPostTrending recomputes and persists every post's trending score, then
// announces any newly crossed reaction milestones.
func (r *Runner) RunPostTrending(ctx context.Context) (PassResult, error) {
	start := r.now()
	var result PassResult

	posts, err := LoadPosts(ctx, r.store)
	if err != nil {
		return result, fmt.Errorf("post trending pass: %w", err)
	}

	scores := TrendingScores(posts, start)
	updates := make(map[string]store.Doc, len(scores))
	for postID, score := range scores {
		updates[postID] = store.Doc{"trendingScore": score}
	}

	result.Entities = len(updates)
	result.Written, result.Failed = r.writeBack(ctx, store.Posts, updates)
	result.Milestones = r.announceMilestones(ctx, posts)
	result.Duration = r.now().Sub(start)

	r.logger.Info("post trending pass complete", "summary", result.Summary())
	return result, nil
}

// writeBack issues one partial-field update per entity through a small
// worker pool. Updates are independent and commutative, so no ordering is
// imposed between entities.
func (r *Runner) writeBack(ctx context.Context, collection string, updates map[string]store.Doc) (written, failed int) {
	workers := r.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(updates) {
		workers = len(updates)
	}

	type write struct {
		id     string
		fields store.Doc
	}
	ch := make(chan write, len(updates))
	for id, fields := range updates {
		ch <- write{id, fields}
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range ch {
				err := r.store.Merge(ctx, collection, w.id, w.fields)

				mu.Lock()
				if err != nil {
					// Lost for this pass only; the next pass recomputes.
					r.logger.Warn("score write failed",
						"collection", collection, "id", w.id, "error", err)
					failed++
				} else {
					written++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return written, failed
}
