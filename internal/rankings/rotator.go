// Package rankings cycles the leaderboard display through the four
// difficulty tiers on a fixed timer.
package rankings

import (
	"context"
	"log"
	"sync"
	"time"

	"escape-ops-console/internal/gameapi"
)

// Difficulty tiers cycle 1 through maxDifficulty and wrap.
const maxDifficulty = 4

// topN is how many leaderboard rows are kept per tier.
const topN = 10

// Fetcher loads the leaderboard for one difficulty tier.
type Fetcher interface {
	ClearTimes(ctx context.Context, difficulty int) ([]gameapi.RankingEntry, error)
}

// Snapshot is the current leaderboard display.
type Snapshot struct {
	Difficulty int                    `json:"difficulty"`
	Entries    []gameapi.RankingEntry `json:"entries"`
	FetchedAt  time.Time              `json:"fetchedAt"`
}

// Rotator owns the difficulty cursor and the displayed entries. Entries
// arrive in backend order and stay that way.
type Rotator struct {
	fetcher  Fetcher
	interval time.Duration

	mu         sync.Mutex
	difficulty int
	entries    []gameapi.RankingEntry
	fetchedAt  time.Time
}

// NewRotator creates a rotator starting at difficulty 1.
func NewRotator(fetcher Fetcher, interval time.Duration) *Rotator {
	return &Rotator{fetcher: fetcher, interval: interval, difficulty: 1}
}

// Run drives the rotation until the context is cancelled: fetch the
// current tier immediately, then advance the cursor and refetch on every
// tick. A failed fetch keeps the previous display.
func (r *Rotator) Run(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.advance()
			r.refresh(ctx)
		}
	}
}

func (r *Rotator) advance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.difficulty < maxDifficulty {
		r.difficulty++
	} else {
		r.difficulty = 1
	}
}

func (r *Rotator) refresh(ctx context.Context) {
	r.mu.Lock()
	difficulty := r.difficulty
	r.mu.Unlock()

	entries, err := r.fetcher.ClearTimes(ctx, difficulty)
	if err != nil {
		log.Printf("failed to fetch rankings for difficulty %d: %v", difficulty, err)
		return
	}
	if len(entries) > topN {
		entries = entries[:topN]
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// The cursor may have moved while the fetch was in flight; a late
	// result for the old tier is stale and dropped.
	if r.difficulty != difficulty {
		return
	}
	r.entries = entries
	r.fetchedAt = time.Now()
}

// Snapshot returns the tier and entries currently on display.
func (r *Rotator) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{Difficulty: r.difficulty, Entries: r.entries, FetchedAt: r.fetchedAt}
}
