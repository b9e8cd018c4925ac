package storage

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RunSweeper deletes artifacts older than ttl every interval until ctx is
// done. A non-positive ttl or interval disables it.
func RunSweeper(ctx context.Context, store JobStore, ttl time.Duration, interval time.Duration) {
	if ttl <= 0 || interval <= 0 {
		log.Info().Msg("Artifact sweeper disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sweepOnce(ctx, store, now.Add(-ttl))
		}
	}
}

func sweepOnce(ctx context.Context, store JobStore, olderThan time.Time) {
	deleted, err := store.Sweep(ctx, olderThan)
	if err != nil {
		log.Error().Err(err).Int("deleted", deleted).Msg("Failed to sweep expired artifacts")
		return
	}
	if deleted > 0 {
		log.Info().Int("deleted", deleted).Time("older_than", olderThan).Msg("Swept expired artifacts")
	}
}
