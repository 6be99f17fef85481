// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/Anikhe00/alx-polling-app/metrics"
)

// OrphanGrace is how old an option-less poll must be before the janitor
// removes it. CreatePoll inserts options right after the poll, so anything
// older than this without options was left behind by a failed creation.
const OrphanGrace = 5 * time.Minute

// Sweep runs one janitor pass: it removes orphaned polls and ends polls
// whose end date has passed.
func (s *Store) Sweep(ctx context.Context) error {
	orphans, err := s.DeleteOrphanedPolls(ctx, OrphanGrace)
	if err != nil {
		return err
	}
	if orphans > 0 {
		metrics.OrphanedPollsSwept.Add(orphans)
		slog.Warn("removed orphaned polls", "count", orphans)
	}

	ended, err := s.EndExpiredPolls(ctx)
	if err != nil {
		return err
	}
	if ended > 0 {
		metrics.PollsEnded.Add(ended)
		slog.Info("ended expired polls", "count", ended)
	}
	return nil
}

// RunJanitor calls Sweep every interval until ctx is cancelled.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			slog.Error("janitor sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
