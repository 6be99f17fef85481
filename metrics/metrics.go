// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"expvar"
	"runtime"
	"time"
)

var (
	// VotesSubmitted counts accepted votes
	VotesSubmitted = expvar.NewInt("votes_submitted")

	// VotesRejected counts votes refused for state or duplicate reasons
	VotesRejected = expvar.NewInt("votes_rejected")

	// PollsCreated counts polls created through the API
	PollsCreated = expvar.NewInt("polls_created")

	// PollCreateFailures counts failed creations, orphaned or not
	PollCreateFailures = expvar.NewInt("poll_create_failures")

	// OrphanedPollsSwept counts option-less polls removed by the janitor
	OrphanedPollsSwept = expvar.NewInt("orphaned_polls_swept")

	// PollsEnded counts polls ended automatically after their end date
	PollsEnded = expvar.NewInt("polls_ended")

	// SignIns counts successful sign-ins and sign-ups with a session
	SignIns = expvar.NewInt("sign_ins")

	// GoroutineCount is refreshed by CollectRuntimeMetrics
	GoroutineCount = expvar.NewInt("goroutine_count")

	// Uptime stores the timestamp of the server's boot
	Uptime = expvar.NewInt("uptime")
)

// Init records the boot time.
func Init() {
	Uptime.Set(time.Now().Unix())
}

// CollectRuntimeMetrics refreshes runtime gauges until done is closed.
func CollectRuntimeMetrics(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		GoroutineCount.Set(int64(runtime.NumGoroutine()))

		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}
