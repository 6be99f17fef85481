// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"math"

	"github.com/Anikhe00/alx-polling-app/models"
)

// Tally derives TotalVotes and every option's Percentage from the raw
// option counters. Totals are never stored, so this runs on every read.
// Percentages are rounded independently and need not sum to exactly 100.
func Tally(poll *models.Poll) {
	total := 0
	for _, opt := range poll.Options {
		total += opt.Votes
	}
	poll.TotalVotes = total

	for i := range poll.Options {
		poll.Options[i].Percentage = Percentage(poll.Options[i].Votes, total)
	}
}

// Percentage returns round(votes / total * 100), or 0 when total is 0.
func Percentage(votes, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}
