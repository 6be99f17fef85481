// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store holds every query the API runs, built with goqu for the
sqlite3 and postgres dialects.

# Votes

SubmitVote runs in one transaction: check the poll is active and not past
its end date, check the option belongs to the poll, enforce one vote per
signed-in user unless multiple votes are allowed, insert the audit row and
increment the option counter with votes = votes + 1. On postgres the poll
row is locked with SELECT ... FOR UPDATE.

# Poll Creation

CreatePoll inserts the poll and then all options in one statement. If the
options insert fails the poll row is deleted again; if that delete fails
too the error wraps ErrOrphanedPoll and the janitor removes the row later.

# Reads

GetPollByID, GetPolls and GetUserPolls load polls with their creator's
profile and ordered options, then fill in totals and percentages with Tally.

# Janitor

	go st.RunJanitor(ctx, cfg.OrphanSweepInterval)

Each pass deletes option-less polls older than OrphanGrace and ends active
polls whose end date has passed.
*/
package store
