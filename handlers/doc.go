// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the polling API.

# Handler Types

  - AuthHandler: register, login, logout, session, email confirmation, auth event stream
  - ProfileHandler: read and update the caller's profile
  - PollHandler: list, create, read, update, delete polls
  - VotingHandler: vote submission
  - ResultsHandler: ranked results, vote count, link preview
  - DashboardHandler: the caller's polls and stats

Handlers are created via constructors that take the store or the auth
provider plus Config:

	pollHandler := handlers.NewPollHandler(st, cfg)

The signed-in user, if any, is read from the request context populated by
middleware.WithSession.

# Poll Lifecycle

Polls move forward only: draft → active → ended. New polls start active.

	POST   /polls       → CreatePoll (returns poll_id, share_url)
	PATCH  /polls/{id}  → UpdatePoll (creator only)
	DELETE /polls/{id}  → DeletePoll (creator only)

If the options insert fails after the poll row was written, the poll row
is deleted again and the request fails with 500.

# Voting

	POST /polls/{id}/votes → SubmitVote

A session is optional. Signed-in users get one vote per poll unless the
poll allows multiple votes; anonymous votes are not deduplicated.

# Result Visibility

While an active poll has show_results off, everyone but the creator sees
zeroed counts on GET /polls/{id} and 403 on GET /polls/{id}/results.

# Errors

Store and auth errors are mapped to status codes in one place (errorStatus);
unexpected errors are logged and reported as 500 without details.
*/
package handlers
