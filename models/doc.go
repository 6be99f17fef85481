// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - AuthFormData: email, password, name
  - PollFormData: title, description, type, end_date, flags, options
  - UpdatePollRequest: partial poll update incl. status and options
  - SubmitVoteRequest: option_id
  - UpdateProfileRequest: name, avatar

PollFormData.Validate trims the title and options and rejects forms with
fewer than two options, unknown poll types, or an end date in the past.

# Response Types

  - AuthResponse: user, token, expires_at, needs_confirmation
  - CreatePollResponse: poll_id, share_url
  - SubmitVoteResponse: message
  - PollListResponse: polls
  - ResultsResponse: options ranked by votes, total_votes, vote_count
  - VoteCountResponse, PollPreviewResponse: counts visible while results are hidden
  - DashboardResponse: user, stats, polls
  - ErrorResponse: error, message

# Domain Types

  - User: cached projection of an identity plus its profile
  - Poll: poll metadata, creator, derived total_votes, ordered options
  - PollOption: option text, raw vote counter, derived percentage
  - Vote: audit row for a single submitted vote
  - AuthEvent: auth state change delivered to subscribers

# Constants

Status values (draft -> active -> ended, see CanTransition):

	StatusDraft  = "draft"
	StatusActive = "active"
	StatusEnded  = "ended"

Poll types:

	TypeSingle   = "single"
	TypeMultiple = "multiple"
	TypeRanking  = "ranking"
*/
package models
