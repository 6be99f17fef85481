// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"strings"
	"time"
)

// Poll status constants
const (
	StatusDraft  = "draft"
	StatusActive = "active"
	StatusEnded  = "ended"
)

// Poll type constants. Only TypeSingle is exercised by the vote path.
const (
	TypeSingle   = "single"
	TypeMultiple = "multiple"
	TypeRanking  = "ranking"
)

// Auth state change events
const (
	EventSignedIn    = "SIGNED_IN"
	EventSignedOut   = "SIGNED_OUT"
	EventUserUpdated = "USER_UPDATED"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrTooFewOptions   = errors.New("at least 2 options are required")
	ErrBlankOption     = errors.New("options cannot be blank")
	ErrInvalidPollType = errors.New("type must be one of: single, multiple, ranking")
	ErrInvalidStatus   = errors.New("status must be one of: draft, active, ended")
	ErrInvalidEndDate  = errors.New("end_date must be an RFC3339 timestamp in the future")
)

// Request types

type AuthFormData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type PollFormData struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Type               string   `json:"type"`
	EndDate            string   `json:"end_date,omitempty"`
	IsAnonymous        bool     `json:"is_anonymous"`
	ShowResults        bool     `json:"show_results"`
	AllowMultipleVotes bool     `json:"allow_multiple_votes"`
	Options            []string `json:"options"`
}

// Validate normalizes the form in place and reports the first problem found.
func (f *PollFormData) Validate(now time.Time) error {
	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		return ErrTitleRequired
	}
	if f.Type == "" {
		f.Type = TypeSingle
	}
	if !IsValidPollType(f.Type) {
		return ErrInvalidPollType
	}
	if len(f.Options) < 2 {
		return ErrTooFewOptions
	}
	for i, opt := range f.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return ErrBlankOption
		}
		f.Options[i] = opt
	}
	if f.EndDate != "" {
		end, err := time.Parse(time.RFC3339, f.EndDate)
		if err != nil || !end.After(now) {
			return ErrInvalidEndDate
		}
	}
	return nil
}

// ParsedEndDate returns the end date, or nil when none was given.
func (f *PollFormData) ParsedEndDate() *time.Time {
	if f.EndDate == "" {
		return nil
	}
	end, err := time.Parse(time.RFC3339, f.EndDate)
	if err != nil {
		return nil
	}
	end = end.UTC()
	return &end
}

// OptionPatch identifies an existing option by ID; an empty ID adds a new one.
type OptionPatch struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// UpdatePollRequest is a partial update; nil fields are left untouched.
type UpdatePollRequest struct {
	Title              *string       `json:"title,omitempty"`
	Description        *string       `json:"description,omitempty"`
	Type               *string       `json:"type,omitempty"`
	EndDate            *string       `json:"end_date,omitempty"`
	IsAnonymous        *bool         `json:"is_anonymous,omitempty"`
	ShowResults        *bool         `json:"show_results,omitempty"`
	AllowMultipleVotes *bool         `json:"allow_multiple_votes,omitempty"`
	Status             *string       `json:"status,omitempty"`
	Options            []OptionPatch `json:"options,omitempty"`
}

type SubmitVoteRequest struct {
	OptionID string `json:"option_id"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// Response types

type CreatePollResponse struct {
	PollID   string `json:"poll_id"`
	ShareURL string `json:"share_url"`
}

type SubmitVoteResponse struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AuthResponse struct {
	User              User       `json:"user"`
	Token             string     `json:"token,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	NeedsConfirmation bool       `json:"needs_confirmation,omitempty"`
}

// ResultsResponse ranks options by votes. VoteCount is the number of
// recorded vote rows, TotalVotes the sum of the option counters.
type ResultsResponse struct {
	PollID     string       `json:"poll_id"`
	Title      string       `json:"title"`
	Status     string       `json:"status"`
	TotalVotes int          `json:"total_votes"`
	VoteCount  int          `json:"vote_count"`
	Rankings   []PollOption `json:"rankings"`
}

type VoteCountResponse struct {
	VoteCount int `json:"vote_count"`
}

// PollPreviewResponse is compact poll data for link previews.
type PollPreviewResponse struct {
	Title       string `json:"title"`
	Status      string `json:"status"`
	OptionCount int    `json:"option_count"`
	VoteCount   int    `json:"vote_count"`
}

type PollListResponse struct {
	Polls []Poll `json:"polls"`
}

type DashboardStats struct {
	TotalPolls   int `json:"total_polls"`
	ActivePolls  int `json:"active_polls"`
	TotalVotes   int `json:"total_votes"`
	MonthlyVotes int `json:"monthly_votes"`
}

type PollSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	TotalVotes int    `json:"total_votes"`
	Created    string `json:"created"`
}

type DashboardResponse struct {
	User  User           `json:"user"`
	Stats DashboardStats `json:"stats"`
	Polls []PollSummary  `json:"polls"`
}

// Domain types

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Poll struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	CreatorID          string       `json:"creator_id"`
	Creator            User         `json:"creator"`
	Type               string       `json:"type"`
	Status             string       `json:"status"`
	IsAnonymous        bool         `json:"is_anonymous"`
	ShowResults        bool         `json:"show_results"`
	AllowMultipleVotes bool         `json:"allow_multiple_votes"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
	EndDate            *time.Time   `json:"end_date,omitempty"`
	TotalVotes         int          `json:"total_votes"`
	Options            []PollOption `json:"options"`

	// Per-viewer fields, filled in by handlers
	ResultsHidden bool `json:"results_hidden,omitempty"`
	HasVoted      bool `json:"has_voted,omitempty"`
}

// HideResults zeroes every count and percentage.
func (p *Poll) HideResults() {
	p.ResultsHidden = true
	p.TotalVotes = 0
	for i := range p.Options {
		p.Options[i].Votes = 0
		p.Options[i].Percentage = 0
	}
}

type PollOption struct {
	ID         string `json:"id"`
	PollID     string `json:"poll_id"`
	Text       string `json:"text"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
	Order      int    `json:"order"`
}

type Vote struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	UserID    *string   `json:"user_id,omitempty"`
	Anonymous bool      `json:"anonymous"`
	IPHash    *string   `json:"-"` // Never expose in JSON
	CreatedAt time.Time `json:"created_at"`
}

// AuthEvent is delivered to auth-state subscribers.
type AuthEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"user_id"`
	At     time.Time `json:"at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func IsValidPollType(t string) bool {
	switch t {
	case TypeSingle, TypeMultiple, TypeRanking:
		return true
	}
	return false
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusActive, StatusEnded:
		return true
	}
	return false
}

// CanTransition reports whether a poll may move from one status to another.
// Status only moves forward: draft -> active -> ended. Staying put is allowed.
func CanTransition(from, to string) bool {
	rank := map[string]int{StatusDraft: 0, StatusActive: 1, StatusEnded: 2}
	f, ok1 := rank[from]
	t, ok2 := rank[to]
	if !ok1 || !ok2 {
		return false
	}
	return t == f || t == f+1
}
