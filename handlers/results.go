// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"sort"

	"github.com/Anikhe00/alx-polling-app/middleware"
	"github.com/Anikhe00/alx-polling-app/models"
	"github.com/Anikhe00/alx-polling-app/store"
)

type ResultsHandler struct {
	store *store.Store
}

func NewResultsHandler(s *store.Store) *ResultsHandler {
	return &ResultsHandler{store: s}
}

// GetResults handles GET /polls/{id}/results
// Returns 403 while the poll hides its results from this viewer.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	poll, err := h.store.GetPollByID(r.Context(), pollID)
	if err != nil {
		writeError(w, err, "failed to get poll", "poll_id", pollID)
		return
	}

	user, _ := middleware.UserFromContext(r.Context())
	applyVisibility(poll, user.ID)
	if poll.ResultsHidden {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are hidden until the poll ends")
		return
	}

	recorded, err := h.store.CountAuditVotes(r.Context(), pollID)
	if err != nil {
		writeError(w, err, "failed to count votes", "poll_id", pollID)
		return
	}

	// Highest first; display order breaks ties
	rankings := append([]models.PollOption(nil), poll.Options...)
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Votes > rankings[j].Votes
	})

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		PollID:     poll.ID,
		Title:      poll.Title,
		Status:     poll.Status,
		TotalVotes: poll.TotalVotes,
		VoteCount:  recorded,
		Rankings:   rankings,
	})
}

// GetVoteCount handles GET /polls/{id}/vote-count
// The number of votes is visible even while results are hidden.
func (h *ResultsHandler) GetVoteCount(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	if _, err := h.store.GetPollByID(r.Context(), pollID); err != nil {
		writeError(w, err, "failed to get poll", "poll_id", pollID)
		return
	}

	count, err := h.store.CountAuditVotes(r.Context(), pollID)
	if err != nil {
		writeError(w, err, "failed to count votes", "poll_id", pollID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteCountResponse{VoteCount: count})
}

// GetPreview handles GET /polls/{id}/preview
func (h *ResultsHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	poll, err := h.store.GetPollByID(r.Context(), pollID)
	if err != nil {
		writeError(w, err, "failed to get poll", "poll_id", pollID)
		return
	}

	recorded, err := h.store.CountAuditVotes(r.Context(), pollID)
	if err != nil {
		writeError(w, err, "failed to count votes", "poll_id", pollID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollPreviewResponse{
		Title:       poll.Title,
		Status:      poll.Status,
		OptionCount: len(poll.Options),
		VoteCount:   recorded,
	})
}
