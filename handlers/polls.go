// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Anikhe00/alx-polling-app/cliparse"
	"github.com/Anikhe00/alx-polling-app/metrics"
	"github.com/Anikhe00/alx-polling-app/middleware"
	"github.com/Anikhe00/alx-polling-app/models"
	"github.com/Anikhe00/alx-polling-app/store"
)

type PollHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewPollHandler(s *store.Store, cfg cliparse.Config) *PollHandler {
	return &PollHandler{store: s, cfg: cfg}
}

// ListPolls handles GET /polls?status=&mine=&q=
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.PollFilter{
		Status: q.Get("status"),
		Query:  q.Get("q"),
	}
	if filter.Status != "" && filter.Status != "all" && !models.IsValidStatus(filter.Status) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrInvalidStatus.Error())
		return
	}
	if filter.Status == "all" {
		filter.Status = ""
	}

	user, signedIn := middleware.UserFromContext(r.Context())
	if q.Get("mine") == "true" {
		if !signedIn {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		filter.CreatorID = user.ID
	}

	polls, err := h.store.GetPolls(r.Context(), filter)
	if err != nil {
		writeError(w, err, "failed to list polls")
		return
	}

	for i := range polls {
		applyVisibility(&polls[i], user.ID)
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollListResponse{Polls: polls})
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req models.PollFormData
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := req.Validate(time.Now()); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	pollID, err := h.store.CreatePoll(r.Context(), req, user.ID)
	if err != nil {
		metrics.PollCreateFailures.Add(1)
		if errors.Is(err, store.ErrOrphanedPoll) || errors.Is(err, store.ErrOptionsInsert) {
			slog.Error("failed to create poll options", "error", err, "creator_id", user.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
			return
		}
		writeError(w, err, "failed to create poll", "creator_id", user.ID)
		return
	}

	metrics.PollsCreated.Add(1)
	slog.Info("poll created", "poll_id", pollID, "creator_id", user.ID, "options", len(req.Options))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:   pollID,
		ShareURL: h.shareURL(pollID),
	})
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	poll, err := h.store.GetPollByID(r.Context(), pollID)
	if err != nil {
		writeError(w, err, "failed to get poll", "poll_id", pollID)
		return
	}

	user, signedIn := middleware.UserFromContext(r.Context())
	if signedIn {
		voted, err := h.store.HasVoted(r.Context(), pollID, user.ID)
		if err != nil {
			writeError(w, err, "failed to check vote", "poll_id", pollID)
			return
		}
		poll.HasVoted = voted
	}
	applyVisibility(poll, user.ID)

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// UpdatePoll handles PATCH /polls/{id}
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if !h.requireCreator(w, r, pollID) {
		return
	}

	var req models.UpdatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.UpdatePoll(r.Context(), pollID, req); err != nil {
		writeError(w, err, "failed to update poll", "poll_id", pollID)
		return
	}

	poll, err := h.store.GetPollByID(r.Context(), pollID)
	if err != nil {
		writeError(w, err, "failed to reload poll", "poll_id", pollID)
		return
	}

	slog.Info("poll updated", "poll_id", pollID)
	middleware.JSONResponse(w, http.StatusOK, poll)
}

// DeletePoll handles DELETE /polls/{id}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if !h.requireCreator(w, r, pollID) {
		return
	}

	if err := h.store.DeletePoll(r.Context(), pollID); err != nil {
		writeError(w, err, "failed to delete poll", "poll_id", pollID)
		return
	}

	slog.Info("poll deleted", "poll_id", pollID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Poll deleted"})
}

// requireCreator writes 404 or 403 and returns false unless the caller
// created the poll.
func (h *PollHandler) requireCreator(w http.ResponseWriter, r *http.Request, pollID string) bool {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return false
	}

	poll, err := h.store.GetPollByID(r.Context(), pollID)
	if err != nil {
		writeError(w, err, "failed to get poll", "poll_id", pollID)
		return false
	}
	if poll.CreatorID != user.ID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the poll creator can do that")
		return false
	}
	return true
}

func (h *PollHandler) shareURL(pollID string) string {
	return strings.TrimRight(h.cfg.BaseURL, "/") + "/polls/" + pollID
}

// applyVisibility hides counts from everyone but the creator while an
// active poll has show_results turned off.
func applyVisibility(poll *models.Poll, viewerID string) {
	if poll.ShowResults || poll.Status != models.StatusActive {
		return
	}
	if viewerID != "" && viewerID == poll.CreatorID {
		return
	}
	poll.HideResults()
}
