// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Anikhe00/alx-polling-app/auth"
	"github.com/Anikhe00/alx-polling-app/cliparse"
	"github.com/Anikhe00/alx-polling-app/metrics"
	"github.com/Anikhe00/alx-polling-app/middleware"
	"github.com/Anikhe00/alx-polling-app/models"
	"github.com/Anikhe00/alx-polling-app/store"
)

type VotingHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewVotingHandler(s *store.Store, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{store: s, cfg: cfg}
}

// SubmitVote handles POST /polls/{id}/votes
// A session is optional; anonymous votes are recorded without a user.
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.OptionID = strings.TrimSpace(req.OptionID)
	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_id is required")
		return
	}

	user, _ := middleware.UserFromContext(r.Context())
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt)

	err := h.store.SubmitVote(r.Context(), pollID, req.OptionID, user.ID, ipHash)
	if err != nil {
		if errors.Is(err, store.ErrPollNotActive) || errors.Is(err, store.ErrAlreadyVoted) {
			metrics.VotesRejected.Add(1)
		}
		writeError(w, err, "vote rejected", "poll_id", pollID, "option_id", req.OptionID, "user_id", user.ID)
		return
	}

	metrics.VotesSubmitted.Add(1)
	slog.Info("vote submitted", "poll_id", pollID, "option_id", req.OptionID, "anonymous", user.ID == "")

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		Message: "Vote submitted",
	})
}
