// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Anikhe00/alx-polling-app/middleware"
	"github.com/Anikhe00/alx-polling-app/models"
	"github.com/Anikhe00/alx-polling-app/store"
)

type DashboardHandler struct {
	store *store.Store
	now   func() time.Time
}

func NewDashboardHandler(s *store.Store) *DashboardHandler {
	return &DashboardHandler{store: s, now: time.Now}
}

// GetDashboard handles GET /dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	polls, err := h.store.GetUserPolls(r.Context(), user.ID)
	if err != nil {
		writeError(w, err, "failed to load dashboard polls", "user_id", user.ID)
		return
	}

	now := h.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthly, err := h.store.CountVotesSince(r.Context(), user.ID, monthStart)
	if err != nil {
		writeError(w, err, "failed to count monthly votes", "user_id", user.ID)
		return
	}

	stats := models.DashboardStats{TotalPolls: len(polls), MonthlyVotes: monthly}
	summaries := make([]models.PollSummary, 0, len(polls))
	for _, p := range polls {
		if p.Status == models.StatusActive {
			stats.ActivePolls++
		}
		stats.TotalVotes += p.TotalVotes

		summaries = append(summaries, models.PollSummary{
			ID:         p.ID,
			Title:      p.Title,
			Status:     p.Status,
			TotalVotes: p.TotalVotes,
			Created:    humanize.RelTime(p.CreatedAt, now, "ago", "from now"),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, models.DashboardResponse{
		User:  user,
		Stats: stats,
		Polls: summaries,
	})
}
