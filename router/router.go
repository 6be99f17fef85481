// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"expvar"
	"net/http"

	"github.com/Anikhe00/alx-polling-app/auth"
	"github.com/Anikhe00/alx-polling-app/cliparse"
	"github.com/Anikhe00/alx-polling-app/handlers"
	"github.com/Anikhe00/alx-polling-app/middleware"
	"github.com/Anikhe00/alx-polling-app/store"
)

func NewRouter(s *store.Store, provider *auth.Provider, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(provider, cfg)
	pollHandler := handlers.NewPollHandler(s, cfg)
	votingHandler := handlers.NewVotingHandler(s, cfg)
	resultsHandler := handlers.NewResultsHandler(s)
	profileHandler := handlers.NewProfileHandler(provider)
	dashboardHandler := handlers.NewDashboardHandler(s)

	// api wraps a handler with logging and the request deadline
	api := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithTimeout(cfg.RequestTimeout, h))
	}
	// private additionally requires a signed-in user
	private := func(h http.HandlerFunc) http.HandlerFunc {
		return api(middleware.RequireUser(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.Ping(r.Context()); err != nil {
			middleware.ErrorResponse(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Identity
	mux.HandleFunc("POST /auth/register", api(authHandler.Register))
	mux.HandleFunc("POST /auth/login", api(authHandler.Login))
	mux.HandleFunc("POST /auth/logout", private(authHandler.Logout))
	mux.HandleFunc("GET /auth/session", private(authHandler.Session))
	mux.HandleFunc("GET /auth/confirm", api(authHandler.Confirm))
	// Long-lived stream: no request deadline
	mux.HandleFunc("GET /auth/events", middleware.WithLogging(middleware.RequireUser(authHandler.Events)))

	// Profile
	mux.HandleFunc("GET /profile", private(profileHandler.GetProfile))
	mux.HandleFunc("PATCH /profile", private(profileHandler.UpdateProfile))

	// Polls
	mux.HandleFunc("GET /polls", api(pollHandler.ListPolls))
	mux.HandleFunc("POST /polls", private(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", api(pollHandler.GetPoll))
	mux.HandleFunc("PATCH /polls/{id}", private(pollHandler.UpdatePoll))
	mux.HandleFunc("DELETE /polls/{id}", private(pollHandler.DeletePoll))

	// Voting (session optional)
	mux.HandleFunc("POST /polls/{id}/votes", api(votingHandler.SubmitVote))

	// Results
	mux.HandleFunc("GET /polls/{id}/results", api(resultsHandler.GetResults))
	mux.HandleFunc("GET /polls/{id}/vote-count", api(resultsHandler.GetVoteCount))
	mux.HandleFunc("GET /polls/{id}/preview", api(resultsHandler.GetPreview))

	// Dashboard
	mux.HandleFunc("GET /dashboard", private(dashboardHandler.GetDashboard))

	// Metrics
	mux.Handle("GET /debug/vars", expvar.Handler())

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("alx-polling-app API v1"))
	})

	return middleware.CORS(middleware.WithSession(provider, middleware.RouteGuard(mux)))
}
