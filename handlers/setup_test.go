// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Anikhe00/alx-polling-app/auth"
	"github.com/Anikhe00/alx-polling-app/cliparse"
	"github.com/Anikhe00/alx-polling-app/db"
	"github.com/Anikhe00/alx-polling-app/middleware"
	"github.com/Anikhe00/alx-polling-app/models"
	"github.com/Anikhe00/alx-polling-app/store"
	"github.com/Anikhe00/alx-polling-app/testutil"
)

// testEnv wires the handlers the same way the router does, minus the
// route guard and logging.
type testEnv struct {
	conn     *sql.DB
	store    *store.Store
	provider *auth.Provider
	cfg      cliparse.Config
	mux      *http.ServeMux
	handler  http.Handler
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	st := store.New(conn, db.TypeSQLite)
	provider := auth.NewProvider(st, cfg.SessionSecret, auth.Options{
		SessionTTL: cfg.SessionTTL,
		BaseURL:    cfg.BaseURL,
		BcryptCost: bcrypt.MinCost,
	})

	authHandler := NewAuthHandler(provider, cfg)
	pollHandler := NewPollHandler(st, cfg)
	votingHandler := NewVotingHandler(st, cfg)
	resultsHandler := NewResultsHandler(st)
	profileHandler := NewProfileHandler(provider)
	dashboardHandler := NewDashboardHandler(st)

	private := middleware.RequireUser

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/logout", private(authHandler.Logout))
	mux.HandleFunc("GET /auth/session", private(authHandler.Session))
	mux.HandleFunc("GET /auth/confirm", authHandler.Confirm)
	mux.HandleFunc("GET /auth/events", private(authHandler.Events))
	mux.HandleFunc("GET /profile", private(profileHandler.GetProfile))
	mux.HandleFunc("PATCH /profile", private(profileHandler.UpdateProfile))
	mux.HandleFunc("GET /polls", pollHandler.ListPolls)
	mux.HandleFunc("POST /polls", private(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", pollHandler.GetPoll)
	mux.HandleFunc("PATCH /polls/{id}", private(pollHandler.UpdatePoll))
	mux.HandleFunc("DELETE /polls/{id}", private(pollHandler.DeletePoll))
	mux.HandleFunc("POST /polls/{id}/votes", votingHandler.SubmitVote)
	mux.HandleFunc("GET /polls/{id}/results", resultsHandler.GetResults)
	mux.HandleFunc("GET /polls/{id}/vote-count", resultsHandler.GetVoteCount)
	mux.HandleFunc("GET /polls/{id}/preview", resultsHandler.GetPreview)
	mux.HandleFunc("GET /dashboard", private(dashboardHandler.GetDashboard))

	return &testEnv{
		conn:     conn,
		store:    st,
		provider: provider,
		cfg:      cfg,
		mux:      mux,
		handler:  middleware.WithSession(provider, mux),
	}
}

// serve runs req through the session middleware and the mux.
func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// signUp registers a user through the provider and returns its ID and a
// session token.
func (e *testEnv) signUp(t *testing.T, email, name string) (string, string) {
	t.Helper()

	res, err := e.provider.SignUp(context.Background(), models.AuthFormData{
		Email:    email,
		Password: "password123",
		Name:     name,
	})
	if err != nil {
		t.Fatalf("SignUp(%s) error = %v", email, err)
	}
	return res.User.ID, res.Session.Token
}
