// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Anikhe00/alx-polling-app/auth"
	"github.com/Anikhe00/alx-polling-app/cliparse"
	"github.com/Anikhe00/alx-polling-app/metrics"
	"github.com/Anikhe00/alx-polling-app/middleware"
	"github.com/Anikhe00/alx-polling-app/models"
)

// keepAliveInterval is how often an idle event stream sends a comment line.
const keepAliveInterval = 25 * time.Second

type AuthHandler struct {
	provider *auth.Provider
	cfg      cliparse.Config
}

func NewAuthHandler(provider *auth.Provider, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{provider: provider, cfg: cfg}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.AuthFormData
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := h.provider.SignUp(r.Context(), req)
	if err != nil {
		writeError(w, err, "sign up failed", "email", strings.ToLower(req.Email))
		return
	}

	slog.Info("user registered", "user_id", result.User.ID, "pending", result.NeedsConfirmation)

	if result.NeedsConfirmation {
		middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
			User:              result.User,
			NeedsConfirmation: true,
		})
		return
	}

	metrics.SignIns.Add(1)
	h.writeSession(w, http.StatusCreated, result.Session)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.AuthFormData
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	session, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err, "sign in failed", "email", strings.ToLower(req.Email))
		return
	}

	metrics.SignIns.Add(1)
	slog.Info("user signed in", "user_id", session.User.ID)
	h.writeSession(w, http.StatusOK, session)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	if err := h.provider.SignOut(r.Context(), token); err != nil {
		writeError(w, err, "sign out failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Signed out"})
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.provider.GetSession(r.Context(), middleware.TokenFromContext(r.Context()))
	if err != nil {
		writeError(w, err, "session lookup failed")
		return
	}

	expires := session.ExpiresAt
	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		User:      session.User,
		ExpiresAt: &expires,
	})
}

// Confirm handles GET /auth/confirm?token=
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "token is required")
		return
	}

	user, err := h.provider.ConfirmEmail(r.Context(), token)
	if err != nil {
		writeError(w, err, "email confirmation failed")
		return
	}

	slog.Info("email confirmed", "user_id", user.ID)
	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{User: user})
}

// Events handles GET /auth/events as a Server-Sent Events stream of auth
// state changes for the signed-in user.
func (h *AuthHandler) Events(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	rc := http.NewResponseController(w)

	events, cancel := h.provider.Subscribe(user.ID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		slog.Error("event stream not supported", "error", err)
		return
	}

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				slog.Error("failed to encode auth event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, status int, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   strings.HasPrefix(h.cfg.BaseURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	})

	expires := session.ExpiresAt
	middleware.JSONResponse(w, status, models.AuthResponse{
		User:      session.User,
		Token:     session.Token,
		ExpiresAt: &expires,
	})
}
