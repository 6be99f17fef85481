// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Anikhe00/alx-polling-app/auth"
	"github.com/Anikhe00/alx-polling-app/middleware"
	"github.com/Anikhe00/alx-polling-app/models"
)

const maxNameLength = 100

type ProfileHandler struct {
	provider *auth.Provider
}

func NewProfileHandler(provider *auth.Provider) *ProfileHandler {
	return &ProfileHandler{provider: provider}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())
	middleware.JSONResponse(w, http.StatusOK, user)
}

// UpdateProfile handles PATCH /profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromContext(r.Context())

	var req models.UpdateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == nil && req.Avatar == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name or avatar is required")
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > maxNameLength {
			middleware.ErrorResponse(w, http.StatusBadRequest, "name must be 1-100 characters")
			return
		}
	}
	if req.Avatar != nil && *req.Avatar != "" {
		u, err := url.Parse(*req.Avatar)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "avatar must be an http(s) URL")
			return
		}
	}

	updated, err := h.provider.UpdateProfile(r.Context(), user.ID, req.Name, req.Avatar)
	if err != nil {
		writeError(w, err, "failed to update profile", "user_id", user.ID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, updated)
}
