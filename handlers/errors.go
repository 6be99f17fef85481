// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Anikhe00/alx-polling-app/auth"
	"github.com/Anikhe00/alx-polling-app/middleware"
	"github.com/Anikhe00/alx-polling-app/models"
	"github.com/Anikhe00/alx-polling-app/store"
)

// errorStatus maps domain errors to HTTP status codes. Unknown errors are
// internal; their text is never sent to the client.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrPollNotFound),
		errors.Is(err, store.ErrOptionNotFound),
		errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, store.ErrPollNotActive),
		errors.Is(err, store.ErrAlreadyVoted),
		errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrEmailTaken):
		return http.StatusConflict, err.Error()

	case errors.Is(err, models.ErrTitleRequired),
		errors.Is(err, models.ErrTooFewOptions),
		errors.Is(err, models.ErrBlankOption),
		errors.Is(err, models.ErrInvalidPollType),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidEndDate),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrSessionRevoked):
		return http.StatusUnauthorized, err.Error()

	case errors.Is(err, auth.ErrEmailNotConfirmed):
		return http.StatusForbidden, err.Error()

	case errors.Is(err, store.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	}

	return http.StatusInternalServerError, "Internal error"
}

// writeError logs err with attrs and writes the mapped JSON error.
func writeError(w http.ResponseWriter, err error, msg string, attrs ...any) {
	status, text := errorStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error(msg, append([]any{"error", err}, attrs...)...)
	} else {
		slog.Info(msg, append([]any{"reason", err}, attrs...)...)
	}
	middleware.ErrorResponse(w, status, text)
}
