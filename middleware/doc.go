// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Sessions

WithSession reads a bearer token from the Authorization header or the
session cookie and puts the user in the request context. Invalid tokens
are treated as anonymous.

	user, ok := middleware.UserFromContext(r.Context())

RequireUser rejects anonymous requests with 401.

# Route Guard

RouteGuard redirects anonymous requests for protected paths (/dashboard,
/profile, /polls/create) to /auth/login?redirectedFrom=<path>, and
signed-in requests for /auth/login and /auth/register to /dashboard.

# Request Logging and Timeouts

	mux.HandleFunc("GET /polls", middleware.WithLogging(middleware.WithTimeout(10*time.Second, handler)))

WithLogging logs method, path, status and duration_ms. WithTimeout puts a
deadline on the request context.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PATCH, DELETE, OPTIONS with headers
Content-Type and Authorization.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.PollFormData
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Used for IP hashing on votes.
*/
package middleware
