// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the polling API.

# Route Registration

	handler := router.NewRouter(st, provider, cfg)

The returned handler is wrapped, outermost first, in CORS, WithSession and
RouteGuard.

# Endpoints

Health and metrics:

	GET /health
	GET /debug/vars

Identity:

	POST /auth/register
	POST /auth/login
	POST /auth/logout       - requires session
	GET  /auth/session      - requires session
	GET  /auth/confirm?token=
	GET  /auth/events       - Server-Sent Events, requires session

Profile (requires session):

	GET   /profile
	PATCH /profile

Polls:

	GET    /polls?status=&mine=&q=
	POST   /polls             - requires session
	GET    /polls/{id}
	PATCH  /polls/{id}        - creator only
	DELETE /polls/{id}        - creator only
	POST   /polls/{id}/votes  - session optional

Results:

	GET /polls/{id}/results
	GET /polls/{id}/vote-count
	GET /polls/{id}/preview

Dashboard (requires session):

	GET /dashboard

Every route except the event stream runs under the configured request
timeout.
*/
package router
