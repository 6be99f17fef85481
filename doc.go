// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the polling API server.

Signed-in users create polls with two or more options; anyone with the link
can vote. Counts are kept as per-option counters that are incremented
atomically alongside an audit row for every vote, and percentages are
derived at read time.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=polls.db SESSION_SECRET=... IP_HASH_SALT=... go run main.go

Or with flags:

	go run main.go -p 3318 -t postgres -d "postgres://..." --session-secret ... --ip-salt ...

A .env file in the working directory is loaded first if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - SESSION_SECRET (--session-secret): HMAC key for session tokens
  - IP_HASH_SALT (--ip-salt): Salt for hashing voter IPs

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - REDIS_URL (--redis): Share sign-outs across instances

See package cliparse for the full list.

# Architecture

  - handlers: HTTP request handlers (auth, profile, polls, voting, results, dashboard)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Sessions, route guard, CORS, logging, timeouts, JSON helpers
  - store: Queries and transactions for users, polls and votes
  - auth: Identity provider, session tokens, revocation, auth events
  - models: Request/response and domain types
  - metrics: expvar counters
  - db: Connections and schema creation
  - cliparse: Configuration parsing

Background work started by main: runtime metrics collection and the store
janitor, which removes polls left without options and ends polls whose end
date has passed.
*/
package main
