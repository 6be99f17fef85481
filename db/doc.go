// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections and creates the schema.

# Drivers

Two database types are supported:

  - postgres: github.com/lib/pq, used in production
  - sqlite: modernc.org/sqlite (pure Go), used for local development and tests

Open verifies the connection with a ping:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

SQLite DSNs are extended with foreign_keys(1) and busy_timeout(5000)
pragmas and _time_format=sqlite, and the pool is capped at one connection.

# Schema Creation

CreateSchema initializes all required tables for the given dialect:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: identities with bcrypt password hashes
  - profiles: display name and avatar per user
  - polls: poll metadata, flags and lifecycle state
  - poll_options: options with their raw vote counters
  - votes: audit rows, one per submitted vote

# Relationships

	users 1──1 profiles
	users 1──* polls
	polls 1──* poll_options
	polls 1──* votes
	poll_options 1──* votes

All foreign keys use ON DELETE CASCADE. Poll totals and percentages are
never stored; they are derived from poll_options.votes at read time.
*/
package db
