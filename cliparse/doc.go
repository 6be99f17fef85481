// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded by main (godotenv) before
ParseFlags runs, so its values act as environment variables.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL or SQLite connection string (required)
  - DatabaseType: "postgres" or "sqlite" (default: sqlite)
  - BaseURL: Public URL used to build share links
  - SessionSecret: HMAC key for session tokens (required)
  - IPHashSalt: Salt for hashing voter IPs (required)
  - SessionTTL: Session lifetime (default: 7 days)
  - RedisURL: Shared revocation list; in-memory when empty
  - RequestTimeout: Deadline applied to every request (default: 10s)
  - RequireEmailConfirmation: Sign-up returns pending until confirmed
  - OrphanSweepInterval: How often option-less polls are cleaned up (default: 10m)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	--base-url        Public base URL
	--redis           Redis URL
	--session-secret  Session signing secret
	--ip-salt         IP hash salt
	--session-ttl     Session lifetime
	--timeout         Request timeout
	--confirm-email   Require email confirmation
	--orphan-sweep    Orphan sweep interval

# Environment Variables

Flags fall back to environment variables:

	PORT                       → -p
	DATABASE_URL               → -d
	DATABASE_TYPE              → -t
	BASE_URL                   → --base-url
	REDIS_URL                  → --redis
	SESSION_SECRET             → --session-secret
	IP_HASH_SALT               → --ip-salt
	SESSION_TTL                → --session-ttl
	REQUEST_TIMEOUT            → --timeout
	REQUIRE_EMAIL_CONFIRMATION → --confirm-email
	ORPHAN_SWEEP_INTERVAL      → --orphan-sweep

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - SESSION_SECRET must be provided
  - IP_HASH_SALT must be provided
  - durations must parse with time.ParseDuration and be positive
*/
package cliparse
