// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth is the identity provider for the API.

# Provider

Provider wraps a UserStore (satisfied by *store.Store) and implements the
account lifecycle:

	provider := auth.NewProvider(st, cfg.SessionSecret, auth.Options{
		SessionTTL: cfg.SessionTTL,
		Revoker:    auth.NewMemoryRevoker(),
	})

	res, err := provider.SignUp(ctx, form)        // session or pending confirmation
	session, err := provider.SignIn(ctx, email, password)
	user, err := provider.GetUser(ctx, session.Token)
	err = provider.SignOut(ctx, session.Token)

Passwords are hashed with bcrypt. When email confirmation is required,
SignUp sends a link through the Mailer and SignIn fails with
ErrEmailNotConfirmed until ConfirmEmail consumes the token.

# Session Tokens

Sessions are HS256 JWTs carrying the user ID (sub), a unique ID (jti), the
email and an audience. Confirmation links use a separate audience, so a
confirmation token is never accepted as a session.

# Revocation

Signing out records the token's jti until the token would expire anyway.
MemoryRevoker keeps the list in process; RedisRevoker stores expiring keys
so every instance sees the same sign-outs.

# Auth Events

Subscribe returns a channel of SIGNED_IN, SIGNED_OUT and USER_UPDATED
events for one user. Slow subscribers lose events instead of blocking.

# Helpers

	id, err := auth.GenerateID(16)         // 32 hex characters
	hash := auth.HashIP(ipAddress, salt)   // 16 hex characters

HashIP returns the first 8 bytes of HMAC-SHA256 so raw IPs are never stored.
*/
package auth
