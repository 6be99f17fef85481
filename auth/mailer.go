// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"log/slog"
)

// Mailer delivers email confirmation links.
type Mailer interface {
	SendConfirmation(ctx context.Context, email, link string) error
}

// LogMailer writes confirmation links to the log instead of sending mail.
type LogMailer struct{}

func (LogMailer) SendConfirmation(_ context.Context, email, link string) error {
	slog.Info("email confirmation requested", "email", email, "link", link)
	return nil
}
