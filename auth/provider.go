// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Anikhe00/alx-polling-app/models"
	"github.com/Anikhe00/alx-polling-app/store"
)

const confirmationTTL = 24 * time.Hour

// UserStore is the persistence the provider needs. *store.Store satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, email, name, passwordHash string, confirmed bool) (*store.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*store.UserRecord, error)
	GetUserByID(ctx context.Context, id string) (*store.UserRecord, error)
	ConfirmEmail(ctx context.Context, userID string) error
	UpdateProfile(ctx context.Context, userID string, name, avatar *string) error
}

// Session is an authenticated session.
type Session struct {
	Token     string
	User      models.User
	ExpiresAt time.Time
	jti       string
}

// SignUpResult is either a session or a pending confirmation.
type SignUpResult struct {
	User              models.User
	Session           *Session
	NeedsConfirmation bool
}

type Options struct {
	SessionTTL               time.Duration
	RequireEmailConfirmation bool
	BaseURL                  string
	BcryptCost               int
	Revoker                  Revoker
	Mailer                   Mailer
}

// Provider is the identity provider: sign-up, sign-in, sign-out, session
// lookup and auth state change notifications.
type Provider struct {
	users  UserStore
	signer *Signer
	opts   Options
	events *Broker
}

func NewProvider(users UserStore, secret string, opts Options) *Provider {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 7 * 24 * time.Hour
	}
	if opts.Revoker == nil {
		opts.Revoker = NewMemoryRevoker()
	}
	if opts.Mailer == nil {
		opts.Mailer = LogMailer{}
	}
	return &Provider{
		users:  users,
		signer: NewSigner(secret),
		opts:   opts,
		events: NewBroker(),
	}
}

// SignUp creates an account. When confirmation is required no session is
// issued; a confirmation link is sent through the Mailer instead.
func (p *Provider) SignUp(ctx context.Context, form models.AuthFormData) (*SignUpResult, error) {
	email := strings.ToLower(strings.TrimSpace(form.Email))
	if err := ValidateCredentials(email, form.Password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(form.Password, p.opts.BcryptCost)
	if err != nil {
		return nil, err
	}

	rec, err := p.users.CreateUser(ctx, email, DisplayName(form.Name, email), hash, !p.opts.RequireEmailConfirmation)
	if err != nil {
		return nil, err
	}

	if p.opts.RequireEmailConfirmation {
		token, _, err := p.signer.Issue(rec.ID, rec.Email, audienceConfirmation, confirmationTTL)
		if err != nil {
			return nil, err
		}
		link := strings.TrimRight(p.opts.BaseURL, "/") + "/auth/confirm?token=" + url.QueryEscape(token)
		if err := p.opts.Mailer.SendConfirmation(ctx, rec.Email, link); err != nil {
			return nil, fmt.Errorf("failed to send confirmation: %w", err)
		}
		return &SignUpResult{User: rec.User, NeedsConfirmation: true}, nil
	}

	session, err := p.newSession(rec)
	if err != nil {
		return nil, err
	}
	return &SignUpResult{User: rec.User, Session: session}, nil
}

// SignIn verifies credentials and issues a session.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	rec, err := p.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := CheckPassword(rec.PasswordHash, password); err != nil {
		return nil, err
	}
	if p.opts.RequireEmailConfirmation && !rec.Confirmed() {
		return nil, ErrEmailNotConfirmed
	}

	return p.newSession(rec)
}

func (p *Provider) newSession(rec *store.UserRecord) (*Session, error) {
	token, claims, err := p.signer.Issue(rec.ID, rec.Email, audienceSession, p.opts.SessionTTL)
	if err != nil {
		return nil, err
	}

	user := mapUser(rec)
	p.events.Publish(models.AuthEvent{Type: models.EventSignedIn, UserID: user.ID, At: time.Now().UTC()})

	return &Session{
		Token:     token,
		User:      user,
		ExpiresAt: claims.ExpiresAt.Time,
		jti:       claims.ID,
	}, nil
}

// SignOut revokes the session until its natural expiry.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	session, err := p.GetSession(ctx, token)
	if err != nil {
		return err
	}
	if err := p.opts.Revoker.Revoke(ctx, session.jti, session.ExpiresAt); err != nil {
		return err
	}
	p.events.Publish(models.AuthEvent{Type: models.EventSignedOut, UserID: session.User.ID, At: time.Now().UTC()})
	return nil
}

// GetSession validates token and loads the current user.
func (p *Provider) GetSession(ctx context.Context, token string) (*Session, error) {
	claims, err := p.signer.Verify(token, audienceSession)
	if err != nil {
		return nil, err
	}

	revoked, err := p.opts.Revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrSessionRevoked
	}

	rec, err := p.users.GetUserByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		User:      mapUser(rec),
		ExpiresAt: claims.ExpiresAt.Time,
		jti:       claims.ID,
	}, nil
}

// GetUser returns the user behind token.
func (p *Provider) GetUser(ctx context.Context, token string) (models.User, error) {
	session, err := p.GetSession(ctx, token)
	if err != nil {
		return models.User{}, err
	}
	return session.User, nil
}

// ConfirmEmail consumes a confirmation token.
func (p *Provider) ConfirmEmail(ctx context.Context, token string) (models.User, error) {
	claims, err := p.signer.Verify(token, audienceConfirmation)
	if err != nil {
		return models.User{}, err
	}
	if err := p.users.ConfirmEmail(ctx, claims.Subject); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, ErrInvalidToken
		}
		return models.User{}, err
	}
	rec, err := p.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return models.User{}, err
	}
	return mapUser(rec), nil
}

// UpdateProfile changes name and/or avatar and notifies subscribers.
func (p *Provider) UpdateProfile(ctx context.Context, userID string, name, avatar *string) (models.User, error) {
	if err := p.users.UpdateProfile(ctx, userID, name, avatar); err != nil {
		return models.User{}, err
	}
	rec, err := p.users.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	p.events.Publish(models.AuthEvent{Type: models.EventUserUpdated, UserID: userID, At: time.Now().UTC()})
	slog.Info("profile updated", "user_id", userID)
	return mapUser(rec), nil
}

// Subscribe streams auth state changes for userID.
func (p *Provider) Subscribe(userID string) (<-chan models.AuthEvent, func()) {
	return p.events.Subscribe(userID)
}

func mapUser(rec *store.UserRecord) models.User {
	u := rec.User
	u.Name = DisplayName(u.Name, u.Email)
	return u
}
