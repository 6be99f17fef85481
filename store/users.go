// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/Anikhe00/alx-polling-app/models"
)

// UserRecord is a user row joined with its profile, including the
// credentials the identity provider needs.
type UserRecord struct {
	models.User
	PasswordHash     string
	EmailConfirmedAt *time.Time
}

// Confirmed reports whether the email address has been confirmed.
func (u *UserRecord) Confirmed() bool {
	return u.EmailConfirmedAt != nil
}

// CreateUser inserts a user and its profile in one transaction.
// Emails are stored lower-cased; a duplicate returns ErrEmailTaken.
func (s *Store) CreateUser(ctx context.Context, email, name, passwordHash string, confirmed bool) (*UserRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	now := s.now()
	id := newID()

	var confirmedAt *time.Time
	if confirmed {
		confirmedAt = &now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, unavailable("begin create user", err)
	}
	defer tx.Rollback()

	_, err = s.exec(ctx, tx, s.dialect.Insert("users").Prepared(true).Rows(goqu.Record{
		"id":                 id,
		"email":              email,
		"password_hash":      passwordHash,
		"email_confirmed_at": nullTime(confirmedAt),
		"created_at":         now,
		"updated_at":         now,
	}))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, unavailable("insert user", err)
	}

	_, err = s.exec(ctx, tx, s.dialect.Insert("profiles").Prepared(true).Rows(goqu.Record{
		"id":         id,
		"name":       name,
		"avatar_url": "",
		"email":      email,
		"created_at": now,
		"updated_at": now,
	}))
	if err != nil {
		return nil, unavailable("insert profile", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, unavailable("commit create user", err)
	}

	return &UserRecord{
		User: models.User{
			ID:        id,
			Email:     email,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash:     passwordHash,
		EmailConfirmedAt: confirmedAt,
	}, nil
}

// GetUserByEmail looks a user up by (case-insensitive) email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	return s.getUser(ctx, goqu.I("u.email").Eq(strings.ToLower(strings.TrimSpace(email))))
}

// GetUserByID looks a user up by id.
func (s *Store) GetUserByID(ctx context.Context, id string) (*UserRecord, error) {
	return s.getUser(ctx, goqu.I("u.id").Eq(id))
}

func (s *Store) getUser(ctx context.Context, where exp.Expression) (*UserRecord, error) {
	ds := s.dialect.From(goqu.T("users").As("u")).Prepared(true).
		LeftJoin(goqu.T("profiles").As("pr"), goqu.On(goqu.I("pr.id").Eq(goqu.I("u.id")))).
		Select(
			goqu.I("u.id"), goqu.I("u.email"), goqu.I("u.password_hash"), goqu.I("u.email_confirmed_at"),
			goqu.I("u.created_at"), goqu.I("u.updated_at"),
			goqu.I("pr.name"), goqu.I("pr.avatar_url"),
		).
		Where(where)

	var u UserRecord
	var confirmedAt sql.NullTime
	var name, avatar sql.NullString
	err := s.queryRow(ctx, s.db, ds,
		&u.ID, &u.Email, &u.PasswordHash, &confirmedAt,
		&u.CreatedAt, &u.UpdatedAt,
		&name, &avatar,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, unavailable("query user", err)
	}

	if confirmedAt.Valid {
		t := confirmedAt.Time
		u.EmailConfirmedAt = &t
	}
	u.Name = name.String
	u.Avatar = avatar.String
	return &u, nil
}

// ConfirmEmail marks the user's email as confirmed. Confirming twice is
// not an error.
func (s *Store) ConfirmEmail(ctx context.Context, userID string) error {
	now := s.now()
	res, err := s.exec(ctx, s.db, s.dialect.Update("users").Prepared(true).
		Set(goqu.Record{
			"email_confirmed_at": goqu.COALESCE(goqu.C("email_confirmed_at"), now),
			"updated_at":         now,
		}).
		Where(goqu.C("id").Eq(userID)))
	if err != nil {
		return unavailable("confirm email", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("confirm email", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateProfile changes the display name and/or avatar. Nil fields are left
// untouched.
func (s *Store) UpdateProfile(ctx context.Context, userID string, name, avatar *string) error {
	record := goqu.Record{"updated_at": s.now()}
	if name != nil {
		record["name"] = strings.TrimSpace(*name)
	}
	if avatar != nil {
		record["avatar_url"] = strings.TrimSpace(*avatar)
	}

	res, err := s.exec(ctx, s.db, s.dialect.Update("profiles").Prepared(true).
		Set(record).
		Where(goqu.C("id").Eq(userID)))
	if err != nil {
		return unavailable("update profile", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("update profile", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
