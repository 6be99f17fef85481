// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Anikhe00/alx-polling-app/db"
)

var (
	ErrPollNotFound      = errors.New("poll not found")
	ErrOptionNotFound    = errors.New("option not found")
	ErrPollNotActive     = errors.New("poll is not active")
	ErrAlreadyVoted      = errors.New("already voted on this poll")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrOptionsInsert     = errors.New("failed to create poll options")
	ErrOrphanedPoll      = errors.New("poll left without options")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrUnavailable       = errors.New("storage unavailable")
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type builder interface {
	ToSQL() (string, []interface{}, error)
}

// Store is the data-access layer. All SQL is built with goqu for the
// configured dialect and executed through database/sql.
type Store struct {
	db       *sql.DB
	dialect  goqu.DialectWrapper
	lockRows bool
	now      func() time.Time
}

func New(conn *sql.DB, dbType string) *Store {
	dialect := "sqlite3"
	if dbType == db.TypePostgres {
		dialect = "postgres"
	}
	return &Store{
		db:       conn,
		dialect:  goqu.Dialect(dialect),
		lockRows: dbType == db.TypePostgres,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (s *Store) exec(ctx context.Context, q querier, b builder) (sql.Result, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return q.ExecContext(ctx, query, args...)
}

func (s *Store) query(ctx context.Context, q querier, b builder) (*sql.Rows, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return q.QueryContext(ctx, query, args...)
}

func (s *Store) queryRow(ctx context.Context, q querier, b builder, dest ...any) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return q.QueryRowContext(ctx, query, args...).Scan(dest...)
}

func newID() string {
	return uuid.NewString()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// isUniqueViolation recognizes unique constraint failures from both drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
