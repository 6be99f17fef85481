// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Anikhe00/alx-polling-app/cliparse"
	"github.com/Anikhe00/alx-polling-app/db"
)

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The file lives in t.TempDir and is removed with it.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open(context.Background(), db.TypeSQLite, "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    "file::memory:",
		DatabaseType:   db.TypeSQLite,
		BaseURL:        "http://polls.test",
		SessionSecret:  "test-session-secret",
		IPHashSalt:     "test-ip-salt",
		SessionTTL:     time.Hour,
		RequestTimeout: 5 * time.Second,
	}
}

// CreateTestUser inserts a confirmed user with a profile and returns its ID.
// The password hash is a placeholder; use the auth provider when a real
// sign-in is needed.
func CreateTestUser(t *testing.T, conn *sql.DB, email, name string) string {
	t.Helper()

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO users (id, email, password_hash, email_confirmed_at, created_at, updated_at)
		VALUES (?, ?, 'x', ?, ?, ?)
	`, id, email, now, now, now)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	if name != "" {
		_, err = conn.Exec(`
			INSERT INTO profiles (id, name, avatar_url, email, created_at, updated_at)
			VALUES (?, ?, '', ?, ?, ?)
		`, id, name, email, now, now)
		if err != nil {
			t.Fatalf("Failed to create test profile: %v", err)
		}
	}

	return id
}

// TestPoll describes a poll inserted by CreateTestPoll.
type TestPoll struct {
	Status             string
	IsAnonymous        bool
	AllowMultipleVotes bool
	ShowResults        bool
	EndDate            *time.Time
	CreatedAt          time.Time
	Options            []string
}

// CreateTestPoll inserts a poll and its options directly and returns the
// poll ID and the option IDs in display order.
// status should be "draft", "active", or "ended"
func CreateTestPoll(t *testing.T, conn *sql.DB, creatorID string, p TestPoll) (string, []string) {
	t.Helper()

	if p.Status == "" {
		p.Status = "active"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Options == nil {
		p.Options = []string{"Option A", "Option B"}
	}

	var endDate interface{}
	if p.EndDate != nil {
		endDate = p.EndDate.UTC()
	}

	pollID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO polls (id, title, description, creator_id, type, status, is_anonymous,
			show_results, allow_multiple_votes, end_date, created_at, updated_at)
		VALUES (?, 'Test Poll', 'A test poll', ?, 'single', ?, ?, ?, ?, ?, ?, ?)
	`, pollID, creatorID, p.Status, p.IsAnonymous, p.ShowResults, p.AllowMultipleVotes, endDate, p.CreatedAt.UTC(), p.CreatedAt.UTC())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	optionIDs := make([]string, 0, len(p.Options))
	for i, text := range p.Options {
		optionIDs = append(optionIDs, AddTestOption(t, conn, pollID, text, i))
	}

	return pollID, optionIDs
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, pollID, text string, order int) string {
	t.Helper()

	optionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO poll_options (id, poll_id, text, votes, display_order)
		VALUES (?, ?, ?, 0, ?)
	`, optionID, pollID, text, order)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// SetOptionVotes overwrites an option's counter.
func SetOptionVotes(t *testing.T, conn *sql.DB, optionID string, votes int) {
	t.Helper()

	if _, err := conn.Exec(`UPDATE poll_options SET votes = ? WHERE id = ?`, votes, optionID); err != nil {
		t.Fatalf("Failed to set option votes: %v", err)
	}
}

// OptionVotes reads an option's counter.
func OptionVotes(t *testing.T, conn *sql.DB, optionID string) int {
	t.Helper()

	var votes int
	if err := conn.QueryRow(`SELECT votes FROM poll_options WHERE id = ?`, optionID).Scan(&votes); err != nil {
		t.Fatalf("Failed to read option votes: %v", err)
	}
	return votes
}

// CountRows counts rows in table matching an optional WHERE clause.
func CountRows(t *testing.T, conn *sql.DB, table, where string, args ...interface{}) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// BearerHeader builds an Authorization header map for token.
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
