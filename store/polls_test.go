// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Anikhe00/alx-polling-app/db"
	"github.com/Anikhe00/alx-polling-app/models"
	"github.com/Anikhe00/alx-polling-app/store"
	"github.com/Anikhe00/alx-polling-app/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestCreatePoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, conn, "creator@example.com", "Creator")

	form := models.PollFormData{Title: "T", Description: "D", Options: []string{"X", "Y"}}
	if err := form.Validate(time.Now()); err != nil {
		t.Fatal(err)
	}

	pollID, err := s.CreatePoll(ctx, form, creator)
	if err != nil {
		t.Fatalf("CreatePoll() error = %v", err)
	}

	poll, err := s.GetPollByID(ctx, pollID)
	if err != nil {
		t.Fatalf("GetPollByID() error = %v", err)
	}

	if poll.Title != "T" || poll.Description != "D" {
		t.Errorf("got title %q description %q", poll.Title, poll.Description)
	}
	if poll.Status != models.StatusActive {
		t.Errorf("Status = %q, want active", poll.Status)
	}
	if poll.TotalVotes != 0 {
		t.Errorf("TotalVotes = %d, want 0", poll.TotalVotes)
	}
	if len(poll.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(poll.Options))
	}
	for i, want := range []string{"X", "Y"} {
		if poll.Options[i].Text != want || poll.Options[i].Order != i {
			t.Errorf("option %d = %q (order %d), want %q (order %d)",
				i, poll.Options[i].Text, poll.Options[i].Order, want, i)
		}
	}
	if poll.Creator.Name != "Creator" || poll.Creator.Email != "creator@example.com" {
		t.Errorf("unexpected creator %+v", poll.Creator)
	}
}

func TestCreatePoll_WithEndDate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, conn, "creator@example.com", "Creator")
	end := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)

	form := models.PollFormData{
		Title:       "Lunch",
		Options:     []string{"Pizza", "Sushi", "Tacos"},
		EndDate:     end.Format(time.RFC3339),
		ShowResults: true,
	}
	pollID, err := s.CreatePoll(ctx, form, creator)
	if err != nil {
		t.Fatalf("CreatePoll() error = %v", err)
	}

	poll, err := s.GetPollByID(ctx, pollID)
	if err != nil {
		t.Fatal(err)
	}
	if poll.EndDate == nil || !poll.EndDate.Equal(end) {
		t.Errorf("EndDate = %v, want %v", poll.EndDate, end)
	}
	if !poll.ShowResults {
		t.Error("ShowResults should be true")
	}
}

func TestCreatePoll_Type(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, conn, "creator@example.com", "Creator")

	pollID, err := s.CreatePoll(ctx, models.PollFormData{Title: "T", Options: []string{"X", "Y"}}, creator)
	if err != nil {
		t.Fatalf("CreatePoll() without type error = %v", err)
	}
	poll, err := s.GetPollByID(ctx, pollID)
	if err != nil {
		t.Fatal(err)
	}
	if poll.Type != models.TypeSingle {
		t.Errorf("Type = %q, want %q", poll.Type, models.TypeSingle)
	}

	_, err = s.CreatePoll(ctx, models.PollFormData{Title: "T", Type: "approval", Options: []string{"X", "Y"}}, creator)
	if !errors.Is(err, models.ErrInvalidPollType) {
		t.Errorf("CreatePoll() error = %v, want ErrInvalidPollType", err)
	}
	if errors.Is(err, store.ErrUnavailable) {
		t.Error("an invalid type must not be reported as unavailable")
	}
	if n := testutil.CountRows(t, conn, "polls", ""); n != 1 {
		t.Errorf("expected 1 poll, got %d", n)
	}
}

// TestCreatePoll_CompensatesFailedOptions verifies that when the option insert
// fails, the poll row is deleted and ErrOptionsInsert is returned
func TestCreatePoll_CompensatesFailedOptions(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	s := store.New(conn, db.TypeSQLite)

	mock.ExpectExec("INSERT INTO .polls.").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO .poll_options.").WillReturnError(errors.New("disk full"))
	mock.ExpectExec("DELETE FROM .polls.").WillReturnResult(sqlmock.NewResult(0, 1))

	_, err = s.CreatePoll(context.Background(), models.PollFormData{
		Title: "T", Type: models.TypeSingle, Options: []string{"X", "Y"},
	}, "creator")

	if !errors.Is(err, store.ErrOptionsInsert) {
		t.Fatalf("CreatePoll() error = %v, want ErrOptionsInsert", err)
	}
	if errors.Is(err, store.ErrOrphanedPoll) {
		t.Error("compensated failure must not report an orphaned poll")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// TestCreatePoll_ReportsOrphan verifies that a failed compensating delete is
// surfaced as ErrOrphanedPoll
func TestCreatePoll_ReportsOrphan(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	s := store.New(conn, db.TypeSQLite)

	mock.ExpectExec("INSERT INTO .polls.").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO .poll_options.").WillReturnError(errors.New("disk full"))
	mock.ExpectExec("DELETE FROM .polls.").WillReturnError(errors.New("connection reset"))

	_, err = s.CreatePoll(context.Background(), models.PollFormData{
		Title: "T", Type: models.TypeSingle, Options: []string{"X", "Y"},
	}, "creator")

	if !errors.Is(err, store.ErrOrphanedPoll) {
		t.Fatalf("CreatePoll() error = %v, want ErrOrphanedPoll", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreatePoll_PollInsertFails(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	s := store.New(conn, db.TypeSQLite)
	mock.ExpectExec("INSERT INTO .polls.").WillReturnError(errors.New("connection refused"))

	_, err = s.CreatePoll(context.Background(), models.PollFormData{
		Title: "T", Type: models.TypeSingle, Options: []string{"X", "Y"},
	}, "creator")

	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("CreatePoll() error = %v, want ErrUnavailable", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreatePoll_FailedOptionsLeaveNoPoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, conn, "creator@example.com", "Creator")

	// Make the option insert fail at the database level
	if _, err := conn.Exec(`CREATE TRIGGER reject_options BEFORE INSERT ON poll_options
		BEGIN SELECT RAISE(ABORT, 'options rejected'); END`); err != nil {
		t.Fatal(err)
	}

	_, err := s.CreatePoll(ctx, models.PollFormData{
		Title: "T", Type: models.TypeSingle, Options: []string{"X", "Y"},
	}, creator)
	if !errors.Is(err, store.ErrOptionsInsert) {
		t.Fatalf("CreatePoll() error = %v, want ErrOptionsInsert", err)
	}

	if n := testutil.CountRows(t, conn, "polls", ""); n != 0 {
		t.Errorf("expected no polls after compensation, got %d", n)
	}
	polls, err := s.GetPolls(ctx, store.PollFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(polls) != 0 {
		t.Errorf("GetPolls() returned %d polls, want 0", len(polls))
	}
}

func TestGetPollByID_NotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)

	_, err := s.GetPollByID(context.Background(), "missing")
	if !errors.Is(err, store.ErrPollNotFound) {
		t.Errorf("GetPollByID() error = %v, want ErrPollNotFound", err)
	}
}

func TestGetPollByID_UnknownCreator(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)

	// User without a profile row
	creator := testutil.CreateTestUser(t, conn, "ghost@example.com", "")
	pollID, _ := testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{})

	poll, err := s.GetPollByID(context.Background(), pollID)
	if err != nil {
		t.Fatal(err)
	}
	if poll.Creator.Name != "Unknown User" {
		t.Errorf("Creator.Name = %q, want Unknown User", poll.Creator.Name)
	}
	if poll.Creator.ID != creator {
		t.Errorf("Creator.ID = %q, want %q", poll.Creator.ID, creator)
	}
}

func TestGetPolls_TotalsAndOrdering(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)

	creator := testutil.CreateTestUser(t, conn, "creator@example.com", "Creator")
	now := time.Now().UTC()

	older, olderOpts := testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{
		CreatedAt: now.Add(-2 * time.Hour), Options: []string{"A", "B", "C"},
	})
	newer, _ := testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{CreatedAt: now.Add(-time.Hour)})

	testutil.SetOptionVotes(t, conn, olderOpts[0], 1)
	testutil.SetOptionVotes(t, conn, olderOpts[1], 1)
	testutil.SetOptionVotes(t, conn, olderOpts[2], 1)

	polls, err := s.GetPolls(context.Background(), store.PollFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(polls) != 2 {
		t.Fatalf("expected 2 polls, got %d", len(polls))
	}
	if polls[0].ID != newer || polls[1].ID != older {
		t.Errorf("polls not ordered newest first")
	}

	for _, p := range polls {
		sum := 0
		for _, o := range p.Options {
			sum += o.Votes
		}
		if sum != p.TotalVotes {
			t.Errorf("poll %s: TotalVotes %d != sum %d", p.ID, p.TotalVotes, sum)
		}
	}

	for _, o := range polls[1].Options {
		if o.Percentage != 33 {
			t.Errorf("option %q percentage = %d, want 33", o.Text, o.Percentage)
		}
	}
}

func TestGetPolls_Filter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)
	ctx := context.Background()

	alice := testutil.CreateTestUser(t, conn, "alice@example.com", "Alice")
	bob := testutil.CreateTestUser(t, conn, "bob@example.com", "Bob")

	testutil.CreateTestPoll(t, conn, alice, testutil.TestPoll{Status: "active"})
	testutil.CreateTestPoll(t, conn, alice, testutil.TestPoll{Status: "ended"})
	testutil.CreateTestPoll(t, conn, bob, testutil.TestPoll{Status: "draft"})

	form := models.PollFormData{Title: "Favourite Editor", Description: "vim or emacs", Options: []string{"vim", "emacs"}}
	form.Validate(time.Now())
	if _, err := s.CreatePoll(ctx, form, bob); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		filter store.PollFilter
		want   int
	}{
		{"all", store.PollFilter{}, 4},
		{"active", store.PollFilter{Status: "active"}, 2},
		{"ended", store.PollFilter{Status: "ended"}, 1},
		{"by creator", store.PollFilter{CreatorID: alice}, 2},
		{"creator and status", store.PollFilter{CreatorID: bob, Status: "draft"}, 1},
		{"search title case-insensitive", store.PollFilter{Query: "EDITOR"}, 1},
		{"search description", store.PollFilter{Query: "emacs"}, 1},
		{"search no match", store.PollFilter{Query: "nothing here"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			polls, err := s.GetPolls(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(polls) != tt.want {
				t.Errorf("got %d polls, want %d", len(polls), tt.want)
			}
		})
	}

	mine, err := s.GetUserPolls(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 2 {
		t.Errorf("GetUserPolls() = %d polls, want 2", len(mine))
	}
}

func TestGetPolls_SearchIsLiteral(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, conn, "creator@example.com", "Creator")
	testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{})

	for _, title := range []string{"100% agree?", `Path C:\temp or /tmp`} {
		form := models.PollFormData{Title: title, Options: []string{"Yes", "No"}}
		if _, err := s.CreatePoll(ctx, form, creator); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"%", 1},
		{"_", 0},
		{"100%", 1},
		{"1_0", 0},
		{`\`, 1},
		{"poll", 1},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			polls, err := s.GetPolls(ctx, store.PollFilter{Query: tt.query})
			if err != nil {
				t.Fatal(err)
			}
			if len(polls) != tt.want {
				t.Errorf("GetPolls(q=%q) = %d polls, want %d", tt.query, len(polls), tt.want)
			}
		})
	}
}

func TestUpdatePoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, conn, "creator@example.com", "Creator")
	pollID, opts := testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{
		Status: "draft", Options: []string{"A", "B", "C"},
	})

	err := s.UpdatePoll(ctx, pollID, models.UpdatePollRequest{
		Title:  ptr("Renamed"),
		Status: ptr(models.StatusActive),
		Options: []models.OptionPatch{
			{ID: opts[0], Text: "A2"},
			{ID: opts[2], Text: "C"},
			{Text: "D"},
		},
	})
	if err != nil {
		t.Fatalf("UpdatePoll() error = %v", err)
	}

	poll, err := s.GetPollByID(ctx, pollID)
	if err != nil {
		t.Fatal(err)
	}
	if poll.Title != "Renamed" || poll.Status != models.StatusActive {
		t.Errorf("got title %q status %q", poll.Title, poll.Status)
	}

	var texts []string
	for _, o := range poll.Options {
		texts = append(texts, o.Text)
	}
	want := []string{"A2", "C", "D"}
	if len(texts) != len(want) {
		t.Fatalf("options = %v, want %v", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("options = %v, want %v", texts, want)
			break
		}
	}
}

func TestUpdatePoll_Errors(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, conn, "creator@example.com", "Creator")
	ended, _ := testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{Status: "ended"})
	draft, _ := testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{Status: "draft"})

	tests := []struct {
		name   string
		pollID string
		req    models.UpdatePollRequest
		want   error
	}{
		{"reopen ended", ended, models.UpdatePollRequest{Status: ptr(models.StatusActive)}, store.ErrInvalidTransition},
		{"skip active", draft, models.UpdatePollRequest{Status: ptr(models.StatusEnded)}, store.ErrInvalidTransition},
		{"unknown status", draft, models.UpdatePollRequest{Status: ptr("paused")}, models.ErrInvalidStatus},
		{"blank title", draft, models.UpdatePollRequest{Title: ptr("  ")}, models.ErrTitleRequired},
		{"one option", draft, models.UpdatePollRequest{Options: []models.OptionPatch{{Text: "only"}}}, models.ErrTooFewOptions},
		{"missing poll", "missing", models.UpdatePollRequest{Title: ptr("x")}, store.ErrPollNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.UpdatePoll(ctx, tt.pollID, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("UpdatePoll() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDeletePoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, conn, "creator@example.com", "Creator")
	pollID, opts := testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{})
	if err := s.SubmitVote(ctx, pollID, opts[0], "voter", ""); err != nil {
		t.Fatal(err)
	}

	if err := s.DeletePoll(ctx, pollID); err != nil {
		t.Fatalf("DeletePoll() error = %v", err)
	}

	if n := testutil.CountRows(t, conn, "poll_options", "poll_id = ?", pollID); n != 0 {
		t.Errorf("options not cascaded: %d left", n)
	}
	if n := testutil.CountRows(t, conn, "votes", "poll_id = ?", pollID); n != 0 {
		t.Errorf("votes not cascaded: %d left", n)
	}

	if err := s.DeletePoll(ctx, pollID); !errors.Is(err, store.ErrPollNotFound) {
		t.Errorf("second DeletePoll() error = %v, want ErrPollNotFound", err)
	}
}

func TestDeleteOrphanedPolls(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, conn, "creator@example.com", "Creator")
	now := time.Now().UTC()

	oldOrphan, _ := testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{
		CreatedAt: now.Add(-time.Hour), Options: []string{},
	})
	freshOrphan, _ := testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{Options: []string{}})
	healthy, _ := testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{CreatedAt: now.Add(-time.Hour)})

	n, err := s.DeleteOrphanedPolls(ctx, 10*time.Minute)
	if err != nil {
		t.Fatalf("DeleteOrphanedPolls() error = %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d polls, want 1", n)
	}

	if _, err := s.GetPollByID(ctx, oldOrphan); !errors.Is(err, store.ErrPollNotFound) {
		t.Errorf("old orphan still present: %v", err)
	}
	for _, id := range []string{freshOrphan, healthy} {
		if _, err := s.GetPollByID(ctx, id); err != nil {
			t.Errorf("poll %s should survive: %v", id, err)
		}
	}
}

func TestEndExpiredPolls(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, conn, "creator@example.com", "Creator")
	past := time.Now().UTC().Add(-time.Minute)
	future := time.Now().UTC().Add(time.Hour)

	expired, _ := testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{EndDate: &past})
	running, _ := testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{EndDate: &future})
	open, _ := testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{})

	n, err := s.EndExpiredPolls(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("ended %d polls, want 1", n)
	}

	want := map[string]string{expired: models.StatusEnded, running: models.StatusActive, open: models.StatusActive}
	for id, status := range want {
		poll, err := s.GetPollByID(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if poll.Status != status {
			t.Errorf("poll %s status = %q, want %q", id, poll.Status, status)
		}
	}
}

func TestCountVotesSince(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn, db.TypeSQLite)
	ctx := context.Background()

	creator := testutil.CreateTestUser(t, conn, "creator@example.com", "Creator")
	other := testutil.CreateTestUser(t, conn, "other@example.com", "Other")
	mine, mineOpts := testutil.CreateTestPoll(t, conn, creator, testutil.TestPoll{AllowMultipleVotes: true})
	theirs, theirOpts := testutil.CreateTestPoll(t, conn, other, testutil.TestPoll{})

	now := time.Now().UTC()
	s.SetClock(func() time.Time { return now.AddDate(0, -2, 0) })
	if err := s.SubmitVote(ctx, mine, mineOpts[0], "old-voter", ""); err != nil {
		t.Fatal(err)
	}

	s.SetClock(func() time.Time { return now })
	for _, voter := range []string{"v1", "v2"} {
		if err := s.SubmitVote(ctx, mine, mineOpts[1], voter, ""); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.SubmitVote(ctx, theirs, theirOpts[0], "v1", ""); err != nil {
		t.Fatal(err)
	}

	count, err := s.CountVotesSince(ctx, creator, now.AddDate(0, -1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("CountVotesSince() = %d, want 2", count)
	}
}
