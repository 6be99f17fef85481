// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/Anikhe00/alx-polling-app/models"
	"github.com/Anikhe00/alx-polling-app/testutil"
)

func TestGetResults(t *testing.T) {
	env := setupEnv(t)
	creatorID, _ := env.signUp(t, "creator@example.com", "Creator")
	pollID, optionIDs := testutil.CreateTestPoll(t, env.conn, creatorID, testutil.TestPoll{
		ShowResults: true,
		Options:     []string{"Low", "High", "Mid"},
	})

	votes := []string{optionIDs[1], optionIDs[1], optionIDs[1], optionIDs[2]}
	for _, opt := range votes {
		w := env.serve(testutil.MakeRequest(http.MethodPost, "/polls/"+pollID+"/votes",
			models.SubmitVoteRequest{OptionID: opt}, nil))
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	w := env.serve(testutil.MakeRequest(http.MethodGet, "/polls/"+pollID+"/results", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.TotalVotes != 4 || resp.VoteCount != 4 {
		t.Errorf("total_votes = %d, vote_count = %d, want 4 and 4", resp.TotalVotes, resp.VoteCount)
	}

	wantOrder := []string{"High", "Mid", "Low"}
	wantPct := []int{75, 25, 0}
	if len(resp.Rankings) != 3 {
		t.Fatalf("got %d rankings, want 3", len(resp.Rankings))
	}
	for i, opt := range resp.Rankings {
		if opt.Text != wantOrder[i] {
			t.Errorf("rank %d = %q, want %q", i+1, opt.Text, wantOrder[i])
		}
		if opt.Percentage != wantPct[i] {
			t.Errorf("rank %d percentage = %d, want %d", i+1, opt.Percentage, wantPct[i])
		}
	}
}

func TestGetResults_Hidden(t *testing.T) {
	env := setupEnv(t)
	creatorID, creatorToken := env.signUp(t, "creator@example.com", "Creator")
	pollID, _ := testutil.CreateTestPoll(t, env.conn, creatorID, testutil.TestPoll{ShowResults: false})

	w := env.serve(testutil.MakeRequest(http.MethodGet, "/polls/"+pollID+"/results", nil, nil))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = env.serve(testutil.MakeRequest(http.MethodGet, "/polls/"+pollID+"/results", nil, testutil.BearerHeader(creatorToken)))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = env.serve(testutil.MakeRequest(http.MethodGet, "/polls/missing/results", nil, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetVoteCount(t *testing.T) {
	env := setupEnv(t)
	creatorID, _ := env.signUp(t, "creator@example.com", "Creator")
	pollID, optionIDs := testutil.CreateTestPoll(t, env.conn, creatorID, testutil.TestPoll{ShowResults: false})

	for i := 0; i < 2; i++ {
		w := env.serve(testutil.MakeRequest(http.MethodPost, "/polls/"+pollID+"/votes",
			models.SubmitVoteRequest{OptionID: optionIDs[0]}, nil))
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	// Visible even though results are hidden
	w := env.serve(testutil.MakeRequest(http.MethodGet, "/polls/"+pollID+"/vote-count", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.VoteCountResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.VoteCount != 2 {
		t.Errorf("vote_count = %d, want 2", resp.VoteCount)
	}

	w = env.serve(testutil.MakeRequest(http.MethodGet, "/polls/missing/vote-count", nil, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetPreview(t *testing.T) {
	env := setupEnv(t)
	creatorID, _ := env.signUp(t, "creator@example.com", "Creator")
	pollID, optionIDs := testutil.CreateTestPoll(t, env.conn, creatorID, testutil.TestPoll{
		Options: []string{"A", "B", "C"},
	})

	w := env.serve(testutil.MakeRequest(http.MethodPost, "/polls/"+pollID+"/votes",
		models.SubmitVoteRequest{OptionID: optionIDs[2]}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = env.serve(testutil.MakeRequest(http.MethodGet, "/polls/"+pollID+"/preview", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.PollPreviewResponse
	testutil.AssertJSON(t, w, &resp)

	want := models.PollPreviewResponse{Title: "Test Poll", Status: models.StatusActive, OptionCount: 3, VoteCount: 1}
	if resp != want {
		t.Errorf("preview = %+v, want %+v", resp, want)
	}
}
