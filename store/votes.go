// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/Anikhe00/alx-polling-app/models"
)

// SubmitVote records one vote and increments the option counter in a single
// transaction. The poll row is locked first (FOR UPDATE on postgres, the
// single-writer lock on sqlite), so concurrent votes on the same poll are
// serialized and no increment is lost.
//
// userID may be empty for anonymous voters; such votes are recorded with a
// NULL user and are not deduplicated. On anonymous polls every vote row is
// flagged anonymous, signed-in or not. Signed-in users get one vote per poll
// unless the poll allows multiple votes.
func (s *Store) SubmitVote(ctx context.Context, pollID, optionID, userID, ipHash string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin vote", err)
	}
	defer tx.Rollback()

	sel := s.dialect.From("polls").Prepared(true).
		Select("status", "end_date", "allow_multiple_votes", "is_anonymous").
		Where(goqu.C("id").Eq(pollID))
	if s.lockRows {
		sel = sel.ForUpdate(exp.Wait)
	}

	var status string
	var endDate sql.NullTime
	var allowMultiple, isAnonymous bool
	err = s.queryRow(ctx, tx, sel, &status, &endDate, &allowMultiple, &isAnonymous)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPollNotFound
	}
	if err != nil {
		return unavailable("query poll", err)
	}

	now := s.now()
	if status != models.StatusActive {
		return ErrPollNotActive
	}
	if endDate.Valid && !now.Before(endDate.Time) {
		return ErrPollNotActive
	}

	var optionCount int
	err = s.queryRow(ctx, tx, s.dialect.From("poll_options").Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C("id").Eq(optionID), goqu.C("poll_id").Eq(pollID)), &optionCount)
	if err != nil {
		return unavailable("query option", err)
	}
	if optionCount == 0 {
		return ErrOptionNotFound
	}

	if userID != "" && !allowMultiple {
		var existing int
		err = s.queryRow(ctx, tx, s.dialect.From("votes").Prepared(true).
			Select(goqu.COUNT(goqu.Star())).
			Where(goqu.C("poll_id").Eq(pollID), goqu.C("user_id").Eq(userID)), &existing)
		if err != nil {
			return unavailable("query existing vote", err)
		}
		if existing > 0 {
			return ErrAlreadyVoted
		}
	}

	_, err = s.exec(ctx, tx, s.dialect.Insert("votes").Prepared(true).Rows(goqu.Record{
		"id":         newID(),
		"poll_id":    pollID,
		"option_id":  optionID,
		"user_id":    nullString(userID),
		"anonymous":  isAnonymous || userID == "",
		"ip_hash":    nullString(ipHash),
		"created_at": now,
	}))
	if err != nil {
		return unavailable("insert vote", err)
	}

	res, err := s.exec(ctx, tx, s.dialect.Update("poll_options").Prepared(true).
		Set(goqu.Record{"votes": goqu.L("votes + 1")}).
		Where(goqu.C("id").Eq(optionID), goqu.C("poll_id").Eq(pollID)))
	if err != nil {
		return unavailable("increment option", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return unavailable("increment option", err)
	}
	if affected != 1 {
		return ErrOptionNotFound
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit vote", err)
	}
	return nil
}

// HasVoted reports whether userID already has a vote on pollID.
func (s *Store) HasVoted(ctx context.Context, pollID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var count int
	err := s.queryRow(ctx, s.db, s.dialect.From("votes").Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C("poll_id").Eq(pollID), goqu.C("user_id").Eq(userID)), &count)
	if err != nil {
		return false, unavailable("query vote", err)
	}
	return count > 0, nil
}

// CountAuditVotes counts vote rows for a poll. It should always equal the
// sum of the option counters.
func (s *Store) CountAuditVotes(ctx context.Context, pollID string) (int, error) {
	var count int
	err := s.queryRow(ctx, s.db, s.dialect.From("votes").Prepared(true).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C("poll_id").Eq(pollID)), &count)
	if err != nil {
		return 0, unavailable("count votes", err)
	}
	return count, nil
}
