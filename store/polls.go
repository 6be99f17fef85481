// Copyright (c) 2025 Anikhe00.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/Anikhe00/alx-polling-app/models"
)

const unknownCreator = "Unknown User"

// PollFilter narrows GetPolls. Zero values match everything.
type PollFilter struct {
	Status    string
	CreatorID string
	Query     string // case-insensitive match on title or description
}

// CreatePoll inserts the poll row and then all of its options in a single
// multi-row insert. The two inserts are separate statements; if the option
// insert fails the poll row is deleted again. When that compensating delete
// also fails the poll is orphaned and ErrOrphanedPoll is returned.
func (s *Store) CreatePoll(ctx context.Context, form models.PollFormData, creatorID string) (string, error) {
	if form.Type == "" {
		form.Type = models.TypeSingle
	}
	if !models.IsValidPollType(form.Type) {
		return "", models.ErrInvalidPollType
	}

	pollID := newID()
	now := s.now()

	_, err := s.exec(ctx, s.db, s.dialect.Insert("polls").Prepared(true).Rows(goqu.Record{
		"id":                   pollID,
		"title":                form.Title,
		"description":          form.Description,
		"creator_id":           creatorID,
		"type":                 form.Type,
		"status":               models.StatusActive,
		"is_anonymous":         form.IsAnonymous,
		"show_results":         form.ShowResults,
		"allow_multiple_votes": form.AllowMultipleVotes,
		"end_date":             nullTime(form.ParsedEndDate()),
		"created_at":           now,
		"updated_at":           now,
	}))
	if err != nil {
		return "", unavailable("insert poll", err)
	}

	rows := make([]interface{}, 0, len(form.Options))
	for i, text := range form.Options {
		rows = append(rows, goqu.Record{
			"id":            newID(),
			"poll_id":       pollID,
			"text":          text,
			"votes":         0,
			"display_order": i,
		})
	}

	_, err = s.exec(ctx, s.db, s.dialect.Insert("poll_options").Prepared(true).Rows(rows...))
	if err != nil {
		slog.Error("failed to insert poll options", "error", err, "poll_id", pollID)

		_, delErr := s.exec(ctx, s.db, s.dialect.Delete("polls").Prepared(true).
			Where(goqu.C("id").Eq(pollID)))
		if delErr != nil {
			slog.Error("compensating poll delete failed, poll orphaned",
				"error", delErr, "poll_id", pollID)
			return "", fmt.Errorf("%w: %s: %w (cleanup: %w)", ErrOrphanedPoll, pollID, err, delErr)
		}
		return "", fmt.Errorf("%w: %w", ErrOptionsInsert, err)
	}

	return pollID, nil
}

// GetPollByID loads one poll with its creator profile and options,
// with totals and percentages computed at read time.
func (s *Store) GetPollByID(ctx context.Context, id string) (*models.Poll, error) {
	polls, err := s.queryPolls(ctx, goqu.I("p.id").Eq(id))
	if err != nil {
		return nil, err
	}
	if len(polls) == 0 {
		return nil, ErrPollNotFound
	}
	return &polls[0], nil
}

// GetPolls returns every matching poll, newest first. There is no
// pagination; the full result is materialized.
func (s *Store) GetPolls(ctx context.Context, filter PollFilter) ([]models.Poll, error) {
	var where []exp.Expression
	if filter.Status != "" {
		where = append(where, goqu.I("p.status").Eq(filter.Status))
	}
	if filter.CreatorID != "" {
		where = append(where, goqu.I("p.creator_id").Eq(filter.CreatorID))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
		where = append(where, goqu.Or(
			goqu.L(`LOWER(p.title) LIKE ? ESCAPE '\'`, pattern),
			goqu.L(`LOWER(p.description) LIKE ? ESCAPE '\'`, pattern),
		))
	}
	return s.queryPolls(ctx, where...)
}

// likeEscaper makes user search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GetUserPolls returns the polls created by userID, newest first.
func (s *Store) GetUserPolls(ctx context.Context, userID string) ([]models.Poll, error) {
	return s.GetPolls(ctx, PollFilter{CreatorID: userID})
}

func (s *Store) queryPolls(ctx context.Context, where ...exp.Expression) ([]models.Poll, error) {
	ds := s.dialect.From(goqu.T("polls").As("p")).Prepared(true).
		LeftJoin(goqu.T("profiles").As("pr"), goqu.On(goqu.I("pr.id").Eq(goqu.I("p.creator_id")))).
		Select(
			goqu.I("p.id"), goqu.I("p.title"), goqu.I("p.description"), goqu.I("p.creator_id"),
			goqu.I("p.type"), goqu.I("p.status"), goqu.I("p.is_anonymous"), goqu.I("p.show_results"),
			goqu.I("p.allow_multiple_votes"), goqu.I("p.end_date"), goqu.I("p.created_at"), goqu.I("p.updated_at"),
			goqu.I("pr.name"), goqu.I("pr.email"), goqu.I("pr.avatar_url"),
			goqu.I("pr.created_at"), goqu.I("pr.updated_at"),
		).
		Order(goqu.I("p.created_at").Desc(), goqu.I("p.id").Asc())
	if len(where) > 0 {
		ds = ds.Where(where...)
	}

	rows, err := s.query(ctx, s.db, ds)
	if err != nil {
		return nil, unavailable("query polls", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	index := make(map[string]int)
	for rows.Next() {
		var p models.Poll
		var endDate, creatorCreated, creatorUpdated sql.NullTime
		var name, email, avatar sql.NullString
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.CreatorID,
			&p.Type, &p.Status, &p.IsAnonymous, &p.ShowResults,
			&p.AllowMultipleVotes, &endDate, &p.CreatedAt, &p.UpdatedAt,
			&name, &email, &avatar, &creatorCreated, &creatorUpdated,
		); err != nil {
			return nil, unavailable("scan poll", err)
		}

		if endDate.Valid {
			t := endDate.Time
			p.EndDate = &t
		}
		p.Creator = models.User{
			ID:        p.CreatorID,
			Name:      name.String,
			Email:     email.String,
			Avatar:    avatar.String,
			CreatedAt: creatorCreated.Time,
			UpdatedAt: creatorUpdated.Time,
		}
		if p.Creator.Name == "" {
			p.Creator.Name = unknownCreator
		}
		p.Options = []models.PollOption{}

		index[p.ID] = len(polls)
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate polls", err)
	}

	if len(polls) == 0 {
		return polls, nil
	}

	ids := make([]string, 0, len(polls))
	for _, p := range polls {
		ids = append(ids, p.ID)
	}

	optRows, err := s.query(ctx, s.db, s.dialect.From("poll_options").Prepared(true).
		Select("id", "poll_id", "text", "votes", "display_order").
		Where(goqu.C("poll_id").In(ids)).
		Order(goqu.C("poll_id").Asc(), goqu.C("display_order").Asc(), goqu.C("id").Asc()))
	if err != nil {
		return nil, unavailable("query options", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var opt models.PollOption
		if err := optRows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Votes, &opt.Order); err != nil {
			return nil, unavailable("scan option", err)
		}
		i, ok := index[opt.PollID]
		if !ok {
			continue
		}
		polls[i].Options = append(polls[i].Options, opt)
	}
	if err := optRows.Err(); err != nil {
		return nil, unavailable("iterate options", err)
	}

	for i := range polls {
		Tally(&polls[i])
	}

	return polls, nil
}

// UpdatePoll applies a partial update in one transaction. When options are
// given they replace the current set: known IDs are renamed in place, new
// entries are appended after the existing ones, and missing IDs are deleted.
func (s *Store) UpdatePoll(ctx context.Context, id string, req models.UpdatePollRequest) error {
	record := goqu.Record{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return models.ErrTitleRequired
		}
		record["title"] = title
	}
	if req.Description != nil {
		record["description"] = *req.Description
	}
	if req.Type != nil {
		if !models.IsValidPollType(*req.Type) {
			return models.ErrInvalidPollType
		}
		record["type"] = *req.Type
	}
	if req.IsAnonymous != nil {
		record["is_anonymous"] = *req.IsAnonymous
	}
	if req.ShowResults != nil {
		record["show_results"] = *req.ShowResults
	}
	if req.AllowMultipleVotes != nil {
		record["allow_multiple_votes"] = *req.AllowMultipleVotes
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			record["end_date"] = nil
		} else {
			end, err := time.Parse(time.RFC3339, *req.EndDate)
			if err != nil {
				return models.ErrInvalidEndDate
			}
			record["end_date"] = end.UTC()
		}
	}
	if req.Status != nil && !models.IsValidStatus(*req.Status) {
		return models.ErrInvalidStatus
	}
	if req.Options != nil {
		if len(req.Options) < 2 {
			return models.ErrTooFewOptions
		}
		for i := range req.Options {
			req.Options[i].Text = strings.TrimSpace(req.Options[i].Text)
			if req.Options[i].Text == "" {
				return models.ErrBlankOption
			}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin update", err)
	}
	defer tx.Rollback()

	sel := s.dialect.From("polls").Prepared(true).Select("status").Where(goqu.C("id").Eq(id))
	if s.lockRows {
		sel = sel.ForUpdate(exp.Wait)
	}
	var status string
	err = s.queryRow(ctx, tx, sel, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPollNotFound
	}
	if err != nil {
		return unavailable("query poll status", err)
	}

	if req.Status != nil {
		if !models.CanTransition(status, *req.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, status, *req.Status)
		}
		record["status"] = *req.Status
	}

	record["updated_at"] = s.now()
	_, err = s.exec(ctx, tx, s.dialect.Update("polls").Prepared(true).
		Set(record).Where(goqu.C("id").Eq(id)))
	if err != nil {
		return unavailable("update poll", err)
	}

	if req.Options != nil {
		if err := s.replaceOptions(ctx, tx, id, req.Options); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit update", err)
	}
	return nil
}

func (s *Store) replaceOptions(ctx context.Context, tx *sql.Tx, pollID string, patch []models.OptionPatch) error {
	rows, err := s.query(ctx, tx, s.dialect.From("poll_options").Prepared(true).
		Select("id", "display_order").Where(goqu.C("poll_id").Eq(pollID)))
	if err != nil {
		return unavailable("query options", err)
	}
	existing := make(map[string]bool)
	maxOrder := -1
	for rows.Next() {
		var optID string
		var order int
		if err := rows.Scan(&optID, &order); err != nil {
			rows.Close()
			return unavailable("scan option", err)
		}
		existing[optID] = true
		if order > maxOrder {
			maxOrder = order
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return unavailable("iterate options", err)
	}

	keep := make(map[string]bool)
	next := maxOrder + 1
	for _, opt := range patch {
		if opt.ID != "" && existing[opt.ID] {
			keep[opt.ID] = true
			_, err := s.exec(ctx, tx, s.dialect.Update("poll_options").Prepared(true).
				Set(goqu.Record{"text": opt.Text}).
				Where(goqu.C("id").Eq(opt.ID)))
			if err != nil {
				return unavailable("update option", err)
			}
			continue
		}

		_, err := s.exec(ctx, tx, s.dialect.Insert("poll_options").Prepared(true).Rows(goqu.Record{
			"id":            newID(),
			"poll_id":       pollID,
			"text":          opt.Text,
			"votes":         0,
			"display_order": next,
		}))
		if err != nil {
			return unavailable("insert option", err)
		}
		next++
	}

	var removed []string
	for optID := range existing {
		if !keep[optID] {
			removed = append(removed, optID)
		}
	}
	if len(removed) > 0 {
		_, err := s.exec(ctx, tx, s.dialect.Delete("poll_options").Prepared(true).
			Where(goqu.C("id").In(removed)))
		if err != nil {
			return unavailable("delete options", err)
		}
	}

	return nil
}

// DeletePoll removes a poll; options and votes go with it via cascade.
func (s *Store) DeletePoll(ctx context.Context, id string) error {
	res, err := s.exec(ctx, s.db, s.dialect.Delete("polls").Prepared(true).Where(goqu.C("id").Eq(id)))
	if err != nil {
		return unavailable("delete poll", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("delete poll", err)
	}
	if n == 0 {
		return ErrPollNotFound
	}
	return nil
}

// DeleteOrphanedPolls removes polls older than grace that have no options,
// which is what a failed compensating delete in CreatePoll leaves behind.
func (s *Store) DeleteOrphanedPolls(ctx context.Context, grace time.Duration) (int64, error) {
	cutoff := s.now().Add(-grace)
	res, err := s.exec(ctx, s.db, s.dialect.Delete("polls").Prepared(true).Where(
		goqu.C("created_at").Lt(cutoff),
		goqu.L("NOT EXISTS (SELECT 1 FROM poll_options o WHERE o.poll_id = polls.id)"),
	))
	if err != nil {
		return 0, unavailable("delete orphaned polls", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable("delete orphaned polls", err)
	}
	return n, nil
}

// EndExpiredPolls moves active polls whose end date has passed to ended.
func (s *Store) EndExpiredPolls(ctx context.Context) (int64, error) {
	now := s.now()
	res, err := s.exec(ctx, s.db, s.dialect.Update("polls").Prepared(true).
		Set(goqu.Record{"status": models.StatusEnded, "updated_at": now}).
		Where(
			goqu.C("status").Eq(models.StatusActive),
			goqu.C("end_date").IsNotNull(),
			goqu.C("end_date").Lte(now),
		))
	if err != nil {
		return 0, unavailable("end expired polls", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable("end expired polls", err)
	}
	return n, nil
}

// CountVotesSince counts vote rows cast on creatorID's polls at or after since.
func (s *Store) CountVotesSince(ctx context.Context, creatorID string, since time.Time) (int, error) {
	var count int
	err := s.queryRow(ctx, s.db, s.dialect.From(goqu.T("votes").As("v")).Prepared(true).
		InnerJoin(goqu.T("polls").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("v.poll_id")))).
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.I("p.creator_id").Eq(creatorID),
			goqu.I("v.created_at").Gte(since.UTC()),
		), &count)
	if err != nil {
		return 0, unavailable("count votes", err)
	}
	return count, nil
}
