package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sakif/idea-board/internal/apperror"
	"github.com/sakif/idea-board/internal/model"
	"github.com/sakif/idea-board/internal/repository"
)

var _ repository.IdeaRepository = (*DB)(nil)

const ideaColumns = `id, user_id, title, description, status, rating, type, created_at, updated_at`

// ListIdeas returns the user's ideas, newest first.
func (db *DB) ListIdeas(ctx context.Context, userID string) ([]model.Idea, error) {
	ideas := []model.Idea{}
	err := db.db.SelectContext(ctx, &ideas,
		`SELECT `+ideaColumns+` FROM ideas
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing ideas for user %s: %w", userID, err)
	}
	return ideas, nil
}

// GetIdea returns NotFound both for a missing id and for an idea owned by
// someone else.
func (db *DB) GetIdea(ctx context.Context, userID string, ideaID int64) (*model.Idea, error) {
	return getIdea(ctx, db.db, userID, ideaID)
}

func getIdea(ctx context.Context, q sqlx.QueryerContext, userID string, ideaID int64) (*model.Idea, error) {
	var idea model.Idea
	err := sqlx.GetContext(ctx, q, &idea,
		`SELECT `+ideaColumns+` FROM ideas WHERE id = ? AND user_id = ?`, ideaID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("idea", ideaID)
		}
		return nil, fmt.Errorf("sqlite: getting idea %d: %w", ideaID, err)
	}
	return &idea, nil
}

// CreateIdea inserts idea and fills in its generated id. The caller sets
// UserID, defaults and timestamps.
func (db *DB) CreateIdea(ctx context.Context, idea *model.Idea) error {
	id, err := insertIdea(ctx, db.db, idea)
	if err != nil {
		return fmt.Errorf("sqlite: creating idea: %w", err)
	}
	idea.ID = id
	return nil
}

func insertIdea(ctx context.Context, e sqlx.ExtContext, idea *model.Idea) (int64, error) {
	res, err := sqlx.NamedExecContext(ctx, e,
		`INSERT INTO ideas (user_id, title, description, status, rating, type, created_at, updated_at)
		 VALUES (:user_id, :title, :description, :status, :rating, :type, :created_at, :updated_at)`, idea)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateIdea applies only the non-nil fields of upd and always sets
// updated_at. Column names come from the fixed allow-list below, never from
// client input.
func (db *DB) UpdateIdea(ctx context.Context, userID string, ideaID int64, upd model.IdeaUpdate, at time.Time) (*model.Idea, error) {
	sets := []string{"updated_at = ?"}
	args := []any{at}

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*upd.Status))
	}
	if upd.Rating != nil {
		sets = append(sets, "rating = ?")
		args = append(args, *upd.Rating)
	}
	if upd.Type != nil {
		sets = append(sets, "type = ?")
		if *upd.Type == "" {
			args = append(args, nil)
		} else {
			args = append(args, string(*upd.Type))
		}
	}
	args = append(args, ideaID, userID)

	tx, err := db.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning idea update: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE ideas SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating idea %d: %w", ideaID, err)
	}
	if err := expectOneRow(res, "idea", ideaID); err != nil {
		return nil, err
	}

	idea, err := getIdea(ctx, tx, userID, ideaID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing idea update: %w", err)
	}
	return idea, nil
}

// DeleteIdea removes the idea; its tasks go with it through ON DELETE CASCADE.
func (db *DB) DeleteIdea(ctx context.Context, userID string, ideaID int64) error {
	res, err := db.db.ExecContext(ctx,
		`DELETE FROM ideas WHERE id = ? AND user_id = ?`, ideaID, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting idea %d: %w", ideaID, err)
	}
	return expectOneRow(res, "idea", ideaID)
}

// expectOneRow turns a write that matched nothing into NotFound.
func expectOneRow(res sql.Result, resource string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
