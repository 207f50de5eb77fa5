package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/idea-board/internal/apperror"
	"github.com/sakif/idea-board/internal/model"
	"github.com/sakif/idea-board/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, google_id, email, display_name, avatar_url, created_at, updated_at`

// UpsertGoogleUser matches on google_id. A returning user keeps their
// internal id and created_at; profile fields are overwritten. An email that
// already belongs to a different account is an apperror.Conflict.
func (db *DB) UpsertGoogleUser(ctx context.Context, user *model.User) error {
	tx, err := db.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning user upsert: %w", err)
	}
	defer tx.Rollback()

	var existing model.User
	err = tx.GetContext(ctx, &existing,
		`SELECT `+userColumns+` FROM users WHERE google_id = ?`, user.GoogleID)

	now := time.Now().UTC()
	switch {
	case err == nil:
		existing.Email = user.Email
		existing.DisplayName = user.DisplayName
		existing.AvatarURL = user.AvatarURL
		existing.UpdatedAt = now
		_, err = tx.NamedExecContext(ctx,
			`UPDATE users
			 SET email = :email, display_name = :display_name, avatar_url = :avatar_url, updated_at = :updated_at
			 WHERE id = :id`, &existing)
		if isUniqueViolation(err) {
			return emailTaken(user.Email)
		}
		if err != nil {
			return fmt.Errorf("sqlite: updating user %s: %w", existing.ID, err)
		}
		*user = existing
	case errors.Is(err, sql.ErrNoRows):
		user.ID = xid.New().String()
		user.CreatedAt = now
		user.UpdatedAt = now
		_, err = tx.NamedExecContext(ctx,
			`INSERT INTO users (`+userColumns+`)
			 VALUES (:id, :google_id, :email, :display_name, :avatar_url, :created_at, :updated_at)`, user)
		if isUniqueViolation(err) {
			return emailTaken(user.Email)
		}
		if err != nil {
			return fmt.Errorf("sqlite: inserting user (googleID=%s): %w", user.GoogleID, err)
		}
	default:
		return fmt.Errorf("sqlite: looking up user by google_id %s: %w", user.GoogleID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing user upsert: %w", err)
	}
	return nil
}

func emailTaken(email string) error {
	return apperror.Conflict(fmt.Sprintf("email %s is already linked to another account", email))
}

func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := db.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return &u, nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := db.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return &u, nil
}
