package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sakif/idea-board/internal/model"
)

// newTestDB returns a fresh in-memory database with the schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test db")
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, googleID, email string) *model.User {
	t.Helper()
	u := &model.User{GoogleID: googleID, Email: email, DisplayName: "User " + googleID}
	require.NoError(t, db.UpsertGoogleUser(context.Background(), u))
	return u
}

var baseTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// createTestIdea inserts an idea created offset after baseTime.
func createTestIdea(t *testing.T, db *DB, userID, title string, offset time.Duration) *model.Idea {
	t.Helper()
	at := baseTime.Add(offset)
	idea := &model.Idea{
		UserID:    userID,
		Title:     title,
		Status:    model.IdeaStatusToDo,
		Rating:    model.DefaultRating,
		CreatedAt: at,
		UpdatedAt: at,
	}
	require.NoError(t, db.CreateIdea(context.Background(), idea))
	return idea
}

func createTestTask(t *testing.T, db *DB, userID string, ideaID int64, name string, offset time.Duration) *model.Task {
	t.Helper()
	at := baseTime.Add(offset)
	task := &model.Task{
		IdeaID:    ideaID,
		Name:      name,
		Status:    model.TaskStatusToDo,
		CreatedAt: at,
		UpdatedAt: at,
	}
	require.NoError(t, db.CreateTask(context.Background(), userID, task))
	return task
}

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}

func ptr[T any](v T) *T { return &v }
