// Package repository declares the storage contracts the service layer
// depends on. Every idea and task operation takes the acting user's id and
// must never read or write rows owned by anyone else.
package repository

import (
	"context"
	"time"

	"github.com/sakif/idea-board/internal/model"
)

type UserRepository interface {
	// UpsertGoogleUser inserts the user or, when GoogleID is already known,
	// refreshes email, display name and avatar. The stored row is copied
	// back into user.
	UpsertGoogleUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type IdeaRepository interface {
	ListIdeas(ctx context.Context, userID string) ([]model.Idea, error)
	GetIdea(ctx context.Context, userID string, ideaID int64) (*model.Idea, error)
	CreateIdea(ctx context.Context, idea *model.Idea) error
	UpdateIdea(ctx context.Context, userID string, ideaID int64, upd model.IdeaUpdate, at time.Time) (*model.Idea, error)
	DeleteIdea(ctx context.Context, userID string, ideaID int64) error
}

// TaskRepository resolves ownership through the parent idea on every call.
type TaskRepository interface {
	ListTasks(ctx context.Context, userID string, ideaID int64) ([]model.Task, error)
	GetTask(ctx context.Context, userID string, taskID int64) (*model.Task, error)
	CreateTask(ctx context.Context, userID string, task *model.Task) error
	UpdateTask(ctx context.Context, userID string, taskID int64, upd model.TaskUpdate, at time.Time) (*model.Task, error)
	DeleteTask(ctx context.Context, userID string, taskID int64) error
}

type BackupRepository interface {
	// ExportIdeas returns every idea of the user with its tasks embedded.
	ExportIdeas(ctx context.Context, userID string) ([]model.IdeaWithTasks, error)
	// ReplaceIdeas deletes all of the user's ideas and tasks and inserts the
	// given ones in a single transaction. Nothing changes if it fails.
	ReplaceIdeas(ctx context.Context, userID string, ideas []model.IdeaWithTasks) (ideaCount, taskCount int, err error)
}

// MaintenanceRepository backs the admin CLI. Its queries span all users.
type MaintenanceRepository interface {
	ListUserSummaries(ctx context.Context) ([]model.UserSummary, error)
	FindDuplicateIdeas(ctx context.Context) ([]model.DuplicateIdea, error)
	FindDuplicateTasks(ctx context.Context) ([]model.DuplicateTask, error)
	TransferIdeas(ctx context.Context, fromUserID, toUserID string) (int64, error)
	Counts(ctx context.Context) (*model.StoreCounts, error)
	IdeaStatusCounts(ctx context.Context) ([]model.StatusCount, error)
}
