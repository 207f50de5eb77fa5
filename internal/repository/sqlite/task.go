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

var _ repository.TaskRepository = (*DB)(nil)

const taskColumns = `t.id, t.idea_id, t.name, t.description, t.due_date, t.status, t.created_at, t.updated_at`

// ownedTask restricts a task query to tasks whose parent idea belongs to the
// user. Tasks carry no user_id, so every task statement goes through it.
const ownedTask = `idea_id IN (SELECT id FROM ideas WHERE user_id = ?)`

// ListTasks returns NotFound for the idea when it is missing or not owned,
// rather than an empty list.
func (db *DB) ListTasks(ctx context.Context, userID string, ideaID int64) ([]model.Task, error) {
	if err := requireIdea(ctx, db.db, userID, ideaID); err != nil {
		return nil, err
	}

	tasks := []model.Task{}
	err := db.db.SelectContext(ctx, &tasks,
		`SELECT `+taskColumns+` FROM tasks t
		 WHERE t.idea_id = ?
		 ORDER BY t.created_at DESC, t.id DESC`, ideaID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks for idea %d: %w", ideaID, err)
	}
	return tasks, nil
}

func (db *DB) GetTask(ctx context.Context, userID string, taskID int64) (*model.Task, error) {
	return getTask(ctx, db.db, userID, taskID)
}

func getTask(ctx context.Context, q sqlx.QueryerContext, userID string, taskID int64) (*model.Task, error) {
	var task model.Task
	err := sqlx.GetContext(ctx, q, &task,
		`SELECT `+taskColumns+` FROM tasks t
		 JOIN ideas i ON i.id = t.idea_id
		 WHERE t.id = ? AND i.user_id = ?`, taskID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("task", taskID)
		}
		return nil, fmt.Errorf("sqlite: getting task %d: %w", taskID, err)
	}
	return &task, nil
}

// CreateTask checks the parent idea's ownership and inserts the task in one
// transaction.
func (db *DB) CreateTask(ctx context.Context, userID string, task *model.Task) error {
	tx, err := db.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning task create: %w", err)
	}
	defer tx.Rollback()

	if err := requireIdea(ctx, tx, userID, task.IdeaID); err != nil {
		return err
	}

	id, err := insertTask(ctx, tx, task)
	if err != nil {
		return fmt.Errorf("sqlite: creating task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing task create: %w", err)
	}
	task.ID = id
	return nil
}

func insertTask(ctx context.Context, e sqlx.ExtContext, task *model.Task) (int64, error) {
	res, err := sqlx.NamedExecContext(ctx, e,
		`INSERT INTO tasks (idea_id, name, description, due_date, status, created_at, updated_at)
		 VALUES (:idea_id, :name, :description, :due_date, :status, :created_at, :updated_at)`, task)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (db *DB) UpdateTask(ctx context.Context, userID string, taskID int64, upd model.TaskUpdate, at time.Time) (*model.Task, error) {
	sets := []string{"updated_at = ?"}
	args := []any{at}

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.DueDate != nil {
		sets = append(sets, "due_date = ?")
		if *upd.DueDate == "" {
			args = append(args, nil)
		} else {
			args = append(args, *upd.DueDate)
		}
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*upd.Status))
	}
	args = append(args, taskID, userID)

	tx, err := db.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning task update: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ? AND `+ownedTask, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating task %d: %w", taskID, err)
	}
	if err := expectOneRow(res, "task", taskID); err != nil {
		return nil, err
	}

	task, err := getTask(ctx, tx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing task update: %w", err)
	}
	return task, nil
}

func (db *DB) DeleteTask(ctx context.Context, userID string, taskID int64) error {
	res, err := db.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND `+ownedTask, taskID, userID)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %d: %w", taskID, err)
	}
	return expectOneRow(res, "task", taskID)
}

// requireIdea returns NotFound unless the idea exists and belongs to userID.
func requireIdea(ctx context.Context, q sqlx.QueryerContext, userID string, ideaID int64) error {
	var exists bool
	err := sqlx.GetContext(ctx, q, &exists,
		`SELECT EXISTS (SELECT 1 FROM ideas WHERE id = ? AND user_id = ?)`, ideaID, userID)
	if err != nil {
		return fmt.Errorf("sqlite: checking idea %d: %w", ideaID, err)
	}
	if !exists {
		return apperror.NotFound("idea", ideaID)
	}
	return nil
}
