package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/idea-board/internal/apperror"
	"github.com/sakif/idea-board/internal/model"
	"github.com/sakif/idea-board/internal/repository"
)

type CreateTaskInput struct {
	Name        string
	Description string
	DueDate     *string
	Status      string // empty means "To Do"
}

// UpdateTaskInput: nil leaves a field alone; DueDate set to "" clears it.
type UpdateTaskInput struct {
	Name        *string
	Description *string
	DueDate     *string
	Status      *string
}

type TaskService struct {
	repo   repository.TaskRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewTaskService(repo repository.TaskRepository, logger *slog.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns the tasks of an idea the user owns. A foreign or missing idea
// is NotFound.
func (s *TaskService) List(ctx context.Context, userID string, ideaID int64) ([]model.Task, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListTasks(ctx, userID, ideaID)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, userID string, ideaID int64, in CreateTaskInput) (*model.Task, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	name, err := requiredText("name", in.Name, MaxTitleLength)
	if err != nil {
		return nil, err
	}
	description, err := optionalText("description", in.Description, MaxDescriptionLength)
	if err != nil {
		return nil, err
	}
	due, err := dueDate("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}
	status := model.TaskStatusToDo
	if in.Status != "" {
		if status, err = taskStatus("status", in.Status); err != nil {
			return nil, err
		}
	}

	now := s.now()
	task := &model.Task{
		IdeaID:      ideaID,
		Name:        name,
		Description: description,
		DueDate:     due,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateTask(ctx, userID, task); err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error("failed to create task",
			slog.Int64("ideaID", ideaID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info("task created",
		slog.Int64("id", task.ID),
		slog.Int64("ideaID", ideaID),
	)
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, userID string, id int64, in UpdateTaskInput) (*model.Task, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	var upd model.TaskUpdate
	if in.Name != nil {
		name, err := requiredText("name", *in.Name, MaxTitleLength)
		if err != nil {
			return nil, err
		}
		upd.Name = &name
	}
	if in.Description != nil {
		description, err := optionalText("description", *in.Description, MaxDescriptionLength)
		if err != nil {
			return nil, err
		}
		upd.Description = &description
	}
	if in.DueDate != nil {
		due, err := dueDate("due_date", in.DueDate)
		if err != nil {
			return nil, err
		}
		if due == nil {
			cleared := ""
			due = &cleared
		}
		upd.DueDate = due
	}
	if in.Status != nil {
		status, err := taskStatus("status", *in.Status)
		if err != nil {
			return nil, err
		}
		upd.Status = &status
	}

	if upd.Empty() {
		return nil, apperror.ValidationFailed("body", "no updatable fields supplied")
	}

	task, err := s.repo.UpdateTask(ctx, userID, id, upd, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("task updated", slog.Int64("id", id))
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID string, id int64) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.repo.DeleteTask(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", slog.Int64("id", id))
	return nil
}
