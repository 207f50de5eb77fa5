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

const restoreMessage = "Backup restored successfully"

type BackupService struct {
	repo   repository.BackupRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewBackupService(repo repository.BackupRepository, logger *slog.Logger) *BackupService {
	return &BackupService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Export builds the user's backup document. Database ids are left out on
// purpose; see Restore.
func (s *BackupService) Export(ctx context.Context, userID string) (*model.Backup, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	ideas, err := s.repo.ExportIdeas(ctx, userID)
	if err != nil {
		s.logger.Error("failed to export ideas",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("exporting ideas: %w", err)
	}

	doc := &model.Backup{
		Version:   model.BackupVersion,
		Timestamp: model.BackupTime{Time: s.now()},
		Ideas:     make([]model.BackupIdea, 0, len(ideas)),
	}
	for _, idea := range ideas {
		entry := model.BackupIdea{
			Title:       idea.Title,
			Description: idea.Description,
			Status:      string(idea.Status),
			Rating:      idea.Rating,
			CreatedAt:   model.BackupTime{Time: idea.CreatedAt},
			UpdatedAt:   model.BackupTime{Time: idea.UpdatedAt},
			Tasks:       make([]model.BackupTask, 0, len(idea.Tasks)),
		}
		if idea.Type != nil {
			t := string(*idea.Type)
			entry.Type = &t
		}
		for _, task := range idea.Tasks {
			entry.Tasks = append(entry.Tasks, model.BackupTask{
				Name:        task.Name,
				Description: task.Description,
				DueDate:     task.DueDate,
				Status:      string(task.Status),
			})
		}
		doc.Ideas = append(doc.Ideas, entry)
	}

	s.logger.Info("backup exported",
		slog.String("userID", userID),
		slog.Int("ideas", len(doc.Ideas)),
	)
	return doc, nil
}

// Restore replaces all of the user's ideas and tasks with the contents of
// doc. The whole document is validated before anything is deleted; the
// replace itself is a single transaction in the repository. Restored rows
// get fresh ids.
func (s *BackupService) Restore(ctx context.Context, userID string, doc *model.Backup) (*model.RestoreResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	ideas, err := s.prepare(doc)
	if err != nil {
		return nil, err
	}

	ideaCount, taskCount, err := s.repo.ReplaceIdeas(ctx, userID, ideas)
	if err != nil {
		s.logger.Error("restore failed, previous data kept",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("restoring backup: %w", err)
	}

	s.logger.Info("backup restored",
		slog.String("userID", userID),
		slog.Int("ideas", ideaCount),
		slog.Int("tasks", taskCount),
	)
	return &model.RestoreResult{
		Message:       restoreMessage,
		IdeasRestored: ideaCount,
		TasksRestored: taskCount,
	}, nil
}

// prepare checks the envelope and converts every entry into store rows,
// failing on the first invalid field. Field names in errors are document
// paths such as "ideas[2].tasks[0].status".
func (s *BackupService) prepare(doc *model.Backup) ([]model.IdeaWithTasks, error) {
	if doc == nil || doc.Version == "" || doc.Ideas == nil {
		return nil, apperror.InvalidFormat("Invalid backup data format")
	}
	if doc.Version != model.BackupVersion {
		return nil, apperror.InvalidFormat(
			fmt.Sprintf("unsupported backup version %q, expected %q", doc.Version, model.BackupVersion))
	}

	now := s.now()
	out := make([]model.IdeaWithTasks, 0, len(doc.Ideas))

	for i, in := range doc.Ideas {
		path := fmt.Sprintf("ideas[%d]", i)

		title, err := requiredText(path+".title", in.Title, MaxTitleLength)
		if err != nil {
			return nil, err
		}
		description, err := optionalText(path+".description", in.Description, MaxDescriptionLength)
		if err != nil {
			return nil, err
		}
		status := model.IdeaStatusToDo
		if in.Status != "" {
			if status, err = ideaStatus(path+".status", in.Status); err != nil {
				return nil, err
			}
		}
		// 0 is what a missing "rating" key decodes to; like an omitted rating
		// on create it means "absent" and takes the default. Any other
		// out-of-range value is rejected.
		r := in.Rating
		if r == 0 {
			r = model.DefaultRating
		}
		if err := rating(path+".rating", r); err != nil {
			return nil, err
		}
		var typ *model.IdeaType
		if in.Type != nil {
			if typ, err = ideaType(path+".type", *in.Type); err != nil {
				return nil, err
			}
		}

		created := orNow(in.CreatedAt.Time, now)
		updated := orNow(in.UpdatedAt.Time, created)

		entry := model.IdeaWithTasks{
			Idea: model.Idea{
				Title:       title,
				Description: description,
				Status:      status,
				Rating:      r,
				Type:        typ,
				CreatedAt:   created,
				UpdatedAt:   updated,
			},
			Tasks: make([]model.Task, 0, len(in.Tasks)),
		}

		for j, t := range in.Tasks {
			tpath := fmt.Sprintf("%s.tasks[%d]", path, j)

			name, err := requiredText(tpath+".name", t.Name, MaxTitleLength)
			if err != nil {
				return nil, err
			}
			tdesc, err := optionalText(tpath+".description", t.Description, MaxDescriptionLength)
			if err != nil {
				return nil, err
			}
			due, err := dueDate(tpath+".due_date", t.DueDate)
			if err != nil {
				return nil, err
			}
			tstatus := model.TaskStatusToDo
			if t.Status != "" {
				if tstatus, err = taskStatus(tpath+".status", t.Status); err != nil {
					return nil, err
				}
			}

			entry.Tasks = append(entry.Tasks, model.Task{
				Name:        name,
				Description: tdesc,
				DueDate:     due,
				Status:      tstatus,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}

		out = append(out, entry)
	}

	return out, nil
}

func orNow(t, fallback time.Time) time.Time {
	if t.IsZero() {
		return fallback
	}
	return t.UTC()
}
