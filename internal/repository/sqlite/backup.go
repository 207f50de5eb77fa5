package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/idea-board/internal/model"
	"github.com/sakif/idea-board/internal/repository"
)

var _ repository.BackupRepository = (*DB)(nil)

// ExportIdeas loads the user's ideas and all of their tasks with two queries
// and stitches them together in memory.
func (db *DB) ExportIdeas(ctx context.Context, userID string) ([]model.IdeaWithTasks, error) {
	ideas, err := db.ListIdeas(ctx, userID)
	if err != nil {
		return nil, err
	}

	var tasks []model.Task
	err = db.db.SelectContext(ctx, &tasks,
		`SELECT `+taskColumns+` FROM tasks t
		 JOIN ideas i ON i.id = t.idea_id
		 WHERE i.user_id = ?
		 ORDER BY t.created_at DESC, t.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading tasks for export: %w", err)
	}

	byIdea := make(map[int64][]model.Task, len(ideas))
	for _, t := range tasks {
		byIdea[t.IdeaID] = append(byIdea[t.IdeaID], t)
	}

	out := make([]model.IdeaWithTasks, 0, len(ideas))
	for _, idea := range ideas {
		out = append(out, model.IdeaWithTasks{Idea: idea, Tasks: byIdea[idea.ID]})
	}
	return out, nil
}

// ReplaceIdeas is a full replace, not a merge:
//
//  1. delete every task under the user's ideas
//  2. delete every idea of the user
//  3. insert each idea under userID, then its tasks linked to the new id
//
// ideas and their tasks arrive in display order, newest first. They are
// inserted last to first so that rows sharing a created_at still list in
// document order (ties sort by id descending).
//
// All of it runs in one transaction; the deferred Rollback undoes steps 1-3
// on any error, so a failed restore leaves the previous data in place.
func (db *DB) ReplaceIdeas(ctx context.Context, userID string, ideas []model.IdeaWithTasks) (int, int, error) {
	tx, err := db.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("sqlite: beginning restore: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE `+ownedTask, userID); err != nil {
		return 0, 0, fmt.Errorf("sqlite: clearing tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ideas WHERE user_id = ?`, userID); err != nil {
		return 0, 0, fmt.Errorf("sqlite: clearing ideas: %w", err)
	}

	taskCount := 0
	for i := len(ideas) - 1; i >= 0; i-- {
		idea := ideas[i].Idea
		idea.UserID = userID

		ideaID, err := insertIdea(ctx, tx, &idea)
		if err != nil {
			return 0, 0, fmt.Errorf("sqlite: restoring idea %d (%q): %w", i, idea.Title, err)
		}

		for j := len(ideas[i].Tasks) - 1; j >= 0; j-- {
			task := ideas[i].Tasks[j]
			task.IdeaID = ideaID
			if _, err := insertTask(ctx, tx, &task); err != nil {
				return 0, 0, fmt.Errorf("sqlite: restoring task %d of idea %d: %w", j, i, err)
			}
			taskCount++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("sqlite: committing restore: %w", err)
	}
	return len(ideas), taskCount, nil
}
