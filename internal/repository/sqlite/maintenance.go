package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/idea-board/internal/model"
	"github.com/sakif/idea-board/internal/repository"
)

var _ repository.MaintenanceRepository = (*DB)(nil)

func (db *DB) ListUserSummaries(ctx context.Context) ([]model.UserSummary, error) {
	users := []model.UserSummary{}
	err := db.db.SelectContext(ctx, &users,
		`SELECT u.id, u.google_id, u.email, u.display_name, u.avatar_url, u.created_at, u.updated_at,
		        (SELECT COUNT(*) FROM ideas i WHERE i.user_id = u.id) AS idea_count
		 FROM users u
		 ORDER BY u.created_at`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	return users, nil
}

// FindDuplicateIdeas pairs each idea with every later idea of the same owner
// whose content columns are identical. "Later" is by id, so each pair is
// reported once.
func (db *DB) FindDuplicateIdeas(ctx context.Context) ([]model.DuplicateIdea, error) {
	dups := []model.DuplicateIdea{}
	err := db.db.SelectContext(ctx, &dups,
		`SELECT a.id AS original_id, b.id AS duplicate_id, a.user_id, a.title,
		        a.created_at AS original_created, b.created_at AS duplicate_created
		 FROM ideas a
		 JOIN ideas b ON b.user_id = a.user_id AND b.id > a.id
		 WHERE a.title = b.title
		   AND a.description = b.description
		   AND a.status = b.status
		   AND a.rating = b.rating
		   AND a.type IS b.type
		 ORDER BY a.id, b.id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: finding duplicate ideas: %w", err)
	}
	return dups, nil
}

func (db *DB) FindDuplicateTasks(ctx context.Context) ([]model.DuplicateTask, error) {
	dups := []model.DuplicateTask{}
	err := db.db.SelectContext(ctx, &dups,
		`SELECT a.id AS original_id, b.id AS duplicate_id, a.idea_id, i.title AS idea_title,
		        a.name, a.status
		 FROM tasks a
		 JOIN tasks b ON b.idea_id = a.idea_id AND b.id > a.id
		 JOIN ideas i ON i.id = a.idea_id
		 WHERE a.name = b.name
		   AND a.due_date IS b.due_date
		   AND a.status = b.status
		 ORDER BY a.id, b.id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: finding duplicate tasks: %w", err)
	}
	return dups, nil
}

// TransferIdeas reassigns every idea of one user to another. Tasks follow
// their ideas automatically.
func (db *DB) TransferIdeas(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	res, err := db.db.ExecContext(ctx,
		`UPDATE ideas SET user_id = ? WHERE user_id = ?`, toUserID, fromUserID)
	if err != nil {
		return 0, fmt.Errorf("sqlite: transferring ideas: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return n, nil
}

func (db *DB) Counts(ctx context.Context) (*model.StoreCounts, error) {
	var c model.StoreCounts
	err := db.db.GetContext(ctx, &c,
		`SELECT (SELECT COUNT(*) FROM ideas) AS ideas, (SELECT COUNT(*) FROM tasks) AS tasks`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting rows: %w", err)
	}
	return &c, nil
}

func (db *DB) IdeaStatusCounts(ctx context.Context) ([]model.StatusCount, error) {
	counts := []model.StatusCount{}
	err := db.db.SelectContext(ctx, &counts,
		`SELECT status, COUNT(*) AS count FROM ideas GROUP BY status ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting ideas by status: %w", err)
	}
	return counts, nil
}
