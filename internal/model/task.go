package model

import "time"

// TaskStatus is the lifecycle of a single task. Tasks have no Archived
// state; archiving happens at the idea level.
type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

var TaskStatuses = []TaskStatus{TaskStatusToDo, TaskStatusInProgress, TaskStatusDone}

// ParseTaskStatus works like ParseIdeaStatus, including the legacy slugs.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch normalizeKey(s) {
	case "todo", "pending", "draft":
		return TaskStatusToDo, true
	case "inprogress":
		return TaskStatusInProgress, true
	case "done", "completed", "complete":
		return TaskStatusDone, true
	}
	return "", false
}

// Task belongs to an idea and carries no user id of its own; ownership is
// always resolved through the parent idea.
type Task struct {
	ID          int64      `json:"id"          db:"id"`
	IdeaID      int64      `json:"idea_id"     db:"idea_id"`
	Name        string     `json:"name"        db:"name"`
	Description string     `json:"description" db:"description"`
	DueDate     *string    `json:"due_date"    db:"due_date"`
	Status      TaskStatus `json:"status"      db:"status"`
	CreatedAt   time.Time  `json:"created_at"  db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"  db:"updated_at"`
}

// TaskUpdate is the allow-list for task partial updates. A non-nil DueDate
// pointing at "" clears the due date.
type TaskUpdate struct {
	Name        *string
	Description *string
	DueDate     *string
	Status      *TaskStatus
}

func (u TaskUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.DueDate == nil && u.Status == nil
}
