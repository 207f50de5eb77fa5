package model

import "time"

// UserSummary is a user row with the number of ideas they own.
type UserSummary struct {
	User
	IdeaCount int `db:"idea_count"`
}

// DuplicateIdea pairs an idea with a later idea of the same owner that has
// identical content.
type DuplicateIdea struct {
	OriginalID       int64     `db:"original_id"`
	DuplicateID      int64     `db:"duplicate_id"`
	UserID           string    `db:"user_id"`
	Title            string    `db:"title"`
	OriginalCreated  time.Time `db:"original_created"`
	DuplicateCreated time.Time `db:"duplicate_created"`
}

// DuplicateTask pairs two tasks of the same idea with identical content.
type DuplicateTask struct {
	OriginalID  int64  `db:"original_id"`
	DuplicateID int64  `db:"duplicate_id"`
	IdeaID      int64  `db:"idea_id"`
	IdeaTitle   string `db:"idea_title"`
	Name        string `db:"name"`
	Status      string `db:"status"`
}

// StoreCounts holds table totals.
type StoreCounts struct {
	Ideas int64 `db:"ideas"`
	Tasks int64 `db:"tasks"`
}

// StatusCount is the number of ideas in one status column.
type StatusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}
