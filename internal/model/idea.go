package model

import (
	"strings"
	"time"
)

// IdeaStatus is the kanban column an idea sits in.
type IdeaStatus string

const (
	IdeaStatusToDo       IdeaStatus = "To Do"
	IdeaStatusInProgress IdeaStatus = "In Progress"
	IdeaStatusDone       IdeaStatus = "Done"
	IdeaStatusArchived   IdeaStatus = "Archived"
)

// IdeaStatuses lists the columns in board order.
var IdeaStatuses = []IdeaStatus{IdeaStatusToDo, IdeaStatusInProgress, IdeaStatusDone, IdeaStatusArchived}

// ParseIdeaStatus accepts the canonical column names case-insensitively as
// well as the slugs written by older versions of the board ("draft",
// "in-progress", "completed", ...).
func ParseIdeaStatus(s string) (IdeaStatus, bool) {
	switch normalizeKey(s) {
	case "todo", "draft":
		return IdeaStatusToDo, true
	case "inprogress":
		return IdeaStatusInProgress, true
	case "done", "completed", "complete":
		return IdeaStatusDone, true
	case "archived":
		return IdeaStatusArchived, true
	}
	return "", false
}

// IdeaType classifies what kind of thing the idea would become.
type IdeaType string

const (
	IdeaTypeWebApp          IdeaType = "WebApp"
	IdeaTypeSoftware        IdeaType = "Software"
	IdeaTypeEmbedded        IdeaType = "Embedded"
	IdeaTypePhysicalProduct IdeaType = "Physical Product"
	IdeaTypeService         IdeaType = "Service"
)

var IdeaTypes = []IdeaType{IdeaTypeWebApp, IdeaTypeSoftware, IdeaTypeEmbedded, IdeaTypePhysicalProduct, IdeaTypeService}

// ParseIdeaType matches the display names case-insensitively, ignoring
// spaces, dashes and underscores, so "PhysicalProduct" and
// "physical-product" both resolve to IdeaTypePhysicalProduct.
func ParseIdeaType(s string) (IdeaType, bool) {
	key := normalizeKey(s)
	for _, t := range IdeaTypes {
		if normalizeKey(string(t)) == key {
			return t, true
		}
	}
	return "", false
}

const (
	MinRating     = 1
	MaxRating     = 100
	DefaultRating = 50
)

// ValidRating reports whether r lies in [MinRating, MaxRating].
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Idea is a kanban card owned by exactly one user.
// Type is nil when the user has not classified the idea.
type Idea struct {
	ID          int64      `json:"id"          db:"id"`
	UserID      string     `json:"user_id"     db:"user_id"`
	Title       string     `json:"title"       db:"title"`
	Description string     `json:"description" db:"description"`
	Status      IdeaStatus `json:"status"      db:"status"`
	Rating      int        `json:"rating"      db:"rating"`
	Type        *IdeaType  `json:"type"        db:"type"`
	CreatedAt   time.Time  `json:"created_at"  db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"  db:"updated_at"`
}

// IdeaUpdate is the allow-list of columns a partial update may touch.
// A nil field is left unchanged. A non-nil Type pointing at "" clears the
// type.
type IdeaUpdate struct {
	Title       *string
	Description *string
	Status      *IdeaStatus
	Rating      *int
	Type        *IdeaType
}

// Empty reports whether the update would change nothing.
func (u IdeaUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil && u.Rating == nil && u.Type == nil
}

// IdeaWithTasks is an idea together with its tasks, the unit a backup is
// made of.
type IdeaWithTasks struct {
	Idea
	Tasks []Task
}

func normalizeKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
