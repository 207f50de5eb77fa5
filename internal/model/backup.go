package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// BackupVersion is the only document version this build reads and writes.
const BackupVersion = "1.0"

// Backup is the portable snapshot of one user's board. It carries no
// database ids: a restore always generates fresh ids and linkage.
type Backup struct {
	Version   string       `json:"version"`
	Timestamp BackupTime   `json:"timestamp"`
	Ideas     []BackupIdea `json:"ideas"`
}

type BackupIdea struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Rating      int          `json:"rating"` // 0 means absent
	Type        *string      `json:"type"`
	CreatedAt   BackupTime   `json:"created_at"`
	UpdatedAt   BackupTime   `json:"updated_at"`
	Tasks       []BackupTask `json:"tasks"`
}

type BackupTask struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      string  `json:"status"`
}

// RestoreResult is returned after a successful restore.
type RestoreResult struct {
	Message       string `json:"message"`
	IdeasRestored int    `json:"ideasRestored"`
	TasksRestored int    `json:"tasksRestored"`
}

// backupTimeLayouts are tried in order when reading a timestamp. The second
// is what SQLite's CURRENT_TIMESTAMP produced in older exports.
var backupTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// BackupTime is a time.Time that marshals as RFC 3339 and unmarshals from any
// of backupTimeLayouts. null, "" and a missing field all decode to the zero
// time.
type BackupTime struct {
	time.Time
}

func (t BackupTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *BackupTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range backupTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}
