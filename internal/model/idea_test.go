package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdeaStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   IdeaStatus
		wantOK bool
	}{
		{"To Do", IdeaStatusToDo, true},
		{"to do", IdeaStatusToDo, true},
		{"To-Do", IdeaStatusToDo, true},
		{"draft", IdeaStatusToDo, true},
		{"In Progress", IdeaStatusInProgress, true},
		{"in-progress", IdeaStatusInProgress, true},
		{"in_progress", IdeaStatusInProgress, true},
		{"Done", IdeaStatusDone, true},
		{"completed", IdeaStatusDone, true},
		{" Archived ", IdeaStatusArchived, true},
		{"", "", false},
		{"someday", "", false},
		{"'; DROP TABLE ideas; --", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseIdeaStatus(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTaskStatus_NoArchived(t *testing.T) {
	_, ok := ParseTaskStatus("Archived")
	assert.False(t, ok)

	got, ok := ParseTaskStatus("completed")
	assert.True(t, ok)
	assert.Equal(t, TaskStatusDone, got)
}

func TestParseIdeaType(t *testing.T) {
	tests := []struct {
		in     string
		want   IdeaType
		wantOK bool
	}{
		{"WebApp", IdeaTypeWebApp, true},
		{"webapp", IdeaTypeWebApp, true},
		{"Physical Product", IdeaTypePhysicalProduct, true},
		{"PhysicalProduct", IdeaTypePhysicalProduct, true},
		{"physical-product", IdeaTypePhysicalProduct, true},
		{"Service", IdeaTypeService, true},
		{"Hardware", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseIdeaType(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidRating(t *testing.T) {
	assert.False(t, ValidRating(0))
	assert.True(t, ValidRating(1))
	assert.True(t, ValidRating(DefaultRating))
	assert.True(t, ValidRating(100))
	assert.False(t, ValidRating(101))
}

func TestIdeaUpdate_Empty(t *testing.T) {
	assert.True(t, IdeaUpdate{}.Empty())

	title := "x"
	assert.False(t, IdeaUpdate{Title: &title}.Empty())
}

func TestBackupTime_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2024-03-01T10:20:30Z"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"rfc3339 with offset", `"2024-03-01T12:20:30+02:00"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"sqlite layout", `"2024-03-01 10:20:30"`, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"null", `null`, time.Time{}},
		{"empty string", `""`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var bt BackupTime
			require.NoError(t, json.Unmarshal([]byte(tt.in), &bt))
			assert.True(t, tt.want.Equal(bt.Time), "got %v", bt.Time)
		})
	}
}

func TestBackupTime_UnmarshalRejectsGarbage(t *testing.T) {
	var bt BackupTime
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &bt))
	assert.Error(t, json.Unmarshal([]byte(`12345`), &bt))
}

func TestBackup_MissingIdeasDecodesToNil(t *testing.T) {
	var b Backup
	require.NoError(t, json.Unmarshal([]byte(`{"version":"1.0"}`), &b))
	assert.Nil(t, b.Ideas)

	require.NoError(t, json.Unmarshal([]byte(`{"version":"1.0","ideas":[]}`), &b))
	assert.NotNil(t, b.Ideas)
	assert.Empty(t, b.Ideas)
}
