package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/sakif/idea-board/internal/apperror"
	"github.com/sakif/idea-board/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fixedClock returns a clock that advances one second per call, so
// updated_at is always strictly after created_at.
func fixedClock() func() time.Time {
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// fakeStore is an in-memory IdeaRepository, TaskRepository and
// BackupRepository with the same ownership rules as the sqlite store.
type fakeStore struct {
	ideas  map[int64]*model.Idea
	tasks  map[int64]*model.Task
	nextID int64

	// set to simulate store failures
	createErr  error
	replaceErr error

	replaceCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		ideas:  make(map[int64]*model.Idea),
		tasks:  make(map[int64]*model.Task),
		nextID: 1,
	}
}

func (f *fakeStore) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeStore) owned(userID string, ideaID int64) (*model.Idea, bool) {
	idea, ok := f.ideas[ideaID]
	if !ok || idea.UserID != userID {
		return nil, false
	}
	return idea, true
}

func (f *fakeStore) ListIdeas(ctx context.Context, userID string) ([]model.Idea, error) {
	out := []model.Idea{}
	for _, idea := range f.ideas {
		if idea.UserID == userID {
			out = append(out, *idea)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) GetIdea(ctx context.Context, userID string, ideaID int64) (*model.Idea, error) {
	idea, ok := f.owned(userID, ideaID)
	if !ok {
		return nil, apperror.NotFound("idea", ideaID)
	}
	copied := *idea
	return &copied, nil
}

func (f *fakeStore) CreateIdea(ctx context.Context, idea *model.Idea) error {
	if f.createErr != nil {
		return f.createErr
	}
	idea.ID = f.id()
	copied := *idea
	f.ideas[idea.ID] = &copied
	return nil
}

func (f *fakeStore) UpdateIdea(ctx context.Context, userID string, ideaID int64, upd model.IdeaUpdate, at time.Time) (*model.Idea, error) {
	idea, ok := f.owned(userID, ideaID)
	if !ok {
		return nil, apperror.NotFound("idea", ideaID)
	}
	if upd.Title != nil {
		idea.Title = *upd.Title
	}
	if upd.Description != nil {
		idea.Description = *upd.Description
	}
	if upd.Status != nil {
		idea.Status = *upd.Status
	}
	if upd.Rating != nil {
		idea.Rating = *upd.Rating
	}
	if upd.Type != nil {
		if *upd.Type == "" {
			idea.Type = nil
		} else {
			t := *upd.Type
			idea.Type = &t
		}
	}
	idea.UpdatedAt = at
	copied := *idea
	return &copied, nil
}

func (f *fakeStore) DeleteIdea(ctx context.Context, userID string, ideaID int64) error {
	if _, ok := f.owned(userID, ideaID); !ok {
		return apperror.NotFound("idea", ideaID)
	}
	delete(f.ideas, ideaID)
	for id, task := range f.tasks {
		if task.IdeaID == ideaID {
			delete(f.tasks, id)
		}
	}
	return nil
}

func (f *fakeStore) ListTasks(ctx context.Context, userID string, ideaID int64) ([]model.Task, error) {
	if _, ok := f.owned(userID, ideaID); !ok {
		return nil, apperror.NotFound("idea", ideaID)
	}
	out := []model.Task{}
	for _, task := range f.tasks {
		if task.IdeaID == ideaID {
			out = append(out, *task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) ownedTask(userID string, taskID int64) (*model.Task, bool) {
	task, ok := f.tasks[taskID]
	if !ok {
		return nil, false
	}
	if _, ok := f.owned(userID, task.IdeaID); !ok {
		return nil, false
	}
	return task, true
}

func (f *fakeStore) GetTask(ctx context.Context, userID string, taskID int64) (*model.Task, error) {
	task, ok := f.ownedTask(userID, taskID)
	if !ok {
		return nil, apperror.NotFound("task", taskID)
	}
	copied := *task
	return &copied, nil
}

func (f *fakeStore) CreateTask(ctx context.Context, userID string, task *model.Task) error {
	if _, ok := f.owned(userID, task.IdeaID); !ok {
		return apperror.NotFound("idea", task.IdeaID)
	}
	if f.createErr != nil {
		return f.createErr
	}
	task.ID = f.id()
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, userID string, taskID int64, upd model.TaskUpdate, at time.Time) (*model.Task, error) {
	task, ok := f.ownedTask(userID, taskID)
	if !ok {
		return nil, apperror.NotFound("task", taskID)
	}
	if upd.Name != nil {
		task.Name = *upd.Name
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.DueDate != nil {
		if *upd.DueDate == "" {
			task.DueDate = nil
		} else {
			d := *upd.DueDate
			task.DueDate = &d
		}
	}
	if upd.Status != nil {
		task.Status = *upd.Status
	}
	task.UpdatedAt = at
	copied := *task
	return &copied, nil
}

func (f *fakeStore) DeleteTask(ctx context.Context, userID string, taskID int64) error {
	if _, ok := f.ownedTask(userID, taskID); !ok {
		return apperror.NotFound("task", taskID)
	}
	delete(f.tasks, taskID)
	return nil
}

func (f *fakeStore) ExportIdeas(ctx context.Context, userID string) ([]model.IdeaWithTasks, error) {
	ideas, _ := f.ListIdeas(ctx, userID)
	out := make([]model.IdeaWithTasks, 0, len(ideas))
	for _, idea := range ideas {
		tasks, _ := f.ListTasks(ctx, userID, idea.ID)
		out = append(out, model.IdeaWithTasks{Idea: idea, Tasks: tasks})
	}
	return out, nil
}

func (f *fakeStore) ReplaceIdeas(ctx context.Context, userID string, ideas []model.IdeaWithTasks) (int, int, error) {
	f.replaceCalls++
	if f.replaceErr != nil {
		return 0, 0, f.replaceErr
	}
	for id, idea := range f.ideas {
		if idea.UserID == userID {
			_ = f.DeleteIdea(ctx, userID, id)
		}
	}
	taskCount := 0
	for _, in := range ideas {
		idea := in.Idea
		idea.UserID = userID
		if err := f.CreateIdea(ctx, &idea); err != nil {
			return 0, 0, err
		}
		for _, t := range in.Tasks {
			task := t
			task.IdeaID = idea.ID
			if err := f.CreateTask(ctx, userID, &task); err != nil {
				return 0, 0, err
			}
			taskCount++
		}
	}
	return len(ideas), taskCount, nil
}

// fakeUserRepo is an in-memory UserRepository keyed by internal id.
type fakeUserRepo struct {
	users      map[string]*model.User
	byGoogleID map[string]*model.User
	nextID     int

	upsertErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[string]*model.User),
		byGoogleID: make(map[string]*model.User),
		nextID:     1,
	}
}

func (f *fakeUserRepo) UpsertGoogleUser(ctx context.Context, user *model.User) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if existing, ok := f.byGoogleID[user.GoogleID]; ok {
		existing.Email = user.Email
		existing.DisplayName = user.DisplayName
		existing.AvatarURL = user.AvatarURL
		*user = *existing
		return nil
	}
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.users[user.ID] = &copied
	f.byGoogleID[user.GoogleID] = &copied
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}
