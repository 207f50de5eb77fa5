package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/idea-board/internal/apperror"
	"github.com/sakif/idea-board/internal/model"
)

// fakeMaintenanceRepo returns canned reports and records transfers.
type fakeMaintenanceRepo struct {
	summaries []model.UserSummary
	dupIdeas  []model.DuplicateIdea
	dupTasks  []model.DuplicateTask
	counts    model.StoreCounts
	byStatus  []model.StatusCount

	transferFrom, transferTo string
	transferred              int64
}

func (f *fakeMaintenanceRepo) ListUserSummaries(ctx context.Context) ([]model.UserSummary, error) {
	return f.summaries, nil
}

func (f *fakeMaintenanceRepo) FindDuplicateIdeas(ctx context.Context) ([]model.DuplicateIdea, error) {
	return f.dupIdeas, nil
}

func (f *fakeMaintenanceRepo) FindDuplicateTasks(ctx context.Context) ([]model.DuplicateTask, error) {
	return f.dupTasks, nil
}

func (f *fakeMaintenanceRepo) TransferIdeas(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	f.transferFrom, f.transferTo = fromUserID, toUserID
	return f.transferred, nil
}

func (f *fakeMaintenanceRepo) Counts(ctx context.Context) (*model.StoreCounts, error) {
	c := f.counts
	return &c, nil
}

func (f *fakeMaintenanceRepo) IdeaStatusCounts(ctx context.Context) ([]model.StatusCount, error) {
	return f.byStatus, nil
}

func newTestMaintenanceService(t *testing.T) (*MaintenanceService, *fakeMaintenanceRepo, *fakeUserRepo) {
	t.Helper()
	repo := &fakeMaintenanceRepo{}
	users := newFakeUserRepo()
	for _, u := range []model.User{
		{GoogleID: "g-a", Email: "a@example.com"},
		{GoogleID: "g-b", Email: "b@example.com"},
	} {
		user := u
		require.NoError(t, users.UpsertGoogleUser(context.Background(), &user))
	}
	return NewMaintenanceService(repo, users, testLogger()), repo, users
}

func TestMaintenanceTransferIdeas(t *testing.T) {
	svc, repo, users := newTestMaintenanceService(t)
	repo.transferred = 3
	ctx := context.Background()

	n, err := svc.TransferIdeas(ctx, " a@example.com ", "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	from, _ := users.GetUserByEmail(ctx, "a@example.com")
	to, _ := users.GetUserByEmail(ctx, "b@example.com")
	assert.Equal(t, from.ID, repo.transferFrom)
	assert.Equal(t, to.ID, repo.transferTo)
}

func TestMaintenanceTransferIdeas_Rejects(t *testing.T) {
	svc, repo, _ := newTestMaintenanceService(t)
	ctx := context.Background()

	_, err := svc.TransferIdeas(ctx, "a@example.com", "a@example.com")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.TransferIdeas(ctx, "nobody@example.com", "b@example.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.TransferIdeas(ctx, "", "b@example.com")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	assert.Empty(t, repo.transferFrom)
}

func TestMaintenanceDuplicatesAndStats(t *testing.T) {
	svc, repo, _ := newTestMaintenanceService(t)
	repo.dupIdeas = []model.DuplicateIdea{{OriginalID: 1, DuplicateID: 4, Title: "Same"}}
	repo.counts = model.StoreCounts{Ideas: 5, Tasks: 2}
	repo.byStatus = []model.StatusCount{{Status: "To Do", Count: 5}}
	ctx := context.Background()

	report, err := svc.Duplicates(ctx)
	require.NoError(t, err)
	assert.Len(t, report.Ideas, 1)
	assert.Empty(t, report.Tasks)
	assert.Equal(t, int64(5), report.Totals.Ideas)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Totals.Tasks)
	assert.Equal(t, repo.byStatus, stats.ByStatus)
}
