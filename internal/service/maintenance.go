package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/idea-board/internal/apperror"
	"github.com/sakif/idea-board/internal/model"
	"github.com/sakif/idea-board/internal/repository"
)

// MaintenanceService backs the ideactl commands. Unlike the other services
// it works across users.
type MaintenanceService struct {
	repo   repository.MaintenanceRepository
	users  repository.UserRepository
	logger *slog.Logger
}

func NewMaintenanceService(repo repository.MaintenanceRepository, users repository.UserRepository, logger *slog.Logger) *MaintenanceService {
	return &MaintenanceService{repo: repo, users: users, logger: logger}
}

func (s *MaintenanceService) Users(ctx context.Context) ([]model.UserSummary, error) {
	return s.repo.ListUserSummaries(ctx)
}

// DuplicateReport is what the duplicates command prints.
type DuplicateReport struct {
	Ideas  []model.DuplicateIdea
	Tasks  []model.DuplicateTask
	Totals model.StoreCounts
}

func (s *MaintenanceService) Duplicates(ctx context.Context) (*DuplicateReport, error) {
	ideas, err := s.repo.FindDuplicateIdeas(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.repo.FindDuplicateTasks(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &DuplicateReport{Ideas: ideas, Tasks: tasks, Totals: *counts}, nil
}

// TransferIdeas moves every idea from the user with fromEmail to the user
// with toEmail and returns how many moved.
func (s *MaintenanceService) TransferIdeas(ctx context.Context, fromEmail, toEmail string) (int64, error) {
	from, err := s.UserByEmail(ctx, fromEmail)
	if err != nil {
		return 0, err
	}
	to, err := s.UserByEmail(ctx, toEmail)
	if err != nil {
		return 0, err
	}
	if from.ID == to.ID {
		return 0, apperror.ValidationFailed("to", "source and target user are the same")
	}

	n, err := s.repo.TransferIdeas(ctx, from.ID, to.ID)
	if err != nil {
		return 0, fmt.Errorf("transferring ideas: %w", err)
	}

	s.logger.Info("ideas transferred",
		slog.String("from", from.ID),
		slog.String("to", to.ID),
		slog.Int64("count", n),
	)
	return n, nil
}

// Stats is what the stats command prints.
type Stats struct {
	Totals   model.StoreCounts
	ByStatus []model.StatusCount
}

func (s *MaintenanceService) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.IdeaStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Totals: *counts, ByStatus: byStatus}, nil
}

func (s *MaintenanceService) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	return s.users.GetUserByEmail(ctx, email)
}
