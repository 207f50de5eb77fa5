// Package service contains the business rules of the idea board.
//
//	Handler (HTTP)  → parses requests, writes responses
//	Service         → validates, applies defaults, enforces rules
//	Repository      → reads and writes the store
//
// Services take plain Go values and return apperror values, so the same code
// backs the HTTP API and the ideactl maintenance tool. Every idea and task
// method takes the acting user's id and passes it down; the repository
// scopes every query by it.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/idea-board/internal/apperror"
	"github.com/sakif/idea-board/internal/model"
	"github.com/sakif/idea-board/internal/repository"
)

// CreateIdeaInput is what a client may set on a new idea. Status and Type
// accept the same spellings as model.ParseIdeaStatus and model.ParseIdeaType.
type CreateIdeaInput struct {
	Title       string
	Description string
	Status      string // empty means "To Do"
	Rating      *int   // nil means model.DefaultRating
	Type        string // empty means unset
}

// UpdateIdeaInput holds the fields of a partial update. nil leaves the field
// alone; Type set to "" clears it.
type UpdateIdeaInput struct {
	Title       *string
	Description *string
	Status      *string
	Rating      *int
	Type        *string
}

type IdeaService struct {
	repo   repository.IdeaRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewIdeaService(repo repository.IdeaRepository, logger *slog.Logger) *IdeaService {
	return &IdeaService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns the user's ideas, newest first.
func (s *IdeaService) List(ctx context.Context, userID string) ([]model.Idea, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	ideas, err := s.repo.ListIdeas(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list ideas",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing ideas: %w", err)
	}
	return ideas, nil
}

func (s *IdeaService) Get(ctx context.Context, userID string, id int64) (*model.Idea, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.repo.GetIdea(ctx, userID, id)
}

// Create validates in, fills in defaults and stores the idea.
func (s *IdeaService) Create(ctx context.Context, userID string, in CreateIdeaInput) (*model.Idea, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	// === VALIDATION ===
	title, err := requiredText("title", in.Title, MaxTitleLength)
	if err != nil {
		return nil, err
	}
	description, err := optionalText("description", in.Description, MaxDescriptionLength)
	if err != nil {
		return nil, err
	}

	status := model.IdeaStatusToDo
	if in.Status != "" {
		if status, err = ideaStatus("status", in.Status); err != nil {
			return nil, err
		}
	}

	r := model.DefaultRating
	if in.Rating != nil {
		if err := rating("rating", *in.Rating); err != nil {
			return nil, err
		}
		r = *in.Rating
	}

	typ, err := ideaType("type", in.Type)
	if err != nil {
		return nil, err
	}

	// === PERSIST ===
	now := s.now()
	idea := &model.Idea{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      status,
		Rating:      r,
		Type:        typ,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateIdea(ctx, idea); err != nil {
		s.logger.Error("failed to create idea",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating idea: %w", err)
	}

	s.logger.Info("idea created",
		slog.Int64("id", idea.ID),
		slog.String("userID", userID),
	)
	return idea, nil
}

// Update applies a partial update. An input with no fields set is a
// validation error and touches nothing.
func (s *IdeaService) Update(ctx context.Context, userID string, id int64, in UpdateIdeaInput) (*model.Idea, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	upd, err := in.toUpdate()
	if err != nil {
		return nil, err
	}
	if upd.Empty() {
		return nil, apperror.ValidationFailed("body", "no updatable fields supplied")
	}

	idea, err := s.repo.UpdateIdea(ctx, userID, id, upd, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("idea updated",
		slog.Int64("id", id),
		slog.String("userID", userID),
	)
	return idea, nil
}

func (in UpdateIdeaInput) toUpdate() (model.IdeaUpdate, error) {
	var upd model.IdeaUpdate

	if in.Title != nil {
		title, err := requiredText("title", *in.Title, MaxTitleLength)
		if err != nil {
			return upd, err
		}
		upd.Title = &title
	}
	if in.Description != nil {
		description, err := optionalText("description", *in.Description, MaxDescriptionLength)
		if err != nil {
			return upd, err
		}
		upd.Description = &description
	}
	if in.Status != nil {
		status, err := ideaStatus("status", *in.Status)
		if err != nil {
			return upd, err
		}
		upd.Status = &status
	}
	if in.Rating != nil {
		if err := rating("rating", *in.Rating); err != nil {
			return upd, err
		}
		r := *in.Rating
		upd.Rating = &r
	}
	if in.Type != nil {
		typ, err := ideaType("type", *in.Type)
		if err != nil {
			return upd, err
		}
		if typ == nil {
			cleared := model.IdeaType("")
			typ = &cleared
		}
		upd.Type = typ
	}

	return upd, nil
}

// Delete removes the idea and, through the store's cascade, its tasks.
func (s *IdeaService) Delete(ctx context.Context, userID string, id int64) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := s.repo.DeleteIdea(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("idea deleted",
		slog.Int64("id", id),
		slog.String("userID", userID),
	)
	return nil
}
