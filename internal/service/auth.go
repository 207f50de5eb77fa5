package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/idea-board/internal/auth"
	"github.com/sakif/idea-board/internal/model"
	"github.com/sakif/idea-board/internal/repository"
)

// AuthService turns a verified Google identity into a local user and a
// session token.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// AuthResult is returned after a successful login.
type AuthResult struct {
	User  *model.User
	Token string
}

// LoginOrRegisterGoogle creates the user on first login and refreshes
// email, name and avatar on every later one.
func (s *AuthService) LoginOrRegisterGoogle(ctx context.Context, gUser *auth.GoogleUser) (*AuthResult, error) {
	if gUser == nil || gUser.ID == "" {
		return nil, fmt.Errorf("service/auth: Google user must have an id")
	}

	displayName := strings.TrimSpace(gUser.Name)
	if displayName == "" {
		displayName = gUser.Email
	}

	user := &model.User{
		GoogleID:    gUser.ID,
		Email:       gUser.Email,
		DisplayName: displayName,
		AvatarURL:   gUser.Picture,
	}

	if err := s.users.UpsertGoogleUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (googleID=%s): %w", gUser.ID, err)
	}

	s.logger.Info("user authenticated via Google",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// CurrentUser resolves an optional session: a missing id or a user that no
// longer exists yields (nil, nil).
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, nil
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}
	return user, nil
}
