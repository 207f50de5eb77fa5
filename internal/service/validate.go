package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sakif/idea-board/internal/apperror"
	"github.com/sakif/idea-board/internal/model"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 10000
	MaxDueDateLength     = 64
)

// requiredText trims s and rejects it when empty or longer than max
// characters.
func requiredText(field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperror.ValidationFailed(field, fmt.Sprintf("%s is required", field))
	}
	if utf8.RuneCountInString(s) > max {
		return "", apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be %d characters or less", field, max))
	}
	return s, nil
}

func optionalText(field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > max {
		return "", apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be %d characters or less", field, max))
	}
	return s, nil
}

func ideaStatus(field, raw string) (model.IdeaStatus, error) {
	st, ok := model.ParseIdeaStatus(raw)
	if !ok {
		return "", apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be one of %s", field, joinQuoted(model.IdeaStatuses)))
	}
	return st, nil
}

func taskStatus(field, raw string) (model.TaskStatus, error) {
	st, ok := model.ParseTaskStatus(raw)
	if !ok {
		return "", apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be one of %s", field, joinQuoted(model.TaskStatuses)))
	}
	return st, nil
}

// ideaType returns nil for an empty string, meaning "no type".
func ideaType(field, raw string) (*model.IdeaType, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, ok := model.ParseIdeaType(raw)
	if !ok {
		return nil, apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be one of %s", field, joinQuoted(model.IdeaTypes)))
	}
	return &t, nil
}

// rating rejects out-of-range values; it never clamps.
func rating(field string, r int) error {
	if !model.ValidRating(r) {
		return apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be between %d and %d", field, model.MinRating, model.MaxRating))
	}
	return nil
}

// dueDate trims the value and maps blank to nil.
func dueDate(field string, raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	s, err := optionalText(field, *raw, MaxDueDateLength)
	if err != nil || s == "" {
		return nil, err
	}
	return &s, nil
}

func joinQuoted[T ~string](values []T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", string(v))
	}
	return strings.Join(quoted, ", ")
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperror.Unauthorized("valid authentication required")
	}
	return nil
}

// isDomainError reports whether err is an *apperror.AppError that should
// reach the client unchanged.
func isDomainError(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr)
}

func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
