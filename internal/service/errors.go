package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/news-cms-api/internal/validation"
)

var (
	ErrArticleNotFound    = errors.New("news not found")
	ErrImageNotFound      = errors.New("image not found")
	ErrContactNotFound    = errors.New("contact not found")
	ErrSlugConflict       = errors.New("slug is already in use")
	ErrInvalidSlug        = errors.New("slug must contain at least one letter or digit")
	ErrInvalidImage       = errors.New("uploaded file is not a supported image")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrTokenExpired       = errors.New("token has expired")
)

// SlugConflictError names the slug another article already holds
type SlugConflictError struct {
	Slug string
}

func (e *SlugConflictError) Error() string {
	return fmt.Sprintf("slug '%s' is already in use", e.Slug)
}

// Is makes errors.Is(err, ErrSlugConflict) match
func (e *SlugConflictError) Is(target error) bool {
	return target == ErrSlugConflict
}

// ValidationErrors carries the field errors of a rejected request
type ValidationErrors struct {
	Errors []validation.ValidationError
}

func (e *ValidationErrors) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, fieldErr := range e.Errors {
		messages = append(messages, fieldErr.Message)
	}
	return "validation failed: " + strings.Join(messages, "; ")
}
