package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/news-cms-api/internal/models"
	"github.com/news-cms-api/internal/repository"
	"github.com/news-cms-api/internal/validation"
	"github.com/rs/zerolog"
)

// contactService is the concrete implementation of ContactService
type contactService struct {
	repo      repository.ContactRepository
	validator *validation.Validator
	log       zerolog.Logger
}

func newContactService(repo repository.ContactRepository, validator *validation.Validator, log zerolog.Logger) *contactService {
	return &contactService{
		repo:      repo,
		validator: validator,
		log:       log.With().Str("service", "contact").Logger(),
	}
}

// Submit stores a contact form submission
func (s *contactService) Submit(ctx context.Context, input *models.ContactInput) (*models.Contact, error) {
	if errs := s.validator.ValidateContact(input); len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}

	contact := &models.Contact{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Subject: strings.TrimSpace(input.Subject),
		Message: input.Message,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}

	s.log.Info().Int64("contact_id", contact.ID).Msg("Contact form submitted")
	return contact, nil
}

// List returns all submissions, newest first
func (s *contactService) List(ctx context.Context) ([]*models.Contact, error) {
	contacts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// Get returns a submission and marks it read
func (s *contactService) Get(ctx context.Context, id int64) (*models.Contact, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}

	if !contact.Read {
		if err := s.repo.MarkRead(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to mark contact read: %w", err)
		}
		contact.Read = true
	}
	return contact, nil
}

// Delete removes a submission
func (s *contactService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if !deleted {
		return ErrContactNotFound
	}

	s.log.Info().Int64("contact_id", id).Msg("Contact deleted")
	return nil
}

func (s *contactService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *contactService) CountUnread(ctx context.Context) (int, error) {
	return s.repo.CountUnread(ctx)
}
