package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/news-cms-api/internal/models"
	"github.com/news-cms-api/internal/repository"
	"github.com/news-cms-api/internal/slug"
	"github.com/news-cms-api/internal/validation"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repo      repository.ArticleRepository
	validator *validation.Validator
	log       zerolog.Logger
}

func newArticleService(repo repository.ArticleRepository, validator *validation.Validator, log zerolog.Logger) *articleService {
	return &articleService{
		repo:      repo,
		validator: validator,
		log:       log.With().Str("service", "article").Logger(),
	}
}

// Create stores a new article. The slug is derived from input.Slug, or the
// title when that is blank, and made unique inside the same transaction as
// the insert. When neither yields a slug the article gets article-{id}.
func (s *articleService) Create(ctx context.Context, input *models.ArticleInput) (*models.Article, error) {
	if errs := s.validator.ValidateArticleInput(input); len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}

	image, err := s.prepareImage(input.Image)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:     input.Title,
		Summary:   input.Summary,
		Content:   input.Content,
		Tags:      models.Tags(models.NormalizeTags(input.Tags)),
		Published: input.Published,
	}
	if image != nil {
		article.Image = *image
	}

	err = s.repo.InTx(ctx, func(repo repository.ArticleRepository) error {
		var (
			candidate string
			err       error
		)
		if strings.TrimSpace(input.Slug) != "" {
			candidate, err = slug.Generate(ctx, input.Slug, slugLookup(repo, 0))
			if err != nil {
				return fmt.Errorf("failed to generate slug: %w", err)
			}
		}
		if candidate == "" {
			candidate, err = slug.Generate(ctx, input.Title, slugLookup(repo, 0))
			if err != nil {
				return fmt.Errorf("failed to generate slug: %w", err)
			}
		}
		article.Slug = candidate

		if err := repo.Create(ctx, article); err != nil {
			return err
		}

		if article.Slug == "" {
			fallback, err := fallbackSlug(ctx, repo, article.ID)
			if err != nil {
				return err
			}
			if err := repo.UpdateSlug(ctx, article.ID, fallback); err != nil {
				return err
			}
			article.Slug = fallback
		}
		return nil
	})
	if errors.Is(err, repository.ErrDuplicateSlug) {
		return nil, &SlugConflictError{Slug: article.Slug}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	s.log.Info().
		Int64("article_id", article.ID).
		Str("slug", article.Slug).
		Bool("published", article.Published).
		Msg("Article created")

	return article, nil
}

// Update applies the provided fields to an article. An explicit slug is
// normalized and must not belong to another article. A title change only
// assigns a slug when the article has none, so published URLs stay stable.
func (s *articleService) Update(ctx context.Context, id int64, update *models.ArticleUpdate) (*models.Article, error) {
	if errs := s.validator.ValidateArticleUpdate(update); len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}

	image, err := s.prepareImage(update.Image)
	if err != nil {
		return nil, err
	}

	var updated *models.Article
	err = s.repo.InTx(ctx, func(repo repository.ArticleRepository) error {
		article, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if article == nil {
			return ErrArticleNotFound
		}

		titleChanged := false
		if update.Title != nil && *update.Title != article.Title {
			article.Title = *update.Title
			titleChanged = true
		}
		if update.Summary != nil {
			article.Summary = *update.Summary
		}
		if update.Content != nil {
			article.Content = *update.Content
		}
		if update.Tags != nil {
			article.Tags = models.Tags(models.NormalizeTags(*update.Tags))
		}
		if update.Published != nil {
			article.Published = *update.Published
		}

		switch {
		case update.Slug != nil:
			requested := slug.Normalize(*update.Slug)
			if requested == "" {
				return ErrInvalidSlug
			}
			if requested != article.Slug {
				taken, err := repo.SlugExists(ctx, requested, article.ID)
				if err != nil {
					return err
				}
				if taken {
					return &SlugConflictError{Slug: requested}
				}
				article.Slug = requested
			}
		case titleChanged && article.Slug == "":
			generated, err := slug.Generate(ctx, article.Title, slugLookup(repo, article.ID))
			if err != nil {
				return fmt.Errorf("failed to generate slug: %w", err)
			}
			if generated == "" {
				if generated, err = fallbackSlug(ctx, repo, article.ID); err != nil {
					return err
				}
			}
			article.Slug = generated
		}

		if image != nil {
			article.Image = *image
		}

		if err := repo.Update(ctx, article); err != nil {
			if errors.Is(err, repository.ErrDuplicateSlug) {
				return &SlugConflictError{Slug: article.Slug}
			}
			return err
		}
		updated = article
		return nil
	})
	if err != nil {
		if isServiceError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	s.log.Info().
		Int64("article_id", updated.ID).
		Str("slug", updated.Slug).
		Msg("Article updated")

	return updated, nil
}

// Delete removes an article
func (s *articleService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if !deleted {
		return ErrArticleNotFound
	}

	s.log.Info().Int64("article_id", id).Msg("Article deleted")
	return nil
}

// Get returns an article by ID
func (s *articleService) Get(ctx context.Context, id int64, publishedOnly bool) (*models.Article, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	if article == nil || (publishedOnly && !article.Published) {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// GetBySlug returns an article by slug. Strings that cannot be slugs are not looked up.
func (s *articleService) GetBySlug(ctx context.Context, value string, publishedOnly bool) (*models.Article, error) {
	if !slug.Valid(value) {
		return nil, ErrArticleNotFound
	}

	article, err := s.repo.GetBySlug(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	if article == nil || (publishedOnly && !article.Published) {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// List returns the articles matching the filter, newest first
func (s *articleService) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	articles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

// Image returns the inline image stored for an article
func (s *articleService) Image(ctx context.Context, id int64) (*models.ArticleImage, error) {
	image, err := s.repo.GetImage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	if image == nil || len(image.Data) == 0 {
		return nil, ErrImageNotFound
	}
	if image.MimeType == "" {
		image.MimeType = mimetype.Detect(image.Data).String()
	}
	return image, nil
}

// Count returns the number of stored articles
func (s *articleService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// BackfillSlugs assigns a slug to every article stored without one. Each
// article is handled in its own transaction; failures are reported and the
// run continues.
func (s *articleService) BackfillSlugs(ctx context.Context) (*models.BackfillReport, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	missing, err := s.repo.ListWithoutSlug(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles without slug: %w", err)
	}

	report := &models.BackfillReport{
		Total:    total,
		Missing:  len(missing),
		Assigned: []models.SlugAssignment{},
	}

	for _, article := range missing {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		var assigned string
		err := s.repo.InTx(ctx, func(repo repository.ArticleRepository) error {
			generated, err := slug.Generate(ctx, article.Title, slugLookup(repo, article.ID))
			if err != nil {
				return err
			}
			if generated == "" {
				if generated, err = fallbackSlug(ctx, repo, article.ID); err != nil {
					return err
				}
			}
			assigned = generated
			return repo.UpdateSlug(ctx, article.ID, generated)
		})
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("article %d: %v", article.ID, err))
			s.log.Warn().Err(err).Int64("article_id", article.ID).Msg("Failed to assign slug")
			continue
		}

		report.Updated++
		report.Assigned = append(report.Assigned, models.SlugAssignment{
			ID:    article.ID,
			Title: article.Title,
			Slug:  assigned,
		})
	}

	s.log.Info().
		Int("total", report.Total).
		Int("missing", report.Missing).
		Int("updated", report.Updated).
		Int("failed", report.Failed).
		Msg("Slug backfill completed")

	return report, nil
}

// prepareImage validates an upload and turns it into an inline image source.
// The stored MIME type is sniffed from the bytes, not taken from the client.
func (s *articleService) prepareImage(upload *models.ImageUpload) (*models.ImageSource, error) {
	if upload == nil {
		return nil, nil
	}

	if errs := s.validator.ValidateImage(upload.Filename, int64(len(upload.Data))); len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}

	detected := mimetype.Detect(upload.Data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrInvalidImage, detected.String())
	}

	source := models.InlineImage(upload.Data, filepath.Base(upload.Filename), detected.String())
	return &source, nil
}

// slugLookup reports candidates held by any article other than excludeID
func slugLookup(repo repository.ArticleRepository, excludeID int64) slug.LookupFunc {
	return func(ctx context.Context, candidate string) (bool, error) {
		return repo.SlugExists(ctx, candidate, excludeID)
	}
}

// fallbackSlug derives article-{id} for articles whose title yields no slug
func fallbackSlug(ctx context.Context, repo repository.ArticleRepository, id int64) (string, error) {
	generated, err := slug.Generate(ctx, fmt.Sprintf("article-%d", id), slugLookup(repo, id))
	if err != nil {
		return "", fmt.Errorf("failed to generate fallback slug: %w", err)
	}
	return generated, nil
}

func isServiceError(err error) bool {
	var validationErr *ValidationErrors
	return errors.Is(err, ErrArticleNotFound) ||
		errors.Is(err, ErrSlugConflict) ||
		errors.Is(err, ErrInvalidSlug) ||
		errors.As(err, &validationErr)
}
