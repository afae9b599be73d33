package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"github.com/news-cms-api/internal/database"
	"github.com/news-cms-api/internal/models"
)

// ErrDuplicateSlug is returned when a write would store a slug another article already has
var ErrDuplicateSlug = errors.New("article with this slug already exists")

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	UpdateSlug(ctx context.Context, id int64, slug string) error
	Delete(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	// SlugExists reports whether slug is used by an article other than excludeID (0 excludes nothing)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	ListWithoutSlug(ctx context.Context) ([]*models.Article, error)
	GetImage(ctx context.Context, id int64) (*models.ArticleImage, error)
	Count(ctx context.Context) (int, error)
	// InTx runs fn with a repository bound to a single transaction
	InTx(ctx context.Context, fn func(repo ArticleRepository) error) error
}

// ContactRepository defines the interface for contact submission data operations
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id int64) (*models.Contact, error)
	List(ctx context.Context) ([]*models.Contact, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
	CountUnread(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article ArticleRepository
	Contact ContactRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article: NewArticleRepo(db),
		Contact: NewContactRepo(db),
	}
}

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// mapWriteError converts driver errors into repository errors
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == "news_slug_key" {
		return ErrDuplicateSlug
	}
	return err
}
