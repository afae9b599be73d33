package service

import (
	"context"

	"github.com/news-cms-api/internal/config"
	"github.com/news-cms-api/internal/models"
	"github.com/news-cms-api/internal/repository"
	"github.com/news-cms-api/internal/validation"
	"github.com/rs/zerolog"
)

// ArticleService defines the interface for news article operations
type ArticleService interface {
	Create(ctx context.Context, input *models.ArticleInput) (*models.Article, error)
	Update(ctx context.Context, id int64, update *models.ArticleUpdate) (*models.Article, error)
	Delete(ctx context.Context, id int64) error
	// Get and GetBySlug hide unpublished articles when publishedOnly is set
	Get(ctx context.Context, id int64, publishedOnly bool) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error)
	List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	Image(ctx context.Context, id int64) (*models.ArticleImage, error)
	Count(ctx context.Context) (int, error)
	BackfillSlugs(ctx context.Context) (*models.BackfillReport, error)
}

// ContactService defines the interface for contact form operations
type ContactService interface {
	Submit(ctx context.Context, input *models.ContactInput) (*models.Contact, error)
	List(ctx context.Context) ([]*models.Contact, error)
	// Get returns a submission and marks it read
	Get(ctx context.Context, id int64) (*models.Contact, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	CountUnread(ctx context.Context) (int, error)
}

// AuthService defines the interface for administrator authentication
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.Token, error)
	// ValidateToken returns the subject of a valid access token
	ValidateToken(token string) (string, error)
}

// Services holds all service interfaces
type Services struct {
	Article ArticleService
	Contact ContactService
	Auth    AuthService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) (*Services, error) {
	validator := validation.NewValidator(cfg.Upload.MaxImageSize)

	authSvc, err := newAuthService(cfg.Auth, log)
	if err != nil {
		return nil, err
	}

	return &Services{
		Article: newArticleService(repos.Article, validator, log),
		Contact: newContactService(repos.Contact, validator, log),
		Auth:    authSvc,
	}, nil
}
