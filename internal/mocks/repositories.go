package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/news-cms-api/internal/models"
	"github.com/news-cms-api/internal/repository"
)

// Verify interface compliance
var (
	_ repository.ArticleRepository = (*MockArticleRepository)(nil)
	_ repository.ContactRepository = (*MockContactRepository)(nil)
)

// MockArticleRepository is an in-memory implementation of ArticleRepository.
// Stored articles never carry image bytes; those live in Images, the same way
// the SQL repository only loads blobs through GetImage.
type MockArticleRepository struct {
	Articles map[int64]*models.Article
	Images   map[int64]*models.ArticleImage
	NextID   int64

	CreateError     error
	UpdateError     error
	ListError       error
	SlugExistsError error

	// SlugLookups records every candidate passed to SlugExists
	SlugLookups []string
	TxCalls     int
	inTx        bool
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[int64]*models.Article),
		Images:   make(map[int64]*models.ArticleImage),
		NextID:   1,
	}
}

// Seed stores an article as-is, bypassing slug checks. Used to set up legacy rows.
func (m *MockArticleRepository) Seed(article *models.Article) *models.Article {
	if article.ID == 0 {
		article.ID = m.NextID
	}
	if article.ID >= m.NextID {
		m.NextID = article.ID + 1
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now().UTC()
		article.UpdatedAt = article.CreatedAt
	}
	m.storeImage(article.ID, article.Image)
	m.Articles[article.ID] = cloneArticle(article)
	return article
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if m.slugTaken(article.Slug, 0) {
		return repository.ErrDuplicateSlug
	}

	article.ID = m.NextID
	m.NextID++
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now

	m.storeImage(article.ID, article.Image)
	m.Articles[article.ID] = cloneArticle(article)
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, exists := m.Articles[article.ID]; !exists {
		return fmt.Errorf("article %d: %w", article.ID, sql.ErrNoRows)
	}
	if m.slugTaken(article.Slug, article.ID) {
		return repository.ErrDuplicateSlug
	}

	article.UpdatedAt = time.Now().UTC()
	m.storeImage(article.ID, article.Image)
	m.Articles[article.ID] = cloneArticle(article)
	return nil
}

func (m *MockArticleRepository) UpdateSlug(ctx context.Context, id int64, slug string) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	article, exists := m.Articles[id]
	if !exists {
		return nil
	}
	if m.slugTaken(slug, id) {
		return repository.ErrDuplicateSlug
	}
	article.Slug = slug
	article.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if _, exists := m.Articles[id]; !exists {
		return false, nil
	}
	delete(m.Articles, id)
	delete(m.Images, id)
	return true, nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	article, exists := m.Articles[id]
	if !exists {
		return nil, nil
	}
	return cloneArticle(article), nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	if slug == "" {
		return nil, nil
	}
	for _, article := range m.Articles {
		if article.Slug == slug {
			return cloneArticle(article), nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	m.SlugLookups = append(m.SlugLookups, slug)
	if m.SlugExistsError != nil {
		return false, m.SlugExistsError
	}
	return m.slugTaken(slug, excludeID), nil
}

func (m *MockArticleRepository) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	tag := strings.ToLower(strings.TrimSpace(filter.Tag))

	result := make([]*models.Article, 0, len(m.Articles))
	for _, article := range m.Articles {
		if filter.PublishedOnly && !article.Published {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(article.Title), search) &&
			!strings.Contains(strings.ToLower(article.Summary), search) {
			continue
		}
		if tag != "" && !containsTag(article.Tags, tag) {
			continue
		}
		result = append(result, cloneArticle(article))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (m *MockArticleRepository) ListWithoutSlug(ctx context.Context) ([]*models.Article, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	var result []*models.Article
	for _, article := range m.Articles {
		if article.Slug == "" {
			result = append(result, cloneArticle(article))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockArticleRepository) GetImage(ctx context.Context, id int64) (*models.ArticleImage, error) {
	image, exists := m.Images[id]
	if !exists {
		return nil, nil
	}
	copied := *image
	return &copied, nil
}

func (m *MockArticleRepository) Count(ctx context.Context) (int, error) {
	return len(m.Articles), nil
}

// InTx runs fn against the mock and restores the previous state if fn fails
func (m *MockArticleRepository) InTx(ctx context.Context, fn func(repo repository.ArticleRepository) error) error {
	if m.inTx {
		return fn(m)
	}
	m.TxCalls++

	articles := make(map[int64]*models.Article, len(m.Articles))
	for id, article := range m.Articles {
		articles[id] = cloneArticle(article)
	}
	images := make(map[int64]*models.ArticleImage, len(m.Images))
	for id, image := range m.Images {
		images[id] = image
	}
	nextID := m.NextID

	m.inTx = true
	err := fn(m)
	m.inTx = false

	if err != nil {
		m.Articles = articles
		m.Images = images
		m.NextID = nextID
	}
	return err
}

func (m *MockArticleRepository) slugTaken(slug string, excludeID int64) bool {
	if slug == "" {
		return false
	}
	for id, article := range m.Articles {
		if id != excludeID && article.Slug == slug {
			return true
		}
	}
	return false
}

func (m *MockArticleRepository) storeImage(id int64, image models.ImageSource) {
	switch {
	case image.Kind == models.ImageInline && image.Data != nil:
		m.Images[id] = &models.ArticleImage{
			ArticleID: id,
			Data:      append([]byte(nil), image.Data...),
			Filename:  image.Filename,
			MimeType:  image.MimeType,
		}
	case image.Kind != models.ImageInline:
		delete(m.Images, id)
	}
}

func cloneArticle(article *models.Article) *models.Article {
	copied := *article
	copied.Tags = append(models.Tags{}, article.Tags...)
	copied.Image.Data = nil
	if article.AuthorID != nil {
		authorID := *article.AuthorID
		copied.AuthorID = &authorID
	}
	return &copied
}

func containsTag(tags models.Tags, needle string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// MockContactRepository is an in-memory implementation of ContactRepository
type MockContactRepository struct {
	Contacts    map[int64]*models.Contact
	NextID      int64
	CreateError error
}

func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{
		Contacts: make(map[int64]*models.Contact),
		NextID:   1,
	}
}

func (m *MockContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	contact.ID = m.NextID
	m.NextID++
	contact.CreatedAt = time.Now().UTC()
	copied := *contact
	m.Contacts[contact.ID] = &copied
	return nil
}

func (m *MockContactRepository) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	contact, exists := m.Contacts[id]
	if !exists {
		return nil, nil
	}
	copied := *contact
	return &copied, nil
}

func (m *MockContactRepository) List(ctx context.Context) ([]*models.Contact, error) {
	result := make([]*models.Contact, 0, len(m.Contacts))
	for _, contact := range m.Contacts {
		copied := *contact
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *MockContactRepository) MarkRead(ctx context.Context, id int64) error {
	if contact, exists := m.Contacts[id]; exists {
		contact.Read = true
	}
	return nil
}

func (m *MockContactRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if _, exists := m.Contacts[id]; !exists {
		return false, nil
	}
	delete(m.Contacts, id)
	return true, nil
}

func (m *MockContactRepository) Count(ctx context.Context) (int, error) {
	return len(m.Contacts), nil
}

func (m *MockContactRepository) CountUnread(ctx context.Context) (int, error) {
	unread := 0
	for _, contact := range m.Contacts {
		if !contact.Read {
			unread++
		}
	}
	return unread, nil
}
