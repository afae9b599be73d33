package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/news-cms-api/internal/config"
	"github.com/news-cms-api/internal/mocks"
	"github.com/news-cms-api/internal/models"
	"github.com/news-cms-api/internal/repository"
	"github.com/news-cms-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG file for content sniffing
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testHarness struct {
	services    *service.Services
	articleRepo *mocks.MockArticleRepository
	contactRepo *mocks.MockContactRepository
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			AdminUsername: "admin",
			AdminPassword: "correct-horse",
			JWTSecret:     "test-secret-0123456789",
			TokenTTL:      time.Hour,
			Issuer:        "news-cms-api",
		},
		Upload: config.UploadConfig{MaxImageSize: 1024 * 1024},
	}
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	articleRepo := mocks.NewMockArticleRepository()
	contactRepo := mocks.NewMockContactRepository()
	repos := &repository.Repositories{
		Article: articleRepo,
		Contact: contactRepo,
	}

	services, err := service.NewServices(repos, testConfig(), zerolog.Nop())
	require.NoError(t, err)

	return &testHarness{
		services:    services,
		articleRepo: articleRepo,
		contactRepo: contactRepo,
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func validInput(title string) *models.ArticleInput {
	return &models.ArticleInput{Title: title, Summary: "summary", Content: "content"}
}

func TestArticleService_CreateDerivesSlugFromTitle(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	article, err := h.services.Article.Create(ctx, validInput("Hello, World!"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), article.ID)
	assert.Equal(t, "hello-world", article.Slug)
	assert.Equal(t, models.Tags{}, article.Tags)
	assert.Nil(t, article.ImageURL())
	assert.Equal(t, 1, h.articleRepo.TxCalls)
}

func TestArticleService_CreateResolvesCollisions(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	h.articleRepo.Seed(&models.Article{Title: "Foo", Slug: "foo"})
	h.articleRepo.Seed(&models.Article{Title: "Foo", Slug: "foo-2"})
	h.articleRepo.Seed(&models.Article{Title: "Foo", Slug: "foo-3"})

	article, err := h.services.Article.Create(ctx, validInput("Foo"))
	require.NoError(t, err)
	assert.Equal(t, "foo-4", article.Slug)
}

func TestArticleService_CreateWithCustomSlug(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	input := validInput("Ignored For Slug")
	input.Slug = "My Custom Slug"

	first, err := h.services.Article.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "my-custom-slug", first.Slug)

	second, err := h.services.Article.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "my-custom-slug-2", second.Slug)
}

func TestArticleService_CreateFallsBackToTitleThenID(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	input := validInput("Real Title")
	input.Slug = "???"
	article, err := h.services.Article.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "real-title", article.Slug)

	article, err = h.services.Article.Create(ctx, validInput("!!!"))
	require.NoError(t, err)
	assert.Equal(t, "article-2", article.Slug)

	stored, _ := h.articleRepo.GetByID(ctx, article.ID)
	assert.Equal(t, "article-2", stored.Slug)
}

func TestArticleService_CreateValidation(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	_, err := h.services.Article.Create(ctx, &models.ArticleInput{Title: "Only title"})

	var validationErr *service.ValidationErrors
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Errors, 2)
	assert.Empty(t, h.articleRepo.Articles)
}

func TestArticleService_CreateLookupErrorRollsBack(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	lookupErr := errors.New("db down")
	h.articleRepo.SlugExistsError = lookupErr

	_, err := h.services.Article.Create(ctx, validInput("Hello"))
	assert.ErrorIs(t, err, lookupErr)
	assert.Empty(t, h.articleRepo.Articles)
}

func TestArticleService_CreateWithImage(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	input := validInput("Pictured")
	input.Tags = []string{"ai", "ml"}
	input.Image = &models.ImageUpload{Filename: "../../photo.png", MimeType: "text/plain", Data: pngHeader}

	article, err := h.services.Article.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, models.Tags{"ai", "ml"}, article.Tags)
	require.NotNil(t, article.ImageURL())
	assert.Equal(t, "/news/image/1", *article.ImageURL())

	image, err := h.services.Article.Image(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", image.MimeType, "MIME type comes from the content")
	assert.Equal(t, "photo.png", image.Filename)
	assert.Equal(t, pngHeader, image.Data)
}

func TestArticleService_CreateRejectsBadImages(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	input := validInput("Fake")
	input.Image = &models.ImageUpload{Filename: "fake.png", Data: []byte("just some text")}
	_, err := h.services.Article.Create(ctx, input)
	assert.ErrorIs(t, err, service.ErrInvalidImage)

	input.Image = &models.ImageUpload{Filename: "photo.gif", Data: pngHeader}
	_, err = h.services.Article.Create(ctx, input)
	var validationErr *service.ValidationErrors
	assert.ErrorAs(t, err, &validationErr)

	assert.Empty(t, h.articleRepo.Articles)
}

func TestArticleService_UpdateTitleKeepsSlug(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	article, err := h.services.Article.Create(ctx, validInput("Old Title"))
	require.NoError(t, err)

	updated, err := h.services.Article.Update(ctx, article.ID, &models.ArticleUpdate{Title: strPtr("New Title")})
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "old-title", updated.Slug)
}

func TestArticleService_UpdateTitleAssignsMissingSlug(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	legacy := h.articleRepo.Seed(&models.Article{Title: "Legacy"})
	h.articleRepo.Seed(&models.Article{Title: "Taken", Slug: "fresh-title"})

	updated, err := h.services.Article.Update(ctx, legacy.ID, &models.ArticleUpdate{Title: strPtr("Fresh Title")})
	require.NoError(t, err)
	assert.Equal(t, "fresh-title-2", updated.Slug)

	// An unchanged title never assigns a slug
	other := h.articleRepo.Seed(&models.Article{Title: "Still Legacy"})
	updated, err = h.services.Article.Update(ctx, other.ID, &models.ArticleUpdate{Title: strPtr("Still Legacy")})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Slug)
}

func TestArticleService_UpdateSlugConflict(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	h.articleRepo.Seed(&models.Article{Title: "A", Slug: "taken"})
	mine := h.articleRepo.Seed(&models.Article{Title: "B", Slug: "mine"})

	_, err := h.services.Article.Update(ctx, mine.ID, &models.ArticleUpdate{
		Title: strPtr("Renamed"),
		Slug:  strPtr("Taken"),
	})
	require.ErrorIs(t, err, service.ErrSlugConflict)

	var conflict *service.SlugConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "taken", conflict.Slug)

	stored, _ := h.articleRepo.GetByID(ctx, mine.ID)
	assert.Equal(t, "mine", stored.Slug)
	assert.Equal(t, "B", stored.Title)
}

func TestArticleService_UpdateSlug(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	article, err := h.services.Article.Create(ctx, validInput("Original"))
	require.NoError(t, err)

	// Resubmitting the current slug is not a conflict with itself
	updated, err := h.services.Article.Update(ctx, article.ID, &models.ArticleUpdate{Slug: strPtr("original")})
	require.NoError(t, err)
	assert.Equal(t, "original", updated.Slug)

	updated, err = h.services.Article.Update(ctx, article.ID, &models.ArticleUpdate{Slug: strPtr("  Brand New  ")})
	require.NoError(t, err)
	assert.Equal(t, "brand-new", updated.Slug)

	_, err = h.services.Article.Update(ctx, article.ID, &models.ArticleUpdate{Slug: strPtr("!!!")})
	assert.ErrorIs(t, err, service.ErrInvalidSlug)
}

func TestArticleService_UpdateFields(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	legacy := h.articleRepo.Seed(&models.Article{
		Title: "Legacy",
		Slug:  "legacy",
		Image: models.ExternalImage("https://cdn.example.com/old.jpg"),
	})

	tags := []string{"go"}
	updated, err := h.services.Article.Update(ctx, legacy.ID, &models.ArticleUpdate{
		Summary:   strPtr("new summary"),
		Tags:      &tags,
		Published: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "new summary", updated.Summary)
	assert.Equal(t, models.Tags{"go"}, updated.Tags)
	assert.True(t, updated.Published)
	assert.Equal(t, "https://cdn.example.com/old.jpg", *updated.ImageURL())

	updated, err = h.services.Article.Update(ctx, legacy.ID, &models.ArticleUpdate{
		Image: &models.ImageUpload{Filename: "new.png", Data: pngHeader},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ImagePath(legacy.ID), *updated.ImageURL())
}

func TestArticleService_UpdateNotFound(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.services.Article.Update(context.Background(), 42, &models.ArticleUpdate{Title: strPtr("x")})
	assert.ErrorIs(t, err, service.ErrArticleNotFound)
}

func TestArticleService_GetHidesDrafts(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	draft := h.articleRepo.Seed(&models.Article{Title: "Draft", Slug: "draft"})

	_, err := h.services.Article.Get(ctx, draft.ID, true)
	assert.ErrorIs(t, err, service.ErrArticleNotFound)

	found, err := h.services.Article.Get(ctx, draft.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Draft", found.Title)

	_, err = h.services.Article.GetBySlug(ctx, "draft", true)
	assert.ErrorIs(t, err, service.ErrArticleNotFound)

	found, err = h.services.Article.GetBySlug(ctx, "draft", false)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, found.ID)
}

func TestArticleService_GetBySlugRejectsMalformed(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.services.Article.GetBySlug(context.Background(), "Not A Slug", false)
	assert.ErrorIs(t, err, service.ErrArticleNotFound)
}

func TestArticleService_DeleteAndImage(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	assert.ErrorIs(t, h.services.Article.Delete(ctx, 9), service.ErrArticleNotFound)

	article := h.articleRepo.Seed(&models.Article{Title: "Bye", Slug: "bye"})
	_, err := h.services.Article.Image(ctx, article.ID)
	assert.ErrorIs(t, err, service.ErrImageNotFound)

	require.NoError(t, h.services.Article.Delete(ctx, article.ID))
	_, err = h.services.Article.Get(ctx, article.ID, false)
	assert.ErrorIs(t, err, service.ErrArticleNotFound)
}

func TestArticleService_BackfillSlugs(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	h.articleRepo.Seed(&models.Article{ID: 1, Title: "Hello World"})
	h.articleRepo.Seed(&models.Article{ID: 2, Title: "Hello World"})
	h.articleRepo.Seed(&models.Article{ID: 3, Title: "!!!"})
	h.articleRepo.Seed(&models.Article{ID: 4, Title: "Has Slug", Slug: "has-slug"})

	report, err := h.services.Article.BackfillSlugs(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 3, report.Missing)
	assert.Equal(t, 3, report.Updated)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, []models.SlugAssignment{
		{ID: 1, Title: "Hello World", Slug: "hello-world"},
		{ID: 2, Title: "Hello World", Slug: "hello-world-2"},
		{ID: 3, Title: "!!!", Slug: "article-3"},
	}, report.Assigned)

	// A second run has nothing to do
	report, err = h.services.Article.BackfillSlugs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Missing)
	assert.Empty(t, report.Assigned)
}

func TestArticleService_BackfillReportsFailures(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	h.articleRepo.Seed(&models.Article{Title: "One"})
	h.articleRepo.SlugExistsError = errors.New("lookup failed")

	report, err := h.services.Article.BackfillSlugs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "lookup failed")
}

func TestArticleService_List(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	h.articleRepo.Seed(&models.Article{Title: "Published", Published: true, Tags: models.Tags{"go"}})
	h.articleRepo.Seed(&models.Article{Title: "Draft"})

	articles, err := h.services.Article.List(ctx, models.ArticleFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Published", articles[0].Title)

	articles, err = h.services.Article.List(ctx, models.ArticleFilter{})
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestContactService_Lifecycle(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	contact, err := h.services.Contact.Submit(ctx, &models.ContactInput{
		Name:    "  Ann ",
		Email:   "ann@example.com",
		Subject: "Hello",
		Message: "Is this thing on?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann", contact.Name)
	assert.False(t, contact.Read)

	unread, _ := h.services.Contact.CountUnread(ctx)
	assert.Equal(t, 1, unread)

	fetched, err := h.services.Contact.Get(ctx, contact.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Read)

	unread, _ = h.services.Contact.CountUnread(ctx)
	assert.Equal(t, 0, unread)

	require.NoError(t, h.services.Contact.Delete(ctx, contact.ID))
	assert.ErrorIs(t, h.services.Contact.Delete(ctx, contact.ID), service.ErrContactNotFound)

	_, err = h.services.Contact.Get(ctx, contact.ID)
	assert.ErrorIs(t, err, service.ErrContactNotFound)
}

func TestContactService_SubmitValidation(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.services.Contact.Submit(context.Background(), &models.ContactInput{
		Name: "Ann", Email: "nope", Subject: "Hi", Message: "Hello",
	})

	var validationErr *service.ValidationErrors
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "email", validationErr.Errors[0].Field)
	assert.Empty(t, h.contactRepo.Contacts)
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	token, err := h.services.Auth.Login(ctx, "admin", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, models.TokenTypeBearer, token.TokenType)

	subject, err := h.services.Auth.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)

	_, err = h.services.Auth.ValidateToken(token.AccessToken + "x")
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	_, err = h.services.Auth.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestAuthService_LoginFailures(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	_, err := h.services.Auth.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = h.services.Auth.Login(ctx, "someone", "correct-horse")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = h.services.Auth.Login(ctx, "", "")
	var validationErr *service.ValidationErrors
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Errors, 2)
}
