package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/news-cms-api/internal/config"
	"github.com/news-cms-api/internal/models"
	"github.com/news-cms-api/internal/service"
	"github.com/news-cms-api/internal/validation"
	"github.com/rs/zerolog"
)

// AdminHandler handles the administrator endpoints
type AdminHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// Login handles POST /admin/login
// Accepts form fields (username, password) or the same fields as a JSON body
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login request"})
		return
	}

	token, err := h.services.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// ListNews handles GET /admin/news, drafts included
func (h *AdminHandler) ListNews(c *gin.Context) {
	articles, err := h.services.Article.List(c.Request.Context(), models.ArticleFilter{
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.NewArticleResponses(articles))
}

// CreateNews handles POST /admin/news (multipart form)
func (h *AdminHandler) CreateNews(c *gin.Context) {
	published, err := parseFormBool("published", c.PostForm("published"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	image, err := h.readImage(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	input := &models.ArticleInput{
		Title:     c.PostForm("title"),
		Summary:   c.PostForm("summary"),
		Content:   c.PostForm("content"),
		Tags:      models.NormalizeTags(c.PostForm("tags")),
		Published: published,
		Slug:      c.PostForm("slug"),
		Image:     image,
	}

	article, err := h.services.Article.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewArticleResponse(article))
}

// UpdateNews handles PUT /admin/news/:id (multipart form, every field optional)
func (h *AdminHandler) UpdateNews(c *gin.Context) {
	id, ok := parseID(c, "id", "News not found")
	if !ok {
		return
	}

	update := &models.ArticleUpdate{}
	if value, exists := c.GetPostForm("title"); exists {
		update.Title = &value
	}
	if value, exists := c.GetPostForm("summary"); exists {
		update.Summary = &value
	}
	if value, exists := c.GetPostForm("content"); exists {
		update.Content = &value
	}
	if value, exists := c.GetPostForm("tags"); exists {
		tags := models.NormalizeTags(value)
		update.Tags = &tags
	}
	if value, exists := c.GetPostForm("published"); exists && value != "" {
		published, err := parseFormBool("published", value)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		update.Published = &published
	}
	// A blank slug field means "leave the slug alone"
	if value, exists := c.GetPostForm("slug"); exists && strings.TrimSpace(value) != "" {
		update.Slug = &value
	}

	image, err := h.readImage(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	update.Image = image

	article, err := h.services.Article.Update(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.NewArticleResponse(article))
}

// DeleteNews handles DELETE /admin/news/:id
func (h *AdminHandler) DeleteNews(c *gin.Context) {
	id, ok := parseID(c, "id", "News not found")
	if !ok {
		return
	}

	if err := h.services.Article.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "News deleted successfully"})
}

// BackfillSlugs handles POST /admin/news/backfill-slugs
func (h *AdminHandler) BackfillSlugs(c *gin.Context) {
	report, err := h.services.Article.BackfillSlugs(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// readImage returns the optional "image" upload. At most one byte more than
// the configured limit is read so oversized files fail validation.
func (h *AdminHandler) readImage(c *gin.Context) (*models.ImageUpload, error) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, imageFieldError("could not read uploaded image")
	}
	if header.Filename == "" {
		return nil, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded image: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.Upload.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded image: %w", err)
	}

	return &models.ImageUpload{
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

// parseFormBool accepts the spellings HTML forms and API clients send
func parseFormBool(field, value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "0", "off", "no", "f":
		return false, nil
	case "true", "1", "on", "yes", "t":
		return true, nil
	default:
		return false, &service.ValidationErrors{Errors: []validation.ValidationError{
			{Field: field, Message: field + " must be a boolean", Value: value},
		}}
	}
}

func imageFieldError(message string) error {
	return &service.ValidationErrors{Errors: []validation.ValidationError{
		{Field: "image", Message: message},
	}}
}
