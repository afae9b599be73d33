package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/news-cms-api/internal/models"
	"github.com/news-cms-api/internal/service"
	"github.com/rs/zerolog"
)

// NewsHandler handles the public news endpoints
type NewsHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(services *service.Services, log zerolog.Logger) *NewsHandler {
	return &NewsHandler{
		services: services,
		log:      log.With().Str("handler", "news").Logger(),
	}
}

// List handles GET /news?search=&tag=
func (h *NewsHandler) List(c *gin.Context) {
	filter := models.ArticleFilter{
		Search:        c.Query("search"),
		Tag:           c.Query("tag"),
		PublishedOnly: true,
	}

	articles, err := h.services.Article.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.NewArticleListItems(articles))
}

// Get handles GET /news/:id
func (h *NewsHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "News not found")
	if !ok {
		return
	}

	article, err := h.services.Article.Get(c.Request.Context(), id, true)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.NewArticleResponse(article))
}

// GetBySlug handles GET /news/by-slug/:slug
func (h *NewsHandler) GetBySlug(c *gin.Context) {
	article, err := h.services.Article.GetBySlug(c.Request.Context(), c.Param("slug"), true)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, models.NewArticleResponse(article))
}

// Image handles GET /news/image/:id
func (h *NewsHandler) Image(c *gin.Context) {
	id, ok := parseID(c, "id", "Image not found")
	if !ok {
		return
	}

	image, err := h.services.Article.Image(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if image.Filename != "" {
		c.Header("Content-Disposition", `inline; filename="`+sanitizeFilename(image.Filename)+`"`)
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, image.MimeType, image.Data)
}

// sanitizeFilename keeps a stored filename safe for a quoted header value
func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '"' || r == '\\' {
			return -1
		}
		return r
	}, name)
}
