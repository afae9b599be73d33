package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/news-cms-api/internal/service"
	"github.com/rs/zerolog"
)

// respondError maps service errors to HTTP responses
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var (
		validationErr *service.ValidationErrors
		conflictErr   *service.SlugConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": validationErr.Errors,
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": conflictErr.Error(),
			"slug":  conflictErr.Slug,
		})
	case errors.Is(err, service.ErrInvalidSlug), errors.Is(err, service.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
	case errors.Is(err, service.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "News not found"})
	case errors.Is(err, service.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
	case errors.Is(err, service.ErrContactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
	default:
		log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseID reads a positive integer path parameter, answering 404 when it is not one
func parseID(c *gin.Context, name string, notFound string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
		return 0, false
	}
	return id, true
}
