package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/news-cms-api/internal/models"
	"github.com/news-cms-api/internal/service"
	"github.com/rs/zerolog"
)

// ContactHandler handles contact form endpoints
type ContactHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(services *service.Services, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		services: services,
		log:      log.With().Str("handler", "contact").Logger(),
	}
}

// Submit handles POST /contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var input models.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	contact, err := h.services.Contact.Submit(c.Request.Context(), &input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Contact form submitted successfully",
		"id":      contact.ID,
	})
}

// List handles GET /contact
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.services.Contact.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// Get handles GET /contact/:id and marks the submission read
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "Contact not found")
	if !ok {
		return
	}

	contact, err := h.services.Contact.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// Delete handles DELETE /contact/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "Contact not found")
	if !ok {
		return
	}

	if err := h.services.Contact.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully"})
}
