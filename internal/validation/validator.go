package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/news-cms-api/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Column limits of the news and contacts tables
const (
	MaxTitleLength   = 255
	MaxSummaryLength = 500
	MaxNameLength    = 255
	MaxEmailLength   = 255
	MaxSubjectLength = 500
)

// AllowedImageExtensions lists the accepted upload extensions
var AllowedImageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator provides validation methods
type Validator struct {
	maxImageSize int64
}

// NewValidator creates a new validator instance
func NewValidator(maxImageSize int64) *Validator {
	return &Validator{maxImageSize: maxImageSize}
}

// MaxImageSize returns the largest accepted upload in bytes
func (v *Validator) MaxImageSize() int64 {
	return v.maxImageSize
}

// ValidateArticleInput validates the fields of a new article
func (v *Validator) ValidateArticleInput(input *models.ArticleInput) []ValidationError {
	var errors []ValidationError

	errors = appendText(errors, "title", input.Title, MaxTitleLength)
	errors = appendText(errors, "summary", input.Summary, MaxSummaryLength)

	if strings.TrimSpace(input.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}

	return errors
}

// ValidateArticleUpdate validates the fields present in an article update
func (v *Validator) ValidateArticleUpdate(update *models.ArticleUpdate) []ValidationError {
	var errors []ValidationError

	if update.Title != nil {
		errors = appendText(errors, "title", *update.Title, MaxTitleLength)
	}
	if update.Summary != nil {
		errors = appendText(errors, "summary", *update.Summary, MaxSummaryLength)
	}
	if update.Content != nil && strings.TrimSpace(*update.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content must not be empty"})
	}

	return errors
}

// ValidateContact validates a contact form submission
func (v *Validator) ValidateContact(input *models.ContactInput) []ValidationError {
	var errors []ValidationError

	errors = appendText(errors, "name", input.Name, MaxNameLength)

	email := strings.TrimSpace(input.Email)
	if email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "email is required"})
	} else if utf8.RuneCountInString(email) > MaxEmailLength || !emailRegex.MatchString(email) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: input.Email})
	}

	errors = appendText(errors, "subject", input.Subject, MaxSubjectLength)

	if strings.TrimSpace(input.Message) == "" {
		errors = append(errors, ValidationError{Field: "message", Message: "message is required"})
	}

	return errors
}

// ValidateImage checks an uploaded image's extension and size
func (v *Validator) ValidateImage(filename string, size int64) []ValidationError {
	var errors []ValidationError

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if filename == "" || !AllowedImageExtensions[ext] {
		errors = append(errors, ValidationError{
			Field:   "image",
			Message: "invalid image type, allowed: jpg, jpeg, png, webp",
			Value:   filename,
		})
	}

	if v.maxImageSize > 0 && size > v.maxImageSize {
		errors = append(errors, ValidationError{
			Field:   "image",
			Message: fmt.Sprintf("image size exceeds maximum allowed size of %dMB", v.maxImageSize/(1024*1024)),
		})
	}

	return errors
}

// appendText checks that a text field is present and within its column limit
func appendText(errors []ValidationError, field, value string, maxLength int) []ValidationError {
	if strings.TrimSpace(value) == "" {
		return append(errors, ValidationError{Field: field, Message: field + " is required"})
	}
	if n := utf8.RuneCountInString(value); n > maxLength {
		return append(errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s exceeds maximum of %d characters (has %d)", field, maxLength, n),
		})
	}
	return errors
}
