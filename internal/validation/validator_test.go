package validation

import (
	"strings"
	"testing"

	"github.com/news-cms-api/internal/models"
)

const testMaxImageSize = 10 * 1024 * 1024

func strPtr(s string) *string { return &s }

func fieldsOf(errors []ValidationError) []string {
	fields := make([]string, 0, len(errors))
	for _, e := range errors {
		fields = append(fields, e.Field)
	}
	return fields
}

func checkErrors(t *testing.T, errors []ValidationError, wantErrors int, wantFields []string) {
	t.Helper()
	if len(errors) != wantErrors {
		t.Errorf("Expected %d errors, got %d: %v", wantErrors, len(errors), errors)
	}
	got := fieldsOf(errors)
	for _, field := range wantFields {
		found := false
		for _, f := range got {
			if f == field {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected error for field %q, got fields %v", field, got)
		}
	}
}

func TestValidateArticleInput(t *testing.T) {
	validator := NewValidator(testMaxImageSize)

	tests := []struct {
		name       string
		input      *models.ArticleInput
		wantErrors int
		wantFields []string
	}{
		{
			name:       "valid article",
			input:      &models.ArticleInput{Title: "Hello World", Summary: "Short", Content: "Body"},
			wantErrors: 0,
		},
		{
			name:       "missing everything",
			input:      &models.ArticleInput{},
			wantErrors: 3,
			wantFields: []string{"title", "summary", "content"},
		},
		{
			name:       "whitespace title",
			input:      &models.ArticleInput{Title: "   ", Summary: "s", Content: "c"},
			wantErrors: 1,
			wantFields: []string{"title"},
		},
		{
			name:       "title too long",
			input:      &models.ArticleInput{Title: strings.Repeat("a", MaxTitleLength+1), Summary: "s", Content: "c"},
			wantErrors: 1,
			wantFields: []string{"title"},
		},
		{
			name:       "multibyte title at the limit",
			input:      &models.ArticleInput{Title: strings.Repeat("é", MaxTitleLength), Summary: "s", Content: "c"},
			wantErrors: 0,
		},
		{
			name:       "summary too long",
			input:      &models.ArticleInput{Title: "t", Summary: strings.Repeat("b", MaxSummaryLength+1), Content: "c"},
			wantErrors: 1,
			wantFields: []string{"summary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkErrors(t, validator.ValidateArticleInput(tt.input), tt.wantErrors, tt.wantFields)
		})
	}
}

func TestValidateArticleUpdate(t *testing.T) {
	validator := NewValidator(testMaxImageSize)

	tests := []struct {
		name       string
		update     *models.ArticleUpdate
		wantErrors int
		wantFields []string
	}{
		{
			name:       "empty update",
			update:     &models.ArticleUpdate{},
			wantErrors: 0,
		},
		{
			name:       "new title",
			update:     &models.ArticleUpdate{Title: strPtr("Better title")},
			wantErrors: 0,
		},
		{
			name:       "blank title",
			update:     &models.ArticleUpdate{Title: strPtr("")},
			wantErrors: 1,
			wantFields: []string{"title"},
		},
		{
			name:       "blank content",
			update:     &models.ArticleUpdate{Content: strPtr("  ")},
			wantErrors: 1,
			wantFields: []string{"content"},
		},
		{
			name:       "slug is not checked here",
			update:     &models.ArticleUpdate{Slug: strPtr("!!!")},
			wantErrors: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkErrors(t, validator.ValidateArticleUpdate(tt.update), tt.wantErrors, tt.wantFields)
		})
	}
}

func TestValidateContact(t *testing.T) {
	validator := NewValidator(testMaxImageSize)

	valid := models.ContactInput{Name: "Ann", Email: "ann@example.com", Subject: "Hello", Message: "Hi there"}

	tests := []struct {
		name       string
		mutate     func(c *models.ContactInput)
		wantErrors int
		wantFields []string
	}{
		{
			name:       "valid contact",
			mutate:     func(c *models.ContactInput) {},
			wantErrors: 0,
		},
		{
			name:       "invalid email",
			mutate:     func(c *models.ContactInput) { c.Email = "not-an-email" },
			wantErrors: 1,
			wantFields: []string{"email"},
		},
		{
			name:       "missing email",
			mutate:     func(c *models.ContactInput) { c.Email = "" },
			wantErrors: 1,
			wantFields: []string{"email"},
		},
		{
			name: "missing everything else",
			mutate: func(c *models.ContactInput) {
				c.Name = ""
				c.Subject = " "
				c.Message = ""
			},
			wantErrors: 3,
			wantFields: []string{"name", "subject", "message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			checkErrors(t, validator.ValidateContact(&input), tt.wantErrors, tt.wantFields)
		})
	}
}

func TestValidateImage(t *testing.T) {
	validator := NewValidator(1024 * 1024)

	tests := []struct {
		name       string
		filename   string
		size       int64
		wantErrors int
	}{
		{"jpg", "photo.jpg", 100, 0},
		{"uppercase extension", "PHOTO.JPEG", 100, 0},
		{"png", "a.png", 100, 0},
		{"webp", "a.webp", 100, 0},
		{"gif rejected", "a.gif", 100, 1},
		{"no extension", "image", 100, 1},
		{"empty filename", "", 100, 1},
		{"exactly max size", "a.png", 1024 * 1024, 0},
		{"too large", "a.png", 1024*1024 + 1, 1},
		{"bad type and too large", "a.exe", 2 * 1024 * 1024, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkErrors(t, validator.ValidateImage(tt.filename, tt.size), tt.wantErrors, nil)
		})
	}
}

func TestValidationErrorMessages(t *testing.T) {
	validator := NewValidator(2 * 1024 * 1024)

	errors := validator.ValidateImage("a.png", 3*1024*1024)
	if len(errors) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errors))
	}
	if !strings.Contains(errors[0].Message, "2MB") {
		t.Errorf("Expected the limit in the message, got %q", errors[0].Message)
	}

	errors = validator.ValidateArticleInput(&models.ArticleInput{Title: strings.Repeat("x", 300), Summary: "s", Content: "c"})
	if len(errors) != 1 || !strings.Contains(errors[0].Message, "has 300") {
		t.Errorf("Expected a length message, got %v", errors)
	}
}

func BenchmarkValidateArticleInput(b *testing.B) {
	validator := NewValidator(testMaxImageSize)
	input := &models.ArticleInput{
		Title:   "Benchmark Article",
		Summary: "A summary for the benchmark",
		Content: "Body text",
		Tags:    []string{"test", "benchmark"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		validator.ValidateArticleInput(input)
	}
}
