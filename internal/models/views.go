package models

import "time"

// ArticleResponse is the full representation of an article returned by the API
type ArticleResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Slug      *string   `json:"slug"`
	ImageURL  *string   `json:"image_url"`
	Published bool      `json:"published"`
	AuthorID  *int64    `json:"author_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ArticleListItem is the condensed representation used by public listings
type ArticleListItem struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Tags      []string  `json:"tags"`
	Slug      *string   `json:"slug"`
	ImageURL  *string   `json:"image_url"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
}

// NewArticleResponse builds the API view of an article. The article is not modified.
func NewArticleResponse(a *Article) ArticleResponse {
	return ArticleResponse{
		ID:        a.ID,
		Title:     a.Title,
		Summary:   a.Summary,
		Content:   a.Content,
		Tags:      copyTags(a.Tags),
		Slug:      optionalString(a.Slug),
		ImageURL:  a.ImageURL(),
		Published: a.Published,
		AuthorID:  a.AuthorID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// NewArticleListItem builds the listing view of an article
func NewArticleListItem(a *Article) ArticleListItem {
	return ArticleListItem{
		ID:        a.ID,
		Title:     a.Title,
		Summary:   a.Summary,
		Tags:      copyTags(a.Tags),
		Slug:      optionalString(a.Slug),
		ImageURL:  a.ImageURL(),
		Published: a.Published,
		CreatedAt: a.CreatedAt,
	}
}

// NewArticleResponses maps a slice of articles to full views
func NewArticleResponses(articles []*Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, NewArticleResponse(a))
	}
	return out
}

// NewArticleListItems maps a slice of articles to listing views
func NewArticleListItems(articles []*Article) []ArticleListItem {
	out := make([]ArticleListItem, 0, len(articles))
	for _, a := range articles {
		out = append(out, NewArticleListItem(a))
	}
	return out
}

func copyTags(tags Tags) []string {
	normalized := NormalizeTags(tags)
	out := make([]string, len(normalized))
	copy(out, normalized)
	return out
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
