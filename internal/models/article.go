package models

import (
	"strconv"
	"time"
)

// ImageKind tags where an article's image comes from
type ImageKind int

const (
	// ImageNone means the article has no image
	ImageNone ImageKind = iota
	// ImageExternal is a legacy externally stored image referenced by URL
	ImageExternal
	// ImageInline is an image stored as bytes in the article row
	ImageInline
)

// ImageSource is the image attached to an article. Only the fields of the
// active kind are meaningful.
type ImageSource struct {
	Kind ImageKind

	// ImageExternal
	URL string

	// ImageInline. Data may be nil when the row was loaded without the blob.
	Data     []byte
	Filename string
	MimeType string
}

// ExternalImage returns a legacy URL image source, or none for an empty URL
func ExternalImage(url string) ImageSource {
	if url == "" {
		return ImageSource{}
	}
	return ImageSource{Kind: ImageExternal, URL: url}
}

// InlineImage returns an image source backed by stored bytes
func InlineImage(data []byte, filename, mimeType string) ImageSource {
	return ImageSource{Kind: ImageInline, Data: data, Filename: filename, MimeType: mimeType}
}

// Article represents a news article in the system
type Article struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Summary   string      `json:"summary"`
	Content   string      `json:"content"`
	Tags      Tags        `json:"tags"`
	Slug      string      `json:"slug"` // empty until first assigned
	Image     ImageSource `json:"-"`
	Published bool        `json:"published"`
	AuthorID  *int64      `json:"author_id,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ImagePath returns the path an inline image of the article is served from
func ImagePath(id int64) string {
	return "/news/image/" + strconv.FormatInt(id, 10)
}

// ImageURL derives the public image location. An inline image always wins
// over a legacy URL; nil means the article has no image.
func (a *Article) ImageURL() *string {
	switch {
	case a.Image.Kind == ImageInline:
		url := ImagePath(a.ID)
		return &url
	case a.Image.Kind == ImageExternal && a.Image.URL != "":
		url := a.Image.URL
		return &url
	default:
		return nil
	}
}

// ArticleImage is an inline image ready to be served
type ArticleImage struct {
	ArticleID int64
	Data      []byte
	Filename  string
	MimeType  string
}

// ImageUpload is an image received from a client
type ImageUpload struct {
	Filename string
	MimeType string
	Data     []byte
}

// ArticleInput holds the fields for creating an article
type ArticleInput struct {
	Title     string
	Summary   string
	Content   string
	Tags      []string
	Published bool
	Slug      string // desired base, still normalized and de-duplicated
	Image     *ImageUpload
}

// ArticleUpdate holds the fields for updating an article. Nil fields are left unchanged.
type ArticleUpdate struct {
	Title     *string
	Summary   *string
	Content   *string
	Tags      *[]string
	Published *bool
	Slug      *string
	Image     *ImageUpload
}

// ArticleFilter narrows article listings
type ArticleFilter struct {
	Search        string // matched against title and summary
	Tag           string
	PublishedOnly bool
}

// BackfillReport summarizes a slug backfill run
type BackfillReport struct {
	Total    int              `json:"total"`
	Missing  int              `json:"missing"`
	Updated  int              `json:"updated"`
	Failed   int              `json:"failed"`
	Assigned []SlugAssignment `json:"assigned"`
	Errors   []string         `json:"errors,omitempty"`
}

// SlugAssignment records a slug given to an article during backfill
type SlugAssignment struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}
