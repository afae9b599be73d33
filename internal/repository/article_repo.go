package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/news-cms-api/internal/database"
	"github.com/news-cms-api/internal/models"
)

// articleColumns never selects image_data; blobs are only read by GetImage
const articleColumns = `
	id, title, summary, content, tags, slug, image_url,
	image_data IS NOT NULL AS has_image_data, image_filename, image_mimetype,
	published, author_id, created_at, updated_at`

// articleRow is the database shape of a news row
type articleRow struct {
	ID            int64          `db:"id"`
	Title         string         `db:"title"`
	Summary       string         `db:"summary"`
	Content       string         `db:"content"`
	Tags          models.Tags    `db:"tags"`
	Slug          sql.NullString `db:"slug"`
	ImageURL      sql.NullString `db:"image_url"`
	HasImageData  bool           `db:"has_image_data"`
	ImageFilename sql.NullString `db:"image_filename"`
	ImageMimetype sql.NullString `db:"image_mimetype"`
	Published     bool           `db:"published"`
	AuthorID      sql.NullInt64  `db:"author_id"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (row *articleRow) toModel() *models.Article {
	article := &models.Article{
		ID:        row.ID,
		Title:     row.Title,
		Summary:   row.Summary,
		Content:   row.Content,
		Tags:      row.Tags,
		Slug:      row.Slug.String,
		Published: row.Published,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if article.Tags == nil {
		article.Tags = models.Tags{}
	}
	if row.AuthorID.Valid {
		authorID := row.AuthorID.Int64
		article.AuthorID = &authorID
	}

	switch {
	case row.HasImageData:
		article.Image = models.InlineImage(nil, row.ImageFilename.String, row.ImageMimetype.String)
	case row.ImageURL.Valid:
		article.Image = models.ExternalImage(row.ImageURL.String)
	}
	return article
}

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db   *database.DB
	q    sqlx.ExtContext
	inTx bool
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db, q: db.DB}
}

// InTx runs fn against a repository bound to one transaction. Nested calls reuse the outer transaction.
func (r *articleRepo) InTx(ctx context.Context, fn func(repo ArticleRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	return r.db.InTx(ctx, func(tx *sqlx.Tx) error {
		return fn(&articleRepo{db: r.db, q: tx, inTx: true})
	})
}

// Create inserts a new article and fills in its ID and timestamps
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	imageURL, _, data, filename, mimetype := imageColumns(article.Image)

	query := `
		INSERT INTO news (title, summary, content, tags, slug, image_url, image_data,
			image_filename, image_mimetype, published, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRowxContext(ctx, query,
		article.Title, article.Summary, article.Content, article.Tags, nullString(article.Slug),
		imageURL, data, filename, mimetype, article.Published, nullInt64(article.AuthorID),
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

// Update writes all mutable fields of an article. An inline image whose bytes
// were not loaded keeps the stored blob.
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	imageURL, replace, data, filename, mimetype := imageColumns(article.Image)

	query := `
		UPDATE news SET
			title = $1, summary = $2, content = $3, tags = $4, slug = $5,
			published = $6, image_url = $7,
			image_data = CASE WHEN $8 THEN $9::bytea ELSE image_data END,
			image_filename = CASE WHEN $8 THEN $10 ELSE image_filename END,
			image_mimetype = CASE WHEN $8 THEN $11 ELSE image_mimetype END,
			updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at
	`
	err := r.q.QueryRowxContext(ctx, query,
		article.Title, article.Summary, article.Content, article.Tags, nullString(article.Slug),
		article.Published, imageURL, replace, data, filename, mimetype, article.ID,
	).Scan(&article.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("article %d: %w", article.ID, sql.ErrNoRows)
	}
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

// UpdateSlug sets only the slug of an article
func (r *articleRepo) UpdateSlug(ctx context.Context, id int64, slug string) error {
	_, err := r.q.ExecContext(ctx,
		"UPDATE news SET slug = $1, updated_at = NOW() WHERE id = $2",
		nullString(slug), id,
	)
	return mapWriteError(err)
}

// Delete removes an article, reporting whether it existed
func (r *articleRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.q.ExecContext(ctx, "DELETE FROM news WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	return r.getOne(ctx, "SELECT "+articleColumns+" FROM news WHERE id = $1", id)
}

// GetBySlug retrieves an article by slug
func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return r.getOne(ctx, "SELECT "+articleColumns+" FROM news WHERE slug = $1", slug)
}

func (r *articleRepo) getOne(ctx context.Context, query string, args ...interface{}) (*models.Article, error) {
	var row articleRow
	err := sqlx.GetContext(ctx, r.q, &row, query, args...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

// SlugExists checks if another article already uses the given slug
func (r *articleRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.q, &exists,
		"SELECT EXISTS(SELECT 1 FROM news WHERE slug = $1 AND id <> $2)", slug, excludeID)
	return exists, err
}

// List retrieves articles matching the filter, newest first
func (r *articleRepo) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	query, args := buildListQuery(filter)
	return r.selectMany(ctx, query, args...)
}

// ListWithoutSlug retrieves articles that have not been given a slug yet
func (r *articleRepo) ListWithoutSlug(ctx context.Context) ([]*models.Article, error) {
	return r.selectMany(ctx,
		"SELECT "+articleColumns+" FROM news WHERE slug IS NULL OR slug = '' ORDER BY id")
}

func (r *articleRepo) selectMany(ctx context.Context, query string, args ...interface{}) ([]*models.Article, error) {
	var rows []articleRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, err
	}

	articles := make([]*models.Article, 0, len(rows))
	for i := range rows {
		articles = append(articles, rows[i].toModel())
	}
	return articles, nil
}

// GetImage retrieves the inline image of an article
func (r *articleRepo) GetImage(ctx context.Context, id int64) (*models.ArticleImage, error) {
	var row struct {
		ID       int64          `db:"id"`
		Data     []byte         `db:"image_data"`
		Filename sql.NullString `db:"image_filename"`
		Mimetype sql.NullString `db:"image_mimetype"`
	}
	err := sqlx.GetContext(ctx, r.q, &row,
		"SELECT id, image_data, image_filename, image_mimetype FROM news WHERE id = $1 AND image_data IS NOT NULL", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &models.ArticleImage{
		ArticleID: row.ID,
		Data:      row.Data,
		Filename:  row.Filename.String,
		MimeType:  row.Mimetype.String,
	}, nil
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.q, &count, "SELECT COUNT(*) FROM news")
	return count, err
}

// buildListQuery assembles the listing query and its positional arguments
func buildListQuery(filter models.ArticleFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.PublishedOnly {
		conditions = append(conditions, "published = TRUE")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR summary ILIKE $%d)", len(args), len(args)))
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		args = append(args, "%"+escapeLike(tag)+"%")
		conditions = append(conditions, fmt.Sprintf("tags::text ILIKE $%d", len(args)))
	}

	query := "SELECT " + articleColumns + " FROM news"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// imageColumns flattens an image source into its column values. replace is
// false only for an inline image whose bytes were not loaded.
func imageColumns(img models.ImageSource) (imageURL sql.NullString, replace bool, data []byte, filename, mimetype sql.NullString) {
	switch img.Kind {
	case models.ImageInline:
		if img.Data == nil {
			return sql.NullString{}, false, nil, sql.NullString{}, sql.NullString{}
		}
		return sql.NullString{}, true, img.Data, nullString(img.Filename), nullString(img.MimeType)
	case models.ImageExternal:
		return nullString(img.URL), true, nil, sql.NullString{}, sql.NullString{}
	default:
		return sql.NullString{}, true, nil, sql.NullString{}, sql.NullString{}
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
