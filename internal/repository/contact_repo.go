package repository

import (
	"context"
	"database/sql"

	"github.com/news-cms-api/internal/database"
	"github.com/news-cms-api/internal/models"
)

const contactColumns = "id, name, email, subject, message, read, created_at"

// contactRepo is the concrete implementation of ContactRepository
type contactRepo struct {
	db *database.DB
}

// NewContactRepo creates a new contact repository
func NewContactRepo(db *database.DB) ContactRepository {
	return &contactRepo{db: db}
}

// Create inserts a new contact submission
func (r *contactRepo) Create(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (name, email, subject, message, read)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.db.QueryRowxContext(ctx, query,
		contact.Name, contact.Email, contact.Subject, contact.Message, contact.Read,
	).Scan(&contact.ID, &contact.CreatedAt)
}

// GetByID retrieves a contact submission by ID
func (r *contactRepo) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.GetContext(ctx, &contact, "SELECT "+contactColumns+" FROM contacts WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// List retrieves all contact submissions, newest first
func (r *contactRepo) List(ctx context.Context) ([]*models.Contact, error) {
	contacts := []*models.Contact{}
	err := r.db.SelectContext(ctx, &contacts,
		"SELECT "+contactColumns+" FROM contacts ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// MarkRead flags a contact submission as read
func (r *contactRepo) MarkRead(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE contacts SET read = TRUE WHERE id = $1", id)
	return err
}

// Delete removes a contact submission, reporting whether it existed
func (r *contactRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Count returns the total number of contact submissions
func (r *contactRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM contacts")
	return count, err
}

// CountUnread returns the number of contact submissions not yet read
func (r *contactRepo) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM contacts WHERE read = FALSE")
	return count, err
}
