// Package quotes provides database operations for book quotes.
package quotes

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/safhaapp/safha/internal/entities"
)

var ErrQuoteNotFound = errors.New("quote not found")

// Repository handles all quote database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new quotes repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateQuote persists a new quote.
func (r *Repository) CreateQuote(quote *entities.Quote) error {
	quote.IsActive = true
	if err := r.db.Create(quote).Error; err != nil {
		return fmt.Errorf("failed to create quote: %w", err)
	}
	return nil
}

// GetQuoteByID retrieves an active quote by ID.
func (r *Repository) GetQuoteByID(id uint) (*entities.Quote, error) {
	var quote entities.Quote
	err := r.db.Preload("Book").Where("id = ? AND is_active = ?", id, true).First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// GetQuotesForUser returns a user's active quotes, newest first.
func (r *Repository) GetQuotesForUser(userID uint, limit, offset int) ([]entities.Quote, int64, error) {
	return r.list("user_id = ?", userID, limit, offset)
}

// GetQuotesForBook returns a book's active quotes, newest first.
func (r *Repository) GetQuotesForBook(bookID uint, limit, offset int) ([]entities.Quote, int64, error) {
	return r.list("book_id = ?", bookID, limit, offset)
}

func (r *Repository) list(cond string, id uint, limit, offset int) ([]entities.Quote, int64, error) {
	var quotes []entities.Quote
	var total int64

	base := r.db.Model(&entities.Quote{}).Where(cond, id).Where("is_active = ?", true)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.Preload("Book").Where(cond, id).Where("is_active = ?", true).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	err := q.Find(&quotes).Error
	return quotes, total, err
}

// DeleteQuote soft-deletes a quote owned by userID.
func (r *Repository) DeleteQuote(id, userID uint) error {
	result := r.db.Model(&entities.Quote{}).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to delete quote: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrQuoteNotFound
	}
	return nil
}
