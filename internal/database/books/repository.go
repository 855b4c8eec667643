// Package books provides database operations for the book catalog.
//
// Book creation consumes an already-validated request: title/author and the
// optional metadata fields arrive clamped by the caller (the web layer caps
// them at binding time). The repository only enforces existence and
// soft-delete semantics.
package books

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/safhaapp/safha/internal/entities"
)

var ErrBookNotFound = errors.New("book not found")

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook persists a new catalog entry. The owner is the user who first
// added the book; it is historical information, not a display relationship.
func (r *Repository) CreateBook(book *entities.Book, ownerID uint) error {
	book.IsActive = true
	if ownerID > 0 {
		book.OwnerID = &ownerID
	}
	if err := r.db.Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// FindOrCreateBook returns an existing active book with the same title and
// author, or creates one. Re-adding a book someone else already catalogued
// must not duplicate the entry.
func (r *Repository) FindOrCreateBook(book *entities.Book, ownerID uint) (*entities.Book, error) {
	var existing entities.Book
	err := r.db.Where("title = ? AND author = ? AND is_active = ?", book.Title, book.Author, true).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up book: %w", err)
	}

	if err := r.CreateBook(book, ownerID); err != nil {
		return nil, err
	}
	return book, nil
}

// GetBookByID retrieves an active book by ID.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBookByISBN retrieves an active book by ISBN.
func (r *Repository) GetBookByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("isbn = ? AND is_active = ?", isbn, true).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// SearchBooks finds active books matching the query in title or author.
func (r *Repository) SearchBooks(query string, limit, offset int) ([]entities.Book, int64, error) {
	var books []entities.Book
	var total int64
	pattern := "%" + query + "%"

	base := r.db.Model(&entities.Book{}).
		Where("is_active = ?", true).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", pattern, pattern)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.Where("is_active = ?", true).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", pattern, pattern).
		Order("title ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	err := q.Find(&books).Error
	return books, total, err
}

// GetAllBooks returns active books with pagination, newest first.
func (r *Repository) GetAllBooks(limit, offset int) ([]entities.Book, int64, error) {
	var books []entities.Book
	var total int64

	if err := r.db.Model(&entities.Book{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.Where("is_active = ?", true).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	err := q.Find(&books).Error
	return books, total, err
}

// DeleteBook performs a soft delete.
func (r *Repository) DeleteBook(id uint) error {
	result := r.db.Model(&entities.Book{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}
