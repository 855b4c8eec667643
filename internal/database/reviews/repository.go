// Package reviews provides database operations for book reviews.
package reviews

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/safhaapp/safha/internal/entities"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateReview persists a new review after validating the rating range.
func (r *Repository) CreateReview(review *entities.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return ErrInvalidRating
	}
	review.IsActive = true
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetReviewByID retrieves an active review by ID.
func (r *Repository) GetReviewByID(id uint) (*entities.Review, error) {
	var review entities.Review
	err := r.db.Preload("Book").Where("id = ? AND is_active = ?", id, true).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetReviewsForUser returns a user's active reviews, newest first.
func (r *Repository) GetReviewsForUser(userID uint, limit, offset int) ([]entities.Review, int64, error) {
	return r.list("user_id = ?", userID, limit, offset)
}

// GetReviewsForBook returns a book's active reviews, newest first.
func (r *Repository) GetReviewsForBook(bookID uint, limit, offset int) ([]entities.Review, int64, error) {
	return r.list("book_id = ?", bookID, limit, offset)
}

func (r *Repository) list(cond string, id uint, limit, offset int) ([]entities.Review, int64, error) {
	var reviews []entities.Review
	var total int64

	base := r.db.Model(&entities.Review{}).Where(cond, id).Where("is_active = ?", true)
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

	err := q.Find(&reviews).Error
	return reviews, total, err
}

// AverageRatingForBook returns the mean rating over a book's active reviews,
// or 0 when there are none.
func (r *Repository) AverageRatingForBook(bookID uint) (float64, error) {
	var avg *float64
	err := r.db.Model(&entities.Review{}).
		Select("AVG(rating)").
		Where("book_id = ? AND is_active = ?", bookID, true).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// DeleteReview soft-deletes a review owned by userID.
func (r *Repository) DeleteReview(id, userID uint) error {
	result := r.db.Model(&entities.Review{}).
		Where("id = ? AND user_id = ? AND is_active = ?", id, userID, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
