// Package library implements the reading-status lifecycle for (user, book)
// pairs.
//
// All three write paths the web layer exposes (add to library, change status,
// update progress) funnel into the single SetStatus/applyTransitionRules
// algorithm, so a pair can never accumulate more than one active status row
// and the derived dates stay consistent no matter which surface touched them.
//
// # Usage
//
//	repo := library.NewRepository(db, counters.NewService())
//	status, err := repo.SetStatus(userID, bookID, entities.StatusCurrentlyReading)
package library

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/safhaapp/safha/internal/database/counters"
	"github.com/safhaapp/safha/internal/entities"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrInvalidStatus  = errors.New("invalid reading status")
	ErrStatusNotFound = errors.New("book is not in the library")
)

// defaultReadingBackfill is how far before the finish date we assume reading
// started when a book is marked read without ever having been started.
const defaultReadingBackfill = 7 * 24 * time.Hour

// Repository handles all reading-status database operations.
type Repository struct {
	db       *gorm.DB
	counters *counters.Service
}

// NewRepository creates a new library repository.
func NewRepository(db *gorm.DB, counterService *counters.Service) *Repository {
	return &Repository{db: db, counters: counterService}
}

// SetStatus assigns a reading status to a (user, book) pair.
//
// The whole read-modify-write sequence runs in one transaction: the lookup
// considers inactive rows so a previously removed book reactivates its old
// row instead of inserting a duplicate, and the counter adjustment commits
// or rolls back together with the status row.
func (r *Repository) SetStatus(userID, bookID uint, requested entities.ReadingStatus) (*entities.UserBookStatus, error) {
	if !requested.Valid() {
		return nil, ErrInvalidStatus
	}

	var row entities.UserBookStatus

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := checkBookExists(tx, bookID); err != nil {
			return err
		}

		// Any row for the pair, active or not. Active rows win; among
		// inactive rows the most recently touched one is reactivated.
		found := true
		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).
			Order("is_active DESC, updated_at DESC").
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			found = false
		} else if err != nil {
			return fmt.Errorf("failed to look up status row: %w", err)
		}

		now := time.Now()
		previous := entities.StatusWantToRead

		switch {
		case !found:
			row = entities.UserBookStatus{
				UserID:   userID,
				BookID:   bookID,
				IsActive: true,
			}
		case !row.IsActive:
			// Reactivation is not a transition from a real prior state:
			// the previous status stays want_to_read for the counter delta.
			row.IsActive = true
		default:
			previous = row.Status
		}

		applyTransitionRules(&row, previous, requested, now)

		if err := saveStatusRow(tx, &row); err != nil {
			return err
		}

		return r.counters.AdjustReadCount(tx, userID, previous, requested)
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateProgress records the current page and notes for an active status row.
// When the book's page count is known and the reported page reaches it, the
// status is promoted to read through the normal transition rules.
func (r *Repository) UpdateProgress(userID, bookID uint, currentPage int, notes string) (*entities.UserBookStatus, error) {
	var row entities.UserBookStatus

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND book_id = ? AND is_active = ?", userID, bookID, true).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStatusNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up status row: %w", err)
		}

		var book entities.Book
		err = tx.Where("id = ? AND is_active = ?", bookID, true).First(&book).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up book: %w", err)
		}

		now := time.Now()
		row.CurrentPage = &currentPage
		row.Notes = clampNotes(notes)
		row.UpdatedAt = now

		if book.PageCount != nil && currentPage >= *book.PageCount && row.Status != entities.StatusRead {
			previous := row.Status
			applyTransitionRules(&row, previous, entities.StatusRead, now)
			if err := saveStatusRow(tx, &row); err != nil {
				return err
			}
			return r.counters.AdjustReadCount(tx, userID, previous, entities.StatusRead)
		}

		return saveStatusRow(tx, &row)
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// RemoveFromLibrary soft-deletes the active status row for a pair. The read
// counter is adjusted down in the same transaction when the removed row was
// read; otherwise a remove followed by a re-add as read would double count.
func (r *Repository) RemoveFromLibrary(userID, bookID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var row entities.UserBookStatus
		err := tx.Where("user_id = ? AND book_id = ? AND is_active = ?", userID, bookID, true).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStatusNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up status row: %w", err)
		}

		row.IsActive = false
		row.UpdatedAt = time.Now()
		if err := saveStatusRow(tx, &row); err != nil {
			return err
		}

		return r.counters.AdjustReadCount(tx, userID, row.Status, entities.StatusWantToRead)
	})
}

// GetStatus returns the active status row for a pair.
func (r *Repository) GetStatus(userID, bookID uint) (*entities.UserBookStatus, error) {
	var row entities.UserBookStatus
	err := r.db.Where("user_id = ? AND book_id = ? AND is_active = ?", userID, bookID, true).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStatusNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetLibrary returns the user's active status rows with their books,
// most recently updated first, with pagination.
func (r *Repository) GetLibrary(userID uint, limit, offset int) ([]entities.UserBookStatus, int64, error) {
	var rows []entities.UserBookStatus
	var total int64

	query := r.db.Model(&entities.UserBookStatus{}).
		Where("user_id = ? AND is_active = ?", userID, true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.db.Preload("Book").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&rows).Error
	return rows, total, err
}

// Summary holds the per-status totals for a user's library.
type Summary struct {
	TotalBooks            int64 `json:"total_books"`
	WantToReadCount       int64 `json:"want_to_read_count"`
	CurrentlyReadingCount int64 `json:"currently_reading_count"`
	ReadCount             int64 `json:"read_count"`
}

// GetStatusSummary counts the user's active status rows per status.
func (r *Repository) GetStatusSummary(userID uint) (*Summary, error) {
	type statusCount struct {
		Status entities.ReadingStatus
		Count  int64
	}

	var results []statusCount
	err := r.db.Model(&entities.UserBookStatus{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ? AND is_active = ?", userID, true).
		Group("status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for _, result := range results {
		summary.TotalBooks += result.Count
		switch result.Status {
		case entities.StatusWantToRead:
			summary.WantToReadCount = result.Count
		case entities.StatusCurrentlyReading:
			summary.CurrentlyReadingCount = result.Count
		case entities.StatusRead:
			summary.ReadCount = result.Count
		}
	}
	return summary, nil
}

// applyTransitionRules mutates row for a transition from previous to next.
// The "if unset" guards make repeated assignments of the same status
// idempotent with respect to the derived dates.
func applyTransitionRules(row *entities.UserBookStatus, previous, next entities.ReadingStatus, now time.Time) {
	row.Status = next
	row.UpdatedAt = now
	row.Notes = clampNotes(row.Notes)

	switch next {
	case entities.StatusCurrentlyReading:
		if row.StartedReadingDate == nil {
			started := now
			row.StartedReadingDate = &started
			if row.CurrentPage == nil {
				page := 1
				row.CurrentPage = &page
			}
		}
	case entities.StatusRead:
		if row.FinishedReadingDate == nil {
			finished := now
			row.FinishedReadingDate = &finished
			if row.StartedReadingDate == nil {
				// Never started explicitly: assume a week of reading.
				started := now.Add(-defaultReadingBackfill)
				row.StartedReadingDate = &started
			}
		}
	case entities.StatusWantToRead:
		if previous == entities.StatusCurrentlyReading || previous == entities.StatusRead {
			row.StartedReadingDate = nil
			row.FinishedReadingDate = nil
			row.CurrentPage = nil
		}
	}
}

func checkBookExists(tx *gorm.DB, bookID uint) error {
	var book entities.Book
	err := tx.Select("id").Where("id = ? AND is_active = ?", bookID, true).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrBookNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up book: %w", err)
	}
	return nil
}

// saveStatusRow persists a status row. Save writes every column, which is
// what the want_to_read reset needs: cleared dates must reach the database
// as NULL, not be skipped as zero values.
func saveStatusRow(tx *gorm.DB, row *entities.UserBookStatus) error {
	if row.ID == 0 {
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("failed to create status row: %w", err)
		}
		return nil
	}
	if err := tx.Save(row).Error; err != nil {
		return fmt.Errorf("failed to update status row: %w", err)
	}
	return nil
}

// clampNotes truncates notes to the maximum length counted in runes, not
// bytes, so multi-byte text is never cut mid-rune.
func clampNotes(notes string) string {
	if utf8.RuneCountInString(notes) <= entities.MaxStatusNotesLength {
		return notes
	}
	return string([]rune(notes)[:entities.MaxStatusNotesLength])
}
