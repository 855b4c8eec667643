// Package counters maintains the denormalized per-user counters
// (follower/following counts, read/target book counts).
//
// The adjustment methods are incremental and take the caller's transaction
// handle, so a status change or follow mutation and its counter movement
// commit or roll back as one unit. Recomputing from scratch happens only in
// RecountUser/RecountAll, which back the offline repair tooling.
package counters

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/safhaapp/safha/internal/entities"
)

// Direction selects between incrementing and decrementing follow counters.
type Direction int

const (
	Increment Direction = 1
	Decrement Direction = -1
)

// Service adjusts denormalized user counters. It is stateless; every method
// operates on the *gorm.DB it is handed.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// AdjustReadCount moves ReadBookCount by the delta implied by a status
// transition. Only transitions into or out of "read" move the counter.
// The floor at zero keeps adjustment races from driving the cache negative.
func (s *Service) AdjustReadCount(tx *gorm.DB, userID uint, previous, next entities.ReadingStatus) error {
	delta := 0
	if next == entities.StatusRead {
		delta++
	}
	if previous == entities.StatusRead {
		delta--
	}
	if delta == 0 {
		return nil
	}

	err := tx.Model(&entities.User{}).
		Where("id = ?", userID).
		Update("read_book_count", gorm.Expr("MAX(read_book_count + ?, 0)", delta)).Error
	if err != nil {
		return fmt.Errorf("failed to adjust read count for user %d: %w", userID, err)
	}
	return nil
}

// AdjustFollowCounts moves the follower count of the followed user and the
// following count of the follower together. Both updates run on the caller's
// transaction; a failure of either aborts the whole follow/unfollow.
func (s *Service) AdjustFollowCounts(tx *gorm.DB, followerID, followingID uint, dir Direction) error {
	delta := int(dir)

	err := tx.Model(&entities.User{}).
		Where("id = ?", followingID).
		Update("follower_count", gorm.Expr("MAX(follower_count + ?, 0)", delta)).Error
	if err != nil {
		return fmt.Errorf("failed to adjust follower count for user %d: %w", followingID, err)
	}

	err = tx.Model(&entities.User{}).
		Where("id = ?", followerID).
		Update("following_count", gorm.Expr("MAX(following_count + ?, 0)", delta)).Error
	if err != nil {
		return fmt.Errorf("failed to adjust following count for user %d: %w", followerID, err)
	}
	return nil
}

// RecountUser recomputes every counter for one user from the underlying
// active rows. This is the repair path only; the hot path never recounts.
func (s *Service) RecountUser(db *gorm.DB, userID uint) error {
	var followerCount, followingCount, readCount, targetCount int64

	err := db.Model(&entities.Follow{}).
		Where("following_id = ? AND is_active = ?", userID, true).
		Count(&followerCount).Error
	if err != nil {
		return fmt.Errorf("failed to count followers for user %d: %w", userID, err)
	}

	err = db.Model(&entities.Follow{}).
		Where("follower_id = ? AND is_active = ?", userID, true).
		Count(&followingCount).Error
	if err != nil {
		return fmt.Errorf("failed to count following for user %d: %w", userID, err)
	}

	err = db.Model(&entities.UserBookStatus{}).
		Where("user_id = ? AND is_active = ? AND status = ?", userID, true, entities.StatusRead).
		Count(&readCount).Error
	if err != nil {
		return fmt.Errorf("failed to count read books for user %d: %w", userID, err)
	}

	err = db.Model(&entities.UserBookStatus{}).
		Where("user_id = ? AND is_active = ? AND status IN ?", userID, true,
			[]entities.ReadingStatus{entities.StatusWantToRead, entities.StatusCurrentlyReading}).
		Count(&targetCount).Error
	if err != nil {
		return fmt.Errorf("failed to count target books for user %d: %w", userID, err)
	}

	err = db.Model(&entities.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"follower_count":    followerCount,
			"following_count":   followingCount,
			"read_book_count":   readCount,
			"target_book_count": targetCount,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to write recounted counters for user %d: %w", userID, err)
	}
	return nil
}

// RecountAll repairs the counters of every active user. Returns the number
// of users processed.
func (s *Service) RecountAll(db *gorm.DB) (int, error) {
	var userIDs []uint
	err := db.Model(&entities.User{}).
		Where("is_active = ?", true).
		Pluck("id", &userIDs).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list users for recount: %w", err)
	}

	for _, id := range userIDs {
		if err := s.RecountUser(db, id); err != nil {
			return 0, err
		}
	}
	return len(userIDs), nil
}
