// Package follows maintains the directed follow graph between users.
//
// Edges are unique per ordered pair while active and soft-delete on
// unfollow. Unlike the library's status rows, a re-follow after an unfollow
// inserts a brand-new edge instead of reactivating the old one; the
// inactive rows are kept as history.
package follows

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/safhaapp/safha/internal/database/counters"
	"github.com/safhaapp/safha/internal/entities"
)

var (
	ErrSelfFollow   = errors.New("users cannot follow themselves")
	ErrUserNotFound = errors.New("user not found")
)

// Repository handles all follow-graph database operations.
type Repository struct {
	db       *gorm.DB
	counters *counters.Service
}

// NewRepository creates a new follows repository.
func NewRepository(db *gorm.DB, counterService *counters.Service) *Repository {
	return &Repository{db: db, counters: counterService}
}

// Follow creates an active edge from follower to following. Self-follows
// are rejected with ErrSelfFollow; an edge that already exists returns
// false without touching anything. The edge insert and both counter
// adjustments are one transaction.
func (r *Repository) Follow(followerID, followingID uint) (bool, error) {
	if followerID == followingID {
		return false, ErrSelfFollow
	}

	followed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := checkUserExists(tx, followingID); err != nil {
			return err
		}

		var existing entities.Follow
		err := tx.Where("follower_id = ? AND following_id = ? AND is_active = ?",
			followerID, followingID, true).
			First(&existing).Error
		if err == nil {
			// Already following, nothing to do.
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up follow edge: %w", err)
		}

		edge := entities.Follow{
			FollowerID:  followerID,
			FollowingID: followingID,
			IsActive:    true,
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(&edge).Error; err != nil {
			return fmt.Errorf("failed to create follow edge: %w", err)
		}

		if err := r.counters.AdjustFollowCounts(tx, followerID, followingID, counters.Increment); err != nil {
			return err
		}

		followed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return followed, nil
}

// Unfollow soft-deletes the active edge from follower to following. It
// returns false when no active edge exists. The edge flip and both counter
// decrements are one transaction; the decrements floor at zero.
func (r *Repository) Unfollow(followerID, followingID uint) (bool, error) {
	unfollowed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var edge entities.Follow
		err := tx.Where("follower_id = ? AND following_id = ? AND is_active = ?",
			followerID, followingID, true).
			First(&edge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to look up follow edge: %w", err)
		}

		err = tx.Model(&entities.Follow{}).
			Where("id = ?", edge.ID).
			Updates(map[string]interface{}{
				"is_active":  false,
				"updated_at": time.Now(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to deactivate follow edge: %w", err)
		}

		if err := r.counters.AdjustFollowCounts(tx, followerID, followingID, counters.Decrement); err != nil {
			return err
		}

		unfollowed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return unfollowed, nil
}

// IsFollowing reports whether an active edge exists from follower to
// following.
func (r *Repository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Follow{}).
		Where("follower_id = ? AND following_id = ? AND is_active = ?",
			followerID, followingID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowers returns the users following userID, newest edge first.
func (r *Repository) GetFollowers(userID uint, limit, offset int) ([]entities.User, error) {
	return r.edgeUsers(userID, "following_id", "follows.follower_id", limit, offset)
}

// GetFollowing returns the users userID follows, newest edge first.
func (r *Repository) GetFollowing(userID uint, limit, offset int) ([]entities.User, error) {
	return r.edgeUsers(userID, "follower_id", "follows.following_id", limit, offset)
}

// edgeUsers joins active edges anchored on anchorColumn against the user on
// the far side of the edge.
func (r *Repository) edgeUsers(userID uint, anchorColumn, joinColumn string, limit, offset int) ([]entities.User, error) {
	var users []entities.User

	query := r.db.Model(&entities.User{}).
		Joins(fmt.Sprintf("JOIN follows ON users.id = %s", joinColumn)).
		Where(fmt.Sprintf("follows.%s = ? AND follows.is_active = ?", anchorColumn), userID, true).
		Order("follows.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&users).Error
	return users, err
}

// GetFollowerCount counts active edges pointing at userID. The count comes
// from the edges themselves, not the cached column on the user row.
func (r *Repository) GetFollowerCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Follow{}).
		Where("following_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}

// GetFollowingCount counts active edges leaving userID.
func (r *Repository) GetFollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Follow{}).
		Where("follower_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}

func checkUserExists(tx *gorm.DB, userID uint) error {
	var user entities.User
	err := tx.Select("id").Where("id = ? AND is_active = ?", userID, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	return nil
}
