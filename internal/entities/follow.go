package entities

import "time"

// Follow is a directed edge from one user to another. Unfollow soft-deletes
// the edge; a later re-follow inserts a fresh edge rather than reactivating
// the old one, so the full follow history survives in inactive rows.
type Follow struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	FollowerID  uint `gorm:"index:idx_follower_following;not null" json:"follower_id"`
	FollowingID uint `gorm:"index:idx_follower_following;not null" json:"following_id"`

	IsActive  bool      `gorm:"index;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Follower  User `gorm:"foreignKey:FollowerID" json:"-"`
	Following User `gorm:"foreignKey:FollowingID" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
