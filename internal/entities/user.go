package entities

import "time"

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Username     string   `gorm:"uniqueIndex;size:50" json:"username"`
	FirstName    string   `gorm:"size:50" json:"first_name"`
	LastName     string   `gorm:"size:50" json:"last_name"`
	Email        string   `gorm:"uniqueIndex;size:100" json:"email"`
	PasswordHash string   `gorm:"size:100" json:"-"`
	PhoneNumber  string   `gorm:"size:20" json:"phone_number,omitempty"`
	Bio          string   `gorm:"size:500" json:"bio,omitempty"`
	ProfilePicture string `gorm:"size:500" json:"profile_picture,omitempty"`
	CoverPhoto   string   `gorm:"size:500" json:"cover_photo,omitempty"`
	Role         UserRole `gorm:"size:20;default:user" json:"role"`

	// Denormalized counters. These are caches over the follow/status rows,
	// maintained incrementally by the counters service. The reconcile task
	// is the only path that recomputes them from scratch.
	FollowerCount   int `gorm:"default:0" json:"follower_count"`
	FollowingCount  int `gorm:"default:0" json:"following_count"`
	TargetBookCount int `gorm:"default:0" json:"target_book_count"`
	ReadBookCount   int `gorm:"default:0" json:"read_book_count"`

	IsActive  bool      `gorm:"index;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
