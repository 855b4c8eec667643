// Package users provides database operations for user management.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByUsername("reader42")
package users

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/safhaapp/safha/internal/entities"
)

var ErrUserNotFound = errors.New("user not found")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser persists a new user row. The password hash is expected to be
// computed by the auth layer before the user reaches the repository.
func (r *Repository) CreateUser(user *entities.User) error {
	user.IsActive = true
	if user.Role == "" {
		user.Role = entities.UserRoleUser
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves an active user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves an active user by username.
func (r *Repository) GetUserByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ? AND is_active = ?", username, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves an active user by email.
func (r *Repository) GetUserByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ? AND is_active = ?", email, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the editable profile fields of a user.
func (r *Repository) UpdateProfile(userID uint, firstName, lastName, bio, profilePicture, coverPhoto string) error {
	result := r.db.Model(&entities.User{}).
		Where("id = ? AND is_active = ?", userID, true).
		Updates(map[string]interface{}{
			"first_name":      firstName,
			"last_name":       lastName,
			"bio":             bio,
			"profile_picture": profilePicture,
			"cover_photo":     coverPhoto,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SearchUsers finds active users whose username or name matches the query.
func (r *Repository) SearchUsers(query string, limit, offset int) ([]entities.User, error) {
	var users []entities.User
	pattern := "%" + query + "%"

	q := r.db.Where("is_active = ?", true).
		Where("LOWER(username) LIKE LOWER(?) OR LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?)",
			pattern, pattern, pattern).
		Order("username ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	err := q.Find(&users).Error
	return users, err
}

// HasUsers reports whether any active user exists. Used at startup to decide
// whether to prompt for initial account creation.
func (r *Repository) HasUsers() (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Where("is_active = ?", true).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
