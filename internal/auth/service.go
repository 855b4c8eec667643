package auth

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/safhaapp/safha/internal/config"
	"github.com/safhaapp/safha/internal/database/users"
	"github.com/safhaapp/safha/internal/entities"
)

// Validation patterns
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrUserExists       = errors.New("user already exists")
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUsernameInvalid  = errors.New("username must be 3-50 characters, alphanumeric and underscore/hyphen only")
	ErrEmailInvalid     = errors.New("invalid email format")
)

// Service handles credential validation and account creation.
type Service struct {
	users  *users.Repository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(userRepo *users.Repository, cfg config.Auth) *Service {
	return &Service{
		users:  userRepo,
		config: cfg,
	}
}

// Register creates a new user with password authentication.
func (s *Service) Register(username, email, password, firstName, lastName string) (*entities.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}
	if len(email) > 100 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	if _, err := s.users.GetUserByUsername(username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, users.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing username: %w", err)
	}
	if _, err := s.users.GetUserByEmail(email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, users.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         entities.UserRoleUser,
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate validates credentials and returns the user.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			// Same failure as a wrong password, so probing for usernames
			// learns nothing.
			return nil, ErrInvalidPassword
		}
		return nil, err
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser resolves a session's userID back to the user row.
func (s *Service) GetUser(userID uint) (*entities.User, error) {
	return s.users.GetUserByID(userID)
}
