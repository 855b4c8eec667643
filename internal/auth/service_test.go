package auth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/safhaapp/safha/internal/config"
	"github.com/safhaapp/safha/internal/database/users"
	"github.com/safhaapp/safha/internal/entities"
)

func setupTestService(t *testing.T) (*Service, func()) {
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	// Minimum bcrypt cost keeps the test fast.
	service := NewService(users.NewRepository(db), config.Auth{BcryptCost: 4})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return service, cleanup
}

func TestRegisterAndAuthenticate(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	user, err := service.Register("reader_one", "reader@example.com", "sturdy-password", "Reader", "One")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "reader_one", user.Username)
	assert.NotEqual(t, "sturdy-password", user.PasswordHash)

	authed, err := service.Authenticate("reader_one", "sturdy-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("reader_one", "reader@example.com", "sturdy-password", "", "")
	require.NoError(t, err)

	_, err = service.Authenticate("reader_one", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Authenticate("nobody", "whatever-pass")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("reader_one", "first@example.com", "sturdy-password", "", "")
	require.NoError(t, err)

	_, err = service.Register("reader_one", "second@example.com", "sturdy-password", "", "")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("reader_one", "shared@example.com", "sturdy-password", "", "")
	require.NoError(t, err)

	_, err = service.Register("reader_two", "shared@example.com", "sturdy-password", "", "")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterValidation(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	cases := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"empty username", "", "a@example.com", "sturdy-password", ErrUsernameRequired},
		{"empty email", "reader", "", "sturdy-password", ErrEmailRequired},
		{"empty password", "reader", "a@example.com", "", ErrPasswordRequired},
		{"username too short", "ab", "a@example.com", "sturdy-password", ErrUsernameInvalid},
		{"username bad chars", "bad name!", "a@example.com", "sturdy-password", ErrUsernameInvalid},
		{"malformed email", "reader", "not-an-email", "sturdy-password", ErrEmailInvalid},
		{"short password", "reader", "a@example.com", "1234567", ErrPasswordTooShort},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Register(tc.username, tc.email, tc.password, "", "")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
