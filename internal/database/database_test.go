package database

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safhaapp/safha/internal/entities"
)

func TestNewDatabase(t *testing.T) {
	dbPath := "./test_database_" + t.Name() + ".db"
	defer os.Remove(dbPath)

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	// Migrations create every table.
	for _, model := range []interface{}{
		&entities.User{},
		&entities.Book{},
		&entities.UserBookStatus{},
		&entities.Follow{},
		&entities.Quote{},
		&entities.Review{},
	} {
		assert.True(t, db.DB.Migrator().HasTable(model))
	}
}

func TestNewDatabase_PartialUniqueIndexes(t *testing.T) {
	dbPath := "./test_database_" + t.Name() + ".db"
	defer os.Remove(dbPath)

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	user := entities.User{Username: "alice", Email: "a@example.com", IsActive: true}
	require.NoError(t, db.DB.Create(&user).Error)
	book := entities.Book{Title: "Dune", Author: "Frank Herbert", IsActive: true}
	require.NoError(t, db.DB.Create(&book).Error)

	first := entities.UserBookStatus{
		UserID: user.ID, BookID: book.ID,
		Status: entities.StatusRead, IsActive: true,
	}
	require.NoError(t, db.DB.Create(&first).Error)

	// Second active row for the same pair violates the partial index.
	second := entities.UserBookStatus{
		UserID: user.ID, BookID: book.ID,
		Status: entities.StatusWantToRead, IsActive: true,
	}
	assert.Error(t, db.DB.Create(&second).Error)

	// Same story for follow edges.
	other := entities.User{Username: "bob", Email: "b@example.com", IsActive: true}
	require.NoError(t, db.DB.Create(&other).Error)

	edge := entities.Follow{FollowerID: user.ID, FollowingID: other.ID, IsActive: true}
	require.NoError(t, db.DB.Create(&edge).Error)

	dup := entities.Follow{FollowerID: user.ID, FollowingID: other.ID, IsActive: true}
	assert.Error(t, db.DB.Create(&dup).Error)

	// Inactive duplicates are history, not violations.
	inactive := entities.Follow{FollowerID: user.ID, FollowingID: other.ID, IsActive: false}
	assert.NoError(t, db.DB.Create(&inactive).Error)
}
