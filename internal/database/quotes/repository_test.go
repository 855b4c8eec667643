package quotes

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/safhaapp/safha/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_quotes_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.Book{}, &entities.Quote{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func seedUserAndBook(t *testing.T, db *gorm.DB) (*entities.User, *entities.Book) {
	user := &entities.User{Username: "alice", Email: "alice@example.com", IsActive: true}
	require.NoError(t, db.Create(user).Error)
	book := &entities.Book{Title: "Dune", Author: "Frank Herbert", IsActive: true}
	require.NoError(t, db.Create(book).Error)
	return user, book
}

func TestCreateAndGetQuote(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := seedUserAndBook(t, db)

	quote := &entities.Quote{
		Content: "Fear is the mind-killer.",
		UserID:  user.ID,
		BookID:  book.ID,
	}
	require.NoError(t, repo.CreateQuote(quote))
	assert.NotZero(t, quote.ID)

	got, err := repo.GetQuoteByID(quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fear is the mind-killer.", got.Content)
	assert.Equal(t, "Dune", got.Book.Title)
}

func TestGetQuotesForUserAndBook(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := seedUserAndBook(t, db)
	other := &entities.Book{Title: "Emma", Author: "Jane Austen", IsActive: true}
	require.NoError(t, db.Create(other).Error)

	require.NoError(t, repo.CreateQuote(&entities.Quote{Content: "q1", UserID: user.ID, BookID: book.ID}))
	require.NoError(t, repo.CreateQuote(&entities.Quote{Content: "q2", UserID: user.ID, BookID: book.ID}))
	require.NoError(t, repo.CreateQuote(&entities.Quote{Content: "q3", UserID: user.ID, BookID: other.ID}))

	byUser, total, err := repo.GetQuotesForUser(user.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, byUser, 3)

	byBook, total, err := repo.GetQuotesForBook(book.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, byBook, 2)
}

func TestDeleteQuote(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := seedUserAndBook(t, db)
	quote := &entities.Quote{Content: "q", UserID: user.ID, BookID: book.ID}
	require.NoError(t, repo.CreateQuote(quote))

	// Another user cannot delete someone else's quote.
	err := repo.DeleteQuote(quote.ID, user.ID+1)
	assert.ErrorIs(t, err, ErrQuoteNotFound)

	require.NoError(t, repo.DeleteQuote(quote.ID, user.ID))

	_, err = repo.GetQuoteByID(quote.ID)
	assert.ErrorIs(t, err, ErrQuoteNotFound)
}
