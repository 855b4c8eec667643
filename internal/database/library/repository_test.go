package library

import (
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/safhaapp/safha/internal/database/counters"
	"github.com/safhaapp/safha/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_library_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.UserBookStatus{},
		&entities.Follow{},
	)
	require.NoError(t, err)

	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_book_active
		ON user_book_statuses(user_id, book_id) WHERE is_active = 1`).Error
	require.NoError(t, err)

	repo := NewRepository(db, counters.NewService())

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	user := &entities.User{
		Username: username,
		Email:    username + "@example.com",
		IsActive: true,
	}
	err := db.Create(user).Error
	require.NoError(t, err)
	return user
}

func createTestBook(t *testing.T, db *gorm.DB, title string) *entities.Book {
	book := &entities.Book{
		Title:    title,
		Author:   "Test Author",
		IsActive: true,
	}
	err := db.Create(book).Error
	require.NoError(t, err)
	return book
}

func readBookCount(t *testing.T, db *gorm.DB, userID uint) int {
	var user entities.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.ReadBookCount
}

func TestSetStatus_NewBook_CurrentlyReading(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Dune")

	status, err := repo.SetStatus(user.ID, book.ID, entities.StatusCurrentlyReading)
	require.NoError(t, err)

	assert.Equal(t, entities.StatusCurrentlyReading, status.Status)
	require.NotNil(t, status.StartedReadingDate)
	assert.WithinDuration(t, time.Now(), *status.StartedReadingDate, 5*time.Second)
	require.NotNil(t, status.CurrentPage)
	assert.Equal(t, 1, *status.CurrentPage)
	assert.Nil(t, status.FinishedReadingDate)
	assert.Equal(t, 0, readBookCount(t, db, user.ID))
}

func TestSetStatus_CurrentlyReadingToRead(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Dune")

	first, err := repo.SetStatus(user.ID, book.ID, entities.StatusCurrentlyReading)
	require.NoError(t, err)
	startedAt := *first.StartedReadingDate

	status, err := repo.SetStatus(user.ID, book.ID, entities.StatusRead)
	require.NoError(t, err)

	assert.Equal(t, entities.StatusRead, status.Status)
	require.NotNil(t, status.FinishedReadingDate)
	assert.WithinDuration(t, time.Now(), *status.FinishedReadingDate, 5*time.Second)
	// Already-set start date is untouched by the transition.
	require.NotNil(t, status.StartedReadingDate)
	assert.True(t, status.StartedReadingDate.Equal(startedAt))
	assert.Equal(t, 1, readBookCount(t, db, user.ID))
}

func TestSetStatus_BackToWantToRead_ResetsProgress(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Dune")

	_, err := repo.SetStatus(user.ID, book.ID, entities.StatusCurrentlyReading)
	require.NoError(t, err)
	_, err = repo.SetStatus(user.ID, book.ID, entities.StatusRead)
	require.NoError(t, err)

	status, err := repo.SetStatus(user.ID, book.ID, entities.StatusWantToRead)
	require.NoError(t, err)

	assert.Equal(t, entities.StatusWantToRead, status.Status)
	assert.Nil(t, status.StartedReadingDate)
	assert.Nil(t, status.FinishedReadingDate)
	assert.Nil(t, status.CurrentPage)
	assert.Equal(t, 0, readBookCount(t, db, user.ID))

	// The cleared dates must actually be NULL in the database, not just on
	// the returned struct.
	var persisted entities.UserBookStatus
	require.NoError(t, db.First(&persisted, status.ID).Error)
	assert.Nil(t, persisted.StartedReadingDate)
	assert.Nil(t, persisted.FinishedReadingDate)
	assert.Nil(t, persisted.CurrentPage)
}

func TestSetStatus_Read_BackfillsStartDate(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Dune")

	// Straight to read without ever having been started.
	status, err := repo.SetStatus(user.ID, book.ID, entities.StatusRead)
	require.NoError(t, err)

	require.NotNil(t, status.FinishedReadingDate)
	require.NotNil(t, status.StartedReadingDate)
	expected := status.FinishedReadingDate.Add(-7 * 24 * time.Hour)
	assert.WithinDuration(t, expected, *status.StartedReadingDate, time.Second)
}

func TestSetStatus_ReadTwice_IsIdempotent(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Dune")

	first, err := repo.SetStatus(user.ID, book.ID, entities.StatusRead)
	require.NoError(t, err)
	finishedAt := *first.FinishedReadingDate

	second, err := repo.SetStatus(user.ID, book.ID, entities.StatusRead)
	require.NoError(t, err)

	require.NotNil(t, second.FinishedReadingDate)
	assert.True(t, second.FinishedReadingDate.Equal(finishedAt))
	// No double count: read -> read has no delta.
	assert.Equal(t, 1, readBookCount(t, db, user.ID))
}

func TestSetStatus_SingleActiveRowPerPair(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Dune")

	sequence := []entities.ReadingStatus{
		entities.StatusWantToRead,
		entities.StatusCurrentlyReading,
		entities.StatusRead,
		entities.StatusWantToRead,
		entities.StatusRead,
	}
	for _, s := range sequence {
		_, err := repo.SetStatus(user.ID, book.ID, s)
		require.NoError(t, err)
	}

	var activeRows int64
	err := db.Model(&entities.UserBookStatus{}).
		Where("user_id = ? AND book_id = ? AND is_active = ?", user.ID, book.ID, true).
		Count(&activeRows).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), activeRows)

	// Final status is read, so the counter sits at exactly one.
	assert.Equal(t, 1, readBookCount(t, db, user.ID))
}

func TestSetStatus_ReactivatesRemovedRow(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Dune")

	original, err := repo.SetStatus(user.ID, book.ID, entities.StatusWantToRead)
	require.NoError(t, err)
	originalCreatedAt := original.CreatedAt

	err = repo.RemoveFromLibrary(user.ID, book.ID)
	require.NoError(t, err)

	reactivated, err := repo.SetStatus(user.ID, book.ID, entities.StatusWantToRead)
	require.NoError(t, err)

	// Same row, not a duplicate; CreatedAt preserved, UpdatedAt refreshed.
	assert.Equal(t, original.ID, reactivated.ID)
	assert.True(t, reactivated.CreatedAt.Equal(originalCreatedAt))
	assert.True(t, reactivated.UpdatedAt.After(originalCreatedAt) || reactivated.UpdatedAt.Equal(originalCreatedAt))
	assert.True(t, reactivated.IsActive)

	var totalRows int64
	err = db.Model(&entities.UserBookStatus{}).
		Where("user_id = ? AND book_id = ?", user.ID, book.ID).
		Count(&totalRows).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), totalRows)
}

func TestSetStatus_ReactivationCountsFromWantToRead(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Dune")

	_, err := repo.SetStatus(user.ID, book.ID, entities.StatusRead)
	require.NoError(t, err)
	require.Equal(t, 1, readBookCount(t, db, user.ID))

	err = repo.RemoveFromLibrary(user.ID, book.ID)
	require.NoError(t, err)
	require.Equal(t, 0, readBookCount(t, db, user.ID))

	// Reactivating as read counts as want_to_read -> read, landing back at 1.
	_, err = repo.SetStatus(user.ID, book.ID, entities.StatusRead)
	require.NoError(t, err)
	assert.Equal(t, 1, readBookCount(t, db, user.ID))
}

func TestSetStatus_BookNotFound(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")

	_, err := repo.SetStatus(user.ID, 9999, entities.StatusRead)
	assert.ErrorIs(t, err, ErrBookNotFound)

	var rows int64
	require.NoError(t, db.Model(&entities.UserBookStatus{}).Count(&rows).Error)
	assert.Zero(t, rows)
	assert.Equal(t, 0, readBookCount(t, db, user.ID))
}

func TestSetStatus_InactiveBookNotFound(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Dune")
	require.NoError(t, db.Model(book).Update("is_active", false).Error)

	_, err := repo.SetStatus(user.ID, book.ID, entities.StatusRead)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestSetStatus_InvalidStatus(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Dune")

	_, err := repo.SetStatus(user.ID, book.ID, entities.ReadingStatus("finished"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSetStatus_ClampsNotes(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Dune")

	longNotes := strings.Repeat("x", 800)
	_, err := repo.UpdateProgress(user.ID, book.ID, 10, longNotes)
	assert.ErrorIs(t, err, ErrStatusNotFound)

	_, err = repo.SetStatus(user.ID, book.ID, entities.StatusCurrentlyReading)
	require.NoError(t, err)

	status, err := repo.UpdateProgress(user.ID, book.ID, 10, longNotes)
	require.NoError(t, err)
	assert.Len(t, status.Notes, entities.MaxStatusNotesLength)
}

func TestSetStatus_ClampsNotesOnRuneBoundary(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Kürk Mantolu Madonna")

	_, err := repo.SetStatus(user.ID, book.ID, entities.StatusCurrentlyReading)
	require.NoError(t, err)

	// Arrange for a two-byte rune to straddle the byte position of the
	// rune limit. A byte-based clamp would split it and persist invalid
	// UTF-8.
	longNotes := strings.Repeat("x", entities.MaxStatusNotesLength-1) +
		strings.Repeat("ğ", 10)
	status, err := repo.UpdateProgress(user.ID, book.ID, 10, longNotes)
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(status.Notes))
	assert.Equal(t, entities.MaxStatusNotesLength, utf8.RuneCountInString(status.Notes))
	assert.True(t, strings.HasSuffix(status.Notes, "ğ"))

	var persisted entities.UserBookStatus
	require.NoError(t, db.Where("user_id = ? AND book_id = ?", user.ID, book.ID).First(&persisted).Error)
	assert.True(t, utf8.ValidString(persisted.Notes))
}

func TestUpdateProgress_PromotesToReadAtLastPage(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	pages := 320
	book := &entities.Book{Title: "Dune", Author: "Frank Herbert", PageCount: &pages, IsActive: true}
	require.NoError(t, db.Create(book).Error)

	_, err := repo.SetStatus(user.ID, book.ID, entities.StatusCurrentlyReading)
	require.NoError(t, err)

	status, err := repo.UpdateProgress(user.ID, book.ID, 320, "done!")
	require.NoError(t, err)

	assert.Equal(t, entities.StatusRead, status.Status)
	require.NotNil(t, status.FinishedReadingDate)
	assert.Equal(t, 1, readBookCount(t, db, user.ID))
}

func TestUpdateProgress_MidBookKeepsStatus(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	pages := 320
	book := &entities.Book{Title: "Dune", Author: "Frank Herbert", PageCount: &pages, IsActive: true}
	require.NoError(t, db.Create(book).Error)

	_, err := repo.SetStatus(user.ID, book.ID, entities.StatusCurrentlyReading)
	require.NoError(t, err)

	status, err := repo.UpdateProgress(user.ID, book.ID, 150, "halfway")
	require.NoError(t, err)

	assert.Equal(t, entities.StatusCurrentlyReading, status.Status)
	require.NotNil(t, status.CurrentPage)
	assert.Equal(t, 150, *status.CurrentPage)
	assert.Equal(t, "halfway", status.Notes)
	assert.Equal(t, 0, readBookCount(t, db, user.ID))
}

func TestRemoveFromLibrary_NotInLibrary(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Dune")

	err := repo.RemoveFromLibrary(user.ID, book.ID)
	assert.ErrorIs(t, err, ErrStatusNotFound)
}

func TestGetLibraryAndSummary(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	dune := createTestBook(t, db, "Dune")
	lotr := createTestBook(t, db, "The Lord of the Rings")
	hobbit := createTestBook(t, db, "The Hobbit")

	_, err := repo.SetStatus(user.ID, dune.ID, entities.StatusRead)
	require.NoError(t, err)
	_, err = repo.SetStatus(user.ID, lotr.ID, entities.StatusCurrentlyReading)
	require.NoError(t, err)
	_, err = repo.SetStatus(user.ID, hobbit.ID, entities.StatusWantToRead)
	require.NoError(t, err)

	rows, total, err := repo.GetLibrary(user.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 3)
	assert.NotEmpty(t, rows[0].Book.Title)

	summary, err := repo.GetStatusSummary(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalBooks)
	assert.Equal(t, int64(1), summary.ReadCount)
	assert.Equal(t, int64(1), summary.CurrentlyReadingCount)
	assert.Equal(t, int64(1), summary.WantToReadCount)

	// Removed rows drop out of both views.
	require.NoError(t, repo.RemoveFromLibrary(user.ID, hobbit.ID))
	_, total, err = repo.GetLibrary(user.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestPartialUniqueIndex_RejectsSecondActiveRow(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, db, "alice")
	book := createTestBook(t, db, "Dune")

	_, err := repo.SetStatus(user.ID, book.ID, entities.StatusWantToRead)
	require.NoError(t, err)

	// A duplicate inserted behind the repository's back must hit the
	// storage-level guard.
	dup := entities.UserBookStatus{
		UserID:   user.ID,
		BookID:   book.ID,
		Status:   entities.StatusRead,
		IsActive: true,
	}
	err = db.Create(&dup).Error
	assert.Error(t, err)

	// An inactive duplicate is allowed; the index only guards active rows.
	dup.ID = 0
	dup.IsActive = false
	err = db.Create(&dup).Error
	assert.NoError(t, err)
}
