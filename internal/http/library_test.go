package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safhaapp/safha/internal/database"
	"github.com/safhaapp/safha/internal/database/counters"
	"github.com/safhaapp/safha/internal/database/library"
	"github.com/safhaapp/safha/internal/entities"
)

func setupLibraryRouter(t *testing.T) (*gin.Engine, *database.Database, func()) {
	t.Helper()
	db, cleanup := setupTestDB(t, "http_library")

	repo := library.NewRepository(db.DB, counters.NewService())
	controller := NewLibraryController(repo)

	router := gin.New()
	router.Use(authAs(1))
	router.GET("/api/library", controller.ListLibrary)
	router.GET("/api/library/summary", controller.Summary)
	router.GET("/api/library/books/:bookId", controller.GetStatus)
	router.PUT("/api/library/books/:bookId/status", controller.SetStatus)
	router.PATCH("/api/library/books/:bookId/progress", controller.UpdateProgress)
	router.DELETE("/api/library/books/:bookId", controller.RemoveBook)

	return router, db, cleanup
}

func putStatus(router *gin.Engine, path, status string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	body := strings.NewReader(`{"status":"` + status + `"}`)
	req, _ := http.NewRequest("PUT", path, body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestLibraryController_SetStatus(t *testing.T) {
	t.Run("adds book as currently reading", func(t *testing.T) {
		router, db, cleanup := setupLibraryRouter(t)
		defer cleanup()

		seedUser(t, db, "reader")
		book := seedBook(t, db, "Dune", 412)

		w := putStatus(router, "/api/library/books/1/status", "currently_reading")
		require.Equal(t, http.StatusOK, w.Code)

		var row entities.UserBookStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &row))
		assert.Equal(t, entities.StatusCurrentlyReading, row.Status)
		assert.Equal(t, book.ID, row.BookID)
		assert.NotNil(t, row.StartedReadingDate)
	})

	t.Run("marking read updates the read counter", func(t *testing.T) {
		router, db, cleanup := setupLibraryRouter(t)
		defer cleanup()

		user := seedUser(t, db, "reader")
		seedBook(t, db, "Dune", 412)

		w := putStatus(router, "/api/library/books/1/status", "read")
		require.Equal(t, http.StatusOK, w.Code)

		var updated entities.User
		require.NoError(t, db.DB.First(&updated, user.ID).Error)
		assert.Equal(t, 1, updated.ReadBookCount)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		router, db, cleanup := setupLibraryRouter(t)
		defer cleanup()

		seedUser(t, db, "reader")
		seedBook(t, db, "Dune", 412)

		w := putStatus(router, "/api/library/books/1/status", "abandoned")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 404 for missing book", func(t *testing.T) {
		router, db, cleanup := setupLibraryRouter(t)
		defer cleanup()

		seedUser(t, db, "reader")

		w := putStatus(router, "/api/library/books/42/status", "read")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects invalid book id", func(t *testing.T) {
		router, _, cleanup := setupLibraryRouter(t)
		defer cleanup()

		w := putStatus(router, "/api/library/books/nope/status", "read")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLibraryController_UpdateProgress(t *testing.T) {
	t.Run("reaching the last page marks the book read", func(t *testing.T) {
		router, db, cleanup := setupLibraryRouter(t)
		defer cleanup()

		seedUser(t, db, "reader")
		seedBook(t, db, "Dune", 412)

		require.Equal(t, http.StatusOK, putStatus(router, "/api/library/books/1/status", "currently_reading").Code)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", "/api/library/books/1/progress", strings.NewReader(`{"current_page":412}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var row entities.UserBookStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &row))
		assert.Equal(t, entities.StatusRead, row.Status)
		assert.NotNil(t, row.FinishedReadingDate)
	})

	t.Run("returns 404 when book is not in the library", func(t *testing.T) {
		router, db, cleanup := setupLibraryRouter(t)
		defer cleanup()

		seedUser(t, db, "reader")
		seedBook(t, db, "Dune", 412)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", "/api/library/books/1/progress", strings.NewReader(`{"current_page":10}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects non-positive page", func(t *testing.T) {
		router, db, cleanup := setupLibraryRouter(t)
		defer cleanup()

		seedUser(t, db, "reader")
		seedBook(t, db, "Dune", 412)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", "/api/library/books/1/progress", strings.NewReader(`{"current_page":0}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLibraryController_RemoveBook(t *testing.T) {
	t.Run("removes a library entry", func(t *testing.T) {
		router, db, cleanup := setupLibraryRouter(t)
		defer cleanup()

		seedUser(t, db, "reader")
		seedBook(t, db, "Dune", 412)
		require.Equal(t, http.StatusOK, putStatus(router, "/api/library/books/1/status", "want_to_read").Code)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/library/books/1", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("GET", "/api/library/books/1", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns 404 when entry does not exist", func(t *testing.T) {
		router, db, cleanup := setupLibraryRouter(t)
		defer cleanup()

		seedUser(t, db, "reader")
		seedBook(t, db, "Dune", 412)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/library/books/1", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLibraryController_ListAndSummary(t *testing.T) {
	router, db, cleanup := setupLibraryRouter(t)
	defer cleanup()

	seedUser(t, db, "reader")
	seedBook(t, db, "Dune", 412)
	seedBook(t, db, "Hyperion", 482)
	seedBook(t, db, "Solaris", 204)

	require.Equal(t, http.StatusOK, putStatus(router, "/api/library/books/1/status", "read").Code)
	require.Equal(t, http.StatusOK, putStatus(router, "/api/library/books/2/status", "currently_reading").Code)
	require.Equal(t, http.StatusOK, putStatus(router, "/api/library/books/3/status", "want_to_read").Code)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/library?limit=2", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var page PaginatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(3), page.Total)
	assert.True(t, page.HasMore)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/library/summary", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var summary library.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, int64(3), summary.TotalBooks)
	assert.Equal(t, int64(1), summary.ReadCount)
	assert.Equal(t, int64(1), summary.CurrentlyReadingCount)
	assert.Equal(t, int64(1), summary.WantToReadCount)
}
