package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safhaapp/safha/internal/database/library"
	"github.com/safhaapp/safha/internal/entities"
)

// LibraryController serves the per-user reading library: setting a book's
// reading status, tracking progress and removing books again.
type LibraryController struct {
	store LibraryStore
}

func NewLibraryController(store LibraryStore) *LibraryController {
	return &LibraryController{store: store}
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus sets or changes the reading status of a book for the current user.
// PUT /api/library/books/:bookId/status
func (lc *LibraryController) SetStatus(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "status is required")
		return
	}

	row, err := lc.store.SetStatus(GetUserID(c), bookID, entities.ReadingStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, library.ErrInvalidStatus):
			respondBadRequest(c, err.Error())
		case errors.Is(err, library.ErrBookNotFound):
			respondNotFound(c, "book")
		default:
			respondInternalError(c, err, "set reading status")
		}
		return
	}

	c.JSON(http.StatusOK, row)
}

type updateProgressRequest struct {
	CurrentPage int    `json:"current_page" binding:"required"`
	Notes       string `json:"notes"`
}

// UpdateProgress records the current page for a book the user is reading.
// Reaching the final page marks the book as read.
// PATCH /api/library/books/:bookId/progress
func (lc *LibraryController) UpdateProgress(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CurrentPage < 1 {
		respondBadRequest(c, "current_page must be a positive integer")
		return
	}

	row, err := lc.store.UpdateProgress(GetUserID(c), bookID, req.CurrentPage, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, library.ErrStatusNotFound):
			respondNotFound(c, "library entry")
		case errors.Is(err, library.ErrBookNotFound):
			respondNotFound(c, "book")
		default:
			respondInternalError(c, err, "update reading progress")
		}
		return
	}

	c.JSON(http.StatusOK, row)
}

// RemoveBook removes a book from the user's library.
// DELETE /api/library/books/:bookId
func (lc *LibraryController) RemoveBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	if err := lc.store.RemoveFromLibrary(GetUserID(c), bookID); err != nil {
		if errors.Is(err, library.ErrStatusNotFound) {
			respondNotFound(c, "library entry")
			return
		}
		respondInternalError(c, err, "remove book from library")
		return
	}

	respondSuccess(c, "book removed from library")
}

// GetStatus returns the user's reading status for a single book.
// GET /api/library/books/:bookId
func (lc *LibraryController) GetStatus(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	row, err := lc.store.GetStatus(GetUserID(c), bookID)
	if err != nil {
		if errors.Is(err, library.ErrStatusNotFound) {
			respondNotFound(c, "library entry")
			return
		}
		respondInternalError(c, err, "get reading status")
		return
	}

	c.JSON(http.StatusOK, row)
}

// ListLibrary returns the user's library entries, most recently updated first.
// GET /api/library
func (lc *LibraryController) ListLibrary(c *gin.Context) {
	limit, offset := parsePagination(c)

	rows, total, err := lc.store.GetLibrary(GetUserID(c), limit, offset)
	if err != nil {
		respondInternalError(c, err, "list library")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(rows, total, limit, offset))
}

// Summary returns per-status counts for the user's library.
// GET /api/library/summary
func (lc *LibraryController) Summary(c *gin.Context) {
	summary, err := lc.store.GetStatusSummary(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "library summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}
