package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/safhaapp/safha/internal/database/books"
	"github.com/safhaapp/safha/internal/entities"
)

// BooksController serves the shared book catalog.
type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

type createBookRequest struct {
	Title           string `json:"title" binding:"required"`
	Author          string `json:"author" binding:"required"`
	ISBN            string `json:"isbn"`
	Description     string `json:"description"`
	PublicationYear int    `json:"publication_year"`
	Publisher       string `json:"publisher"`
	PageCount       *int   `json:"page_count"`
	Genre           string `json:"genre"`
	CoverURL        string `json:"cover_url"`
}

// CreateBook adds a book to the catalog. An existing book with the same
// title and author is returned instead of creating a duplicate.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and author are required")
		return
	}
	if req.PageCount != nil && *req.PageCount < 1 {
		respondBadRequest(c, "page_count must be a positive integer")
		return
	}

	book := &entities.Book{
		Title:           strings.TrimSpace(req.Title),
		Author:          strings.TrimSpace(req.Author),
		ISBN:            req.ISBN,
		Description:     req.Description,
		PublicationYear: req.PublicationYear,
		Publisher:       req.Publisher,
		PageCount:       req.PageCount,
		Genre:           req.Genre,
		CoverURL:        req.CoverURL,
	}
	if book.Title == "" || book.Author == "" {
		respondBadRequest(c, "title and author are required")
		return
	}

	created, err := bc.store.FindOrCreateBook(book, GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetBook returns a single catalog entry.
// GET /api/books/:bookId
func (bc *BooksController) GetBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	book, err := bc.store.GetBookByID(bookID)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// DeleteBook soft-deletes a catalog entry.
// DELETE /api/books/:bookId
func (bc *BooksController) DeleteBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	if err := bc.store.DeleteBook(bookID); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	respondSuccess(c, "book deleted")
}

// ListBooks returns catalog entries, optionally filtered by a search query.
// GET /api/books?q=...
func (bc *BooksController) ListBooks(c *gin.Context) {
	limit, offset := parsePagination(c)

	var (
		results []entities.Book
		total   int64
		err     error
	)
	if query := strings.TrimSpace(c.Query("q")); query != "" {
		results, total, err = bc.store.SearchBooks(query, limit, offset)
	} else {
		results, total, err = bc.store.GetAllBooks(limit, offset)
	}
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(results, total, limit, offset))
}
