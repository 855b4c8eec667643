package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safhaapp/safha/internal/database/quotes"
	"github.com/safhaapp/safha/internal/entities"
)

// QuotesController manages saved book quotes.
type QuotesController struct {
	store QuoteStore
}

func NewQuotesController(store QuoteStore) *QuotesController {
	return &QuotesController{store: store}
}

type createQuoteRequest struct {
	BookID     uint   `json:"book_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Author     string `json:"author"`
	Source     string `json:"source"`
	PageNumber int    `json:"page_number"`
	Notes      string `json:"notes"`
}

// CreateQuote saves a quote from a book for the current user.
// POST /api/quotes
func (qc *QuotesController) CreateQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id and content are required")
		return
	}

	quote := &entities.Quote{
		Content:    req.Content,
		Author:     req.Author,
		Source:     req.Source,
		PageNumber: req.PageNumber,
		Notes:      req.Notes,
		UserID:     GetUserID(c),
		BookID:     req.BookID,
	}
	if err := qc.store.CreateQuote(quote); err != nil {
		respondInternalError(c, err, "create quote")
		return
	}

	c.JSON(http.StatusCreated, quote)
}

// ListQuotes returns the current user's quotes, or a book's quotes when
// book_id is given.
// GET /api/quotes?book_id=...
func (qc *QuotesController) ListQuotes(c *gin.Context) {
	limit, offset := parsePagination(c)

	var (
		results []entities.Quote
		total   int64
		err     error
	)
	if raw := c.Query("book_id"); raw != "" {
		bookID, parseOK := parseQueryID(c, raw, "book_id")
		if !parseOK {
			return
		}
		results, total, err = qc.store.GetQuotesForBook(bookID, limit, offset)
	} else {
		results, total, err = qc.store.GetQuotesForUser(GetUserID(c), limit, offset)
	}
	if err != nil {
		respondInternalError(c, err, "list quotes")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(results, total, limit, offset))
}

// DeleteQuote removes one of the current user's quotes.
// DELETE /api/quotes/:id
func (qc *QuotesController) DeleteQuote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := qc.store.DeleteQuote(id, GetUserID(c)); err != nil {
		if errors.Is(err, quotes.ErrQuoteNotFound) {
			respondNotFound(c, "quote")
			return
		}
		respondInternalError(c, err, "delete quote")
		return
	}

	respondSuccess(c, "quote deleted")
}
