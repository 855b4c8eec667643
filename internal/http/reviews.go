package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safhaapp/safha/internal/database/reviews"
	"github.com/safhaapp/safha/internal/entities"
)

// ReviewsController manages book reviews and ratings.
type ReviewsController struct {
	store ReviewStore
}

func NewReviewsController(store ReviewStore) *ReviewsController {
	return &ReviewsController{store: store}
}

type createReviewRequest struct {
	BookID  uint   `json:"book_id" binding:"required"`
	Content string `json:"content" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
	Title   string `json:"title"`
}

// CreateReview posts a review of a book by the current user.
// POST /api/reviews
func (rc *ReviewsController) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id, content and rating are required")
		return
	}

	review := &entities.Review{
		Content: req.Content,
		Rating:  req.Rating,
		Title:   req.Title,
		UserID:  GetUserID(c),
		BookID:  req.BookID,
	}
	if err := rc.store.CreateReview(review); err != nil {
		if errors.Is(err, reviews.ErrInvalidRating) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create review")
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListReviews returns the current user's reviews, or a book's reviews with
// its average rating when book_id is given.
// GET /api/reviews?book_id=...
func (rc *ReviewsController) ListReviews(c *gin.Context) {
	limit, offset := parsePagination(c)

	if raw := c.Query("book_id"); raw != "" {
		bookID, ok := parseQueryID(c, raw, "book_id")
		if !ok {
			return
		}
		results, total, err := rc.store.GetReviewsForBook(bookID, limit, offset)
		if err != nil {
			respondInternalError(c, err, "list reviews")
			return
		}
		average, err := rc.store.AverageRatingForBook(bookID)
		if err != nil {
			respondInternalError(c, err, "average rating")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":           results,
			"total":          total,
			"limit":          limit,
			"offset":         offset,
			"average_rating": average,
		})
		return
	}

	results, total, err := rc.store.GetReviewsForUser(GetUserID(c), limit, offset)
	if err != nil {
		respondInternalError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, newPaginatedResponse(results, total, limit, offset))
}

// DeleteReview removes one of the current user's reviews.
// DELETE /api/reviews/:id
func (rc *ReviewsController) DeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := rc.store.DeleteReview(id, GetUserID(c)); err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			respondNotFound(c, "review")
			return
		}
		respondInternalError(c, err, "delete review")
		return
	}

	respondSuccess(c, "review deleted")
}
