package http

import (
	"github.com/safhaapp/safha/internal/database/library"
	"github.com/safhaapp/safha/internal/entities"
)

// This file consolidates the store interface definitions used by HTTP
// controllers. Each controller depends on the narrow interface it needs;
// the concrete repositories under internal/database satisfy them.

// LibraryStore defines the reading-status operations behind the library API.
type LibraryStore interface {
	SetStatus(userID, bookID uint, requested entities.ReadingStatus) (*entities.UserBookStatus, error)
	UpdateProgress(userID, bookID uint, currentPage int, notes string) (*entities.UserBookStatus, error)
	RemoveFromLibrary(userID, bookID uint) error
	GetStatus(userID, bookID uint) (*entities.UserBookStatus, error)
	GetLibrary(userID uint, limit, offset int) ([]entities.UserBookStatus, int64, error)
	GetStatusSummary(userID uint) (*library.Summary, error)
}

// FollowStore defines the follow-graph operations behind the social API.
type FollowStore interface {
	Follow(followerID, followingID uint) (bool, error)
	Unfollow(followerID, followingID uint) (bool, error)
	IsFollowing(followerID, followingID uint) (bool, error)
	GetFollowers(userID uint, limit, offset int) ([]entities.User, error)
	GetFollowing(userID uint, limit, offset int) ([]entities.User, error)
	GetFollowerCount(userID uint) (int64, error)
	GetFollowingCount(userID uint) (int64, error)
}

// BookStore defines catalog operations.
type BookStore interface {
	CreateBook(book *entities.Book, ownerID uint) error
	FindOrCreateBook(book *entities.Book, ownerID uint) (*entities.Book, error)
	GetBookByID(id uint) (*entities.Book, error)
	SearchBooks(query string, limit, offset int) ([]entities.Book, int64, error)
	GetAllBooks(limit, offset int) ([]entities.Book, int64, error)
	DeleteBook(id uint) error
}

// UserStore defines profile operations.
type UserStore interface {
	GetUserByID(id uint) (*entities.User, error)
	GetUserByUsername(username string) (*entities.User, error)
	UpdateProfile(userID uint, firstName, lastName, bio, profilePicture, coverPhoto string) error
	SearchUsers(query string, limit, offset int) ([]entities.User, error)
}

// QuoteStore defines quote operations.
type QuoteStore interface {
	CreateQuote(quote *entities.Quote) error
	GetQuoteByID(id uint) (*entities.Quote, error)
	GetQuotesForUser(userID uint, limit, offset int) ([]entities.Quote, int64, error)
	GetQuotesForBook(bookID uint, limit, offset int) ([]entities.Quote, int64, error)
	DeleteQuote(id, userID uint) error
}

// ReviewStore defines review operations.
type ReviewStore interface {
	CreateReview(review *entities.Review) error
	GetReviewByID(id uint) (*entities.Review, error)
	GetReviewsForUser(userID uint, limit, offset int) ([]entities.Review, int64, error)
	GetReviewsForBook(bookID uint, limit, offset int) ([]entities.Review, int64, error)
	AverageRatingForBook(bookID uint) (float64, error)
	DeleteReview(id, userID uint) error
}
