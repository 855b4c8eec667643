package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safhaapp/safha/internal/auth"
	"github.com/safhaapp/safha/internal/config"
	"github.com/safhaapp/safha/internal/database"
)

// RouterConfig carries every dependency the router needs. A single config
// struct keeps NewRouter's signature stable as controllers are added and
// lets tests wire only the pieces they exercise.
type RouterConfig struct {
	Database *database.Database
	Version  string

	LibraryStore LibraryStore
	FollowStore  FollowStore
	BookStore    BookStore
	UserStore    UserStore
	QuoteStore   QuoteStore
	ReviewStore  ReviewStore

	AuthConfig     config.Auth
	AuthService    *auth.Service
	AuthHandlers   *auth.Handlers
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CSRF must run before session load so the session middleware layers
	// its request context on top of CSRF's.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.AuthConfig.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth layer configured at all; behave like auth_mode=none.
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Next()
		})
	}

	healthController := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", healthController.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	if cfg.AuthHandlers != nil {
		router.POST("/auth/register", cfg.AuthHandlers.Register)
		router.POST("/auth/login", cfg.AuthHandlers.Login)
		router.POST("/auth/logout", cfg.AuthHandlers.Logout)
	}

	api := router.Group("/api")

	if cfg.LibraryStore != nil {
		libraryController := NewLibraryController(cfg.LibraryStore)
		api.GET("/library", libraryController.ListLibrary)
		api.GET("/library/summary", libraryController.Summary)
		api.GET("/library/books/:bookId", libraryController.GetStatus)
		api.PUT("/library/books/:bookId/status", libraryController.SetStatus)
		api.PATCH("/library/books/:bookId/progress", libraryController.UpdateProgress)
		api.DELETE("/library/books/:bookId", libraryController.RemoveBook)
	}

	if cfg.BookStore != nil {
		booksController := NewBooksController(cfg.BookStore)
		api.GET("/books", booksController.ListBooks)
		api.POST("/books", booksController.CreateBook)
		api.GET("/books/:bookId", booksController.GetBook)
		api.DELETE("/books/:bookId", booksController.DeleteBook)
	}

	if cfg.UserStore != nil && cfg.LibraryStore != nil && cfg.FollowStore != nil {
		profileController := NewProfileController(cfg.UserStore, cfg.LibraryStore, cfg.FollowStore)
		api.GET("/profile", profileController.GetOwnProfile)
		api.PUT("/profile", profileController.UpdateProfile)
		api.GET("/users", profileController.SearchUsers)
		api.GET("/users/:userId", profileController.GetProfile)
	}

	if cfg.FollowStore != nil {
		followsController := NewFollowsController(cfg.FollowStore)
		api.POST("/users/:userId/follow", followsController.Follow)
		api.DELETE("/users/:userId/follow", followsController.Unfollow)
		api.GET("/users/:userId/follow", followsController.Status)
		api.GET("/users/:userId/followers", followsController.Followers)
		api.GET("/users/:userId/following", followsController.Following)
	}

	if cfg.QuoteStore != nil {
		quotesController := NewQuotesController(cfg.QuoteStore)
		api.GET("/quotes", quotesController.ListQuotes)
		api.POST("/quotes", quotesController.CreateQuote)
		api.DELETE("/quotes/:id", quotesController.DeleteQuote)
	}

	if cfg.ReviewStore != nil {
		reviewsController := NewReviewsController(cfg.ReviewStore)
		api.GET("/reviews", reviewsController.ListReviews)
		api.POST("/reviews", reviewsController.CreateReview)
		api.DELETE("/reviews/:id", reviewsController.DeleteReview)
	}

	return router
}
