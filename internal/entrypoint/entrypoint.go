package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/safhaapp/safha/internal/auth"
	"github.com/safhaapp/safha/internal/config"
	"github.com/safhaapp/safha/internal/database"
	"github.com/safhaapp/safha/internal/database/books"
	"github.com/safhaapp/safha/internal/database/counters"
	"github.com/safhaapp/safha/internal/database/follows"
	"github.com/safhaapp/safha/internal/database/library"
	"github.com/safhaapp/safha/internal/database/quotes"
	"github.com/safhaapp/safha/internal/database/reviews"
	"github.com/safhaapp/safha/internal/database/users"
	http_controllers "github.com/safhaapp/safha/internal/http"
	"github.com/safhaapp/safha/internal/scheduler"
	"github.com/safhaapp/safha/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// SIGKILL cannot be caught, so only SIGINT and SIGTERM are handled.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background workers before the HTTP listener drains.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Safha v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories share one counter service so every status change and
	// follow edge adjusts the denormalized counts in the same transaction.
	counterService := counters.NewService()
	userRepo := users.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)
	libraryRepo := library.NewRepository(db.DB, counterService)
	followRepo := follows.NewRepository(db.DB, counterService)
	quoteRepo := quotes.NewRepository(db.DB)
	reviewRepo := reviews.NewRepository(db.DB)

	// Background task queue for counter reconciliation.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var reconcileScheduler *scheduler.ReconcileScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		reconciler := counters.NewReconciler(db.DB, counterService)
		taskClient.Register(
			tasks.NewReconcileCountersQueue(reconciler),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		reconcileScheduler = scheduler.NewReconcileScheduler(taskClient, cfg.Reconcile)
		if err := reconcileScheduler.Start(taskCtx); err != nil {
			log.Fatalf("Failed to start reconcile scheduler: %v", err)
		}
	}

	// Authentication layer.
	var authService *auth.Service
	var authHandlers *auth.Handlers
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(userRepo, cfg.Auth)

		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}
		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		authHandlers = auth.NewHandlers(authService, sessionManager)
		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)

		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes.
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}

		hasUsers, _ := userRepo.HasUsers()
		if !hasUsers {
			log.Printf("No users found. POST /auth/register to create the first account.")
		}
	} else {
		log.Printf("Authentication mode: none (requests act as user %d)", auth.DefaultUserID)
	}

	routerCfg := http_controllers.RouterConfig{
		Database: db,
		Version:  version,

		LibraryStore: libraryRepo,
		FollowStore:  followRepo,
		BookStore:    bookRepo,
		UserStore:    userRepo,
		QuoteStore:   quoteRepo,
		ReviewStore:  reviewRepo,

		AuthConfig:     cfg.Auth,
		AuthService:    authService,
		AuthHandlers:   authHandlers,
		AuthMiddleware: authMiddleware,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if reconcileScheduler != nil {
			reconcileScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
