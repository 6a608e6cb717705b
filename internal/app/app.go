package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-auth-tasks/internal/config"
	"go-auth-tasks/internal/database"
	"go-auth-tasks/internal/handler"
	"go-auth-tasks/internal/keys"
	"go-auth-tasks/internal/middleware"
	"go-auth-tasks/internal/repository"
	"go-auth-tasks/internal/router"
	"go-auth-tasks/internal/service"
	"go-auth-tasks/internal/token"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

// NewAuth wires the identity service: credential store, key material
// (private + public), token codec, auth service, HTTP surface.
func NewAuth() (*App, error) {
	cfg, err := config.LoadAuth()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	privateKey, err := keys.LoadPrivateKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load key material: %w", err)
	}

	publicKey, err := keys.LoadPublicKey(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load key material: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureAuthSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Pool)
	issuer := token.NewIssuer(privateKey)
	verifier := token.NewVerifier(publicKey)
	authService := service.NewAuthService(userRepo, issuer, verifier, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authMiddleware := middleware.NewAuthMiddleware(verifier)
	authHandler := handler.NewAuthHandler(authService)
	metrics := middleware.NewMetrics("auth")
	healthHandler := handler.NewHealthHandler("auth-service", db)

	appRouter := router.NewAuth(router.Options{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        metrics,
		Health:         healthHandler,
	}, authMiddleware, authHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		db:           db,
		cleanupFuncs: []func(){db.Close},
	}, nil
}

// NewTasks wires the resource service: public key only, token verifier,
// per-user task repository.
func NewTasks() (*App, error) {
	cfg, err := config.LoadTasks()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	publicKey, err := keys.LoadPublicKey(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load key material: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureTasksSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	taskRepo := repository.NewTaskRepository(db.Pool)
	verifier := token.NewVerifier(publicKey)
	taskService := service.NewTaskService(taskRepo)
	authMiddleware := middleware.NewAuthMiddleware(verifier)
	taskHandler := handler.NewTaskHandler(taskService)
	metrics := middleware.NewMetrics("tasks")
	healthHandler := handler.NewHealthHandler("tasks-service", db)

	appRouter := router.NewTasks(router.Options{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        metrics,
		Health:         healthHandler,
	}, authMiddleware, taskHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		db:           db,
		cleanupFuncs: []func(){db.Close},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
