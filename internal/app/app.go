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

	"github.com/robertgriman1702/daka-technical-assessment/internal/config"
	"github.com/robertgriman1702/daka-technical-assessment/internal/database"
	"github.com/robertgriman1702/daka-technical-assessment/internal/event"
	"github.com/robertgriman1702/daka-technical-assessment/internal/handler"
	"github.com/robertgriman1702/daka-technical-assessment/internal/middleware"
	"github.com/robertgriman1702/daka-technical-assessment/internal/repository"
	"github.com/robertgriman1702/daka-technical-assessment/internal/router"
	"github.com/robertgriman1702/daka-technical-assessment/internal/service"
	"github.com/robertgriman1702/daka-technical-assessment/internal/token"
	"github.com/robertgriman1702/daka-technical-assessment/internal/websocket"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Pool)
	slog.Info("database ready")

	tokenManager, err := token.NewManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token manager: %w", err)
	}

	revocations := service.NewRevocationRegistry()
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	go revocations.StartSweeper(sweepCtx, cfg.RevocationSweepInterval)

	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	authService := service.NewAuthService(userRepo, hasher, tokenManager, revocations)
	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	spriteService := service.NewSpriteService(cfg.SpriteAPIBaseURL, cfg.SpriteAPITimeout, bus)
	spriteHandler := handler.NewSpriteHandler(spriteService)
	wsHandler := websocket.ServeWS(hub, authService, spriteService)

	appRouter := router.New(cfg, authMiddleware, authHandler, spriteHandler, wsHandler)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				db.Close()
			},
			func() {
				sweepCancel()
			},
		},
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

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
