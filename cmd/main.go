package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/avolkov/authd/internal/api/http/handler"
	"github.com/avolkov/authd/internal/api/http/middleware"
	"github.com/avolkov/authd/internal/api/http/router"
	"github.com/avolkov/authd/internal/config"
	"github.com/avolkov/authd/internal/logger"
	"github.com/avolkov/authd/internal/password"
	"github.com/avolkov/authd/internal/repository/postgres"
	"github.com/avolkov/authd/internal/service"
	"github.com/avolkov/authd/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	hasher := password.NewHasher(cfg.Password.Cost)

	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, userRepo, logger)
	authService := service.NewAuth(userRepo, hasher, tokenService, logger)
	userService := service.NewUsers(userRepo, hasher, tokenService, logger)
	janitor := service.NewJanitor(refreshTokenRepo, cfg.Janitor.Interval, cfg.Janitor.Retention, logger)

	h := router.New(router.Dependencies{
		Auth:            handler.NewAuthHandler(authService, tokenService, logger),
		Users:           handler.NewUserHandler(userService, logger),
		Gate:            middleware.NewAuthenticate(tokenService, logger),
		Logger:          logger,
		RequestTimeout:  cfg.HTTP.RequestTimeout,
		RateLimit:       cfg.HTTP.RateLimit,
		RateLimitWindow: cfg.HTTP.RateLimitWindow,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTP.Port),
		Handler: h,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		janitor.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err)
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
