package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fintrack/fintrack/internal/api"
	"github.com/fintrack/fintrack/internal/core/service"
	"github.com/fintrack/fintrack/internal/infrastructure/config"
	mongodb "github.com/fintrack/fintrack/internal/infrastructure/db/mongo"
	redisdb "github.com/fintrack/fintrack/internal/infrastructure/db/redis"
	"github.com/fintrack/fintrack/internal/infrastructure/queue"
	"github.com/fintrack/fintrack/internal/token"
	"github.com/fintrack/fintrack/pkg/logger"

	_ "github.com/fintrack/fintrack/docs" // swagger spec registration
)

const shutdownTimeout = 10 * time.Second

// @title        fintrack API
// @version      1.0
// @description  Token-authenticated personal-finance backend.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// A missing signing secret is a deployment error: refuse to start
	// rather than serve protected routes with unverifiable tokens.
	codec, err := token.New(cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET must be set")
	}

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	authRepo := mongodb.NewAuthRepository(db)
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, mongodb.NewActivityRepository(db), log)
	dispatcher.Start(ctx)

	authService := service.NewAuthService(authRepo, codec, cfg.TokenTTL, log).
		WithThrottle(redisdb.NewLoginThrottle(rdb)).
		WithActivity(dispatcher)

	deps := api.Deps{
		AuthService: authService,
		Codec:       codec,
		Mongo:       db,
		Redis:       rdb,
		ClientDir:   cfg.ClientDir,
		Log:         log,
	}
	if cfg.FinanceAPIURL != "" {
		upstream, err := url.Parse(cfg.FinanceAPIURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid FINANCE_API_URL")
		}
		deps.FinanceUpstream = upstream
	}

	e := api.NewRouter(deps)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped cleanly")
}
