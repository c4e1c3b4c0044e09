package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/bookclub-cafe/internal/auth"
	"github.com/iliyamo/bookclub-cafe/internal/config"
	"github.com/iliyamo/bookclub-cafe/internal/database"
	"github.com/iliyamo/bookclub-cafe/internal/handler"
	"github.com/iliyamo/bookclub-cafe/internal/logging"
	"github.com/iliyamo/bookclub-cafe/internal/middleware"
	"github.com/iliyamo/bookclub-cafe/internal/queue"
	"github.com/iliyamo/bookclub-cafe/internal/repository"
	"github.com/iliyamo/bookclub-cafe/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bookclub:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(os.Stdout, logging.Config{
		Format: cfg.LogFormat,
		Level:  logging.ParseLevel(cfg.LogLevel),
		Env:    cfg.Env,
	})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var rdb *redis.Client
	if cfg.RedisEnabled {
		rdb, err = config.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, cache and rate limiting disabled", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}
	cache := middleware.NewResponseCache(cfg.Cache, rdb, log)

	var pub queue.Publisher = queue.NopPublisher{}
	if cfg.Queue.Enabled {
		pub = queue.NewAMQPPublisher(cfg.Queue.URL, cfg.Queue.Name)
		consumer := &queue.Consumer{
			URL:   cfg.Queue.URL,
			Queue: cfg.Queue.Name,
			Log:   queue.NewRegistrationLog(cfg.Queue.LogDir),
			Zap:   log.Named("consumer"),
		}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("registration consumer stopped", zap.Error(err))
			}
		}()
	}
	defer pub.Close()

	iss := auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.AccessTTLMin)*time.Minute)
	deps := handler.Deps{Store: store, Cache: cache, Timeout: cfg.RequestTimeout}
	handlers := router.Handlers{
		Events:        handler.NewEventHandler(deps),
		Registrations: handler.NewRegistrationHandler(deps, pub),
		Cafes:         handler.NewCafeHandler(deps),
		Clubs:         handler.NewClubHandler(deps),
		Profiles:      handler.NewProfileHandler(deps),
		Auth:          handler.NewAuthHandler(deps, iss, cfg.BcryptCost),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))

	router.RegisterAll(e, handlers, router.Guards{
		Issuer:    iss,
		Cache:     cache.Middleware(),
		RateLimit: middleware.NewTokenBucket(cfg.RateLimit, rdb, log),
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("store", cfg.StoreDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openStore builds the configured store and loads the sample data when
// enabled.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (repository.Store, func(), error) {
	var (
		store repository.Store
		db    *sql.DB
	)
	switch cfg.StoreDriver {
	case config.DriverMySQL:
		var err error
		db, err = database.Open(ctx, database.Options{
			User: cfg.DBUser,
			Pass: cfg.DBPass,
			Host: cfg.DBHost,
			Port: cfg.DBPort,
			Name: cfg.DBName,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		store = repository.NewSQLStore(db)
	default:
		store = repository.NewMemoryStore()
	}
	closeFn := func() {
		if db != nil {
			_ = db.Close()
		}
	}

	// The in-memory store starts empty, so it is always seeded.
	if cfg.SeedData || cfg.StoreDriver == config.DriverMemory {
		if err := repository.Seed(ctx, store, time.Now().UTC()); err != nil {
			closeFn()
			return nil, nil, err
		}
		log.Info("sample data loaded")
	}
	return store, closeFn, nil
}
