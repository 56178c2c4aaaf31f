package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"

	"github.com/capstore/online_shop/internal/config"
	"github.com/capstore/online_shop/internal/events"
	"github.com/capstore/online_shop/internal/httpserver"
	"github.com/capstore/online_shop/internal/lock"
	"github.com/capstore/online_shop/internal/metrics"
	authmw "github.com/capstore/online_shop/internal/middleware/auth"
	"github.com/capstore/online_shop/internal/report"
	"github.com/capstore/online_shop/internal/repo"
	"github.com/capstore/online_shop/internal/search"
	"github.com/capstore/online_shop/internal/seed"
	"github.com/capstore/online_shop/internal/service"
	"github.com/capstore/online_shop/internal/storage"
	"github.com/capstore/online_shop/internal/tracing"
	pkgdb "github.com/capstore/online_shop/pkg/db"
	"github.com/capstore/online_shop/pkg/logging"
	loggingmw "github.com/capstore/online_shop/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	cfg.Validate()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	decimal.MarshalJSONWithoutQuotes = true

	rootCtx := logging.IntoContext(context.Background(), logger)

	if cfg.JaegerEndpoint != "" {
		tp, err := tracing.Init(rootCtx, cfg.ServiceName, cfg.JaegerEndpoint)
		if err != nil {
			log.Fatalf("tracing init: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("tracer shutdown failed", "error", err)
			}
		}()
	}

	ctx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	ctx, cancel = context.WithTimeout(rootCtx, 10*time.Second)
	readModel, err := pkgdb.OpenReadModel(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("read model open: %v", err)
	}

	r := repo.New(db)

	var publisher events.Publisher = events.Nop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
	}

	catalog := &service.CatalogService{Repo: r, Events: publisher}
	if cfg.ESURL != "" {
		idx, err := search.New(rootCtx, search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Warn("search index unavailable, using database text search", "error", err)
		} else {
			catalog.Index = idx
		}
	}

	checkout := &service.CheckoutService{
		Repo:               r,
		Events:             publisher,
		DestinationAccount: cfg.BankDestinationAccount,
	}
	var rdbClose func() error
	if cfg.RedisAddr != "" {
		rdb, err := lock.NewClient(rootCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, checkout runs without a distributed lock", "error", err)
		} else {
			checkout.Locker = &lock.RedisLocker{RDB: rdb, TTL: cfg.CheckoutLockTTL}
			rdbClose = rdb.Close
		}
	}

	if cfg.SeedOnStart {
		if err := seed.Run(rootCtx, r, seed.Admin{Email: cfg.SeedAdminEmail, Password: cfg.SeedAdminPassword}); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}
	if n, err := catalog.Reindex(rootCtx); err != nil {
		logger.Warn("reindex failed", "indexed", n, "error", err)
	} else if n > 0 {
		logger.Info("catalog indexed", "count", n)
	}

	images, err := storage.NewImageStore(cfg.UploadDir, cfg.UploadURLPrefix)
	if err != nil {
		log.Fatalf("image store: %v", err)
	}

	authSvc := &service.AuthService{Repo: r, JWTSecret: cfg.JWTSecret, TokenTTL: cfg.JWTExpire, Events: publisher}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpserver.NewValidator()
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	if len(cfg.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	} else {
		e.Use(echomw.CORS())
	}
	e.Use(metrics.Middleware())

	httpserver.Register(e, &httpserver.Deps{
		DB:      db,
		Auth:    &httpserver.AuthHTTP{Svc: authSvc},
		Users:   &httpserver.UserHTTP{Svc: &service.UserService{Repo: r, Events: publisher}},
		Catalog: &httpserver.CatalogHTTP{Svc: catalog, Images: images},
		Cart:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Events: publisher}},
		Orders: &httpserver.OrderHTTP{
			Checkout: checkout,
			Orders:   &service.OrderService{Repo: r},
		},
		Reports:         &httpserver.ReportHTTP{Svc: &service.ReportService{Reader: &report.Reader{DB: readModel}}},
		Guard:           authmw.NewGuard(authSvc, service.ErrAccountDisabled),
		UploadDir:       cfg.UploadDir,
		UploadURLPrefix: cfg.UploadURLPrefix,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close failed", "error", err)
		}
	}
	if rdbClose != nil {
		_ = rdbClose()
	}
	_ = readModel.Close()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server stopped")
}
