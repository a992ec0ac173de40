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
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/commerce/pkg/db"
	"github.com/Skotchmaster/commerce/pkg/events"
	"github.com/Skotchmaster/commerce/pkg/logging"
	"github.com/Skotchmaster/commerce/pkg/metrics"
	loggingmw "github.com/Skotchmaster/commerce/pkg/middleware/logging"

	commercecfg "github.com/Skotchmaster/commerce/services/commerce/internal/config"
	"github.com/Skotchmaster/commerce/services/commerce/internal/httpserver"
	"github.com/Skotchmaster/commerce/services/commerce/internal/pricing"
	"github.com/Skotchmaster/commerce/services/commerce/internal/repo"
	"github.com/Skotchmaster/commerce/services/commerce/internal/service"
)

func main() {
	app := &cli.App{
		Name:  "commerce",
		Usage: "cart, wishlist and order service",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before reading the environment"},
		},
		Before: func(c *cli.Context) error {
			if err := godotenv.Load(c.String("env-file")); err != nil {
				log.Printf("warning: could not load %s: %v", c.String("env-file"), err)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema",
				Action: migrate,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDB(cfg commercecfg.ServiceConfig) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return pkgdb.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
}

func migrate(c *cli.Context) error {
	cfg, err := commercecfg.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer pkgdb.Close(db)

	if err := (&repo.GormRepo{DB: db}).AutoMigrate(c.Context); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("migrate_success")
	return nil
}

func serve(c *cli.Context) error {
	cfg, err := commercecfg.Load()
	if err != nil {
		return err
	}
	cfg.RequireJWT()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	r := &repo.GormRepo{DB: db}
	if cfg.DatabaseDriver == pkgdb.DriverSQLite {
		// an in-memory database starts empty on every run
		if err := r.AutoMigrate(c.Context); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.OrderEventsTopic)
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	var prices pricing.Resolver = r
	catalog := &service.CatalogService{Repo: r}
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cache := pricing.NewCachedResolver(rdb, r, cfg.PriceCacheTTL)
		prices = cache
		catalog.Cache = cache
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewServerMetrics(cfg.ServiceName, reg)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(m.Middleware())

	httpserver.Register(e, &httpserver.Deps{
		CartHandler:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: r}},
		WishlistHandler: &httpserver.WishlistHTTP{Svc: &service.WishlistService{Repo: r}},
		OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Repo:         r,
			Prices:       prices,
			Events:       publisher,
			Metrics:      m,
			MissingPrice: cfg.MissingPrice(),
			ReadPolicy:   cfg.OrderRead(),
		}},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog},
		JWTSecret:      cfg.JWTAccessSecret,
		Metrics:        m,
		Ready: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	go func() {
		logger.Info("server_start", "port", cfg.ServerPort)
		if err := e.Start(":" + strconv.Itoa(cfg.ServerPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_start_error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("server_shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo_shutdown_error", "error", err)
	}

	if err := publisher.Close(); err != nil {
		logger.Error("publisher_close_error", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis_close_error", "error", err)
		}
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("server_stopped")
	return nil
}
