package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	catalogcache "github.com/sergen67/4CodeApps/internal/catalog/cache"
	catalogrepo "github.com/sergen67/4CodeApps/internal/catalog/repository"
	catalogsvc "github.com/sergen67/4CodeApps/internal/catalog/service"
	"github.com/sergen67/4CodeApps/internal/db"
	"github.com/sergen67/4CodeApps/internal/sales/publisher"
	salesrepo "github.com/sergen67/4CodeApps/internal/sales/repository"
	salessvc "github.com/sergen67/4CodeApps/internal/sales/service"
	"github.com/sergen67/4CodeApps/internal/server"
	usersrepo "github.com/sergen67/4CodeApps/internal/users/repository"
	userssvc "github.com/sergen67/4CodeApps/internal/users/service"
	"github.com/sergen67/4CodeApps/pkg/config"
	"github.com/sergen67/4CodeApps/pkg/logger"
)

type Config struct {
	HTTPPort        string
	DB              db.Credentials
	RedisAddr       string
	KafkaBrokers    string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	Env             string
}

func loadConfig() *Config {
	return &Config{
		HTTPPort: config.Env("HTTP_PORT", "3000"),
		DB: db.Credentials{
			Host:              config.Env("DB_HOST", "localhost"),
			Port:              config.EnvInt("DB_PORT", 5432),
			User:              config.Env("DB_USER", "postgres"),
			Password:          config.Env("DB_PASSWORD", "postgres"),
			DBName:            config.Env("DB_NAME", "pos"),
			MigrationsDirPath: config.Env("MIGRATIONS_PATH", "migrations"),
		},
		RedisAddr:       config.Env("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    config.Env("KAFKA_BROKERS", "localhost:9092"),
		RequestTimeout:  config.EnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: config.EnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        config.Env("LOG_LEVEL", "info"),
		Env:             config.Env("APP_ENV", "dev"),
	}
}

func main() {
	cfg := loadConfig()
	log := logger.New(logger.Options{
		Service: "pos-server",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
	})

	conn, err := db.Connect(&cfg.DB)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := db.RunMigrations(conn, cfg.DB.MigrationsDirPath); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	catalogService := catalogsvc.NewCatalogService(
		catalogrepo.NewRepository(conn),
		catalogcache.NewRedisCache(redisClient),
		log,
	)
	saleRepository := salesrepo.NewRepository(conn)
	salesService := salessvc.NewSalesService(saleRepository, log)
	userService := userssvc.NewUserService(usersrepo.NewRepository(conn), log)

	router := server.NewRouter(
		server.NewProductHandler(catalogService, cfg.RequestTimeout),
		server.NewSalesHandler(salesService, cfg.RequestTimeout),
		server.NewUserHandler(userService, cfg.RequestTimeout),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "pos-server"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		poller := publisher.NewOutboxPoller(saleRepository, log, cfg.KafkaBrokers)
		poller.Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server exited")
}
