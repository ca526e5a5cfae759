// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/infrastructure/database/postgres"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/infrastructure/database/redis"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/interfaces/http"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/interfaces/http/routes"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/lock"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.Setup(cfg)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("starting")

	db, err := postgres.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Health(); err != nil {
		log.Fatalf("Database health check failed: %v", err)
	}

	opts := routes.Options{}
	var rdb *goredis.Client

	if cfg.Redis.Enabled {
		redisClient, err := redis.NewConnection(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		rdb = redisClient.GetClient()
		opts.Cache = redisClient
	}

	switch cfg.Checkout.LockProvider {
	case config.LockProviderRedis:
		opts.Locker = lock.NewRedisLocker(rdb, cfg.Checkout.LockTTL, cfg.Checkout.LockWait)
	default:
		opts.Locker = lock.NewLocalLocker()
	}
	log.WithField("provider", cfg.Checkout.LockProvider).Info("stock lock configured")

	services := routes.NewServices(db.GetDB(), cfg, opts)

	migration := postgres.NewMigration(db.GetDB(), cfg, services.Ledger)

	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	if err := migration.CreateIndexes(); err != nil {
		log.WithError(err).Warn("index creation failed")
	}

	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(); err != nil {
			log.WithError(err).Warn("data seeding failed")
		}
	}

	server := http.NewServer(cfg, db.GetDB(), rdb, services)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.WithError(err).Error("failed to shutdown HTTP server gracefully")
	}

	log.Info("server shutdown completed")
}
