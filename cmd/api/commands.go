package main

import (
	"context"
	"fmt"
	"time"

	"yamdb/proj/internal/api/tasks"
	"yamdb/proj/internal/config"
	"yamdb/proj/internal/importer"
	"yamdb/proj/internal/lib/logger"
	"yamdb/proj/internal/services"
	"yamdb/proj/internal/storage/postgres"
	storagemodels "yamdb/proj/internal/storage/postgres/models"
	"yamdb/proj/internal/storage/redis"

	"github.com/spf13/cobra"
)

const connectTimeout = 5 * time.Second

var csvDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(true)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(false)
	},
}

var loadCSVCmd = &cobra.Command{
	Use:   "load-csv",
	Short: "Load users, catalog, reviews and comments from csv files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoadCSV(cmd.Context(), csvDir)
	},
}

func connectDB(ctx context.Context, cfg *config.Config) (*postgres.PostgresDB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	return postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	log := logger.SetupLogger(cfg.Debug)
	db, err := connectDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()
	log.Info("database connection established")

	redisCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	redisClient, err := redis.New(redisCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	log.Info("redis connection established", "addr", cfg.Redis.Addr)

	bgTasks := tasks.New(log, cfg.Tasks.MaxWorkers, cfg.Tasks.QueueSize)
	bgTasks.Run()
	svcs := services.New(
		log,
		cfg,
		storagemodels.New(db),
		redis.NewCodeStore(redisClient, cfg.Auth.ConfirmationCodeTTL),
		bgTasks,
	)
	app := NewApplication(cfg, log, svcs)
	return app.serve(ctx, bgTasks.Shutdown)
}

func runMigrate(up bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	return postgres.Migrate(cfg.DB.Dsn, up, logger.SetupLogger(cfg.Debug))
}

func runLoadCSV(ctx context.Context, dir string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	log := logger.SetupLogger(cfg.Debug)
	db, err := connectDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()
	if _, err := importer.New(log, storagemodels.New(db).Bulk).LoadDir(ctx, dir); err != nil {
		return err
	}
	log.Info("data loaded", "dir", dir)
	return nil
}
