package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"cinefile/internal/db"
	"cinefile/internal/store"
	"cinefile/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func loadConfig(c *cli.Context) (*types.Config, error) {
	if envFile := c.String("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	cfg := new(types.Config)
	if err := envconfig.Process(c.String("env-prefix"), cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills zero values left by the environment.
func applyDefaults(cfg *types.Config) {
	if cfg.ServerPort == 0 {
		cfg.ServerPort = 8080
	}

	if cfg.ReadTimeoutSec == 0 {
		cfg.ReadTimeoutSec = 10
	}

	if cfg.WriteTimeoutSec == 0 {
		cfg.WriteTimeoutSec = 15
	}

	if cfg.UpdateTimeoutSec == 0 {
		cfg.UpdateTimeoutSec = 5
	}
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

func newLogger(cfg *types.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// openMovieRepository loads config and connects to the catalog. The caller
// closes the returned pool.
func openMovieRepository(c *cli.Context) (*store.MovieRepository, *pgxpool.Pool, *types.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := db.Connect(c.Context, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return store.NewMovieRepository(pool), pool, cfg, nil
}
