package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hostbuddy/api/internal/api"
	"github.com/hostbuddy/api/internal/config"
	"github.com/hostbuddy/api/internal/db"
	"github.com/hostbuddy/api/internal/logger"
	"github.com/hostbuddy/api/internal/metrics"
	"github.com/hostbuddy/api/internal/repository/dao"
	"github.com/hostbuddy/api/internal/storage"
)

const bucketSetupTimeout = 10 * time.Second

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	if err = logger.SetLevel(conf.Log.Level); err != nil {
		return fmt.Errorf("failed to set log level -> %w", err)
	}
	config.Watch(func(c *config.AppConfig) {
		if err := logger.SetLevel(c.Log.Level); err != nil {
			zap.L().Warn("ignoring log level from reloaded config", zap.Error(err))
			return
		}
		zap.L().Info("config reloaded", zap.String("log_level", c.Log.Level))
	}, func(err error) {
		zap.L().Warn("config reload rejected", zap.Error(err))
	})

	postgresDB, err := openDatabase(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}
	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to initialize tables -> %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	blobs, err := openBlobStore(conf, collector)
	if err != nil {
		return fmt.Errorf("failed to initialize blob storage -> %w", err)
	}

	s, err := api.NewServer(conf, postgresDB, blobs, collector, registry)
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

func openDatabase(conf *config.AppConfig) (*gorm.DB, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		return db.OpenPostgresWithURL(dbURL, conf.Postgres)
	}

	return db.OpenPostgres(conf.Postgres)
}

func openBlobStore(conf *config.AppConfig, recorder metrics.Recorder) (*storage.BlobStore, error) {
	client, err := storage.NewMinioClient(conf.Storage)
	if err != nil {
		return nil, err
	}

	blobs := storage.NewBlobStore(client, conf.Storage, recorder)

	ctx, cancel := context.WithTimeout(context.Background(), bucketSetupTimeout)
	defer cancel()
	if err = blobs.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	return blobs, nil
}
