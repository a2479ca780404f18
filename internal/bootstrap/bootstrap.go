// Package bootstrap builds stores and sources from configuration for the binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"uc-timelapse/internal/config"
	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/pipeline"
	"uc-timelapse/internal/source"
	"uc-timelapse/internal/storage"
	chstore "uc-timelapse/internal/storage/clickhouse"
	"uc-timelapse/internal/storage/memory"
	"uc-timelapse/internal/storage/migrations"
	pgstore "uc-timelapse/internal/storage/postgres"
	"uc-timelapse/internal/storage/sqlite"
)

// OpenStore connects to the database named by kind, applies migrations and
// returns an instrumented RecordStore. The memory store is seeded with the
// demo fixtures. The returned cleanup must be called when done.
func OpenStore(ctx context.Context, cfg *config.Config, kind domain.SourceKind, logger logrus.FieldLogger) (storage.RecordStore, func(), error) {
	log := logger.WithFields(logrus.Fields{"component": "bootstrap", "store": kind.String()})

	switch kind {
	case domain.SourcePostgres:
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
		log.Info("postgres store ready")
		return storage.Instrument(pgstore.NewRecordStore(pool), kind.String()), pool.Close, nil

	case domain.SourceClickhouse:
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		log.Info("clickhouse store ready")
		return storage.Instrument(chstore.NewRecordStore(conn), kind.String()), func() { conn.Close() }, nil

	case domain.SourceSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("path", cfg.SQLitePath).Info("sqlite store ready")
		return storage.Instrument(store, kind.String()), func() { store.Close() }, nil

	case domain.SourceMemory:
		store := memory.NewRecordStore()
		if err := pipeline.LoadFixtures(ctx, store, cfg.CampaignStart); err != nil {
			return nil, nil, err
		}
		log.Info("memory store seeded with fixtures")
		return storage.Instrument(store, kind.String()), func() {}, nil
	}

	return nil, nil, fmt.Errorf("%w: %s is not a store", config.ErrInvalidConfig, kind)
}

// NewSource builds the input source selected by cfg.Source.
func NewSource(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (source.Source, func(), error) {
	switch cfg.Source {
	case domain.SourceHTTP:
		return source.NewHTTPSource(cfg.SourceURL, source.WithTimeout(cfg.FetchTimeout)), func() {}, nil
	case domain.SourceFile:
		return source.NewFileSource(cfg.SourcePath), func() {}, nil
	}

	store, cleanup, err := OpenStore(ctx, cfg, cfg.Source, logger)
	if err != nil {
		return nil, nil, err
	}
	return source.NewStoreSource(store, cfg.Source), cleanup, nil
}

// NewRunner builds the source and a pipeline runner over it.
func NewRunner(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*pipeline.Runner, func(), error) {
	src, cleanup, err := NewSource(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.NewRunner(src, cfg.CampaignStart).WithLogger(logger), cleanup, nil
}
