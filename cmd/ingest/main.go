// Package main loads an input document into a record store.
//
// The document is read from --source (http, file, or the memory fixtures) and
// appended in document order to --target (postgres, clickhouse or sqlite).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"uc-timelapse/internal/bootstrap"
	"uc-timelapse/internal/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	cfg, err := config.Load("ingest", os.Args[1:])
	if err == nil {
		err = cfg.ValidateTarget()
	}
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	logger := cfg.NewLogger(os.Stdout)
	log := logger.WithFields(logrus.Fields{
		"component": "ingest",
		"source":    cfg.Source.String(),
		"target":    cfg.Target.String(),
	})

	if cfg.Source == cfg.Target {
		log.Fatal("source and target must differ")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src, closeSource, err := bootstrap.NewSource(ctx, cfg, logger)
	if err != nil {
		log.WithError(err).Fatal("failed to open source")
	}
	defer closeSource()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, cfg.Target, logger)
	if err != nil {
		log.WithError(err).Fatal("failed to open target store")
	}
	defer closeStore()

	stats, err := Ingest(ctx, src, store, cfg.BatchSize, cfg.Target.String(), log)
	if err != nil {
		log.WithError(err).Error("ingestion failed")
		closeStore()
		closeSource()
		os.Exit(1)
	}

	log.WithFields(logrus.Fields{
		"records": stats.Records,
		"batches": stats.Batches,
		"series":  stats.Series,
		"total":   stats.StoreTotal,
		"stored":  stats.StoreSeries,
	}).Info("ingestion complete")
}
