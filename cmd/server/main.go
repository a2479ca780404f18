// Package main serves the use case time-lapse chart:
// - JSON API (/api/chart, /api/chart.csv) computed per request
// - HTML chart page (/chart)
// - Playback stream over WebSocket (/ws/playback)
// - Health, status and Prometheus metrics
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"uc-timelapse/internal/bootstrap"
	"uc-timelapse/internal/config"
)

func main() {
	// Load .env file if exists
	if err := config.LoadDotEnv(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	cfg, err := config.Load("server", os.Args[1:])
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	logger := cfg.NewLogger(os.Stdout)
	log := logger.WithField("component", "server")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner, cleanup, err := bootstrap.NewRunner(ctx, cfg, logger)
	if err != nil {
		log.WithError(err).Fatal("failed to create pipeline runner")
	}
	defer cleanup()

	server := NewServer(runner, cfg, logger)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// Closed once in-flight requests have drained
	shutdownDone := make(chan struct{})

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.WithField("signal", sig.String()).Info("initiating graceful shutdown")
		cancel()

		// Second signal forces immediate exit
		go func() {
			sig := <-sigCh
			log.WithField("signal", sig.String()).Warn("forcing immediate shutdown")
			os.Exit(1)
		}()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("graceful shutdown timed out")
		}
		close(shutdownDone)
	}()

	log.WithFields(logrus.Fields{
		"addr":   cfg.ListenAddr,
		"source": cfg.Source.String(),
		"top_n":  cfg.DefaultTopN,
	}).Info("starting HTTP server")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("HTTP server error")
	}
	<-shutdownDone

	log.Info("shutdown complete")
}
