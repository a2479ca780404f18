// Package main runs the pipeline once and writes the chart artifacts:
// CHART_DATA.csv, REPORT.md and chart.html in --output-dir, plus a terminal
// chart on stdout.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"uc-timelapse/internal/bootstrap"
	"uc-timelapse/internal/config"
	"uc-timelapse/internal/reporting"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load("report", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Logs go to stderr so stdout carries only the chart
	logger := cfg.NewLogger(os.Stderr)

	if err := run(context.Background(), cfg, logger, os.Stdout); err != nil {
		logger.WithError(err).Error("report failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger, out io.Writer) error {
	start := time.Now()
	log := logger.WithField("component", "report")

	runner, cleanup, err := bootstrap.NewRunner(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}
	defer cleanup()

	gen := reporting.NewGenerator(runner).WithTitle(cfg.Title)

	report, err := gen.Generate(ctx, cfg.DefaultTopN)
	if err != nil {
		return err
	}

	paths, err := gen.WriteArtifacts(cfg.OutputDir, report)
	if err != nil {
		return err
	}

	fmt.Fprint(out, reporting.RenderASCII(report.Chart, cfg.ASCIIWidth, cfg.ASCIIHeight))

	log.WithFields(logrus.Fields{
		"run_id":   report.RunID,
		"series":   len(report.Series),
		"rows":     report.Rows,
		"files":    paths,
		"duration": time.Since(start).String(),
	}).Info("reports generated")

	return nil
}
