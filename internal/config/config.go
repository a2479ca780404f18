// Package config loads runtime settings from flags, environment variables and
// an optional .env file. Flags take precedence; env vars provide defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/normalization"
)

// Default values.
const (
	DefaultListenAddr       = ":8080"
	DefaultCampaignStart    = "2024-07-01"
	DefaultTopN             = 5
	DefaultPlaybackInterval = 150 * time.Millisecond
	DefaultFetchTimeout     = 30 * time.Second
	DefaultOutputDir        = "output"
	DefaultSQLitePath       = "uc_timelapse.db"
	DefaultBatchSize        = 5000
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds settings shared by all binaries. Each binary reads the fields it needs.
type Config struct {
	ListenAddr string

	// Input document
	Source        domain.SourceKind
	SourceURL     string
	SourcePath    string
	PostgresDSN   string
	ClickhouseDSN string
	SQLitePath    string
	FetchTimeout  time.Duration

	// Ingestion
	Target    domain.SourceKind // store written by cmd/ingest
	BatchSize int

	// Pipeline
	CampaignStart time.Time
	DefaultTopN   int

	// Presentation
	PlaybackInterval time.Duration
	OutputDir        string
	Title            string
	ASCIIWidth       int
	ASCIIHeight      int

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadDotEnv loads variables from the given files without overriding ones already set.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load parses args (without the program name) into a Config and validates it.
// Env vars are read at call time, so LoadDotEnv must run first.
func Load(name string, args []string) (*Config, error) {
	cfg := &Config{}
	var campaignStart string

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	flags.StringVar(&cfg.ListenAddr, "addr", envString("LISTEN_ADDR", DefaultListenAddr), "HTTP listen address")

	source := flags.String("source", envString("SOURCE", string(domain.SourceMemory)), "Input source: http, file, postgres, clickhouse, sqlite, memory")
	flags.StringVar(&cfg.SourceURL, "source-url", os.Getenv("SOURCE_URL"), "URL of the input JSON document (source=http)")
	flags.StringVar(&cfg.SourcePath, "source-path", os.Getenv("SOURCE_PATH"), "Path of the input JSON document (source=file)")
	flags.StringVar(&cfg.PostgresDSN, "postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	flags.StringVar(&cfg.ClickhouseDSN, "clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	flags.StringVar(&cfg.SQLitePath, "sqlite-path", envString("SQLITE_PATH", DefaultSQLitePath), "SQLite database file")
	flags.DurationVar(&cfg.FetchTimeout, "fetch-timeout", envDuration("FETCH_TIMEOUT", DefaultFetchTimeout), "HTTP source timeout")

	target := flags.String("target", envString("INGEST_TARGET", string(domain.SourceSQLite)), "Store written by ingest: postgres, clickhouse, sqlite")
	flags.IntVar(&cfg.BatchSize, "batch-size", envInt("INGEST_BATCH_SIZE", DefaultBatchSize), "Records per insert batch")

	flags.StringVar(&campaignStart, "campaign-start", envString("CAMPAIGN_START", DefaultCampaignStart), "First axis date (YYYY-MM-DD)")
	flags.IntVar(&cfg.DefaultTopN, "top", envInt("TOP_N", DefaultTopN), "Default number of series to display")

	flags.DurationVar(&cfg.PlaybackInterval, "playback-interval", envDuration("PLAYBACK_INTERVAL", DefaultPlaybackInterval), "Time between playback steps")
	flags.StringVar(&cfg.OutputDir, "output-dir", envString("OUTPUT_DIR", DefaultOutputDir), "Output directory for reports")
	flags.StringVar(&cfg.Title, "title", envString("CHART_TITLE", "Use Case Time-Lapse"), "Chart title")
	flags.IntVar(&cfg.ASCIIWidth, "ascii-width", envInt("ASCII_WIDTH", 100), "Terminal chart width")
	flags.IntVar(&cfg.ASCIIHeight, "ascii-height", envInt("ASCII_HEIGHT", 20), "Terminal chart height")

	flags.StringVar(&cfg.LogLevel, "log-level", envString("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flags.StringVar(&cfg.LogFormat, "log-format", envString("LOG_FORMAT", "text"), "Log format: text or json")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	cfg.Source = domain.SourceKind(*source)
	cfg.Target = domain.SourceKind(*target)

	start, err := normalization.ParseCanonical(domain.CanonicalDate(campaignStart))
	if err != nil {
		return nil, fmt.Errorf("%w: campaign-start: %v", ErrInvalidConfig, err)
	}
	cfg.CampaignStart = start

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected source has a location and numeric settings are positive.
func (c *Config) Validate() error {
	if !c.Source.IsValid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source)
	}

	switch c.Source {
	case domain.SourceHTTP:
		if c.SourceURL == "" {
			return fmt.Errorf("%w: --source-url is required for source=http", ErrInvalidConfig)
		}
	case domain.SourceFile:
		if c.SourcePath == "" {
			return fmt.Errorf("%w: --source-path is required for source=file", ErrInvalidConfig)
		}
	case domain.SourcePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: --postgres-dsn is required for source=postgres", ErrInvalidConfig)
		}
	case domain.SourceClickhouse:
		if c.ClickhouseDSN == "" {
			return fmt.Errorf("%w: --clickhouse-dsn is required for source=clickhouse", ErrInvalidConfig)
		}
	case domain.SourceSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: --sqlite-path is required for source=sqlite", ErrInvalidConfig)
		}
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: --batch-size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if c.DefaultTopN <= 0 {
		return fmt.Errorf("%w: --top must be positive, got %d", ErrInvalidConfig, c.DefaultTopN)
	}
	if c.PlaybackInterval <= 0 {
		return fmt.Errorf("%w: --playback-interval must be positive", ErrInvalidConfig)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("%w: --fetch-timeout must be positive", ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: --log-format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// ValidateTarget checks that the ingest target is a database with a location.
func (c *Config) ValidateTarget() error {
	switch c.Target {
	case domain.SourcePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: --postgres-dsn is required for target=postgres", ErrInvalidConfig)
		}
	case domain.SourceClickhouse:
		if c.ClickhouseDSN == "" {
			return fmt.Errorf("%w: --clickhouse-dsn is required for target=clickhouse", ErrInvalidConfig)
		}
	case domain.SourceSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: --sqlite-path is required for target=sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: target must be postgres, clickhouse or sqlite, got %q", ErrInvalidConfig, c.Target)
	}
	return nil
}

// NewLogger builds the process logger from the logging settings.
func (c *Config) NewLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
