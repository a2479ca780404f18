package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/felixge/httpsnoop"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"uc-timelapse/internal/config"
	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/normalization"
	"uc-timelapse/internal/observability"
	"uc-timelapse/internal/pipeline"
	"uc-timelapse/internal/reporting"
	"uc-timelapse/internal/source"
)

// errBadTopN is returned for a missing-or-invalid top query parameter.
var errBadTopN = errors.New("top must be a positive integer")

// Server holds the HTTP handlers and request statistics.
type Server struct {
	runner           *pipeline.Runner
	defaultTopN      int
	playbackInterval time.Duration
	title            string
	logger           *logrus.Entry
	upgrader         websocket.Upgrader

	// State
	mu        sync.Mutex
	started   time.Time
	lastRun   time.Time
	lastRunID string
	runs      int
	failures  int
}

// NewServer creates the server around a pipeline runner.
func NewServer(runner *pipeline.Runner, cfg *config.Config, logger logrus.FieldLogger) *Server {
	title := cfg.Title
	if title == "" {
		title = reporting.DefaultTitle
	}
	topN := cfg.DefaultTopN
	if topN <= 0 {
		topN = config.DefaultTopN
	}
	return &Server{
		runner:           runner,
		defaultTopN:      topN,
		playbackInterval: cfg.PlaybackInterval,
		title:            title,
		logger:           logger.WithField("component", "http"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		started: time.Now().UTC(),
	}
}

// Router builds the HTTP handler with access logging and request metrics.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(metricsMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", observability.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/chart", s.handleChart).Methods(http.MethodGet)
	r.HandleFunc("/api/chart.csv", s.handleChartCSV).Methods(http.MethodGet)
	r.HandleFunc("/chart", s.handleChartHTML).Methods(http.MethodGet)
	r.HandleFunc("/ws/playback", s.handlePlayback).Methods(http.MethodGet)

	return handlers.CombinedLoggingHandler(s.accessLogWriter(), r)
}

// accessLogWriter pipes Apache combined log lines into the structured logger.
func (s *Server) accessLogWriter() io.Writer {
	return s.logger.WithField("component", "access").WriterLevel(logrus.InfoLevel)
}

// metricsMiddleware counts requests by route template and status code.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		m := httpsnoop.CaptureMetrics(next, w, r)
		observability.RecordHTTPRequest(route, m.Code)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status        string    `json:"status"`
	Uptime        string    `json:"uptime"`
	Started       time.Time `json:"started"`
	CampaignStart string    `json:"campaign_start"`
	DefaultTopN   int       `json:"default_top_n"`
	TopNChoices   []int     `json:"top_n_choices"`
	LastRun       time.Time `json:"last_run,omitempty"`
	LastRunID     string    `json:"last_run_id,omitempty"`
	PipelineRuns  int       `json:"pipeline_runs"`
	FailedRuns    int       `json:"failed_runs"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Status:        "running",
		Uptime:        time.Since(s.started).Round(time.Second).String(),
		Started:       s.started,
		CampaignStart: normalization.FormatCanonical(s.runner.CampaignStart()).String(),
		DefaultTopN:   s.defaultTopN,
		TopNChoices:   domain.TopNChoices,
		LastRun:       s.lastRun,
		LastRunID:     s.lastRunID,
		PipelineRuns:  s.runs,
		FailedRuns:    s.failures,
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

// handleChart returns the chart output contract as JSON with an ETag over the body.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	result, ok := s.run(w, r)
	if !ok {
		return
	}

	body, err := json.Marshal(result.Chart)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("encode chart: %w", err))
		return
	}

	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
	w.Header().Set("ETag", etag)
	w.Header().Set("X-Run-ID", result.RunID)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *Server) handleChartCSV(w http.ResponseWriter, r *http.Request) {
	result, ok := s.run(w, r)
	if !ok {
		return
	}

	data, err := reporting.RenderCSV(result.Chart)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+reporting.ChartDataFile+`"`)
	w.Write([]byte(data))
}

func (s *Server) handleChartHTML(w http.ResponseWriter, r *http.Request) {
	result, ok := s.run(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := reporting.RenderHTML(&buf, result.Chart, s.title); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// run executes the pipeline for the request's top parameter.
// On failure the error response is already written.
func (s *Server) run(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	topN, err := parseTopN(r, s.defaultTopN)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return nil, false
	}

	result, err := s.runner.Run(r.Context(), topN)
	s.recordRun(result, err)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return nil, false
	}
	return result, true
}

func (s *Server) recordRun(result *pipeline.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs++
	if err != nil {
		s.failures++
		return
	}
	s.lastRun = result.GeneratedAt
	s.lastRunID = result.RunID
}

// parseTopN reads ?top=N. Absent means def; anything but a positive integer is an error.
func parseTopN(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("top")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", errBadTopN, raw)
	}
	return n, nil
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	var parseErr *normalization.ParseError
	var fetchErr *source.FetchError

	switch {
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	msg := err.Error()
	var fetchErr *source.FetchError
	if errors.As(err, &fetchErr) {
		msg = "could not load the input document"
	}

	entry := s.logger.WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}

	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
