package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"uc-timelapse/internal/domain"
)

// Default configuration values.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 32 << 20
)

// HTTPSource fetches the input document with a single GET. Failures are not retried.
type HTTPSource struct {
	url      string
	client   *http.Client
	maxBytes int64
}

// HTTPOption configures HTTPSource.
type HTTPOption func(*HTTPSource)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		s.client.Timeout = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.client = client
	}
}

// WithMaxBytes limits the accepted response body size.
func WithMaxBytes(n int64) HTTPOption {
	return func(s *HTTPSource) {
		s.maxBytes = n
	}
}

// NewHTTPSource creates a source for the document at url.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:      url,
		client:   &http.Client{Timeout: DefaultTimeout},
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSource) Kind() domain.SourceKind { return domain.SourceHTTP }

// Records downloads and decodes the document.
// Every failure is returned as *FetchError.
func (s *HTTPSource) Records(ctx context.Context) ([]domain.RawRecord, error) {
	if s.url == "" {
		return nil, &FetchError{Kind: domain.SourceHTTP, Err: ErrEmptyLocation}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, s.fail(0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, s.fail(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, s.fail(0, fmt.Errorf("read body: %w", err))
	}
	if int64(len(body)) > s.maxBytes {
		return nil, s.fail(0, fmt.Errorf("document exceeds %d bytes", s.maxBytes))
	}

	records, err := DecodeDocument(body)
	if err != nil {
		return nil, s.fail(0, err)
	}
	return records, nil
}

func (s *HTTPSource) fail(status int, err error) *FetchError {
	return &FetchError{Kind: domain.SourceHTTP, Location: s.url, StatusCode: status, Err: err}
}
