// Package source loads the raw input document the pipeline aggregates.
//
// Every source returns the complete record list in document order, or an error.
// Partial documents are never returned.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/storage"
)

// ErrEmptyLocation is returned when a source is configured without a URL or path.
var ErrEmptyLocation = errors.New("source location is empty")

// Source provides the raw records of one input document.
type Source interface {
	// Records returns all records in document order.
	Records(ctx context.Context) ([]domain.RawRecord, error)

	// Kind identifies the source for logs and metrics.
	Kind() domain.SourceKind
}

// FetchError reports a failure to load the input document.
type FetchError struct {
	Kind       domain.SourceKind
	Location   string // URL, path or store name
	StatusCode int    // HTTP status, 0 if not applicable
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s %s: status %d", e.Kind, e.Location, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s %s: %v", e.Kind, e.Location, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DecodeDocument parses a JSON input document.
func DecodeDocument(data []byte) ([]domain.RawRecord, error) {
	var records []domain.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if records == nil {
		records = []domain.RawRecord{}
	}
	return records, nil
}

// StaticSource serves a fixed record list.
type StaticSource struct {
	records []domain.RawRecord
}

// NewStaticSource creates a source over a copy of records.
func NewStaticSource(records []domain.RawRecord) *StaticSource {
	cp := make([]domain.RawRecord, len(records))
	copy(cp, records)
	return &StaticSource{records: cp}
}

func (s *StaticSource) Records(ctx context.Context) ([]domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.RawRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *StaticSource) Kind() domain.SourceKind { return domain.SourceMemory }

// FileSource reads the input document from a local JSON file on every call.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the JSON file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Records(ctx context.Context) ([]domain.RawRecord, error) {
	if s.path == "" {
		return nil, &FetchError{Kind: domain.SourceFile, Err: ErrEmptyLocation}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &FetchError{Kind: domain.SourceFile, Location: s.path, Err: err}
	}

	records, err := DecodeDocument(data)
	if err != nil {
		return nil, &FetchError{Kind: domain.SourceFile, Location: s.path, Err: err}
	}
	return records, nil
}

func (s *FileSource) Kind() domain.SourceKind { return domain.SourceFile }

// StoreSource reads records from a RecordStore in insertion order.
type StoreSource struct {
	store storage.RecordStore
	kind  domain.SourceKind
}

// NewStoreSource wraps store. kind names the backing database.
func NewStoreSource(store storage.RecordStore, kind domain.SourceKind) *StoreSource {
	return &StoreSource{store: store, kind: kind}
}

func (s *StoreSource) Records(ctx context.Context) ([]domain.RawRecord, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, &FetchError{Kind: s.kind, Location: "raw_records", Err: err}
	}
	if records == nil {
		records = []domain.RawRecord{}
	}
	return records, nil
}

func (s *StoreSource) Kind() domain.SourceKind { return s.kind }
