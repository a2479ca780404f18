package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/storage"
	"uc-timelapse/internal/storage/memory"
)

func TestFileSource_Records(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"X","confirmation_date":"7/1/2024","value":5}]`), 0o644))

	records, err := NewFileSource(path).Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.RawRecord{{SeriesName: "X", RawDate: "7/1/2024", Value: 5}}, records)
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json")).Records(context.Background())

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.SourceFile, fe.Kind)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":`), 0o644))

	_, err := NewFileSource(path).Records(context.Background())
	var fe *FetchError
	assert.ErrorAs(t, err, &fe)
}

func TestStaticSource_ReturnsCopy(t *testing.T) {
	in := []domain.RawRecord{{SeriesName: "X", RawDate: "7/1/2024", Value: 1}}
	src := NewStaticSource(in)
	in[0].Value = 42

	got, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, got[0].Value)

	got[0].Value = 7
	again, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, again[0].Value)
}

func TestStaticSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStaticSource(nil).Records(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreSource_Records(t *testing.T) {
	store := memory.NewRecordStore()
	records := []domain.RawRecord{
		{SeriesName: "X", RawDate: "7/1/2024", Value: 1},
		{SeriesName: "Y", RawDate: "7/1/2024", Value: 2},
	}
	require.NoError(t, store.InsertBulk(context.Background(), records))

	src := NewStoreSource(store, domain.SourceMemory)
	got, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestStoreSource_EmptyStore(t *testing.T) {
	got, err := NewStoreSource(memory.NewRecordStore(), domain.SourceMemory).Records(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

type failingStore struct {
	storage.RecordStore
}

func (failingStore) GetAll(context.Context) ([]domain.RawRecord, error) {
	return nil, errors.New("connection refused")
}

func TestStoreSource_WrapsStoreError(t *testing.T) {
	_, err := NewStoreSource(failingStore{}, domain.SourcePostgres).Records(context.Background())

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.SourcePostgres, fe.Kind)
	assert.Contains(t, err.Error(), "connection refused")
}
