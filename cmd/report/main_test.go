package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uc-timelapse/internal/config"
	"uc-timelapse/internal/reporting"
)

func TestRun_FixturesWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load("report", []string{
		"--source", "memory",
		"--output-dir", dir,
		"--top", "3",
		"--ascii-width", "60",
		"--ascii-height", "10",
	})
	require.NoError(t, err)

	logger, hook := logtest.NewNullLogger()
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, logger, &out))

	for _, name := range []string{reporting.ChartDataFile, reporting.ReportFile, reporting.ChartHTMLFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.NotZero(t, info.Size(), name)
	}

	assert.Contains(t, out.String(), " 1. ")
	assert.Contains(t, out.String(), " 3. ")
	assert.Equal(t, "reports generated", hook.LastEntry().Message)
}

func TestRun_FileSourceMissing(t *testing.T) {
	cfg, err := config.Load("report", []string{
		"--source", "file",
		"--source-path", filepath.Join(t.TempDir(), "missing.json"),
		"--output-dir", t.TempDir(),
	})
	require.NoError(t, err)

	logger, _ := logtest.NewNullLogger()
	err = run(context.Background(), cfg, logger, &bytes.Buffer{})
	assert.Error(t, err)
}
