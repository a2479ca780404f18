package reporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"uc-timelapse/internal/observability"
	"uc-timelapse/internal/pipeline"
)

// Output file names written by WriteArtifacts.
const (
	ChartDataFile = "CHART_DATA.csv"
	ReportFile    = "REPORT.md"
	ChartHTMLFile = "chart.html"
)

// DefaultTitle is the chart title used when none is configured.
const DefaultTitle = "Use Case Time-Lapse"

// Generator produces reports from pipeline runs.
type Generator struct {
	runner *pipeline.Runner
	title  string
}

// NewGenerator creates a new report generator.
func NewGenerator(runner *pipeline.Runner) *Generator {
	return &Generator{
		runner: runner,
		title:  DefaultTitle,
	}
}

// WithTitle sets the chart and page title.
func (g *Generator) WithTitle(title string) *Generator {
	g.title = title
	return g
}

// Generate runs the pipeline once and builds the report.
func (g *Generator) Generate(ctx context.Context, topN int) (*Report, error) {
	result, err := g.runner.Run(ctx, topN)
	if err != nil {
		return nil, err
	}
	return NewReport(result, topN), nil
}

// WriteArtifacts writes the CSV matrix, Markdown report and HTML chart into dir.
// Returns the written paths.
func (g *Generator) WriteArtifacts(dir string, r *Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	csvData, err := RenderCSV(r.Chart)
	if err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}

	var html strings.Builder
	if err := RenderHTML(&html, r.Chart, g.title); err != nil {
		return nil, err
	}

	files := []struct {
		name   string
		format string
		data   string
	}{
		{ChartDataFile, "csv", csvData},
		{ReportFile, "markdown", RenderMarkdown(r)},
		{ChartHTMLFile, "html", html.String()},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.data), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
		observability.RecordReport(f.format)
		paths = append(paths, path)
	}

	return paths, nil
}
