// Package export writes the pipeline's output artifacts: a flat CSV, a
// nested JSON document, a summary-statistics JSON, and an interactive HTML
// choropleth map.
package export

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ncrclimate/cvi-etl/internal/config"
	"github.com/ncrclimate/cvi-etl/internal/domain"
	"github.com/ncrclimate/cvi-etl/internal/geo"
)

// Output artifact filenames under OUT_DIR.
const (
	ResultsCSVFile  = "cvi_results_all_districts.csv"
	ResultsJSONFile = "cvi_results_all_districts.json"
	SummaryFile     = "cvi_summary_statistics.json"
	MapFile         = "delhi_ncr_cvi_map.html"
)

// Exporter writes all output artifacts for one pipeline run.
// It implements pipeline.Exporter.
type Exporter struct {
	outDir     string
	boundaries *geo.BoundarySet
	logger     *slog.Logger
}

// New creates an Exporter writing under cfg.OutDir. boundaries may be nil,
// which skips the HTML map.
func New(cfg *config.Config, boundaries *geo.BoundarySet, logger *slog.Logger) *Exporter {
	return &Exporter{outDir: cfg.OutDir, boundaries: boundaries, logger: logger}
}

// Export writes the CSV, JSON, summary, and map artifacts. Any write error
// is fatal to the run.
func (e *Exporter) Export(_ context.Context, results []domain.Result) error {
	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return err
	}

	csvPath := filepath.Join(e.outDir, ResultsCSVFile)
	if err := WriteCSV(csvPath, results); err != nil {
		return err
	}
	e.logger.Info("wrote results csv", "path", csvPath, "rows", len(results))

	jsonPath := filepath.Join(e.outDir, ResultsJSONFile)
	if err := WriteJSON(jsonPath, results); err != nil {
		return err
	}
	e.logger.Info("wrote results json", "path", jsonPath)

	summaryPath := filepath.Join(e.outDir, SummaryFile)
	if err := WriteSummary(summaryPath, results); err != nil {
		return err
	}
	e.logger.Info("wrote summary statistics", "path", summaryPath)

	if e.boundaries != nil {
		mapPath := filepath.Join(e.outDir, MapFile)
		if err := WriteMap(mapPath, results, e.boundaries); err != nil {
			return err
		}
		e.logger.Info("wrote choropleth map", "path", mapPath)
	}
	return nil
}
