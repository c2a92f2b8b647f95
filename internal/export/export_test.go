package export

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncrclimate/cvi-etl/internal/config"
	"github.com/ncrclimate/cvi-etl/internal/domain"
	"github.com/ncrclimate/cvi-etl/internal/geo"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleResults() []domain.Result {
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return []domain.Result{
		{
			District: "Gurugram", State: "Haryana",
			Exposure: 0.454, Sensitivity: 0.61, AdaptiveCapacity: 0.52,
			PotentialImpact: 0.532, OUVVulnerability: 0.25536,
			ESCImpact: 0.353216, CommunityVulnerability: 0.16954368,
			CVIScore: 0.16954368, VulnerabilityLevel: domain.LevelLow,
			ExposureComponents: domain.ExposureComponents{
				RainfallCV: 0.8, ExtremeRainfallEvents: 3, AvgMaxTemp: 34.2,
				TempVariability: 4.1, HeatWaveCount: 6, AQI: 322,
			},
			SensitivityComponents: domain.SensitivityComponents{
				PopulationDensity: 1241, GWDepletionRate: 0.9, AvgGroundwaterLevel: 18.4,
			},
			AdaptiveCapacityComponents: domain.AdaptiveCapacityComponents{
				Income: 450000, UrbanizationRate: 68.8,
			},
			ComputedAt: at,
		},
		{
			District: "Alwar", State: "Rajasthan",
			Exposure: 0.31, Sensitivity: 0.22, AdaptiveCapacity: 0.12,
			CVIScore: 0.2153, VulnerabilityLevel: domain.LevelModerate,
			ComputedAt: at,
		},
		{
			District: "Baghpat", State: "Uttar Pradesh",
			CVIScore: 0.61, VulnerabilityLevel: domain.LevelVeryHigh,
			ComputedAt: at,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), ResultsCSVFile)
	require.NoError(t, WriteCSV(path, sampleResults()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, csvHeader, rows[0])

	assert.Equal(t, "Gurugram", rows[1][0])
	assert.Equal(t, "0.454", rows[1][2])
	assert.Equal(t, "LOW", rows[1][10])
	assert.Equal(t, "3", rows[1][12])
	assert.Equal(t, "2026-08-30T12:00:00Z", rows[1][22])
}

func TestCSVAndJSONAgree(t *testing.T) {
	dir := t.TempDir()
	results := sampleResults()

	csvPath := filepath.Join(dir, ResultsCSVFile)
	jsonPath := filepath.Join(dir, ResultsJSONFile)
	require.NoError(t, WriteCSV(csvPath, results))
	require.NoError(t, WriteJSON(jsonPath, results))

	fromJSON, err := ReadJSON(jsonPath)
	require.NoError(t, err)
	if diff := cmp.Diff(results, fromJSON); diff != "" {
		t.Fatalf("JSON roundtrip mismatch (-want +got):\n%s", diff)
	}

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	for i, r := range fromJSON {
		row := rows[i+1]
		assert.Equal(t, r.District, row[0])
		score, err := strconv.ParseFloat(row[9], 64)
		require.NoError(t, err)
		assert.Equal(t, r.CVIScore, score)
		assert.Equal(t, string(r.VulnerabilityLevel), row[10])
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResults())

	assert.Equal(t, 3, s.TotalDistricts)
	assert.Equal(t, 0.61, s.MaxCVI)
	assert.InDelta(t, 0.16954368, s.MinCVI, 1e-12)
	assert.InDelta(t, 0.2153, s.MedianCVI, 1e-12)
	assert.InDelta(t, (0.16954368+0.2153+0.61)/3, s.AverageCVI, 1e-12)

	assert.Equal(t, 1, s.VulnerabilityDistribution[domain.LevelLow])
	assert.Equal(t, 1, s.VulnerabilityDistribution[domain.LevelModerate])
	assert.Equal(t, 0, s.VulnerabilityDistribution[domain.LevelHigh])
	assert.Equal(t, 1, s.VulnerabilityDistribution[domain.LevelVeryHigh])

	assert.Equal(t, []string{"Baghpat", "Alwar", "Gurugram"}, s.MostVulnerable)
	assert.Equal(t, []string{"Gurugram", "Alwar", "Baghpat"}, s.LeastVulnerable)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.TotalDistricts)
	assert.Zero(t, s.AverageCVI)
	assert.Empty(t, s.MostVulnerable)
}

const mapBoundaryGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"dtname": "Gurugram"},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]}
    },
    {
      "type": "Feature",
      "properties": {"dtname": "Mystery Tract"},
      "geometry": {"type": "Polygon", "coordinates": [[[2,0],[3,0],[3,1],[2,1],[2,0]]]}
    }
  ]
}`

func loadMapBoundaries(t *testing.T) *geo.BoundarySet {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boundaries.geojson")
	require.NoError(t, os.WriteFile(path, []byte(mapBoundaryGeoJSON), 0o644))
	bs, err := geo.Load(path, discardLogger())
	require.NoError(t, err)
	return bs
}

func TestWriteMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), MapFile)
	require.NoError(t, WriteMap(path, sampleResults(), loadMapBoundaries(t)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(raw)

	assert.Contains(t, html, "Delhi NCR Climate Vulnerability Index")

	// The Gurugram boundary resolves to the matching result, so its score
	// and level land in the feature properties.
	assert.Contains(t, html, "Gurugram")
	assert.Contains(t, html, `"cvi_score":0.16954368`)
	assert.Contains(t, html, `"vulnerability_level":"LOW"`)

	// The unresolvable feature stays on the map with placeholder properties.
	assert.Contains(t, html, "Mystery Tract")
	assert.Contains(t, html, `"vulnerability_level":"UNKNOWN"`)
}

func TestExportWritesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{OutDir: filepath.Join(dir, "out")}
	e := New(cfg, loadMapBoundaries(t), discardLogger())

	require.NoError(t, e.Export(context.Background(), sampleResults()))

	for _, name := range []string{ResultsCSVFile, ResultsJSONFile, SummaryFile, MapFile} {
		_, err := os.Stat(filepath.Join(cfg.OutDir, name))
		assert.NoError(t, err, name)
	}
}
