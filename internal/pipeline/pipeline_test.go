package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncrclimate/cvi-etl/internal/domain"
	"github.com/ncrclimate/cvi-etl/internal/observability"
	"github.com/ncrclimate/cvi-etl/internal/pipeline"
)

// --- mocks ---

type mockExtractor struct {
	ds  *domain.Dataset
	err error
}

func (m *mockExtractor) Extract(_ context.Context) (*domain.Dataset, error) {
	return m.ds, m.err
}

type mockCalculator struct {
	failFor string
}

func (m *mockCalculator) Compute(_ context.Context, _ *domain.Dataset, d domain.District) (domain.Result, error) {
	if d.Name == m.failFor {
		return domain.Result{}, errors.New("bad indicator data")
	}
	return domain.Result{District: d.Name, State: d.State, VulnerabilityLevel: domain.LevelLow}, nil
}

type mockExporter struct {
	exported []domain.Result
	err      error
}

func (m *mockExporter) Export(_ context.Context, results []domain.Result) error {
	if m.err != nil {
		return m.err
	}
	m.exported = results
	return nil
}

type mockSink struct {
	published []domain.Result
	err       error
}

func (m *mockSink) Publish(_ context.Context, results []domain.Result) error {
	if m.err != nil {
		return m.err
	}
	m.published = results
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Each Metrics carries its own registry, so tests can create them freely.
	return observability.NewMetrics()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	ext := &mockExtractor{ds: &domain.Dataset{}}
	exp := &mockExporter{}
	sink := &mockSink{}

	p := pipeline.New(ext, &mockCalculator{}, exp, sink, testLogger(), newTestMetrics())

	err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, exp.exported, len(domain.Districts))
	assert.Len(t, sink.published, len(domain.Districts))
}

func TestPipeline_Run_NoSink(t *testing.T) {
	ext := &mockExtractor{ds: &domain.Dataset{}}
	exp := &mockExporter{}

	p := pipeline.New(ext, &mockCalculator{}, exp, nil, testLogger(), newTestMetrics())

	require.NoError(t, p.Run(context.Background()))
	assert.Len(t, exp.exported, len(domain.Districts))
}

func TestPipeline_Run_ExtractError(t *testing.T) {
	ext := &mockExtractor{err: errors.New("source file missing")}
	exp := &mockExporter{}

	p := pipeline.New(ext, &mockCalculator{}, exp, nil, testLogger(), newTestMetrics())

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract sources")
	assert.Empty(t, exp.exported)
}

func TestPipeline_Run_SkipsFailedDistrict(t *testing.T) {
	ext := &mockExtractor{ds: &domain.Dataset{}}
	exp := &mockExporter{}
	// Fail the canonical spelling; "Gurgaon" is only a source-table alias
	// and would never match the district list.
	failed, ok := domain.ResolveDistrict("Gurugram")
	require.True(t, ok)
	require.Equal(t, "Gurugram", failed.Name)
	calc := &mockCalculator{failFor: failed.Name}

	p := pipeline.New(ext, calc, exp, nil, testLogger(), newTestMetrics())

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, exp.exported, len(domain.Districts)-1)
	for _, r := range exp.exported {
		assert.NotEqual(t, failed.Name, r.District)
	}
}

func TestPipeline_Run_ExportError(t *testing.T) {
	ext := &mockExtractor{ds: &domain.Dataset{}}
	exp := &mockExporter{err: errors.New("disk full")}

	p := pipeline.New(ext, &mockCalculator{}, exp, nil, testLogger(), newTestMetrics())

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export results")
}

func TestPipeline_Run_SinkError(t *testing.T) {
	ext := &mockExtractor{ds: &domain.Dataset{}}
	exp := &mockExporter{}
	sink := &mockSink{err: errors.New("broker unreachable")}

	p := pipeline.New(ext, &mockCalculator{}, exp, sink, testLogger(), newTestMetrics())

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish results")
	assert.Len(t, exp.exported, len(domain.Districts))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{ds: &domain.Dataset{}}
	exp := &mockExporter{}

	p := pipeline.New(ext, &mockCalculator{}, exp, nil, testLogger(), newTestMetrics())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Run(ctx)
	require.Error(t, err)
	assert.Empty(t, exp.exported)
}

// TestPipeline_Run_EndToEnd computes real indices for two districts: one with
// data in every source, one absent from all of them. The absent district's
// score comes entirely from defaults, which lands at 0.2153 (MODERATE) for
// Charki Dadri's AQI of 102.
func TestPipeline_Run_EndToEnd(t *testing.T) {
	// Census and income rows use the pre-rename "Gurgaon" spelling, so the
	// alias step of the matching ladder is on the path.
	ds := &domain.Dataset{
		Rainfall: []domain.RainfallRecord{
			{Year: 2013, Month: 6, District: "Gurugram", Rainfall: 55},
			{Year: 2013, Month: 7, District: "Gurugram", Rainfall: 190},
			{Year: 2013, Month: 8, District: "Gurugram", Rainfall: 160},
		},
		Temperature: []domain.TemperatureRecord{
			{Year: 2013, Month: 5, District: "Gurugram", MaxT: 41.0},
			{Year: 2013, Month: 6, District: "Gurugram", MaxT: 39.5},
		},
		Population: []domain.PopulationRecord{
			{AreaName: "Gurgaon", Level: "DISTRICT", Type: "Total", Population: 1514432, Density: 1241},
			{AreaName: "Gurgaon", Level: "DISTRICT", Type: "Urban", Population: 1042253, Density: 1241},
		},
		Income: []domain.IncomeRecord{
			{District: "Gurgaon", Income: 450000},
		},
		Groundwater: []domain.GroundwaterRecord{
			{District: "Gurugram", Year: 2015, Level: 12.0},
			{District: "Gurugram", Year: 2020, Level: 18.0},
		},
	}

	districts := []domain.District{
		{Name: "Gurugram", State: "Haryana"},
		{Name: "Charki Dadri", State: "Haryana"},
	}

	ext := &mockExtractor{ds: ds}
	exp := &mockExporter{}
	metrics := newTestMetrics()
	calc := pipeline.NewIndexCalculator(testLogger(), metrics)

	p := pipeline.New(ext, calc, exp, nil, testLogger(), metrics).WithDistricts(districts)

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, exp.exported, 2)

	complete, missing := exp.exported[0], exp.exported[1]
	assert.Equal(t, "Gurugram", complete.District)
	assert.Greater(t, complete.Sensitivity, 0.0)
	assert.Greater(t, complete.AdaptiveCapacity, 0.0)

	assert.Equal(t, "Charki Dadri", missing.District)
	assert.Zero(t, missing.Sensitivity)
	assert.Zero(t, missing.AdaptiveCapacity)
	assert.InDelta(t, 0.2153, missing.CVIScore, 1e-9)
	assert.Equal(t, domain.LevelModerate, missing.VulnerabilityLevel)
}
