// Package pipeline orchestrates one batch run: extract all sources, compute
// the vulnerability index per district, and export the artifacts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ncrclimate/cvi-etl/internal/domain"
	"github.com/ncrclimate/cvi-etl/internal/observability"
)

// Extractor loads all source tables into a dataset.
type Extractor interface {
	Extract(ctx context.Context) (*domain.Dataset, error)
}

// Calculator computes the full result for one district.
type Calculator interface {
	Compute(ctx context.Context, ds *domain.Dataset, district domain.District) (domain.Result, error)
}

// Exporter writes the output artifacts for a completed run.
type Exporter interface {
	Export(ctx context.Context, results []domain.Result) error
}

// ResultSink publishes results to an external destination. Optional.
type ResultSink interface {
	Publish(ctx context.Context, results []domain.Result) error
}

// Pipeline runs the extract-compute-export sequence once.
type Pipeline struct {
	extractor  Extractor
	calculator Calculator
	exporter   Exporter
	sink       ResultSink
	districts  []domain.District
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Pipeline over the full district list. sink may be nil.
func New(e Extractor, c Calculator, x Exporter, sink ResultSink, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:  e,
		calculator: c,
		exporter:   x,
		sink:       sink,
		districts:  domain.Districts,
		logger:     logger,
		metrics:    metrics,
	}
}

// WithDistricts restricts the run to a subset of districts.
func (p *Pipeline) WithDistricts(districts []domain.District) *Pipeline {
	p.districts = districts
	return p
}

// Run executes one batch run. A district whose computation fails is logged
// and skipped; extract and export failures abort the run.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "districts", len(p.districts))
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	start := time.Now()
	ds, err := p.extractor.Extract(ctx)
	if err != nil {
		return fmt.Errorf("extract sources: %w", err)
	}
	p.metrics.StageDuration.WithLabelValues("extract").Observe(time.Since(start).Seconds())

	results, err := p.computeAll(ctx, ds)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no district produced a result")
	}

	start = time.Now()
	if err := p.exporter.Export(ctx, results); err != nil {
		return fmt.Errorf("export results: %w", err)
	}
	p.metrics.StageDuration.WithLabelValues("export").Observe(time.Since(start).Seconds())

	if p.sink != nil {
		if err := p.sink.Publish(ctx, results); err != nil {
			return fmt.Errorf("publish results: %w", err)
		}
		p.metrics.ResultsPublished.Add(float64(len(results)))
	}

	p.logger.Info("pipeline finished", "results", len(results))
	return nil
}

// computeAll runs the per-district calculation over the configured list.
func (p *Pipeline) computeAll(ctx context.Context, ds *domain.Dataset) ([]domain.Result, error) {
	start := time.Now()
	results := make([]domain.Result, 0, len(p.districts))
	for _, d := range p.districts {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result, err := p.calculator.Compute(ctx, ds, d)
		if err != nil {
			p.logger.Warn("district computation failed, skipping",
				"district", d.Name, "error", err)
			p.metrics.ComputeErrors.Inc()
			continue
		}
		results = append(results, result)
		p.metrics.DistrictsProcessed.Inc()
	}
	p.metrics.StageDuration.WithLabelValues("compute").Observe(time.Since(start).Seconds())
	return results, nil
}
