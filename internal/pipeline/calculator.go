package pipeline

import (
	"context"
	"log/slog"

	"github.com/ncrclimate/cvi-etl/internal/domain"
	"github.com/ncrclimate/cvi-etl/internal/observability"
)

// IndexCalculator computes the vulnerability index from the loaded dataset.
// It implements Calculator.
type IndexCalculator struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewIndexCalculator creates the default per-district calculator.
func NewIndexCalculator(logger *slog.Logger, metrics *observability.Metrics) *IndexCalculator {
	return &IndexCalculator{logger: logger, metrics: metrics}
}

// Compute resolves the district against every source, counting misses, then
// runs the index calculation. Missing data never fails a district; it
// contributes zero to the affected indicators.
func (c *IndexCalculator) Compute(_ context.Context, ds *domain.Dataset, district domain.District) (domain.Result, error) {
	c.countMisses(ds, district.Name)
	return domain.ComputeResult(ds, district, c.logger), nil
}

func (c *IndexCalculator) countMisses(ds *domain.Dataset, name string) {
	if len(ds.RainfallSeries(name)) == 0 {
		c.metrics.ResolveMisses.WithLabelValues("rainfall").Inc()
	}
	if len(ds.TemperatureSeries(name)) == 0 {
		c.metrics.ResolveMisses.WithLabelValues("temperature").Inc()
	}
	if _, ok := ds.PopulationDensity(name); !ok {
		c.metrics.ResolveMisses.WithLabelValues("population").Inc()
	}
	if _, ok := ds.IncomeFor(name); !ok {
		c.metrics.ResolveMisses.WithLabelValues("income").Inc()
	}
	if len(ds.GroundwaterSeries(name)) == 0 {
		c.metrics.ResolveMisses.WithLabelValues("groundwater").Inc()
	}
}
