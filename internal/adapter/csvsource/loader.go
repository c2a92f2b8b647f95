// Package csvsource extracts the five tabular CVI sources from CSV files
// into a domain.Dataset.
package csvsource

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"

	"github.com/ncrclimate/cvi-etl/internal/config"
	"github.com/ncrclimate/cvi-etl/internal/domain"
	"github.com/ncrclimate/cvi-etl/internal/geo"
)

// Source loads the CVI dataset from CSV files under a data directory.
// It implements pipeline.Extractor.
type Source struct {
	cfg        *config.Config
	boundaries *geo.BoundarySet
	logger     *slog.Logger
}

// New creates a Source. boundaries may be nil, which disables the rainfall
// neighbor fill regardless of configuration.
func New(cfg *config.Config, boundaries *geo.BoundarySet, logger *slog.Logger) *Source {
	return &Source{cfg: cfg, boundaries: boundaries, logger: logger}
}

// Extract loads all five source tables. A missing source file is fatal;
// individual rows with unparseable numerics are dropped with a warning.
func (s *Source) Extract(_ context.Context) (*domain.Dataset, error) {
	ds := &domain.Dataset{}

	var err error
	if ds.Rainfall, err = s.loadRainfall(); err != nil {
		return nil, err
	}
	if ds.Temperature, err = s.loadTemperature(); err != nil {
		return nil, err
	}
	if ds.Population, err = s.loadPopulation(); err != nil {
		return nil, err
	}
	if ds.Income, err = s.loadIncome(); err != nil {
		return nil, err
	}
	if ds.Groundwater, err = s.loadGroundwater(); err != nil {
		return nil, err
	}

	if s.cfg.RainfallFill && s.boundaries != nil {
		filled := FillRainfall(ds, s.boundaries)
		if filled > 0 {
			s.logger.Info("filled missing rainfall series from neighbors", "districts", filled)
		}
	}

	s.logger.Info("dataset loaded",
		"rainfall_rows", len(ds.Rainfall),
		"temperature_rows", len(ds.Temperature),
		"population_rows", len(ds.Population),
		"income_rows", len(ds.Income),
		"groundwater_rows", len(ds.Groundwater),
	)
	return ds, nil
}

// readCSV parses a CSV file into a dataframe and verifies required columns.
func readCSV(path string, required ...string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f)
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse %s: %w", path, df.Error())
	}

	have := make(map[string]bool, len(df.Names()))
	for _, name := range df.Names() {
		have[name] = true
	}
	for _, col := range required {
		if !have[col] {
			return dataframe.DataFrame{}, fmt.Errorf("%s: missing required column %q", path, col)
		}
	}
	return df, nil
}

// loadRainfall reads the monthly rainfall table, preferring the
// neighbor-filled variant when it exists beside the base file.
func (s *Source) loadRainfall() ([]domain.RainfallRecord, error) {
	path := s.cfg.SourcePath(config.RainfallFilledFile)
	if _, err := os.Stat(path); err != nil {
		path = s.cfg.SourcePath(config.RainfallFile)
	}

	df, err := readCSV(path, "YEAR", "MONTH", "DISTRICT_NAME", "RAINFALL")
	if err != nil {
		return nil, err
	}

	years := df.Col("YEAR").Float()
	months := df.Col("MONTH").Float()
	names := df.Col("DISTRICT_NAME").Records()
	values := df.Col("RAINFALL").Float()

	records := make([]domain.RainfallRecord, 0, df.Nrow())
	dropped := 0
	for i := 0; i < df.Nrow(); i++ {
		if math.IsNaN(values[i]) || math.IsNaN(years[i]) || math.IsNaN(months[i]) {
			dropped++
			continue
		}
		records = append(records, domain.RainfallRecord{
			Year:     int(years[i]),
			Month:    int(months[i]),
			District: names[i],
			Rainfall: values[i],
		})
	}
	if dropped > 0 {
		s.logger.Warn("dropped rainfall rows with unparseable values", "rows", dropped, "path", path)
	}
	return records, nil
}

func (s *Source) loadTemperature() ([]domain.TemperatureRecord, error) {
	path := s.cfg.SourcePath(config.TemperatureFile)
	df, err := readCSV(path, "YEAR", "MONTH", "DISTRICT_NAME", "maxT")
	if err != nil {
		return nil, err
	}

	years := df.Col("YEAR").Float()
	months := df.Col("MONTH").Float()
	names := df.Col("DISTRICT_NAME").Records()
	maxT := df.Col("maxT").Float()

	records := make([]domain.TemperatureRecord, 0, df.Nrow())
	dropped := 0
	for i := 0; i < df.Nrow(); i++ {
		if math.IsNaN(maxT[i]) {
			dropped++
			continue
		}
		records = append(records, domain.TemperatureRecord{
			Year:     int(years[i]),
			Month:    int(months[i]),
			District: names[i],
			MaxT:     maxT[i],
		})
	}
	if dropped > 0 {
		s.logger.Warn("dropped temperature rows with unparseable values", "rows", dropped, "path", path)
	}
	return records, nil
}

func (s *Source) loadPopulation() ([]domain.PopulationRecord, error) {
	path := s.cfg.SourcePath(config.PopulationFile)
	df, err := readCSV(path, "Area_Name", "Level", "Type", "Population", "Pop_Density")
	if err != nil {
		return nil, err
	}

	areas := df.Col("Area_Name").Records()
	levels := df.Col("Level").Records()
	types := df.Col("Type").Records()
	population := df.Col("Population").Float()
	density := df.Col("Pop_Density").Float()

	records := make([]domain.PopulationRecord, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		// Unparseable census numbers degrade to zero, matching the
		// zero-fill policy rather than dropping the row entirely.
		pop, dens := population[i], density[i]
		if math.IsNaN(pop) {
			pop = 0
		}
		if math.IsNaN(dens) {
			dens = 0
		}
		records = append(records, domain.PopulationRecord{
			AreaName:   areas[i],
			Level:      levels[i],
			Type:       types[i],
			Population: pop,
			Density:    dens,
		})
	}
	return records, nil
}

func (s *Source) loadIncome() ([]domain.IncomeRecord, error) {
	path := s.cfg.SourcePath(config.IncomeFile)
	df, err := readCSV(path, "DISTRICT", "INCOME")
	if err != nil {
		return nil, err
	}

	names := df.Col("DISTRICT").Records()
	incomes := df.Col("INCOME").Float()

	records := make([]domain.IncomeRecord, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		income := incomes[i]
		if math.IsNaN(income) {
			income = 0
		}
		records = append(records, domain.IncomeRecord{District: names[i], Income: income})
	}
	return records, nil
}

func (s *Source) loadGroundwater() ([]domain.GroundwaterRecord, error) {
	path := s.cfg.SourcePath(config.GroundwaterFile)
	df, err := readCSV(path, "district_geojson", "year", "currentlevel")
	if err != nil {
		return nil, err
	}

	names := df.Col("district_geojson").Records()
	years := df.Col("year").Float()
	levels := df.Col("currentlevel").Float()

	records := make([]domain.GroundwaterRecord, 0, df.Nrow())
	dropped := 0
	for i := 0; i < df.Nrow(); i++ {
		if math.IsNaN(years[i]) || math.IsNaN(levels[i]) {
			dropped++
			continue
		}
		records = append(records, domain.GroundwaterRecord{
			District: names[i],
			Year:     int(years[i]),
			Level:    levels[i],
		})
	}
	if dropped > 0 {
		s.logger.Warn("dropped groundwater rows with unparseable values", "rows", dropped, "path", path)
	}
	return records, nil
}
