package domain

import "log/slog"

// Fixed indicator weights and normalization denominators. These are part of
// the published methodology and are not runtime-configurable.
const (
	weightRainfallCV  = 0.25
	weightExtremeRain = 0.15
	weightAvgMaxTemp  = 0.15
	weightTempVar     = 0.15
	weightHeatWaves   = 0.10
	weightAQI         = 0.20

	normExtremeRain = 10  // extreme rainfall events
	normAvgMaxTemp  = 50  // deg C
	normTempVar     = 10  // deg C
	normHeatWaves   = 20  // events
	normAQI         = 400 // severe threshold on the Indian AQI scale

	weightDensity   = 0.6
	weightDepletion = 0.4
	normDensity     = 20000 // persons/km2
	normDepletion   = 2     // m/year

	weightIncome  = 0.7
	weightUrban   = 0.3
	normIncome    = 1_000_000 // rupees (10 lakh)
	normUrbanRate = 100       // already a percentage
)

// ExposureComponents are the raw (un-normalized) indicators behind an
// Exposure score.
type ExposureComponents struct {
	RainfallCV            float64 `json:"rainfall_cv"`
	ExtremeRainfallEvents int     `json:"extreme_rainfall_events"`
	AvgMaxTemp            float64 `json:"avg_max_temp"`
	TempVariability       float64 `json:"temp_variability"`
	HeatWaveCount         int     `json:"heat_wave_count"`
	AQI                   float64 `json:"aqi"`
}

// SensitivityComponents are the raw indicators behind a Sensitivity score.
type SensitivityComponents struct {
	PopulationDensity   float64 `json:"population_density"`
	GWDepletionRate     float64 `json:"gw_depletion_rate"`
	AvgGroundwaterLevel float64 `json:"avg_gw_level"`
}

// AdaptiveCapacityComponents are the raw indicators behind an Adaptive
// Capacity score.
type AdaptiveCapacityComponents struct {
	Income           float64 `json:"income"`
	UrbanizationRate float64 `json:"urbanization_rate"`
}

// ComputeExposure derives the Exposure index for a district from its rainfall
// and temperature series plus the static AQI constant. Missing series are
// logged and contribute zero.
func ComputeExposure(ds *Dataset, district string, logger *slog.Logger) (float64, ExposureComponents) {
	comp := ExposureComponents{AQI: AQIFor(district)}

	rain := ds.RainfallSeries(district)
	if len(rain) == 0 {
		logger.Warn("no rainfall data for district", "district", district)
	} else {
		if m := mean(rain); m > 0 {
			comp.RainfallCV = stddev(rain) / m
		}
		comp.ExtremeRainfallEvents = countAbove(rain, percentile(rain, 0.95))
	}

	temps := ds.TemperatureSeries(district)
	if len(temps) == 0 {
		logger.Warn("no temperature data for district", "district", district)
	} else {
		comp.AvgMaxTemp = mean(temps)
		comp.TempVariability = stddev(temps)
		comp.HeatWaveCount = countAbove(temps, percentile(temps, 0.95))
	}

	return ExposureScore(comp), comp
}

// ExposureScore applies the fixed Exposure weights to raw components.
func ExposureScore(comp ExposureComponents) float64 {
	return weightRainfallCV*comp.RainfallCV +
		weightExtremeRain*(float64(comp.ExtremeRainfallEvents)/normExtremeRain) +
		weightAvgMaxTemp*(comp.AvgMaxTemp/normAvgMaxTemp) +
		weightTempVar*(comp.TempVariability/normTempVar) +
		weightHeatWaves*(float64(comp.HeatWaveCount)/normHeatWaves) +
		weightAQI*(comp.AQI/normAQI)
}

// ComputeSensitivity derives the Sensitivity index from population density
// and the groundwater depletion trend. The depletion rate is the negated OLS
// slope of level against year, floored at zero so only depletion counts.
func ComputeSensitivity(ds *Dataset, district string, logger *slog.Logger) (float64, SensitivityComponents) {
	var comp SensitivityComponents

	density, ok := ds.PopulationDensity(district)
	if !ok {
		logger.Warn("no population data for district", "district", district)
	}
	comp.PopulationDensity = density

	gw := ds.GroundwaterSeries(district)
	if len(gw) == 0 {
		logger.Warn("no groundwater data for district", "district", district)
	} else {
		years := make([]float64, len(gw))
		levels := make([]float64, len(gw))
		for i, r := range gw {
			years[i] = float64(r.Year)
			levels[i] = r.Level
		}
		if slope := trendSlope(years, levels); slope < 0 {
			comp.GWDepletionRate = -slope
		}
		comp.AvgGroundwaterLevel = mean(levels)
	}

	return SensitivityScore(comp), comp
}

// SensitivityScore applies the fixed Sensitivity weights to raw components.
func SensitivityScore(comp SensitivityComponents) float64 {
	return weightDensity*(comp.PopulationDensity/normDensity) +
		weightDepletion*(comp.GWDepletionRate/normDepletion)
}

// ComputeAdaptiveCapacity derives the Adaptive Capacity index from per-capita
// income and the urbanization rate (an infrastructure proxy).
func ComputeAdaptiveCapacity(ds *Dataset, district string, logger *slog.Logger) (float64, AdaptiveCapacityComponents) {
	var comp AdaptiveCapacityComponents

	income, ok := ds.IncomeFor(district)
	if !ok {
		logger.Warn("no income data for district", "district", district)
	}
	comp.Income = income

	rate, ok := ds.UrbanizationRate(district)
	if !ok {
		logger.Warn("no urbanization data for district", "district", district)
	}
	comp.UrbanizationRate = rate

	return AdaptiveCapacityScore(comp), comp
}

// AdaptiveCapacityScore applies the fixed Adaptive Capacity weights to raw components.
func AdaptiveCapacityScore(comp AdaptiveCapacityComponents) float64 {
	return weightIncome*(comp.Income/normIncome) +
		weightUrban*(comp.UrbanizationRate/normUrbanRate)
}
