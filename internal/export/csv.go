package export

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/ncrclimate/cvi-etl/internal/domain"
)

// csvHeader lists the flat result columns: scores first, then the indicator
// components, then the timestamp.
var csvHeader = []string{
	"district", "state",
	"exposure", "sensitivity", "adaptive_capacity",
	"potential_impact", "ouv_vulnerability", "esc_impact",
	"community_vulnerability", "cvi_score", "vulnerability_level",
	"rainfall_cv", "extreme_rainfall_events", "avg_max_temp",
	"temp_variability", "heat_wave_count", "aqi",
	"population_density", "gw_depletion_rate", "avg_gw_level",
	"income", "urbanization_rate",
	"computed_at",
}

// WriteCSV writes one flat row per district result.
func WriteCSV(path string, results []domain.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := w.Write(csvRow(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func csvRow(r domain.Result) []string {
	return []string{
		r.District, r.State,
		ftoa(r.Exposure), ftoa(r.Sensitivity), ftoa(r.AdaptiveCapacity),
		ftoa(r.PotentialImpact), ftoa(r.OUVVulnerability), ftoa(r.ESCImpact),
		ftoa(r.CommunityVulnerability), ftoa(r.CVIScore), string(r.VulnerabilityLevel),
		ftoa(r.ExposureComponents.RainfallCV),
		strconv.Itoa(r.ExposureComponents.ExtremeRainfallEvents),
		ftoa(r.ExposureComponents.AvgMaxTemp),
		ftoa(r.ExposureComponents.TempVariability),
		strconv.Itoa(r.ExposureComponents.HeatWaveCount),
		ftoa(r.ExposureComponents.AQI),
		ftoa(r.SensitivityComponents.PopulationDensity),
		ftoa(r.SensitivityComponents.GWDepletionRate),
		ftoa(r.SensitivityComponents.AvgGroundwaterLevel),
		ftoa(r.AdaptiveCapacityComponents.Income),
		ftoa(r.AdaptiveCapacityComponents.UrbanizationRate),
		r.ComputedAt.Format(time.RFC3339),
	}
}

// ftoa formats with the shortest representation that round-trips, so the CSV
// and JSON artifacts carry identical values.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
