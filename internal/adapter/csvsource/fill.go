package csvsource

import (
	"github.com/ncrclimate/cvi-etl/internal/domain"
	"github.com/ncrclimate/cvi-etl/internal/geo"
)

type yearMonth struct {
	year  int
	month int
}

// FillRainfall synthesizes rainfall series for boundary districts that have
// no rainfall rows of their own, averaging the adjacent districts' values per
// year and month. Returns the number of districts filled.
func FillRainfall(ds *domain.Dataset, boundaries *geo.BoundarySet) int {
	byDistrict := make(map[string]map[yearMonth]float64)
	var periods []yearMonth
	seen := make(map[yearMonth]bool)
	for _, r := range ds.Rainfall {
		key := domain.Key(r.District)
		if byDistrict[key] == nil {
			byDistrict[key] = make(map[yearMonth]float64)
		}
		ym := yearMonth{r.Year, r.Month}
		byDistrict[key][ym] = r.Rainfall
		if !seen[ym] {
			seen[ym] = true
			periods = append(periods, ym)
		}
	}

	filled := 0
	for _, name := range boundaries.CanonicalNames() {
		if len(byDistrict[domain.Key(name)]) > 0 {
			continue
		}

		var neighborSeries []map[yearMonth]float64
		for _, neighbor := range boundaries.Neighbors(name) {
			if series := byDistrict[domain.Key(neighbor)]; len(series) > 0 {
				neighborSeries = append(neighborSeries, series)
			}
		}
		if len(neighborSeries) == 0 {
			continue
		}

		for _, ym := range periods {
			var sum float64
			n := 0
			for _, series := range neighborSeries {
				if v, ok := series[ym]; ok {
					sum += v
					n++
				}
			}
			if n == 0 {
				continue
			}
			ds.Rainfall = append(ds.Rainfall, domain.RainfallRecord{
				Year:     ym.year,
				Month:    ym.month,
				District: name,
				Rainfall: sum / float64(n),
			})
		}
		filled++
	}
	return filled
}
