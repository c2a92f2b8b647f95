package domain

import (
	"sort"
	"strings"
)

// RainfallRecord is one monthly district rainfall average in millimeters.
type RainfallRecord struct {
	Year     int
	Month    int
	District string
	Rainfall float64
}

// TemperatureRecord is one monthly district temperature average in Celsius.
type TemperatureRecord struct {
	Year     int
	Month    int
	District string
	MaxT     float64
}

// PopulationRecord is one census row. Level distinguishes DISTRICT rows from
// sub-district rows; Type is Total, Urban, or Rural.
type PopulationRecord struct {
	AreaName   string
	Level      string
	Type       string
	Population float64
	Density    float64
}

// IncomeRecord is per-capita income in rupees for a district.
type IncomeRecord struct {
	District string
	Income   float64
}

// GroundwaterRecord is one yearly water-table depth observation in meters.
type GroundwaterRecord struct {
	District string
	Year     int
	Level    float64
}

// Dataset holds all source tables for one pipeline run, loaded once and read
// by the per-district index calculators. Lookups are by district name with
// the matching ladder described in the package documentation.
type Dataset struct {
	Rainfall    []RainfallRecord
	Temperature []TemperatureRecord
	Population  []PopulationRecord
	Income      []IncomeRecord
	Groundwater []GroundwaterRecord
}

func firstToken(name string) string {
	fields := strings.Fields(Key(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// RainfallSeries returns the monthly rainfall values for a district: exact
// match on the cleaned name first, then first-token substring match.
func (ds *Dataset) RainfallSeries(district string) []float64 {
	key := Key(district)
	var out []float64
	for _, r := range ds.Rainfall {
		if Key(r.District) == key {
			out = append(out, r.Rainfall)
		}
	}
	if len(out) > 0 {
		return out
	}
	token := firstToken(district)
	for _, r := range ds.Rainfall {
		if strings.Contains(Key(r.District), token) {
			out = append(out, r.Rainfall)
		}
	}
	return out
}

// TemperatureSeries returns the monthly max-temperature values for a
// district. The first pass matches the source spelling exactly, the fallback
// is a case-insensitive first-token substring match.
func (ds *Dataset) TemperatureSeries(district string) []float64 {
	var out []float64
	for _, r := range ds.Temperature {
		if r.District == district {
			out = append(out, r.MaxT)
		}
	}
	if len(out) > 0 {
		return out
	}
	token := firstToken(district)
	for _, r := range ds.Temperature {
		if strings.Contains(Key(r.District), token) {
			out = append(out, r.MaxT)
		}
	}
	return out
}

// populationRows returns census rows for a district, aliased spelling first,
// preferring DISTRICT-level rows when any exist.
func (ds *Dataset) populationRows(district string) []PopulationRecord {
	key := Key(searchName(district))

	var rows []PopulationRecord
	for _, r := range ds.Population {
		if Key(r.AreaName) == key {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		token := firstToken(searchName(district))
		for _, r := range ds.Population {
			if strings.Contains(Key(r.AreaName), token) {
				rows = append(rows, r)
			}
		}
	}

	var districtLevel []PopulationRecord
	for _, r := range rows {
		if r.Level == "DISTRICT" {
			districtLevel = append(districtLevel, r)
		}
	}
	if len(districtLevel) > 0 {
		return districtLevel
	}
	return rows
}

// PopulationDensity returns the district's population density from the
// district-level Total census row, or (0, false) when no row matches.
func (ds *Dataset) PopulationDensity(district string) (float64, bool) {
	for _, r := range ds.populationRows(district) {
		if r.Type == "Total" {
			return r.Density, true
		}
	}
	return 0, false
}

// UrbanizationRate returns urban population as a percentage of total
// population, or (0, false) when either census row is missing.
func (ds *Dataset) UrbanizationRate(district string) (float64, bool) {
	rows := ds.populationRows(district)
	var total, urban float64
	var haveTotal, haveUrban bool
	for _, r := range rows {
		switch r.Type {
		case "Total":
			if !haveTotal {
				total, haveTotal = r.Population, true
			}
		case "Urban":
			if !haveUrban {
				urban, haveUrban = r.Population, true
			}
		}
	}
	if !haveTotal || !haveUrban || total <= 0 {
		return 0, false
	}
	return urban / total * 100, true
}

// IncomeFor returns the district's per-capita income by first-token substring
// match on the aliased name, or (0, false) when no row matches.
func (ds *Dataset) IncomeFor(district string) (float64, bool) {
	token := firstToken(searchName(district))
	for _, r := range ds.Income {
		if strings.Contains(Key(r.District), token) {
			return r.Income, true
		}
	}
	return 0, false
}

// GroundwaterSeries returns the district's yearly observations sorted by
// year: exact match first, then substring match per name token.
func (ds *Dataset) GroundwaterSeries(district string) []GroundwaterRecord {
	key := Key(district)
	var out []GroundwaterRecord
	for _, r := range ds.Groundwater {
		if Key(r.District) == key {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		for _, token := range strings.Fields(Key(district)) {
			for _, r := range ds.Groundwater {
				if strings.Contains(Key(r.District), token) {
					out = append(out, r)
				}
			}
			if len(out) > 0 {
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
