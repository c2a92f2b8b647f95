// Command genmock writes a complete synthetic source dataset: the five CSV
// tables plus a boundary GeoJSON laying the districts out on a grid of unit
// squares. It then runs the actual index calculation over the generated data
// and prints the results, so test assertions can be updated from real
// pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock -out data
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/ncrclimate/cvi-etl/internal/adapter/csvsource"
	"github.com/ncrclimate/cvi-etl/internal/config"
	"github.com/ncrclimate/cvi-etl/internal/domain"
)

const boundaryFile = "Delhi_NCR_Districts_final.geojson"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for the generated dataset")
	count := flag.Int("districts", len(domain.Districts), "number of districts to generate data for")
	seed := flag.Int64("seed", 2024, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *count < 1 || *count > len(domain.Districts) {
		return fmt.Errorf("-districts must be between 1 and %d", len(domain.Districts))
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	districts := domain.Districts[:*count]
	rng := rand.New(rand.NewSource(*seed))

	if err := writeRainfall(*out, districts, rng); err != nil {
		return fmt.Errorf("writing rainfall: %w", err)
	}
	if err := writeTemperature(*out, districts, rng); err != nil {
		return fmt.Errorf("writing temperature: %w", err)
	}
	if err := writePopulation(*out, districts, rng); err != nil {
		return fmt.Errorf("writing population: %w", err)
	}
	if err := writeIncome(*out, districts, rng); err != nil {
		return fmt.Errorf("writing income: %w", err)
	}
	if err := writeGroundwater(*out, districts, rng); err != nil {
		return fmt.Errorf("writing groundwater: %w", err)
	}
	if err := writeBoundaries(*out, districts); err != nil {
		return fmt.Errorf("writing boundaries: %w", err)
	}
	log.Printf("wrote dataset for %d districts: %s", len(districts), *out)

	printResults(*out, districts)
	return nil
}

func writeCSV(dir, name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// writeRainfall generates a monsoon-shaped monthly series per district:
// heavy July-September, light otherwise.
func writeRainfall(dir string, districts []domain.District, rng *rand.Rand) error {
	var rows [][]string
	for _, d := range districts {
		base := 20 + rng.Float64()*30
		for year := 2013; year <= 2024; year++ {
			for month := 1; month <= 12; month++ {
				v := base + rng.Float64()*15
				if month >= 7 && month <= 9 {
					v += 120 + rng.Float64()*100
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", year), fmt.Sprintf("%d", month),
					d.Name, fmt.Sprintf("%.2f", v),
				})
			}
		}
	}
	return writeCSV(dir, config.RainfallFile,
		[]string{"YEAR", "MONTH", "DISTRICT_NAME", "RAINFALL"}, rows)
}

// writeTemperature generates monthly max temperatures peaking in May-June.
func writeTemperature(dir string, districts []domain.District, rng *rand.Rand) error {
	var rows [][]string
	for _, d := range districts {
		base := 29 + rng.Float64()*3
		for year := 2013; year <= 2024; year++ {
			for month := 1; month <= 12; month++ {
				seasonal := 8 * math.Sin(float64(month-2)*math.Pi/12)
				v := base + seasonal + rng.Float64()*2
				rows = append(rows, []string{
					fmt.Sprintf("%d", year), fmt.Sprintf("%d", month),
					d.Name, fmt.Sprintf("%.2f", v),
				})
			}
		}
	}
	return writeCSV(dir, config.TemperatureFile,
		[]string{"YEAR", "MONTH", "DISTRICT_NAME", "maxT"}, rows)
}

func writePopulation(dir string, districts []domain.District, rng *rand.Rand) error {
	var rows [][]string
	for _, d := range districts {
		total := 800000 + rng.Intn(3000000)
		urban := int(float64(total) * (0.2 + rng.Float64()*0.7))
		density := 300 + rng.Intn(12000)
		rows = append(rows,
			[]string{d.Name, "DISTRICT", "Total", fmt.Sprintf("%d", total), fmt.Sprintf("%d", density)},
			[]string{d.Name, "DISTRICT", "Urban", fmt.Sprintf("%d", urban), fmt.Sprintf("%d", density)},
			[]string{d.Name, "DISTRICT", "Rural", fmt.Sprintf("%d", total-urban), fmt.Sprintf("%d", density)},
		)
	}
	return writeCSV(dir, config.PopulationFile,
		[]string{"Area_Name", "Level", "Type", "Population", "Pop_Density"}, rows)
}

func writeIncome(dir string, districts []domain.District, rng *rand.Rand) error {
	var rows [][]string
	for _, d := range districts {
		income := 80000 + rng.Intn(500000)
		rows = append(rows, []string{d.Name, fmt.Sprintf("%d", income)})
	}
	return writeCSV(dir, config.IncomeFile, []string{"DISTRICT", "INCOME"}, rows)
}

// writeGroundwater generates yearly depths with a slow decline, so roughly
// half the districts show a positive depletion rate.
func writeGroundwater(dir string, districts []domain.District, rng *rand.Rand) error {
	var rows [][]string
	for i, d := range districts {
		depth := 8 + rng.Float64()*15
		trend := rng.Float64() * 0.8
		if i%2 == 0 {
			trend = -trend
		}
		for year := 2015; year <= 2024; year++ {
			rows = append(rows, []string{
				d.Name, fmt.Sprintf("%d", year), fmt.Sprintf("%.2f", depth),
			})
			depth += trend + rng.Float64()*0.2
		}
	}
	return writeCSV(dir, config.GroundwaterFile,
		[]string{"district_geojson", "year", "currentlevel"}, rows)
}

// writeBoundaries lays the districts out on a grid of unit squares, six per
// row, so horizontally and vertically adjacent districts share an edge.
func writeBoundaries(dir string, districts []domain.District) error {
	fc := &geojson.FeatureCollection{}
	for i, d := range districts {
		x := float64(i % 6)
		y := float64(i / 6)
		polygon := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
			{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y},
		}})
		fc.Features = append(fc.Features, &geojson.Feature{
			Properties: map[string]any{"dtname": d.Name, "state": d.State},
			Geometry:   polygon,
		})
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(filepath.Join(dir, boundaryFile), data, 0o644)
}

// printResults loads the generated dataset back through the real calculators
// with a fixed clock and prints per-district scores.
func printResults(dir string, districts []domain.District) {
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	cfg := &config.Config{DataDir: dir}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ds, err := csvsource.New(cfg, nil, logger).Extract(context.Background())
	if err != nil {
		log.Printf("skipping result preview: %v", err)
		return
	}

	fmt.Println("\n=== Results for updating test assertions ===")
	levelCounts := map[domain.Level]int{}
	for _, d := range districts {
		r := domain.ComputeResult(ds, d, logger)
		levelCounts[r.VulnerabilityLevel]++
		fmt.Printf("%-22s E=%.4f S=%.4f AC=%.4f CVI=%.4f %s\n",
			r.District, r.Exposure, r.Sensitivity, r.AdaptiveCapacity,
			r.CVIScore, r.VulnerabilityLevel)
	}
	fmt.Printf("\nBy level: LOW=%d, MODERATE=%d, HIGH=%d, VERY HIGH=%d\n",
		levelCounts[domain.LevelLow], levelCounts[domain.LevelModerate],
		levelCounts[domain.LevelHigh], levelCounts[domain.LevelVeryHigh])
}
