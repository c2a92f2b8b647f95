// Command validate performs consistency checks across the exported CVI
// artifacts: the flat CSV, the nested JSON, and the summary statistics. It
// verifies row counts, CSV/JSON numeric equality, classification-threshold
// agreement, and summary aggregates.
//
// Usage:
//
//	go run ./cmd/validate -out out
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ncrclimate/cvi-etl/internal/domain"
	"github.com/ncrclimate/cvi-etl/internal/export"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	outDir := flag.String("out", "", "directory containing the exported artifacts")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*outDir); code != 0 {
		os.Exit(code)
	}
}

func run(outDir string) int {
	fmt.Println("=== CVI Artifact Validation ===")
	fmt.Println()

	csvRows, err := loadCSV(filepath.Join(outDir, export.ResultsCSVFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load results CSV: %v\n", err)
		return 1
	}

	results, err := export.ReadJSON(filepath.Join(outDir, export.ResultsJSONFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load results JSON: %v\n", err)
		return 1
	}

	summary, err := loadSummary(filepath.Join(outDir, export.SummaryFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load summary: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCounts(csvRows, results, summary),
		validateCSVAgainstJSON(csvRows, results),
		validateClassification(results),
		validateSummary(results, summary),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-48s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d CSV rows, %d JSON results, %d in summary\n",
		len(csvRows), len(results), summary.TotalDistricts)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// csvRow is a parsed CSV row with field values keyed by header name.
type csvRow struct {
	lineNum int
	fields  map[string]string
}

func loadCSV(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	header := all[0]
	var rows []csvRow
	for i, row := range all[1:] {
		fields := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(row) {
				fields[h] = strings.TrimSpace(row[j])
			}
		}
		rows = append(rows, csvRow{lineNum: i + 2, fields: fields})
	}
	return rows, nil
}

func loadSummary(path string) (export.Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return export.Summary{}, err
	}
	var s export.Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return export.Summary{}, err
	}
	return s, nil
}

func (r csvRow) float(p *phase, col string) float64 {
	v, err := strconv.ParseFloat(r.fields[col], 64)
	if err != nil {
		p.errorf("line %d: column %q: %v", r.lineNum, col, err)
		return math.NaN()
	}
	return v
}

// ── Phase 1: Row Counts ──

func validateCounts(rows []csvRow, results []domain.Result, summary export.Summary) *phase {
	p := &phase{name: "Phase 1: Row Counts"}

	if len(rows) != len(results) {
		p.errorf("CSV has %d rows, JSON has %d results", len(rows), len(results))
	}
	if summary.TotalDistricts != len(results) {
		p.errorf("summary total_districts=%d, JSON has %d results", summary.TotalDistricts, len(results))
	}

	seen := map[string]bool{}
	for _, r := range results {
		if seen[r.District] {
			p.errorf("duplicate district %q in JSON", r.District)
		}
		seen[r.District] = true
	}
	return p
}

// ── Phase 2: CSV vs JSON ──
// The flat CSV and the nested JSON must carry identical values.

func validateCSVAgainstJSON(rows []csvRow, results []domain.Result) *phase {
	p := &phase{name: "Phase 2: CSV vs JSON Equality"}

	byDistrict := map[string]domain.Result{}
	for _, r := range results {
		byDistrict[r.District] = r
	}

	scoreCols := func(r domain.Result) map[string]float64 {
		return map[string]float64{
			"exposure":                r.Exposure,
			"sensitivity":             r.Sensitivity,
			"adaptive_capacity":       r.AdaptiveCapacity,
			"potential_impact":        r.PotentialImpact,
			"ouv_vulnerability":       r.OUVVulnerability,
			"esc_impact":              r.ESCImpact,
			"community_vulnerability": r.CommunityVulnerability,
			"cvi_score":               r.CVIScore,
		}
	}

	for _, row := range rows {
		name := row.fields["district"]
		result, ok := byDistrict[name]
		if !ok {
			p.errorf("line %d: district %q not in JSON", row.lineNum, name)
			continue
		}
		if row.fields["state"] != result.State {
			p.errorf("line %d: state: csv=%q json=%q", row.lineNum, row.fields["state"], result.State)
		}
		if row.fields["vulnerability_level"] != string(result.VulnerabilityLevel) {
			p.errorf("line %d: vulnerability_level: csv=%q json=%q",
				row.lineNum, row.fields["vulnerability_level"], result.VulnerabilityLevel)
		}
		for col, want := range scoreCols(result) {
			if got := row.float(p, col); !floatEq(got, want) {
				p.errorf("line %d: %s: csv=%g json=%g", row.lineNum, col, got, want)
			}
		}
	}
	return p
}

// ── Phase 3: Classification ──
// The stored level must agree with the thresholds, and the composite chain
// must reproduce the stored score from the three base indices.

func validateClassification(results []domain.Result) *phase {
	p := &phase{name: "Phase 3: Classification Agreement"}

	for _, r := range results {
		if want := domain.Classify(r.CVIScore); r.VulnerabilityLevel != want {
			p.errorf("%s: level %q does not match score %g (expected %q)",
				r.District, r.VulnerabilityLevel, r.CVIScore, want)
		}

		pi, ouv, esc, cv := domain.Compose(r.Exposure, r.Sensitivity, r.AdaptiveCapacity)
		if !floatEq(pi, r.PotentialImpact) {
			p.errorf("%s: potential_impact %g not reproducible (expected %g)", r.District, r.PotentialImpact, pi)
		}
		if !floatEq(ouv, r.OUVVulnerability) {
			p.errorf("%s: ouv_vulnerability %g not reproducible (expected %g)", r.District, r.OUVVulnerability, ouv)
		}
		if !floatEq(esc, r.ESCImpact) {
			p.errorf("%s: esc_impact %g not reproducible (expected %g)", r.District, r.ESCImpact, esc)
		}
		if !floatEq(cv, r.CVIScore) {
			p.errorf("%s: cvi_score %g not reproducible (expected %g)", r.District, r.CVIScore, cv)
		}
	}
	return p
}

// ── Phase 4: Summary ──

func validateSummary(results []domain.Result, summary export.Summary) *phase {
	p := &phase{name: "Phase 4: Summary Statistics"}

	want := export.Summarize(results)
	if !floatEq(summary.AverageCVI, want.AverageCVI) {
		p.errorf("average_cvi: stored %g, recomputed %g", summary.AverageCVI, want.AverageCVI)
	}
	if !floatEq(summary.MedianCVI, want.MedianCVI) {
		p.errorf("median_cvi: stored %g, recomputed %g", summary.MedianCVI, want.MedianCVI)
	}
	if !floatEq(summary.MinCVI, want.MinCVI) {
		p.errorf("min_cvi: stored %g, recomputed %g", summary.MinCVI, want.MinCVI)
	}
	if !floatEq(summary.MaxCVI, want.MaxCVI) {
		p.errorf("max_cvi: stored %g, recomputed %g", summary.MaxCVI, want.MaxCVI)
	}
	if !floatEq(summary.StdCVI, want.StdCVI) {
		p.errorf("std_cvi: stored %g, recomputed %g", summary.StdCVI, want.StdCVI)
	}

	for _, level := range []domain.Level{
		domain.LevelLow, domain.LevelModerate, domain.LevelHigh, domain.LevelVeryHigh,
	} {
		if summary.VulnerabilityDistribution[level] != want.VulnerabilityDistribution[level] {
			p.errorf("distribution[%s]: stored %d, recomputed %d",
				level, summary.VulnerabilityDistribution[level], want.VulnerabilityDistribution[level])
		}
	}

	if !equalStrings(summary.MostVulnerable, want.MostVulnerable) {
		p.errorf("most_vulnerable: stored %v, recomputed %v", summary.MostVulnerable, want.MostVulnerable)
	}
	if !equalStrings(summary.LeastVulnerable, want.LeastVulnerable) {
		p.errorf("least_vulnerable: stored %v, recomputed %v", summary.LeastVulnerable, want.LeastVulnerable)
	}
	return p
}

// ── Helpers ──

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
