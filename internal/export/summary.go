package export

import (
	"encoding/json"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ncrclimate/cvi-etl/internal/domain"
)

// Summary aggregates the run's CVI scores into headline statistics.
type Summary struct {
	TotalDistricts int     `json:"total_districts"`
	AverageCVI     float64 `json:"average_cvi"`
	MedianCVI      float64 `json:"median_cvi"`
	MinCVI         float64 `json:"min_cvi"`
	MaxCVI         float64 `json:"max_cvi"`
	StdCVI         float64 `json:"std_cvi"`

	VulnerabilityDistribution map[domain.Level]int `json:"vulnerability_distribution"`

	MostVulnerable  []string `json:"most_vulnerable"`
	LeastVulnerable []string `json:"least_vulnerable"`
}

// Summarize computes summary statistics over the district results. The
// standard deviation is the sample deviation, matching the per-district
// indicator statistics.
func Summarize(results []domain.Result) Summary {
	s := Summary{
		TotalDistricts: len(results),
		VulnerabilityDistribution: map[domain.Level]int{
			domain.LevelLow: 0, domain.LevelModerate: 0,
			domain.LevelHigh: 0, domain.LevelVeryHigh: 0,
		},
	}
	if len(results) == 0 {
		return s
	}

	byScore := make([]domain.Result, len(results))
	copy(byScore, results)
	sort.SliceStable(byScore, func(i, j int) bool {
		return byScore[i].CVIScore > byScore[j].CVIScore
	})

	scores := make([]float64, len(byScore))
	for i, r := range byScore {
		scores[i] = r.CVIScore
		s.VulnerabilityDistribution[r.VulnerabilityLevel]++
	}

	s.AverageCVI = stat.Mean(scores, nil)
	s.MaxCVI = scores[0]
	s.MinCVI = scores[len(scores)-1]
	s.MedianCVI = medianDescending(scores)
	if len(scores) > 1 {
		s.StdCVI = stat.StdDev(scores, nil)
	}

	for i := 0; i < len(byScore) && i < 5; i++ {
		s.MostVulnerable = append(s.MostVulnerable, byScore[i].District)
	}
	for i := len(byScore) - 1; i >= 0 && len(s.LeastVulnerable) < 5; i-- {
		s.LeastVulnerable = append(s.LeastVulnerable, byScore[i].District)
	}

	return s
}

// medianDescending returns the median of a slice sorted in descending order.
func medianDescending(scores []float64) float64 {
	n := len(scores)
	if n%2 == 1 {
		return scores[n/2]
	}
	return (scores[n/2-1] + scores[n/2]) / 2
}

// WriteSummary writes the summary-statistics artifact.
func WriteSummary(path string, results []domain.Result) error {
	data, err := json.MarshalIndent(Summarize(results), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
