package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	t.Run("literal chain", func(t *testing.T) {
		pi, ouv, esc, cv := Compose(0.454, 0.43, 0.32)

		// PI = 0.5*0.454 + 0.5*0.43, OUV = PI*0.68,
		// ESC = 0.6*OUV + 0.4*0.5, CV = ESC*0.68.
		assert.InDelta(t, 0.442, pi, 1e-12)
		assert.InDelta(t, 0.30056, ouv, 1e-12)
		assert.InDelta(t, 0.380336, esc, 1e-12)
		assert.InDelta(t, 0.25862848, cv, 1e-12)
	})

	t.Run("all zero inputs still produce the dependency floor", func(t *testing.T) {
		_, _, esc, cv := Compose(0, 0, 0)
		assert.InDelta(t, 0.2, esc, 1e-12, "ESC floor is (1-delta)*ESC_Dependency")
		assert.InDelta(t, 0.2, cv, 1e-12)
	})

	t.Run("monotonic in exposure and sensitivity, anti-monotonic in adaptive capacity", func(t *testing.T) {
		samples := []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9}
		for _, e := range samples {
			for _, s := range samples {
				for _, ac := range samples {
					_, _, _, base := Compose(e, s, ac)

					_, _, _, moreE := Compose(e+0.05, s, ac)
					assert.GreaterOrEqual(t, moreE, base, "E=%v S=%v AC=%v", e, s, ac)

					_, _, _, moreS := Compose(e, s+0.05, ac)
					assert.GreaterOrEqual(t, moreS, base, "E=%v S=%v AC=%v", e, s, ac)

					_, _, _, moreAC := Compose(e, s, ac+0.05)
					assert.LessOrEqual(t, moreAC, base, "E=%v S=%v AC=%v", e, s, ac)
				}
			}
		}
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		cv   float64
		want Level
	}{
		{"well below low threshold", 0.05, LevelLow},
		{"just under low threshold", 0.19999, LevelLow},
		{"exactly 0.2", 0.2, LevelModerate},
		{"mid moderate", 0.3, LevelModerate},
		{"exactly 0.4", 0.4, LevelHigh},
		{"mid high", 0.55, LevelHigh},
		{"exactly 0.6", 0.6, LevelVeryHigh},
		{"above all thresholds", 0.95, LevelVeryHigh},
		{"zero", 0, LevelLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.cv))
		})
	}
}

func TestComputeResult(t *testing.T) {
	frozen := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { SetClock(nil) })

	t.Run("fully missing district is governed by defaults", func(t *testing.T) {
		district := District{Name: "Charki Dadri", State: "Haryana"}
		result := ComputeResult(&Dataset{}, district, discardLogger())

		// Only the static AQI (102) contributes: E = 0.20*(102/400) = 0.051,
		// S = AC = 0, so CV = (0.6*0.0255 + 0.2) * 1 = 0.2153.
		require.Equal(t, "Charki Dadri", result.District)
		assert.InDelta(t, 0.051, result.Exposure, 1e-12)
		assert.Zero(t, result.Sensitivity)
		assert.Zero(t, result.AdaptiveCapacity)
		assert.InDelta(t, 0.2153, result.CommunityVulnerability, 1e-12)
		assert.Equal(t, result.CommunityVulnerability, result.CVIScore)
		assert.Equal(t, LevelModerate, result.VulnerabilityLevel)
		assert.Equal(t, frozen, result.ComputedAt)
	})

	t.Run("scores are deterministic", func(t *testing.T) {
		ds := testDataset()
		district := District{Name: "Alwar", State: "Rajasthan"}

		first := ComputeResult(ds, district, discardLogger())
		second := ComputeResult(ds, district, discardLogger())
		assert.Equal(t, first, second)
		assert.Equal(t, Classify(first.CVIScore), first.VulnerabilityLevel)
	})
}
