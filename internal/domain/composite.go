package domain

import (
	"log/slog"
	"time"
)

// Composite formula constants. Alpha and beta weight Exposure and Sensitivity
// in the potential-impact step; delta weights OUV in the ESC step.
// escDependency is the provisional community-dependence placeholder; the
// final step reuses AC as ESC_AC.
const (
	alpha         = 0.5
	beta          = 0.5
	delta         = 0.6
	escDependency = 0.5
)

// Level is the ordinal vulnerability classification of a CVI score.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelModerate Level = "MODERATE"
	LevelHigh     Level = "HIGH"
	LevelVeryHigh Level = "VERY HIGH"
)

// Classification thresholds on the Community Vulnerability score.
const (
	thresholdLow      = 0.2
	thresholdModerate = 0.4
	thresholdHigh     = 0.6
)

// Classify buckets a Community Vulnerability score. Comparisons are strict
// less-than, so exactly 0.2 is MODERATE, 0.4 is HIGH, and 0.6 is VERY HIGH.
func Classify(cv float64) Level {
	switch {
	case cv < thresholdLow:
		return LevelLow
	case cv < thresholdModerate:
		return LevelModerate
	case cv < thresholdHigh:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

// Compose chains the three base indices through the four-step CVI formula,
// returning the potential impact, OUV vulnerability, ESC impact, and final
// community vulnerability. Pure function: same inputs, same outputs.
func Compose(exposure, sensitivity, adaptiveCapacity float64) (pi, ouv, esc, cv float64) {
	pi = alpha*exposure + beta*sensitivity
	ouv = pi * (1 - adaptiveCapacity)
	esc = delta*ouv + (1-delta)*escDependency
	cv = esc * (1 - adaptiveCapacity)
	return pi, ouv, esc, cv
}

// Result is the complete per-district CVI output, including intermediate
// indices and the raw sub-indicator components. CVIScore duplicates
// CommunityVulnerability for easier downstream reference.
type Result struct {
	District               string  `json:"district"`
	State                  string  `json:"state"`
	Exposure               float64 `json:"exposure"`
	Sensitivity            float64 `json:"sensitivity"`
	AdaptiveCapacity       float64 `json:"adaptive_capacity"`
	PotentialImpact        float64 `json:"potential_impact"`
	OUVVulnerability       float64 `json:"ouv_vulnerability"`
	ESCImpact              float64 `json:"esc_impact"`
	CommunityVulnerability float64 `json:"community_vulnerability"`
	CVIScore               float64 `json:"cvi_score"`
	VulnerabilityLevel     Level   `json:"vulnerability_level"`

	ExposureComponents         ExposureComponents         `json:"exposure_components"`
	SensitivityComponents      SensitivityComponents      `json:"sensitivity_components"`
	AdaptiveCapacityComponents AdaptiveCapacityComponents `json:"adaptive_capacity_components"`

	ComputedAt time.Time `json:"computed_at"`
}

// ComputeResult runs the full per-district calculation: three base indices,
// the composite chain, and classification. It never fails; missing inputs
// degrade to zero contributions per the zero-fill policy.
func ComputeResult(ds *Dataset, district District, logger *slog.Logger) Result {
	e, eComp := ComputeExposure(ds, district.Name, logger)
	s, sComp := ComputeSensitivity(ds, district.Name, logger)
	ac, acComp := ComputeAdaptiveCapacity(ds, district.Name, logger)

	pi, ouv, esc, cv := Compose(e, s, ac)

	return Result{
		District:               district.Name,
		State:                  district.State,
		Exposure:               e,
		Sensitivity:            s,
		AdaptiveCapacity:       ac,
		PotentialImpact:        pi,
		OUVVulnerability:       ouv,
		ESCImpact:              esc,
		CommunityVulnerability: cv,
		CVIScore:               cv,
		VulnerabilityLevel:     Classify(cv),

		ExposureComponents:         eComp,
		SensitivityComponents:      sComp,
		AdaptiveCapacityComponents: acComp,

		ComputedAt: clock.Now(),
	}
}
