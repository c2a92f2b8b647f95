// Package domain models the Delhi NCR Climate Vulnerability Index (CVI).
//
// # Methodology
//
// The CVI follows the IPCC vulnerability framing: three sub-indices are
// computed per district and chained through a fixed composite formula.
//
//	Exposure (E)           climate stressors: rainfall variability, extreme
//	                       rainfall events, temperature level and variability,
//	                       heat waves, and a static Air Quality Index
//	Sensitivity (S)        population density and groundwater depletion
//	Adaptive Capacity (AC) per-capita income and urbanization rate
//
// Composite chain (alpha = beta = 0.5, delta = 0.6):
//
//	PI  = alpha*E + beta*S          potential impact
//	OUV = PI * (1 - AC)             OUV vulnerability
//	ESC = delta*OUV + (1-delta)*0.5 economic-social-cultural impact
//	CV  = ESC * (1 - AC)            community vulnerability, the final CVI
//
// The 0.5 in the ESC step is the ESC_Dependency placeholder and the final
// step reuses AC as ESC_AC; both are provisional constants carried over from
// the methodology, not calibrated values.
//
// Classification uses strict less-than thresholds:
//
//	CV < 0.2 LOW | < 0.4 MODERATE | < 0.6 HIGH | else VERY HIGH
//
// so a score of exactly 0.2 classifies as MODERATE.
//
// # Data Conventions
//
// Source tables key rows by district name, and the spellings disagree: the
// census population table uses "Gurgaon" where the boundary file says
// "Gurugram", income rows may carry trailing qualifiers, and the groundwater
// table follows the boundary file's naming. Lookups therefore run a fixed
// matching ladder per source: exact case-insensitive match, then a static
// alias table, then a substring match on the first token of the name, taking
// the first row when several match. Edit-distance matching is deliberately
// not used.
//
// Missing data is never fatal. A district absent from a source contributes 0
// for that source's indicators, so every canonical district always receives a
// real (non-NaN) score. This zero-fill policy biases data-sparse districts
// toward lower vulnerability; callers surface it through warnings and the
// resolve-miss metric rather than by failing.
//
// Rainfall and temperature series are monthly district averages for
// 2013-2024. Groundwater levels are yearly water-table depths in meters; the
// depletion rate is the negated OLS slope of level against year, floored at
// zero so recharge does not count as depletion. Population rows carry a Level
// (DISTRICT or sub-district) and a Type (Total, Urban, Rural); district-level
// Total rows are preferred when present.
//
// AQI values are static per-district constants on the standard Indian scale
// (0-50 good, 51-100 moderate, 101-200 poor, 201-300 very poor, 301+ severe),
// normalized by 400 in the Exposure formula. Districts without an entry
// default to 100.
package domain
