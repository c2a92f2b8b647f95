package domain

import "strings"

// District is a canonical NCR district. The set is fixed: districts are
// enumerated statically and never created or deleted at runtime.
type District struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// Key returns the normalized lowercase lookup key for a district name.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Districts is the canonical list of Delhi NCR districts across the four
// member states. Boundary geometry and all exported results key off these names.
var Districts = []District{
	{Name: "Alwar", State: "Rajasthan"},
	{Name: "Baghpat", State: "Uttar Pradesh"},
	{Name: "Bharatpur", State: "Rajasthan"},
	{Name: "Bhiwani", State: "Haryana"},
	{Name: "Bulandshahr", State: "Uttar Pradesh"},
	{Name: "Central Delhi", State: "Delhi"},
	{Name: "Charki Dadri", State: "Haryana"},
	{Name: "East Delhi", State: "Delhi"},
	{Name: "Faridabad", State: "Haryana"},
	{Name: "Gautam Buddha Nagar", State: "Uttar Pradesh"},
	{Name: "Ghaziabad", State: "Uttar Pradesh"},
	{Name: "Gurugram", State: "Haryana"},
	{Name: "Hapur", State: "Uttar Pradesh"},
	{Name: "Jhajjar", State: "Haryana"},
	{Name: "Jind", State: "Haryana"},
	{Name: "Karnal", State: "Haryana"},
	{Name: "Mahendragarh", State: "Haryana"},
	{Name: "Meerut", State: "Uttar Pradesh"},
	{Name: "Muzaffarnagar", State: "Uttar Pradesh"},
	{Name: "New Delhi", State: "Delhi"},
	{Name: "North Delhi", State: "Delhi"},
	{Name: "North East Delhi", State: "Delhi"},
	{Name: "North West Delhi", State: "Delhi"},
	{Name: "Nuh", State: "Haryana"},
	{Name: "Palwal", State: "Haryana"},
	{Name: "Panipat", State: "Haryana"},
	{Name: "Rewari", State: "Haryana"},
	{Name: "Rohtak", State: "Haryana"},
	{Name: "Shahdara", State: "Delhi"},
	{Name: "Shamli", State: "Uttar Pradesh"},
	{Name: "Sonipat", State: "Haryana"},
	{Name: "South Delhi", State: "Delhi"},
	{Name: "South East Delhi", State: "Delhi"},
	{Name: "South West Delhi", State: "Delhi"},
	{Name: "West Delhi", State: "Delhi"},
}

// aliases maps canonical district names to the spelling used by some source
// tables. The census population data predates the Gurgaon and Gautam Buddha
// Nagar renames.
var aliases = map[string]string{
	"Gurugram":            "Gurgaon",
	"Gautam Buddha Nagar": "Gautam Budh Nagar",
}

// searchName returns the spelling to use when querying source tables for a
// canonical district: the alias when one exists, the name itself otherwise.
func searchName(district string) string {
	if alias, ok := aliases[district]; ok {
		return alias
	}
	return district
}

// defaultAQI holds static per-district Air Quality Index values: higher for
// urban Delhi districts, lower for the rural periphery. These are assumed
// typical values, not live measurements.
var defaultAQI = map[string]float64{
	"Central Delhi": 178, "New Delhi": 175, "East Delhi": 168,
	"North Delhi": 170, "North East Delhi": 165, "North West Delhi": 162,
	"South Delhi": 160, "South East Delhi": 158, "South West Delhi": 156,
	"West Delhi": 164, "Shahdara": 166,
	"Ghaziabad": 145, "Faridabad": 140, "Gurugram": 138,
	"Gautam Buddha Nagar": 135, "Baghpat": 110, "Bulandshahr": 105,
	"Hapur": 108, "Meerut": 125, "Muzaffarnagar": 100,
	"Shamli": 95, "Alwar": 92, "Bharatpur": 88,
	"Rewari": 90, "Jhajjar": 115, "Rohtak": 118,
	"Sonipat": 120, "Panipat": 122, "Karnal": 105,
	"Jind": 100, "Bhiwani": 98, "Mahendragarh": 85,
	"Charki Dadri": 102, "Nuh": 110, "Palwal": 112,
}

// fallbackAQI is used for districts without a defaultAQI entry (moderate air).
const fallbackAQI = 100

// AQIFor returns the static AQI constant for a district.
func AQIFor(district string) float64 {
	if v, ok := defaultAQI[district]; ok {
		return v
	}
	return fallbackAQI
}

// ResolveDistrict maps a free-text district name, as found in a source table
// or a boundary-file property, to its canonical District. The ladder is:
// exact case-insensitive match, alias match, then substring match on the
// first token. Resolving an already-canonical name returns that district.
func ResolveDistrict(name string) (District, bool) {
	key := Key(name)
	if key == "" {
		return District{}, false
	}

	for _, d := range Districts {
		if Key(d.Name) == key {
			return d, true
		}
	}
	for canonical, alias := range aliases {
		if Key(alias) == key {
			for _, d := range Districts {
				if d.Name == canonical {
					return d, true
				}
			}
		}
	}
	firstToken := strings.Fields(key)[0]
	for _, d := range Districts {
		if strings.Contains(Key(d.Name), firstToken) {
			return d, true
		}
	}
	return District{}, false
}
