package export

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"

	"github.com/ncrclimate/cvi-etl/internal/domain"
	"github.com/ncrclimate/cvi-etl/internal/geo"
)

// WriteMap renders the interactive choropleth. Each boundary feature is
// annotated with its district's score and level; features with no computed
// result render as UNKNOWN.
func WriteMap(path string, results []domain.Result, boundaries *geo.BoundarySet) error {
	scores := make(map[string]float64, len(results))
	levels := make(map[string]domain.Level, len(results))
	for _, r := range results {
		scores[r.District] = r.CVIScore
		levels[r.District] = r.VulnerabilityLevel
	}

	collection, err := annotateCollection(boundaries, scores, levels)
	if err != nil {
		return err
	}
	geoJSON, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("serialize annotated boundaries: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return mapTemplate.Execute(f, mapData{
		Title:   "Delhi NCR Climate Vulnerability Index (CVI)",
		GeoJSON: template.JS(geoJSON),
	})
}

// annotateCollection deep-copies the boundary collection into a generic
// document and injects cvi_score and vulnerability_level into each feature's
// properties. The copy keeps the loaded BoundarySet unmodified.
func annotateCollection(boundaries *geo.BoundarySet, scores map[string]float64, levels map[string]domain.Level) (map[string]any, error) {
	raw, err := json.Marshal(boundaries.Collection)
	if err != nil {
		return nil, fmt.Errorf("serialize boundaries: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("copy boundaries: %w", err)
	}

	features, _ := doc["features"].([]any)
	for i, f := range features {
		feature, ok := f.(map[string]any)
		if !ok {
			continue
		}
		props, ok := feature["properties"].(map[string]any)
		if !ok {
			props = map[string]any{}
			feature["properties"] = props
		}

		canonical := ""
		if i < len(boundaries.Boundaries) {
			canonical = boundaries.Boundaries[i].Canonical
		}
		if score, ok := scores[canonical]; ok {
			props["cvi_score"] = score
			props["vulnerability_level"] = string(levels[canonical])
		} else {
			props["cvi_score"] = 0.0
			props["vulnerability_level"] = "UNKNOWN"
		}
		props["display_name"] = boundariesName(boundaries, i)
	}
	return doc, nil
}

func boundariesName(boundaries *geo.BoundarySet, i int) string {
	if i >= len(boundaries.Boundaries) {
		return ""
	}
	b := boundaries.Boundaries[i]
	if b.Canonical != "" {
		return b.Canonical
	}
	return b.Name
}

type mapData struct {
	Title   string
	GeoJSON template.JS
}

var mapTemplate = template.Must(template.New("cvimap").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  html, body, #map { height: 100%; margin: 0; }
  .title-box {
    position: fixed; top: 10px; left: 50px; z-index: 1000;
    background: white; border: 2px solid grey; padding: 10px;
    font-family: sans-serif;
  }
  .title-box h3 { margin: 0; text-align: center; }
  .title-box p { margin: 5px 0 0; text-align: center; font-size: 12px; }
  .legend {
    position: fixed; bottom: 20px; left: 10px; z-index: 1000;
    background: white; border: 1px solid grey; padding: 8px;
    font-family: sans-serif; font-size: 12px;
  }
  .legend span { display: inline-block; width: 14px; height: 14px; margin-right: 6px; vertical-align: middle; }
</style>
</head>
<body>
<div id="map"></div>
<div class="title-box">
  <h3>{{.Title}}</h3>
  <p>Climate vulnerability assessment based on Exposure, Sensitivity, and Adaptive Capacity</p>
</div>
<div class="legend">
  <div><span style="background:#2ecc71"></span>LOW (&lt; 0.2)</div>
  <div><span style="background:#f39c12"></span>MODERATE (&lt; 0.4)</div>
  <div><span style="background:#e74c3c"></span>HIGH (&lt; 0.6)</div>
  <div><span style="background:#8b0000"></span>VERY HIGH</div>
  <div><span style="background:#bdc3c7"></span>NO DATA</div>
</div>
<script>
var districts = {{.GeoJSON}};

var map = L.map('map').setView([28.5, 77.0], 9);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

function levelColor(level) {
  switch (level) {
    case 'LOW': return '#2ecc71';
    case 'MODERATE': return '#f39c12';
    case 'HIGH': return '#e74c3c';
    case 'VERY HIGH': return '#8b0000';
    default: return '#bdc3c7';
  }
}

L.geoJSON(districts, {
  style: function (feature) {
    return {
      fillColor: levelColor(feature.properties.vulnerability_level),
      color: 'black',
      weight: 2,
      fillOpacity: 0.7
    };
  },
  onEachFeature: function (feature, layer) {
    var p = feature.properties;
    layer.bindTooltip(
      '<b>' + p.display_name + '</b><br>' +
      'CVI Score: ' + p.cvi_score.toFixed(4) + '<br>' +
      'Vulnerability: ' + p.vulnerability_level
    );
    layer.on('mouseover', function () { layer.setStyle({weight: 4, color: 'blue', fillOpacity: 0.9}); });
    layer.on('mouseout', function () { layer.setStyle({weight: 2, color: 'black', fillOpacity: 0.7}); });
  }
}).addTo(map);
</script>
</body>
</html>
`))
