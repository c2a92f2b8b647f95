// Package geo loads the NCR district boundary GeoJSON and answers adjacency
// queries used by the rainfall neighbor fill and the choropleth exporter.
package geo

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/ncrclimate/cvi-etl/internal/domain"
)

// namePropertyCandidates are the feature-property keys known to carry the
// district name, probed in order. Boundary files from different sources
// disagree on the key.
var namePropertyCandidates = []string{
	"NAME_2", "DISTRICT_NAME", "dtname", "dt_name", "district", "District",
}

// Boundary is one district polygon from the boundary file.
type Boundary struct {
	Name      string // name as spelled in the boundary file
	Canonical string // canonical district name, empty if unresolved
	Geometry  geom.T
}

// BoundarySet holds all boundary features plus the raw collection for
// exporters that re-serialize it.
type BoundarySet struct {
	NameProperty string
	Boundaries   []Boundary
	Collection   *geojson.FeatureCollection
}

// Load reads and decodes a boundary GeoJSON file, detects the district-name
// property, and resolves each feature to its canonical district. Features
// that resolve to no canonical district are kept (they still render on the
// map) but logged.
func Load(path string, logger *slog.Logger) (*BoundarySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boundary file: %w", err)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode boundary geojson: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("boundary file %s has no features", path)
	}

	nameProp, err := detectNameProperty(&fc)
	if err != nil {
		return nil, err
	}

	bs := &BoundarySet{
		NameProperty: nameProp,
		Boundaries:   make([]Boundary, 0, len(fc.Features)),
		Collection:   &fc,
	}
	for _, f := range fc.Features {
		name, _ := f.Properties[nameProp].(string)
		b := Boundary{Name: name, Geometry: f.Geometry}
		if d, ok := domain.ResolveDistrict(name); ok {
			b.Canonical = d.Name
		} else {
			logger.Warn("boundary feature has no canonical district", "name", name)
		}
		bs.Boundaries = append(bs.Boundaries, b)
	}

	logger.Info("loaded boundary file",
		"path", path, "features", len(bs.Boundaries), "name_property", nameProp)
	return bs, nil
}

// detectNameProperty probes the candidate keys against the first feature that
// has any of them as a string property.
func detectNameProperty(fc *geojson.FeatureCollection) (string, error) {
	for _, key := range namePropertyCandidates {
		for _, f := range fc.Features {
			if _, ok := f.Properties[key].(string); ok {
				return key, nil
			}
		}
	}
	return "", fmt.Errorf("no district-name property found (tried %v)", namePropertyCandidates)
}

// CanonicalNames returns the canonical names of all resolved boundaries.
func (bs *BoundarySet) CanonicalNames() []string {
	var names []string
	for _, b := range bs.Boundaries {
		if b.Canonical != "" {
			names = append(names, b.Canonical)
		}
	}
	return names
}

// Neighbors returns the canonical names of districts adjacent to the given
// one. go-geom has no polygon-intersection predicate, so adjacency is
// detected as overlapping bounding boxes plus at least two shared boundary
// vertices, which is exact for polygons digitized from a common file.
func (bs *BoundarySet) Neighbors(canonical string) []string {
	var target *Boundary
	for i := range bs.Boundaries {
		if bs.Boundaries[i].Canonical == canonical {
			target = &bs.Boundaries[i]
			break
		}
	}
	if target == nil || target.Geometry == nil {
		return nil
	}

	targetBounds := target.Geometry.Bounds()
	targetVerts := vertexSet(target.Geometry)

	var neighbors []string
	for i := range bs.Boundaries {
		other := &bs.Boundaries[i]
		if other == target || other.Canonical == "" || other.Geometry == nil {
			continue
		}
		if !targetBounds.Overlaps(geom.XY, other.Geometry.Bounds()) {
			continue
		}
		if sharedVertices(targetVerts, other.Geometry) >= 2 {
			neighbors = append(neighbors, other.Canonical)
		}
	}
	return neighbors
}

func vertexSet(g geom.T) map[[2]float64]struct{} {
	coords := g.FlatCoords()
	stride := g.Stride()
	set := make(map[[2]float64]struct{}, len(coords)/stride)
	for i := 0; i+1 < len(coords); i += stride {
		set[[2]float64{coords[i], coords[i+1]}] = struct{}{}
	}
	return set
}

func sharedVertices(set map[[2]float64]struct{}, g geom.T) int {
	coords := g.FlatCoords()
	stride := g.Stride()
	seen := make(map[[2]float64]struct{})
	n := 0
	for i := 0; i+1 < len(coords); i += stride {
		v := [2]float64{coords[i], coords[i+1]}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := set[v]; ok {
			n++
		}
	}
	return n
}
