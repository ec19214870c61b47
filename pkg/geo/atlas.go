// Package geo maps country identifiers to render-ready shapes: centroids for
// the arc view, ISO codes for the choropleth join, node/link arrays for the
// flow diagram. It holds no business logic.
package geo

import (
	"fmt"
	"os"
	"strings"

	"github.com/biter777/countries"
	geojson "github.com/paulmach/go.geojson"
)

// LookupError marks a country with no known geographic mapping. The row is
// dropped and counted; a render is never aborted over it.
type LookupError struct {
	Country string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no geographic mapping for %q", e.Country)
}

// Atlas resolves admin country names against world polygon geometry.
type Atlas struct {
	centroids map[string][2]float64 // lat, lng
	codes     map[string]string     // ISO alpha-3
}

// LoadAtlas builds an Atlas from a world-countries GeoJSON file.
func LoadAtlas(path string) (*Atlas, error) {
	fc, err := LoadFeatureCollection(path)
	if err != nil {
		return nil, err
	}
	return NewAtlas(fc), nil
}

// LoadFeatureCollection parses a GeoJSON file. The viewer uses the raw
// features for drawing; the Atlas only keeps centroids and codes.
func LoadFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read world geometry %s: %w", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse world geometry %s: %w", path, err)
	}
	return fc, nil
}

func NewAtlas(fc *geojson.FeatureCollection) *Atlas {
	a := &Atlas{
		centroids: make(map[string][2]float64, len(fc.Features)),
		codes:     make(map[string]string, len(fc.Features)),
	}
	for _, f := range fc.Features {
		name := FeatureName(f)
		if name == "" {
			continue
		}
		if lat, lng, ok := featureCentroid(f); ok {
			a.centroids[name] = [2]float64{lat, lng}
		}
		if code := featureCode(f, name); code != "" {
			a.codes[name] = code
		}
	}
	return a
}

// FeatureName returns the admin name of a country feature. Natural Earth uses
// ADMIN; other exports use name/NAME.
func FeatureName(f *geojson.Feature) string {
	for _, key := range []string{"ADMIN", "admin", "name", "NAME"} {
		if s, err := f.PropertyString(key); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// featureCode prefers the ISO_A3 property and falls back to a name lookup.
// Natural Earth marks a few territories with the placeholder "-99".
func featureCode(f *geojson.Feature, name string) string {
	for _, key := range []string{"ISO_A3", "iso_a3"} {
		if s, err := f.PropertyString(key); err == nil && s != "" && s != "-99" {
			return strings.ToUpper(s)
		}
	}
	if c := countries.ByName(name); c != countries.Unknown {
		return c.Alpha3()
	}
	return ""
}

func (a *Atlas) Len() int { return len(a.centroids) }

func (a *Atlas) Has(name string) bool {
	_, ok := a.centroids[name]
	return ok
}

// Centroid returns the geographic centroid of the named country.
func (a *Atlas) Centroid(name string) (lat, lng float64, err error) {
	c, ok := a.centroids[name]
	if !ok {
		return 0, 0, &LookupError{Country: name}
	}
	return c[0], c[1], nil
}

// Code returns the ISO alpha-3 code used for the choropleth join.
func (a *Atlas) Code(name string) (string, error) {
	code, ok := a.codes[name]
	if !ok {
		return "", &LookupError{Country: name}
	}
	return code, nil
}

// featureCentroid computes an area-weighted centroid over the feature's outer
// rings. Holes are small enough at country scale to ignore.
func featureCentroid(f *geojson.Feature) (lat, lng float64, ok bool) {
	var polygons [][][][]float64
	switch {
	case f.Geometry == nil:
		return 0, 0, false
	case f.Geometry.IsPolygon():
		polygons = [][][][]float64{f.Geometry.Polygon}
	case f.Geometry.IsMultiPolygon():
		polygons = f.Geometry.MultiPolygon
	default:
		return 0, 0, false
	}

	var sumArea, sumLat, sumLng float64
	for _, poly := range polygons {
		if len(poly) == 0 || len(poly[0]) < 3 {
			continue
		}
		area, cLat, cLng := ringCentroid(poly[0])
		if area == 0 {
			continue
		}
		sumArea += area
		sumLat += cLat * area
		sumLng += cLng * area
	}
	if sumArea == 0 {
		return 0, 0, false
	}
	return sumLat / sumArea, sumLng / sumArea, true
}

// ringCentroid is the shoelace centroid of one ring, returned with the
// absolute area so multi-part countries weight correctly.
func ringCentroid(ring [][]float64) (area, lat, lng float64) {
	var a, cx, cy float64
	for i := 0; i < len(ring); i++ {
		j := (i + 1) % len(ring)
		x0, y0 := ring[i][0], ring[i][1]
		x1, y1 := ring[j][0], ring[j][1]
		cross := x0*y1 - x1*y0
		a += cross
		cx += (x0 + x1) * cross
		cy += (y0 + y1) * cross
	}
	if a == 0 {
		return 0, 0, 0
	}
	cx /= 3 * a
	cy /= 3 * a
	if a < 0 {
		a = -a
	}
	return a / 2, cy, cx
}
