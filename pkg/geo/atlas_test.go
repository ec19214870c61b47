package geo

import (
	"errors"
	"math"
	"testing"

	geojson "github.com/paulmach/go.geojson"
)

const worldFixture = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"ADMIN": "Squareland", "ISO_A3": "SQL"},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]
			}
		},
		{
			"type": "Feature",
			"properties": {"name": "Germany", "ISO_A3": "-99"},
			"geometry": {
				"type": "MultiPolygon",
				"coordinates": [
					[[[20,40],[22,40],[22,42],[20,42],[20,40]]],
					[[[30,50],[31,50],[31,51],[30,51],[30,50]]]
				]
			}
		}
	]
}`

func fixtureAtlas(t *testing.T) *Atlas {
	t.Helper()
	fc, err := geojson.UnmarshalFeatureCollection([]byte(worldFixture))
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}
	return NewAtlas(fc)
}

func TestAtlasCentroid(t *testing.T) {
	a := fixtureAtlas(t)

	lat, lng, err := a.Centroid("Squareland")
	if err != nil {
		t.Fatalf("Centroid returned error: %v", err)
	}
	if math.Abs(lat-5) > 1e-9 || math.Abs(lng-5) > 1e-9 {
		t.Errorf("Centroid(Squareland) = (%f, %f); want (5, 5)", lat, lng)
	}

	// Area weighting: the 2x2 part dominates the 1x1 part.
	lat, lng, err = a.Centroid("Germany")
	if err != nil {
		t.Fatalf("Centroid returned error: %v", err)
	}
	if lat <= 41 || lat >= 45 || lng <= 21 || lng >= 25 {
		t.Errorf("Centroid(Germany fixture) = (%f, %f); want near the larger part", lat, lng)
	}
}

func TestAtlasCode(t *testing.T) {
	a := fixtureAtlas(t)

	code, err := a.Code("Squareland")
	if err != nil || code != "SQL" {
		t.Errorf("Code(Squareland) = (%q, %v); want SQL from ISO_A3", code, err)
	}

	// The "-99" placeholder is skipped; the name lookup supplies the code.
	code, err = a.Code("Germany")
	if err != nil || code != "DEU" {
		t.Errorf("Code(Germany) = (%q, %v); want DEU via name fallback", code, err)
	}
}

func TestAtlasLookupError(t *testing.T) {
	a := fixtureAtlas(t)

	_, _, err := a.Centroid("Atlantis")
	var le *LookupError
	if !errors.As(err, &le) || le.Country != "Atlantis" {
		t.Errorf("Expected LookupError for Atlantis, got %v", err)
	}
	if a.Has("Atlantis") {
		t.Error("Has(Atlantis) = true; want false")
	}
	if a.Len() != 2 {
		t.Errorf("Len() = %d; want 2", a.Len())
	}
}
