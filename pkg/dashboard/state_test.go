package dashboard

import (
	"errors"
	"testing"

	geojson "github.com/paulmach/go.geojson"

	"github.com/atlasmode/migration-map/pkg/dataset"
	"github.com/atlasmode/migration-map/pkg/flows"
	"github.com/atlasmode/migration-map/pkg/geo"
)

const geoFixture = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"ADMIN": "United States of America", "ISO_A3": "USA"},
			"geometry": {"type": "Polygon", "coordinates": [[[-100,30],[-90,30],[-90,40],[-100,40],[-100,30]]]}
		},
		{
			"type": "Feature",
			"properties": {"ADMIN": "Mexico", "ISO_A3": "MEX"},
			"geometry": {"type": "Polygon", "coordinates": [[[-105,20],[-100,20],[-100,25],[-105,25],[-105,20]]]}
		},
		{
			"type": "Feature",
			"properties": {"ADMIN": "Canada", "ISO_A3": "CAN"},
			"geometry": {"type": "Polygon", "coordinates": [[[-110,50],[-95,50],[-95,60],[-110,60],[-110,50]]]}
		}
	]
}`

func fixtureAtlas(t *testing.T) *geo.Atlas {
	t.Helper()
	fc, err := geojson.UnmarshalFeatureCollection([]byte(geoFixture))
	if err != nil {
		t.Fatalf("Failed to parse geometry fixture: %v", err)
	}
	return geo.NewAtlas(fc)
}

func fixtureTable() *dataset.Table {
	return dataset.NewTable([]dataset.Record{
		{Origin: "Mexico", Destination: "United States of America", Year: 2015, Count: 900},
		{Origin: "Mexico", Destination: "United States of America", Year: 2020, Count: 1000},
		{Origin: "Canada", Destination: "United States of America", Year: 2020, Count: 300},
		{Origin: "India", Destination: "United States of America", Year: 2020, Count: 500},
	})
}

func TestDefaultSelection(t *testing.T) {
	sel := DefaultSelection(fixtureTable())
	if sel.Year != 2020 {
		t.Errorf("Expected most recent year 2020, got %d", sel.Year)
	}
	if sel.Destination != "Canada" {
		t.Errorf("Expected first country Canada, got %q", sel.Destination)
	}
}

func TestBuildView(t *testing.T) {
	table := fixtureTable()
	atlas := fixtureAtlas(t)

	sel := Selection{Year: 2020, Destination: "United States of America"}
	view, err := BuildView(table, atlas, sel, 10)
	if err != nil {
		t.Fatalf("BuildView returned error: %v", err)
	}

	if view.Selection != sel {
		t.Errorf("View carries selection %+v; want %+v", view.Selection, sel)
	}
	// India has no geometry: one choropleth row and one arc dropped.
	if len(view.Choropleth) != 1 || view.Choropleth[0].Code != "USA" {
		t.Errorf("Unexpected choropleth %+v", view.Choropleth)
	}
	if len(view.Arcs) != 2 {
		t.Errorf("Expected 2 arcs, got %d", len(view.Arcs))
	}
	if view.Dropped != 1 {
		t.Errorf("Expected 1 dropped row, got %d", view.Dropped)
	}
	// The Sankey keeps the full ranking regardless of geometry.
	if len(view.Sankey.Values) != 3 || view.Sankey.Values[0] != 1000 {
		t.Errorf("Unexpected sankey values %v", view.Sankey.Values)
	}
	if view.GeneratedAt.IsZero() {
		t.Error("Expected GeneratedAt to be set")
	}
}

func TestBuildViewInvalidSelection(t *testing.T) {
	_, err := BuildView(fixtureTable(), fixtureAtlas(t), Selection{Year: 1990, Destination: "Mexico"}, 10)
	var selErr *flows.SelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("Expected SelectionError, got %v", err)
	}
}
