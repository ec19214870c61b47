package geo

import (
	"reflect"
	"testing"

	"github.com/atlasmode/migration-map/pkg/flows"
)

func TestArcs(t *testing.T) {
	a := fixtureAtlas(t)

	edges := []flows.FlowEdge{
		{Source: "Germany", Target: "Squareland", Weight: 100},
		{Source: "Atlantis", Target: "Squareland", Weight: 50},
		{Source: "Squareland", Target: "Lemuria", Weight: 25},
	}
	arcs, dropped := a.Arcs(edges)
	if len(arcs) != 1 {
		t.Fatalf("Expected 1 arc, got %d", len(arcs))
	}
	if dropped != 2 {
		t.Errorf("Expected 2 dropped edges, got %d", dropped)
	}
	if arcs[0].Source != "Germany" || arcs[0].Migrants != 100 {
		t.Errorf("Unexpected arc %+v", arcs[0])
	}
	if arcs[0].ToLat != 5 || arcs[0].ToLng != 5 {
		t.Errorf("Expected destination centroid (5, 5), got (%f, %f)", arcs[0].ToLat, arcs[0].ToLng)
	}
}

func TestChoropleth(t *testing.T) {
	a := fixtureAtlas(t)

	totals := []flows.CountryTotal{
		{Country: "Germany", Year: 2020, Total: 500},
		{Country: "Atlantis", Year: 2020, Total: 10},
		{Country: "Squareland", Year: 2020, Total: 200},
	}
	rows, dropped := a.Choropleth(totals)
	if dropped != 1 {
		t.Errorf("Expected 1 dropped total, got %d", dropped)
	}
	want := []ChoroplethRow{
		{Code: "DEU", Name: "Germany", Total: 500},
		{Code: "SQL", Name: "Squareland", Total: 200},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("Choropleth = %+v; want %+v", rows, want)
	}
}

func TestSankey(t *testing.T) {
	edges := []flows.FlowEdge{
		{Source: "A", Target: "X", Weight: 100},
		{Source: "B", Target: "X", Weight: 50},
	}
	d := Sankey(edges, "X")

	wantLabels := []string{"A", "B", "X"}
	if !reflect.DeepEqual(d.Labels, wantLabels) {
		t.Errorf("Labels = %v; want %v", d.Labels, wantLabels)
	}
	if !reflect.DeepEqual(d.Sources, []int{0, 1}) {
		t.Errorf("Sources = %v; want [0 1]", d.Sources)
	}
	if !reflect.DeepEqual(d.Targets, []int{2, 2}) {
		t.Errorf("Targets = %v; want [2 2]", d.Targets)
	}
	if !reflect.DeepEqual(d.Values, []int64{100, 50}) {
		t.Errorf("Values = %v; want [100 50]", d.Values)
	}
}

func TestSankeyEmpty(t *testing.T) {
	d := Sankey(nil, "X")
	if len(d.Labels) != 1 || d.Labels[0] != "X" {
		t.Errorf("Expected only the destination label, got %v", d.Labels)
	}
	if len(d.Sources) != 0 || len(d.Targets) != 0 || len(d.Values) != 0 {
		t.Error("Expected empty link arrays")
	}
}
