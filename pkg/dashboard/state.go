// Package dashboard serves the derived views over HTTP and pushes selection
// changes to subscribers. Session state is one immutable Selection; every
// change re-runs the full pipeline through BuildView.
package dashboard

import (
	"time"

	"github.com/atlasmode/migration-map/pkg/dataset"
	"github.com/atlasmode/migration-map/pkg/flows"
	"github.com/atlasmode/migration-map/pkg/geo"
)

// Selection is the whole session state: one year, one destination country.
type Selection struct {
	Year        int    `json:"year"`
	Destination string `json:"destination"`
}

// View is one full render of the three chart inputs for a Selection. Dropped
// counts rows lost to missing geographic mappings; it is a warning, not an
// error.
type View struct {
	Selection   Selection           `json:"selection"`
	Choropleth  []geo.ChoroplethRow `json:"choropleth"`
	Arcs        []geo.Arc           `json:"arcs"`
	Sankey      geo.SankeyData      `json:"sankey"`
	Dropped     int                 `json:"dropped"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// DefaultSelection mirrors the dataset bounds: most recent year, first country.
func DefaultSelection(t *dataset.Table) Selection {
	sel := Selection{Year: t.MaxYear()}
	if countries := t.Countries(); len(countries) > 0 {
		sel.Destination = countries[0]
	}
	return sel
}

// BuildView runs the aggregation and presentation layers for one selection.
// It fails only on invalid selections; lookup misses are dropped and counted.
func BuildView(t *dataset.Table, atlas *geo.Atlas, sel Selection, topN int) (*View, error) {
	totals, err := flows.TotalsForYear(t, sel.Year)
	if err != nil {
		return nil, err
	}
	edges, err := flows.FlowsToYear(t, sel.Destination, sel.Year)
	if err != nil {
		return nil, err
	}
	top, err := flows.TopSources(t, sel.Destination, sel.Year, topN)
	if err != nil {
		return nil, err
	}

	rows, droppedRows := atlas.Choropleth(totals)
	arcs, droppedArcs := atlas.Arcs(edges)

	return &View{
		Selection:   sel,
		Choropleth:  rows,
		Arcs:        arcs,
		Sankey:      geo.Sankey(top, sel.Destination),
		Dropped:     droppedRows + droppedArcs,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
