package geo

import (
	"github.com/atlasmode/migration-map/pkg/flows"
)

// Arc is one origin→destination flow positioned for the globe view.
type Arc struct {
	FromLat  float64 `json:"from_lat"`
	FromLng  float64 `json:"from_lng"`
	ToLat    float64 `json:"to_lat"`
	ToLng    float64 `json:"to_lng"`
	Source   string  `json:"source"`
	Migrants int64   `json:"migrants"`
}

// Arcs positions each edge by country centroid. Edges with an unmapped
// endpoint are dropped; the count of drops is returned for the warning
// surface.
func (a *Atlas) Arcs(edges []flows.FlowEdge) ([]Arc, int) {
	arcs := make([]Arc, 0, len(edges))
	dropped := 0
	for _, e := range edges {
		fromLat, fromLng, err := a.Centroid(e.Source)
		if err != nil {
			dropped++
			continue
		}
		toLat, toLng, err := a.Centroid(e.Target)
		if err != nil {
			dropped++
			continue
		}
		arcs = append(arcs, Arc{
			FromLat:  fromLat,
			FromLng:  fromLng,
			ToLat:    toLat,
			ToLng:    toLng,
			Source:   e.Source,
			Migrants: e.Weight,
		})
	}
	return arcs, dropped
}

// ChoroplethRow joins a country total to its ISO code for the map renderer.
type ChoroplethRow struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

func (a *Atlas) Choropleth(totals []flows.CountryTotal) ([]ChoroplethRow, int) {
	rows := make([]ChoroplethRow, 0, len(totals))
	dropped := 0
	for _, t := range totals {
		code, err := a.Code(t.Country)
		if err != nil {
			dropped++
			continue
		}
		rows = append(rows, ChoroplethRow{Code: code, Name: t.Country, Total: t.Total})
	}
	return rows, dropped
}

// SankeyData is the node/link shape the flow-diagram renderer consumes:
// parallel source/target/value arrays indexing into Labels, with the
// destination as the final label.
type SankeyData struct {
	Labels  []string `json:"labels"`
	Sources []int    `json:"sources"`
	Targets []int    `json:"targets"`
	Values  []int64  `json:"values"`
}

// Sankey needs no geometry; edges are assumed already ranked.
func Sankey(edges []flows.FlowEdge, dest string) SankeyData {
	d := SankeyData{
		Labels:  make([]string, 0, len(edges)+1),
		Sources: make([]int, 0, len(edges)),
		Targets: make([]int, 0, len(edges)),
		Values:  make([]int64, 0, len(edges)),
	}
	for _, e := range edges {
		d.Labels = append(d.Labels, e.Source)
	}
	d.Labels = append(d.Labels, dest)
	destIdx := len(d.Labels) - 1
	for i, e := range edges {
		d.Sources = append(d.Sources, i)
		d.Targets = append(d.Targets, destIdx)
		d.Values = append(d.Values, e.Weight)
	}
	return d
}
