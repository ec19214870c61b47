// Package flows derives the chart-facing views from the loaded table: edge
// lists into a destination, per-country inbound totals, and top-N rankings.
// Everything here is a pure pass over the immutable dataset, recomputed on
// each selection change.
package flows

import (
	"fmt"
	"sort"

	"github.com/atlasmode/migration-map/pkg/dataset"
)

// FlowEdge is one weighted origin→destination edge.
type FlowEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int64  `json:"weight"`
}

// CountryTotal is a destination country's inbound migrant stock for one year.
type CountryTotal struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
	Total   int64  `json:"total"`
}

// SelectionError marks a year or country outside the dataset's bounds. It is
// recoverable: the shell keeps its last valid view and surfaces a warning.
type SelectionError struct {
	Field string // "year" or "destination"
	Value string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("invalid selection: %s %q not in dataset", e.Field, e.Value)
}

func checkDestination(t *dataset.Table, dest string) error {
	if !t.HasCountry(dest) {
		return &SelectionError{Field: "destination", Value: dest}
	}
	return nil
}

func checkYear(t *dataset.Table, year int) error {
	if !t.HasYear(year) {
		return &SelectionError{Field: "year", Value: fmt.Sprintf("%d", year)}
	}
	return nil
}

// FlowsTo returns every inbound edge for dest with counts summed across all
// years, sorted by weight descending (ties by source name ascending).
func FlowsTo(t *dataset.Table, dest string) ([]FlowEdge, error) {
	if err := checkDestination(t, dest); err != nil {
		return nil, err
	}
	return collect(t, dest, func(r dataset.Record) bool { return r.Destination == dest }), nil
}

// FlowsToYear is the year-scoped variant feeding the globe view.
func FlowsToYear(t *dataset.Table, dest string, year int) ([]FlowEdge, error) {
	if err := checkDestination(t, dest); err != nil {
		return nil, err
	}
	if err := checkYear(t, year); err != nil {
		return nil, err
	}
	return collect(t, dest, func(r dataset.Record) bool {
		return r.Destination == dest && r.Year == year
	}), nil
}

// TotalsForYear returns the inbound total of every destination country with
// records in that year, sorted by country name. Countries without records are
// omitted, not zero-filled.
func TotalsForYear(t *dataset.Table, year int) ([]CountryTotal, error) {
	if err := checkYear(t, year); err != nil {
		return nil, err
	}
	sums := make(map[string]int64)
	for _, r := range t.Records() {
		if r.Year == year {
			sums[r.Destination] += r.Count
		}
	}
	out := make([]CountryTotal, 0, len(sums))
	for country, total := range sums {
		out = append(out, CountryTotal{Country: country, Year: year, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out, nil
}

// TopSources returns the n largest inbound edges for dest in year. The result
// has at most n entries and the same deterministic order as the other edge
// lists.
func TopSources(t *dataset.Table, dest string, year, n int) ([]FlowEdge, error) {
	edges, err := FlowsToYear(t, dest, year)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	if len(edges) > n {
		edges = edges[:n]
	}
	return edges, nil
}

func collect(t *dataset.Table, dest string, keep func(dataset.Record) bool) []FlowEdge {
	sums := make(map[string]int64)
	for _, r := range t.Records() {
		if keep(r) && r.Origin != dest {
			sums[r.Origin] += r.Count
		}
	}
	edges := make([]FlowEdge, 0, len(sums))
	for origin, w := range sums {
		edges = append(edges, FlowEdge{Source: origin, Target: dest, Weight: w})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight > edges[j].Weight
		}
		return edges[i].Source < edges[j].Source
	})
	return edges
}
