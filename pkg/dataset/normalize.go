package dataset

import (
	"math"
	"sort"
)

// aggregateEntities are the statistical groupings the publisher mixes in with
// real countries. They would dominate every ranking if kept.
var aggregateEntities = map[string]bool{
	"Africa":              true,
	"Americas":            true,
	"Asia":                true,
	"Europe":              true,
	"European Union":      true,
	"High income":         true,
	"Low income":          true,
	"Lower middle income": true,
	"Upper middle income": true,
	"Oceania":             true,
	"World":               true,
	"North America":       true,
	"South America":       true,
	"Sub-Saharan Africa":  true,
	"Middle East":         true,
}

// nameFixes maps publisher country names to the admin names used by the world
// atlas geometry, so the choropleth join and centroid lookups line up.
var nameFixes = map[string]string{
	"United States":                "United States of America",
	"Czechia":                      "Czech Republic",
	"Democratic Republic of Congo": "Democratic Republic of the Congo",
	"Republic of Congo":            "Republic of the Congo",
	"Eswatini":                     "Swaziland",
	"Timor":                        "Timor-Leste",
	"Myanmar":                      "Burma",
	"North Macedonia":              "Macedonia",
	"South Sudan":                  "Sudan",
	"Laos":                         "Lao PDR",
}

// CanonicalName returns the atlas-side name for a publisher country name.
func CanonicalName(name string) string {
	if fixed, ok := nameFixes[name]; ok {
		return fixed
	}
	return name
}

func dropAggregates(recs []Record) []Record {
	out := recs[:0]
	for _, r := range recs {
		if aggregateEntities[r.Origin] || aggregateEntities[r.Destination] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func canonicalize(recs []Record) []Record {
	for i := range recs {
		recs[i].Origin = CanonicalName(recs[i].Origin)
		recs[i].Destination = CanonicalName(recs[i].Destination)
	}
	return recs
}

type pairKey struct {
	origin, dest string
}

// mergeDuplicates sums rows sharing (origin, destination, year) so the key is
// unique afterwards. Publisher files repeat rows across revisions.
func mergeDuplicates(recs []Record) []Record {
	type fullKey struct {
		pairKey
		year int
	}
	sums := make(map[fullKey]int64, len(recs))
	for _, r := range recs {
		sums[fullKey{pairKey{r.Origin, r.Destination}, r.Year}] += r.Count
	}
	out := make([]Record, 0, len(sums))
	for k, count := range sums {
		out = append(out, Record{Origin: k.origin, Destination: k.dest, Year: k.year, Count: count})
	}
	sortRecords(out)
	return out
}

// Interpolate fills each (origin, destination) pair out to the dataset's full
// year grid: linear between observed years, nearest-value fill at the edges.
// A pair observed in a single year is constant-filled.
func Interpolate(recs []Record) []Record {
	yearSet := map[int]bool{}
	for _, r := range recs {
		yearSet[r.Year] = true
	}
	grid := make([]int, 0, len(yearSet))
	for y := range yearSet {
		grid = append(grid, y)
	}
	sort.Ints(grid)
	if len(grid) < 2 {
		return recs
	}

	byPair := map[pairKey]map[int]int64{}
	for _, r := range recs {
		k := pairKey{r.Origin, r.Destination}
		if byPair[k] == nil {
			byPair[k] = make(map[int]int64)
		}
		byPair[k][r.Year] = r.Count
	}

	var out []Record
	for k, observed := range byPair {
		obsYears := make([]int, 0, len(observed))
		for y := range observed {
			obsYears = append(obsYears, y)
		}
		sort.Ints(obsYears)

		for _, y := range grid {
			count, ok := observed[y]
			if !ok {
				count = interpolateAt(y, obsYears, observed)
			}
			out = append(out, Record{Origin: k.origin, Destination: k.dest, Year: y, Count: count})
		}
	}
	sortRecords(out)
	return out
}

func interpolateAt(year int, obsYears []int, observed map[int]int64) int64 {
	// Index of the first observed year >= year.
	i := sort.SearchInts(obsYears, year)
	switch {
	case i == 0:
		return observed[obsYears[0]] // backfill before first observation
	case i == len(obsYears):
		return observed[obsYears[len(obsYears)-1]] // forward fill past last
	}
	y0, y1 := obsYears[i-1], obsYears[i]
	c0, c1 := observed[y0], observed[y1]
	frac := float64(year-y0) / float64(y1-y0)
	v := math.Round(float64(c0) + frac*float64(c1-c0))
	if v < 0 {
		v = 0
	}
	return int64(v)
}

func sortRecords(recs []Record) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Origin != recs[j].Origin {
			return recs[i].Origin < recs[j].Origin
		}
		if recs[i].Destination != recs[j].Destination {
			return recs[i].Destination < recs[j].Destination
		}
		return recs[i].Year < recs[j].Year
	})
}
