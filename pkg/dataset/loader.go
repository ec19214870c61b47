package dataset

import (
	"encoding/csv"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
)

// Options controls the normalization applied after parsing. The zero value
// runs the full pipeline used by the shipped binaries.
type Options struct {
	KeepAggregates bool // keep rows for "World", "Asia", income groups, ...
	NoInterpolate  bool // skip filling missing years on the dataset's year grid
}

// Load reads the CSV at path and returns the normalized immutable table.
func Load(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "cannot open file", Err: err}
	}
	defer f.Close()

	recs, err := Parse(f)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}

	raw := len(recs)
	if !opts.KeepAggregates {
		recs = dropAggregates(recs)
	}
	recs = canonicalize(recs)
	recs = mergeDuplicates(recs)
	if !opts.NoInterpolate {
		recs = Interpolate(recs)
	}
	if len(recs) == 0 {
		return nil, &LoadError{Path: path, Reason: "no records after normalization"}
	}
	log.Printf("[LOADER] %s: %d rows read, %d records after normalization", path, raw, len(recs))
	return NewTable(recs), nil
}

// Parse reads records from a CSV stream with an origin/destination/year/count
// header. Column order does not matter; anything else about the format does.
func Parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, &LoadError{Reason: "cannot read header", Err: err}
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"origin", "destination", "year", "count"} {
		if _, ok := cols[required]; !ok {
			return nil, &LoadError{Reason: `missing "` + required + `" column`}
		}
	}

	var recs []Record
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &LoadError{Line: line, Reason: "malformed row", Err: err}
		}

		origin := strings.TrimSpace(row[cols["origin"]])
		dest := strings.TrimSpace(row[cols["destination"]])
		if origin == "" || dest == "" {
			return nil, &LoadError{Line: line, Reason: "empty country identifier"}
		}

		year, err := strconv.Atoi(strings.TrimSpace(row[cols["year"]]))
		if err != nil {
			return nil, &LoadError{Line: line, Reason: "non-numeric year", Err: err}
		}

		count, err := parseCount(row[cols["count"]])
		if err != nil {
			return nil, &LoadError{Line: line, Reason: "non-numeric count", Err: err}
		}
		if count < 0 {
			return nil, &LoadError{Line: line, Reason: "negative count"}
		}

		recs = append(recs, Record{Origin: origin, Destination: dest, Year: year, Count: count})
	}
	return recs, nil
}

// parseCount accepts plain integers and the float renderings some publisher
// exports use ("152000.0", "1.52e5").
func parseCount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f)), nil
}
