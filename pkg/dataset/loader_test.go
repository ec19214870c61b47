package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	csv := "year,origin,destination,count\n" +
		"2020,Mexico,United States,100\n" +
		"2020,India,United States,50\n"

	recs, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recs))
	}
	want := Record{Origin: "Mexico", Destination: "United States", Year: 2020, Count: 100}
	if recs[0] != want {
		t.Errorf("Expected %+v, got %+v", want, recs[0])
	}
}

func TestParseFloatCounts(t *testing.T) {
	csv := "origin,destination,year,count\nA,B,2020,152000.0\n"
	recs, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if recs[0].Count != 152000 {
		t.Errorf("Expected count 152000, got %d", recs[0].Count)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		reason string
	}{
		{"missing count column", "origin,destination,year\nA,B,2020\n", `missing "count" column`},
		{"missing origin column", "destination,year,count\nB,2020,5\n", `missing "origin" column`},
		{"non-numeric count", "origin,destination,year,count\nA,B,2020,lots\n", "non-numeric count"},
		{"non-numeric year", "origin,destination,year,count\nA,B,recent,5\n", "non-numeric year"},
		{"negative count", "origin,destination,year,count\nA,B,2020,-5\n", "negative count"},
		{"empty identifier", "origin,destination,year,count\n,B,2020,5\n", "empty country identifier"},
	}

	for _, tt := range tests {
		_, err := Parse(strings.NewReader(tt.csv))
		if err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
			continue
		}
		var le *LoadError
		if !errors.As(err, &le) {
			t.Errorf("%s: expected LoadError, got %T", tt.name, err)
			continue
		}
		if le.Reason != tt.reason {
			t.Errorf("%s: expected reason %q, got %q", tt.name, tt.reason, le.Reason)
		}
	}
}

func TestLoadEmptyAfterNormalization(t *testing.T) {
	tests := []struct{ name, csv string }{
		{"header only", "origin,destination,year,count\n"},
		{"aggregates only", "origin,destination,year,count\nWorld,High income,2020,100\n"},
	}
	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "empty.csv")
		if err := os.WriteFile(path, []byte(tt.csv), 0o644); err != nil {
			t.Fatalf("%s: write fixture: %v", tt.name, err)
		}
		_, err := Load(path, Options{})
		var le *LoadError
		if !errors.As(err, &le) {
			t.Errorf("%s: expected LoadError, got %v", tt.name, err)
			continue
		}
		if le.Reason != "no records after normalization" {
			t.Errorf("%s: unexpected reason %q", tt.name, le.Reason)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.csv", Options{})
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("Expected LoadError, got %v", err)
	}
	if le.Path == "" {
		t.Error("Expected LoadError to carry the path")
	}
}
