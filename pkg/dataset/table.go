package dataset

import "sort"

// Table is the loaded dataset: created once at startup, read-only afterwards.
// Callers must not mutate the slices it returns.
type Table struct {
	records    []Record
	years      []int
	countries  []string
	yearSet    map[int]bool
	countrySet map[string]bool
}

func NewTable(recs []Record) *Table {
	t := &Table{
		records:    recs,
		yearSet:    make(map[int]bool),
		countrySet: make(map[string]bool),
	}
	for _, r := range recs {
		if !t.yearSet[r.Year] {
			t.yearSet[r.Year] = true
			t.years = append(t.years, r.Year)
		}
		for _, c := range [2]string{r.Origin, r.Destination} {
			if !t.countrySet[c] {
				t.countrySet[c] = true
				t.countries = append(t.countries, c)
			}
		}
	}
	sort.Ints(t.years)
	sort.Strings(t.countries)
	return t
}

func (t *Table) Records() []Record { return t.records }

func (t *Table) Len() int { return len(t.records) }

// Years returns the dataset's year grid, ascending.
func (t *Table) Years() []int { return t.years }

// Countries returns every country appearing as an origin or destination, sorted.
func (t *Table) Countries() []string { return t.countries }

func (t *Table) HasYear(year int) bool { return t.yearSet[year] }

func (t *Table) HasCountry(name string) bool { return t.countrySet[name] }

// MaxYear returns the most recent year in the dataset, the default selection.
func (t *Table) MaxYear() int {
	if len(t.years) == 0 {
		return 0
	}
	return t.years[len(t.years)-1]
}
