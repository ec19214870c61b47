package dataset

import "testing"

func testRecords() []Record {
	return []Record{
		{Origin: "Mexico", Destination: "United States of America", Year: 2015, Count: 100},
		{Origin: "India", Destination: "United States of America", Year: 2020, Count: 50},
		{Origin: "Mexico", Destination: "Canada", Year: 2020, Count: 20},
	}
}

func TestNewTable(t *testing.T) {
	table := NewTable(testRecords())

	wantYears := []int{2015, 2020}
	years := table.Years()
	if len(years) != len(wantYears) {
		t.Fatalf("Expected %d years, got %d", len(wantYears), len(years))
	}
	for i, y := range wantYears {
		if years[i] != y {
			t.Errorf("Years()[%d] = %d; want %d", i, years[i], y)
		}
	}

	countries := table.Countries()
	want := []string{"Canada", "India", "Mexico", "United States of America"}
	if len(countries) != len(want) {
		t.Fatalf("Expected %d countries, got %d", len(want), len(countries))
	}
	for i, c := range want {
		if countries[i] != c {
			t.Errorf("Countries()[%d] = %q; want %q", i, countries[i], c)
		}
	}

	if !table.HasYear(2020) || table.HasYear(1990) {
		t.Error("HasYear bounds wrong")
	}
	if !table.HasCountry("India") || table.HasCountry("Atlantis") {
		t.Error("HasCountry bounds wrong")
	}
	if table.MaxYear() != 2020 {
		t.Errorf("MaxYear() = %d; want 2020", table.MaxYear())
	}
}

func TestEmptyTable(t *testing.T) {
	table := NewTable(nil)
	if table.Len() != 0 || table.MaxYear() != 0 {
		t.Errorf("Expected empty table, got len=%d maxYear=%d", table.Len(), table.MaxYear())
	}
}
