package main

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/atlasmode/migration-map/pkg/dataset"
	"github.com/atlasmode/migration-map/pkg/flows"
	"github.com/atlasmode/migration-map/pkg/sources"
)

var cli struct {
	Data          string `help:"Path to the bilateral migrant-stock CSV. Downloaded and cached when empty."`
	Dest          string `help:"Destination country to rank sources for."`
	Year          int    `help:"Year for the ranking. Defaults to the most recent year."`
	Top           int    `help:"Number of sources to show." default:"10"`
	NoInterpolate bool   `help:"Skip filling missing years on the dataset's year grid."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("migration-inspect"),
		kong.Description("Terminal inspection of the migration dataset."))
	log.SetOutput(os.Stderr)

	dataPath, err := sources.EnsureDataset(cli.Data)
	if err != nil {
		log.Fatalf("Failed to resolve dataset: %v", err)
	}
	table, err := dataset.Load(dataPath, dataset.Options{NoInterpolate: cli.NoInterpolate})
	if err != nil {
		log.Fatalf("%v", err)
	}

	years := table.Years()
	fmt.Printf("Records:   %d\n", table.Len())
	fmt.Printf("Countries: %d\n", len(table.Countries()))
	fmt.Printf("Years:     %d-%d (%d points)\n\n", years[0], table.MaxYear(), len(years))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "YEAR\tWORLD TOTAL\tCOUNTRIES")
	for _, y := range years {
		totals, err := flows.TotalsForYear(table, y)
		if err != nil {
			log.Fatalf("%v", err)
		}
		var sum int64
		for _, t := range totals {
			sum += t.Total
		}
		fmt.Fprintf(w, "%d\t%d\t%d\n", y, sum, len(totals))
	}
	w.Flush()

	if cli.Dest == "" {
		return
	}
	year := cli.Year
	if year == 0 {
		year = table.MaxYear()
	}
	top, err := flows.TopSources(table, cli.Dest, year, cli.Top)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("\nTop %d sources into %s (%d):\n", len(top), cli.Dest, year)
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSOURCE\tMIGRANTS")
	for i, e := range top {
		fmt.Fprintf(w, "%d\t%s\t%d\n", i+1, e.Source, e.Weight)
	}
	w.Flush()
}
