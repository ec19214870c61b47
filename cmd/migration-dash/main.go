package main

import (
	"log"
	"net/http"
	"os"

	"github.com/alecthomas/kong"

	"github.com/atlasmode/migration-map/pkg/dashboard"
	"github.com/atlasmode/migration-map/pkg/dataset"
	"github.com/atlasmode/migration-map/pkg/geo"
	"github.com/atlasmode/migration-map/pkg/sources"
)

var cli struct {
	Data          string `help:"Path to the bilateral migrant-stock CSV. Downloaded and cached when empty."`
	Geometry      string `help:"Path to the world-countries GeoJSON. Downloaded and cached when empty."`
	Listen        string `help:"HTTP listen address." default:":8080"`
	TopN          int    `help:"Source countries shown in the flow diagram." default:"10"`
	NoInterpolate bool   `help:"Skip filling missing years on the dataset's year grid."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("migration-dash"),
		kong.Description("Dashboard backend for international migration statistics."))
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	dataPath, err := sources.EnsureDataset(cli.Data)
	if err != nil {
		log.Fatalf("Failed to resolve dataset: %v", err)
	}
	table, err := dataset.Load(dataPath, dataset.Options{NoInterpolate: cli.NoInterpolate})
	if err != nil {
		log.Fatalf("%v", err)
	}

	geoPath, err := sources.EnsureWorldGeoJSON(cli.Geometry)
	if err != nil {
		log.Fatalf("Failed to resolve world geometry: %v", err)
	}
	atlas, err := geo.LoadAtlas(geoPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	srv, err := dashboard.NewServer(table, atlas, cli.TopN)
	if err != nil {
		log.Fatalf("Failed to initialize dashboard: %v", err)
	}

	log.Printf("Serving dashboard on %s (%d records, %d countries, years %d-%d)",
		cli.Listen, table.Len(), len(table.Countries()), table.Years()[0], table.MaxYear())
	if err := http.ListenAndServe(cli.Listen, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
