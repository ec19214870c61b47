package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/atlasmode/migration-map/pkg/dataset"
	"github.com/atlasmode/migration-map/pkg/geo"
	"github.com/atlasmode/migration-map/pkg/sources"
	"github.com/atlasmode/migration-map/pkg/viewer"
)

var (
	dataFlag      = flag.String("data", "", "Path to the bilateral migrant-stock CSV (downloaded if empty)")
	geometryFlag  = flag.String("geometry", "", "Path to the world-countries GeoJSON (downloaded if empty)")
	renderWidth   = flag.Int("width", 1920, "Internal rendering width")
	renderHeight  = flag.Int("height", 1080, "Internal rendering height")
	renderScale   = flag.Float64("scale", 300.0, "Internal rendering scale")
	windowWidth   = flag.Int("window-width", 1280, "Initial window width")
	windowHeight  = flag.Int("window-height", 720, "Initial window height")
	tpsFlag       = flag.Int("tps", 30, "Ticks per second (engine updates)")
	followFlag    = flag.String("follow", "", "Mirror selections from a dashboard websocket (e.g. ws://localhost:8080/ws)")
	noInterpolate = flag.Bool("no-interpolate", false, "Skip filling missing years on the dataset's year grid")
)

func main() {
	flag.Parse()
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	dataPath, err := sources.EnsureDataset(*dataFlag)
	if err != nil {
		log.Fatalf("Failed to resolve dataset: %v", err)
	}
	table, err := dataset.Load(dataPath, dataset.Options{NoInterpolate: *noInterpolate})
	if err != nil {
		log.Fatalf("%v", err)
	}

	geoPath, err := sources.EnsureWorldGeoJSON(*geometryFlag)
	if err != nil {
		log.Fatalf("Failed to resolve world geometry: %v", err)
	}
	fc, err := geo.LoadFeatureCollection(geoPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	engine := viewer.New(table, geo.NewAtlas(fc), fc, *renderWidth, *renderHeight, *renderScale)
	if err := engine.Init(); err != nil {
		log.Fatalf("Failed to initialize viewer: %v", err)
	}

	if *followFlag != "" {
		go engine.Follow(*followFlag)
	}

	ebiten.SetTPS(*tpsFlag)
	ebiten.SetWindowSize(*windowWidth, *windowHeight)
	ebiten.SetWindowTitle("Global Migration Map")
	if err := ebiten.RunGame(engine); err != nil {
		log.Fatal(err)
	}
}
