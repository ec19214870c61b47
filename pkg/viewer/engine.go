// Package viewer renders the migration views natively: a projected world map
// shaded by inbound totals, arcs into the selected destination, and a ranked
// source panel. Year and destination are changed with the keyboard or
// mirrored from a running dashboard.
package viewer

import (
	"bytes"
	"fmt"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	geojson "github.com/paulmach/go.geojson"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/atlasmode/migration-map/pkg/dataset"
	"github.com/atlasmode/migration-map/pkg/flows"
	"github.com/atlasmode/migration-map/pkg/geo"
)

type countryShape struct {
	name     string
	polygons [][][][]float64 // polygon -> ring -> point -> [lng, lat]
}

// Engine implements ebiten.Game. The table and atlas are read-only; the
// rendered snapshot (background, arcs, panel rows) is swapped under one lock
// whenever the selection changes.
type Engine struct {
	Width, Height int
	proj          *geo.Projection

	table  *dataset.Table
	atlas  *geo.Atlas
	shapes []countryShape

	fontSource *text.GoTextFaceSource
	monoSource *text.GoTextFaceSource

	mu       sync.Mutex
	yearIdx  int
	destIdx  int
	bgImage  *ebiten.Image
	arcPaths []arcPath
	topEdges []flows.FlowEdge
	dropped  int
	warning  string
	destX    float64
	destY    float64
	destOK   bool
}

func New(table *dataset.Table, atlas *geo.Atlas, fc *geojson.FeatureCollection, width, height int, scale float64) *Engine {
	s, _ := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	m, _ := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))

	e := &Engine{
		Width:      width,
		Height:     height,
		proj:       geo.NewProjection(width, height, scale),
		table:      table,
		atlas:      atlas,
		fontSource: s,
		monoSource: m,
	}
	for _, f := range fc.Features {
		name := geo.FeatureName(f)
		if name == "" || f.Geometry == nil {
			continue
		}
		var polygons [][][][]float64
		if f.Geometry.IsPolygon() {
			polygons = [][][][]float64{f.Geometry.Polygon}
		} else if f.Geometry.IsMultiPolygon() {
			polygons = f.Geometry.MultiPolygon
		} else {
			continue
		}
		e.shapes = append(e.shapes, countryShape{name: name, polygons: polygons})
	}

	e.yearIdx = len(table.Years()) - 1
	e.destIdx = 0
	return e
}

// Init builds the first rendered snapshot. Fatal only if the dataset and the
// geometry share no countries at all.
func (e *Engine) Init() error {
	e.rebuild()
	if e.bgImage == nil {
		return fmt.Errorf("no renderable countries in dataset")
	}
	return nil
}

func (e *Engine) selection() (year int, dest string) {
	years := e.table.Years()
	countries := e.table.Countries()
	return years[e.yearIdx], countries[e.destIdx]
}

// SetSelection applies an externally supplied selection (follow mode). An
// unknown year or destination keeps the current view and surfaces a warning.
func (e *Engine) SetSelection(year int, dest string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	yearIdx, destIdx := -1, -1
	for i, y := range e.table.Years() {
		if y == year {
			yearIdx = i
		}
	}
	for i, c := range e.table.Countries() {
		if c == dest {
			destIdx = i
		}
	}
	if yearIdx < 0 || destIdx < 0 {
		e.warning = fmt.Sprintf("ignored selection %s/%d: not in dataset", dest, year)
		log.Printf("[VIEWER] %s", e.warning)
		return
	}
	if yearIdx == e.yearIdx && destIdx == e.destIdx {
		return
	}
	e.yearIdx, e.destIdx = yearIdx, destIdx
	e.rebuildLocked()
}

func (e *Engine) Update() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prevYear, prevDest := e.yearIdx, e.destIdx
	years := e.table.Years()
	countries := e.table.Countries()

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) && e.yearIdx < len(years)-1 {
		e.yearIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) && e.yearIdx > 0 {
		e.yearIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		e.destIdx = (e.destIdx + 1) % len(countries)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		e.destIdx = (e.destIdx - 1 + len(countries)) % len(countries)
	}

	if e.yearIdx != prevYear || e.destIdx != prevDest {
		e.rebuildLocked()
	}
	return nil
}

func (e *Engine) Layout(w, h int) (int, int) { return e.Width, e.Height }

func (e *Engine) rebuild() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rebuildLocked()
}

// rebuildLocked re-runs the full pipeline for the current selection and swaps
// the rendered snapshot. Callers hold e.mu.
func (e *Engine) rebuildLocked() {
	year, dest := e.selection()

	totals, err := flows.TotalsForYear(e.table, year)
	if err != nil {
		// Indexes are bounded by the dataset, so this only fires in follow
		// mode races; keep the previous view.
		e.warning = err.Error()
		return
	}
	edges, err := flows.FlowsToYear(e.table, dest, year)
	if err != nil {
		e.warning = err.Error()
		return
	}
	top, err := flows.TopSources(e.table, dest, year, topPanelRows)
	if err != nil {
		e.warning = err.Error()
		return
	}

	arcs, dropped := e.atlas.Arcs(edges)
	e.bgImage = e.renderBackground(totals)
	e.arcPaths = e.buildArcPaths(arcs)
	e.topEdges = top
	e.dropped = dropped
	e.warning = ""
	if dropped > 0 {
		e.warning = fmt.Sprintf("%d flows dropped (no geographic mapping)", dropped)
	}

	if lat, lng, err := e.atlas.Centroid(dest); err == nil {
		e.destX, e.destY = e.proj.Project(lat, lng)
		e.destOK = true
	} else {
		e.destOK = false
	}

	log.Printf("[VIEWER] rendered %s %d: %d arcs, %d dropped", dest, year, len(arcs), dropped)
}
