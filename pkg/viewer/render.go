package viewer

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/atlasmode/migration-map/pkg/flows"
	"github.com/atlasmode/migration-map/pkg/geo"
)

const topPanelRows = 10

var (
	colorOcean   = color.RGBA{8, 10, 15, 255}
	colorLand    = color.RGBA{26, 29, 35, 255}
	colorOutline = color.RGBA{36, 42, 53, 255}
	colorShade   = color.RGBA{0, 191, 255, 255} // full-intensity choropleth end
	colorFlowSrc = color.RGBA{0, 128, 200, 255}
	colorFlowDst = color.RGBA{200, 30, 80, 255}
)

type arcPath struct {
	pts   [][2]float32
	width float32
	alpha float32
}

// renderBackground rasterizes the world map with each country shaded by its
// log-scaled inbound total for the selected year.
func (e *Engine) renderBackground(totals []flows.CountryTotal) *ebiten.Image {
	byCountry := make(map[string]int64, len(totals))
	maxLog := 1.0
	for _, t := range totals {
		byCountry[t.Country] = t.Total
		if l := math.Log10(float64(t.Total) + 1); l > maxLog {
			maxLog = l
		}
	}

	cpuImg := image.NewRGBA(image.Rect(0, 0, e.Width, e.Height))
	draw.Draw(cpuImg, cpuImg.Bounds(), &image.Uniform{colorOcean}, image.Point{}, draw.Src)

	for _, shape := range e.shapes {
		fill := colorLand
		if total, ok := byCountry[shape.name]; ok {
			fill = shadeFor(total, maxLog)
		}
		for _, poly := range shape.polygons {
			e.fillPolygon(cpuImg, poly, fill)
			for _, ring := range poly {
				e.drawRing(cpuImg, ring, colorOutline)
			}
		}
	}
	return ebiten.NewImageFromImage(cpuImg)
}

// shadeFor blends land color toward the accent on a log scale, so the handful
// of huge destinations don't wash out everyone else.
func shadeFor(total int64, maxLog float64) color.RGBA {
	t := math.Log10(float64(total)+1) / maxLog
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return lerpColor(colorLand, colorShade, t)
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + t*float64(int(b.R)-int(a.R))),
		G: uint8(float64(a.G) + t*float64(int(b.G)-int(a.G))),
		B: uint8(float64(a.B) + t*float64(int(b.B)-int(a.B))),
		A: 255,
	}
}

// buildArcPaths samples a lifted quadratic curve between the projected
// endpoints of each arc. Width and alpha scale with weight relative to the
// largest flow on screen.
func (e *Engine) buildArcPaths(arcs []geo.Arc) []arcPath {
	var maxW int64 = 1
	for _, a := range arcs {
		if a.Migrants > maxW {
			maxW = a.Migrants
		}
	}
	paths := make([]arcPath, 0, len(arcs))
	for _, a := range arcs {
		x0, y0 := e.proj.Project(a.FromLat, a.FromLng)
		x1, y1 := e.proj.Project(a.ToLat, a.ToLng)
		pts := sampleArc(x0, y0, x1, y1, 24)

		frac := float64(a.Migrants) / float64(maxW)
		width := 1.0 + math.Log10(float64(a.Migrants)+1)*0.5
		if width > 6 {
			width = 6
		}
		paths = append(paths, arcPath{
			pts:   pts,
			width: float32(width),
			alpha: float32(0.15 + 0.55*frac),
		})
	}
	// Draw small flows first so the big ones stay visible on top.
	sort.Slice(paths, func(i, j int) bool { return paths[i].alpha < paths[j].alpha })
	return paths
}

// sampleArc returns points along a quadratic curve whose control point is the
// midpoint lifted perpendicular to the chord.
func sampleArc(x0, y0, x1, y1 float64, segments int) [][2]float32 {
	dx, dy := x1-x0, y1-y0
	dist := math.Hypot(dx, dy)
	midX, midY := (x0+x1)/2, (y0+y1)/2
	lift := dist * 0.18
	var cx, cy float64
	if dist > 0 {
		// Perpendicular, biased upward so arcs bow away from the map.
		cx = midX - dy/dist*lift
		cy = midY + dx/dist*lift
		if cy > midY {
			cx = midX + dy/dist*lift
			cy = midY - dx/dist*lift
		}
	} else {
		cx, cy = midX, midY
	}

	pts := make([][2]float32, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		mt := 1 - t
		x := mt*mt*x0 + 2*mt*t*cx + t*t*x1
		y := mt*mt*y0 + 2*mt*t*cy + t*t*y1
		pts = append(pts, [2]float32{float32(x), float32(y)})
	}
	return pts
}

func (e *Engine) Draw(screen *ebiten.Image) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bgImage != nil {
		screen.DrawImage(e.bgImage, nil)
	}

	for _, p := range e.arcPaths {
		for i := 0; i < len(p.pts)-1; i++ {
			t := float64(i) / float64(len(p.pts)-1)
			c := lerpColor(colorFlowSrc, colorFlowDst, t)
			c.A = uint8(p.alpha * 255)
			vector.StrokeLine(screen,
				p.pts[i][0], p.pts[i][1], p.pts[i+1][0], p.pts[i+1][1],
				p.width, c, true)
		}
	}

	if e.destOK {
		vector.DrawFilledCircle(screen, float32(e.destX), float32(e.destY), 5, colorFlowDst, true)
		vector.StrokeCircle(screen, float32(e.destX), float32(e.destY), 9, 1.5, colorFlowDst, true)
	}

	e.drawPanels(screen)
}

// fillPolygon is a scanline fill over the projected rings.
func (e *Engine) fillPolygon(img *image.RGBA, rings [][][]float64, c color.RGBA) {
	if len(rings) == 0 {
		return
	}
	type point struct{ x, y float64 }
	projectedRings := make([][]point, len(rings))
	minY, maxY := float64(e.Height), 0.0
	for i, ring := range rings {
		projectedRings[i] = make([]point, len(ring))
		for j, p := range ring {
			x, y := e.proj.Project(p[1], p[0])
			projectedRings[i][j] = point{x, y}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	for y := int(minY); y <= int(maxY); y++ {
		if y < 0 || y >= e.Height {
			continue
		}
		var nodes []int
		fy := float64(y)
		for _, ring := range projectedRings {
			for i := 0; i < len(ring); i++ {
				j := (i + 1) % len(ring)
				if (ring[i].y < fy && ring[j].y >= fy) || (ring[j].y < fy && ring[i].y >= fy) {
					nodeX := ring[i].x + (fy-ring[i].y)/(ring[j].y-ring[i].y)*(ring[j].x-ring[i].x)
					nodes = append(nodes, int(nodeX))
				}
			}
		}
		sort.Ints(nodes)
		for i := 0; i < len(nodes)-1; i += 2 {
			xs, xe := nodes[i], nodes[i+1]
			if xs < 0 {
				xs = 0
			}
			if xe >= e.Width {
				xe = e.Width - 1
			}
			for x := xs; x < xe; x++ {
				off := y*img.Stride + x*4
				img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = c.R, c.G, c.B, 255
			}
		}
	}
}

func (e *Engine) drawRing(img *image.RGBA, coords [][]float64, c color.RGBA) {
	for i := 0; i < len(coords)-1; i++ {
		x1, y1 := e.proj.Project(coords[i][1], coords[i][0])
		x2, y2 := e.proj.Project(coords[i+1][1], coords[i+1][0])
		e.drawLine(img, int(x1), int(y1), int(x2), int(y2), c)
	}
}

func (e *Engine) drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx, dy := math.Abs(float64(x2-x1)), math.Abs(float64(y2-y1))
	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}
	err := dx - dy
	for {
		if x1 >= 0 && x1 < e.Width && y1 >= 0 && y1 < e.Height {
			off := y1*img.Stride + x1*4
			img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = c.R, c.G, c.B, 255
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}
