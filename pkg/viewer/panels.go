package viewer

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	colorPanelBG     = color.RGBA{0, 0, 0, 100}
	colorPanelEdge   = color.RGBA{36, 42, 53, 255}
	colorPanelAccent = color.RGBA{0, 191, 255, 255}
	colorWarn        = color.RGBA{255, 179, 71, 255}
)

// drawPanels renders the header, the warning line, and the top-sources box.
// Callers hold e.mu.
func (e *Engine) drawPanels(screen *ebiten.Image) {
	if e.fontSource == nil {
		return
	}
	margin, fontSize := 40.0, 18.0
	if e.Width > 2000 {
		margin, fontSize = 80.0, 36.0
	}
	face := &text.GoTextFace{Source: e.fontSource, Size: fontSize}
	mono := &text.GoTextFace{Source: e.monoSource, Size: fontSize * 0.9}

	year, dest := e.selection()

	// Header
	title := fmt.Sprintf("Global Migration — flows into %s (%d)", dest, year)
	top := &text.DrawOptions{}
	top.GeoM.Translate(margin, margin)
	top.ColorScale.Scale(1, 1, 1, 0.9)
	text.Draw(screen, title, &text.GoTextFace{Source: e.fontSource, Size: fontSize * 1.3}, top)

	hint := "arrows: left/right year, up/down destination"
	hintOp := &text.DrawOptions{}
	hintOp.GeoM.Translate(margin, margin+fontSize*1.8)
	hintOp.ColorScale.Scale(1, 1, 1, 0.4)
	text.Draw(screen, hint, &text.GoTextFace{Source: e.fontSource, Size: fontSize * 0.8}, hintOp)

	if e.warning != "" {
		warnOp := &text.DrawOptions{}
		warnOp.GeoM.Translate(margin, margin+fontSize*3.1)
		warnOp.ColorScale.ScaleWithColor(colorWarn)
		text.Draw(screen, e.warning, &text.GoTextFace{Source: e.fontSource, Size: fontSize * 0.8}, warnOp)
	}

	e.drawTopSources(screen, face, mono, margin, fontSize)
}

// drawTopSources is the ranked side panel: one row per source country, name
// left, count right-aligned.
func (e *Engine) drawTopSources(screen *ebiten.Image, face, mono *text.GoTextFace, margin, fontSize float64) {
	if len(e.topEdges) == 0 {
		return
	}
	spacing := fontSize * 1.3
	boxW := 340.0
	if e.Width > 2000 {
		boxW = 680.0
	}
	boxH := spacing*float64(len(e.topEdges)) + fontSize + 30
	boxX := margin
	boxY := float64(e.Height)/2 - boxH/2

	vector.DrawFilledRect(screen, float32(boxX-10), float32(boxY-fontSize-15), float32(boxW), float32(boxH), colorPanelBG, false)
	vector.StrokeRect(screen, float32(boxX-10), float32(boxY-fontSize-15), float32(boxW), float32(boxH), 1, colorPanelEdge, false)
	vector.DrawFilledRect(screen, float32(boxX-10), float32(boxY-fontSize-15), 4, float32(fontSize+10), colorPanelAccent, false)

	titleFace := &text.GoTextFace{Source: e.fontSource, Size: fontSize * 0.8}
	titleOp := &text.DrawOptions{}
	titleOp.GeoM.Translate(boxX+5, boxY-fontSize-5)
	titleOp.ColorScale.Scale(1, 1, 1, 0.5)
	text.Draw(screen, "TOP SOURCE COUNTRIES", titleFace, titleOp)

	for i, edge := range e.topEdges {
		y := boxY + 10 + float64(i)*spacing
		name := truncateName(edge.Source, 22)

		nameOp := &text.DrawOptions{}
		nameOp.GeoM.Translate(boxX, y)
		nameOp.ColorScale.Scale(1, 1, 1, 0.8)
		text.Draw(screen, name, face, nameOp)

		countStr := formatCount(edge.Weight)
		tw, _ := text.Measure(countStr, mono, 0)
		countOp := &text.DrawOptions{}
		countOp.GeoM.Translate(boxX+boxW-tw-25, y)
		countOp.ColorScale.Scale(1, 1, 1, 0.6)
		text.Draw(screen, countStr, mono, countOp)
	}
}

// truncateName shortens long country names to fit the panel box, cutting on
// rune boundaries.
func truncateName(name string, max int) string {
	r := []rune(name)
	if len(r) <= max {
		return name
	}
	return string(r[:max-3]) + "..."
}

// formatCount renders 1234567 as "1,234,567".
func formatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
