package geo

import (
	"math"
	"testing"
)

func TestProject(t *testing.T) {
	p := NewProjection(1920, 1080, 380.0)

	tests := []struct {
		lat, lng     float64
		wantX, wantY float64
	}{
		{0, 0, 960, 540},
		{90, 0, 960, 3.14},      // Near North Pole
		{-90, 0, 960, 1076.86},  // Near South Pole
		{0, 180, 2034.72, 540},  // Far East
		{0, -180, -114.72, 540}, // Far West
	}

	for _, tt := range tests {
		x, y := p.Project(tt.lat, tt.lng)
		if math.Abs(x-tt.wantX) > 1.0 || math.Abs(y-tt.wantY) > 1.0 {
			t.Errorf("Project(%f, %f) = (%f, %f); want (%f, %f)", tt.lat, tt.lng, x, y, tt.wantX, tt.wantY)
		}
	}
}
