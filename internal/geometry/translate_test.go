package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/legend-exp/hadesgeom/internal/measurement"
)

func TestTranslateToDetectorFrame(t *testing.T) {
	tests := []struct {
		name    string
		phi     float64
		r       float64
		z       float64
		source  measurement.SourceType
		wantX   float64
		wantY   float64
		wantZ   float64
	}{
		{"on axis", 0, 0, 38, measurement.CoHS5, 0, 0, 38},
		{"quarter turn", 90, 30, 60, measurement.ThHS2, 0, -30, 60},
		{"half turn", 180, 30, 60, measurement.ThHS2, -30, 0, 60},
		{"full turn equals zero", 360, 30, 60, measurement.ThHS2, 30, 0, 60},
		{"collimator on axis keeps origin", 0, 0, 38, measurement.AmHS1, 0, 0, 38},
		{"collimator arm at fixture offset", 0, 66, 38, measurement.AmHS1, 0, 0, 38},
		{"collimator arm crosses axis", 0, 50, 60, measurement.AmHS1, -16, 0, 60},
		{"collimator arm beyond offset", 0, 86, 3, measurement.AmHS1, 20, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, z := TranslateToDetectorFrame(tt.phi, tt.r, tt.z, tt.source)
			assert.InDelta(t, tt.wantX, x, 1e-9)
			assert.InDelta(t, tt.wantY, y, 1e-9)
			assert.Equal(t, tt.wantZ, z)
		})
	}
}

func TestTranslateToDetectorFrame_Rounding(t *testing.T) {
	// 30 mm at 45 degrees: both components are rounded to two decimals.
	x, y, _ := TranslateToDetectorFrame(45, 30, 0, measurement.ThHS2)
	assert.Equal(t, 21.21, x)
	assert.Equal(t, -21.21, y)
}
