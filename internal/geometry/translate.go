package geometry

import (
	"math"

	"github.com/legend-exp/hadesgeom/internal/measurement"
)

// TranslateToDetectorFrame converts a cylindrical source position from the
// metadata convention to Cartesian lab frame coordinates. x and y are
// rounded to two decimal places, z passes through unchanged.
//
// The am_HS1 collimator sits on a fixture arm that adds a fixed radial
// offset whenever it is moved off axis. When the corrected radius comes out
// negative the arm has crossed the axis, so phi flips by 180 degrees.
func TranslateToDetectorFrame(phiInDeg, rInMM, zInMM float64, source measurement.SourceType) (x, y, z float64) {
	if source == measurement.AmHS1 && rInMM != 0 {
		rInMM -= amHS1RadialOffsetInMM
		if rInMM < 0 {
			phiInDeg += 180
			rInMM = -rInMM
		}
	}
	phi := phiInDeg * math.Pi / 180
	x = round2(rInMM * math.Cos(phi))
	y = round2(-rInMM * math.Sin(phi))
	return x, y, zInMM
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
