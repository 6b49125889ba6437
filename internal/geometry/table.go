package geometry

import (
	"fmt"

	"github.com/legend-exp/hadesgeom/internal/config"
)

// Detectors whose whole characterization campaign ran on the second
// shielding table.
var tableTwoDetectors = map[string]bool{
	"V02160A": true,
	"V02160B": true,
}

// Individual runs recabled to the second table mid-campaign, keyed by
// "<detector>/<measurement>".
var tableTwoRuns = map[string]map[string]bool{
	"V07302A/ba_HS4_top_dlt": {"run0002": true},
}

// shieldingTable decides which lead castle variant surrounds the cryostat.
// An explicit flashcam card interface wins; without one the detector (or
// the individual run, for recabled campaigns) selects the table.
func shieldingTable(cfg *config.Config, runKey string) (int, error) {
	switch card := cfg.DAQ.Flashcam.CardInterface; card {
	case "efb1":
		return 1, nil
	case "efb2":
		return 2, nil
	case "":
	default:
		return 0, fmt.Errorf("%w %q", config.ErrUnknownCard, card)
	}

	if tableTwoDetectors[cfg.DetectorName()] {
		return 2, nil
	}
	if runKey != "" {
		if runs := tableTwoRuns[cfg.DetectorName()+"/"+cfg.Measurement]; runs[runKey] {
			return 2, nil
		}
	}
	return 1, nil
}
