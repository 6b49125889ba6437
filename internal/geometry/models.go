package geometry

import (
	"embed"
	"fmt"

	"github.com/legend-exp/hadesgeom/internal/gdml"
	"github.com/legend-exp/hadesgeom/internal/geant4"
)

//go:embed models
var modelFS embed.FS

// loadModel parses one embedded assembly model, applies the dimension
// replacements and merges the resulting sub-tree into reg. The returned
// volume is the model's top-level logical volume, ready for placement.
func loadModel(reg *geant4.Registry, name string, repl map[string]float64) (*geant4.LogicalVolume, error) {
	mreg, err := gdml.ReadFS(modelFS, "models/"+name+".gdml", &gdml.Options{Replacements: repl})
	if err != nil {
		return nil, err
	}
	lv := mreg.World()
	if err := reg.AddVolumeRecursive(lv); err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	return lv, nil
}
