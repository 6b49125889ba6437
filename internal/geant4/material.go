package geant4

import "strings"

// Material identifies a volume material. Only predefined NIST materials are
// supported; the GDML codec references them by name and the transport engine
// resolves them from its own database.
type Material struct {
	Name string
}

// MaterialPredefined returns the material with the given NIST name
// (e.g. "G4_AIR", "G4_Ge", "G4_Pb").
func MaterialPredefined(name string) *Material {
	return &Material{Name: name}
}

// IsPredefined reports whether the material name is from the G4 NIST database.
func (m *Material) IsPredefined() bool {
	return strings.HasPrefix(m.Name, "G4_")
}
