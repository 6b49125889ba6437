// Package geant4 models the minimal Geant4-style geometry object graph needed
// to assemble and serialize the HADES setup: materials, primitive solids,
// logical and physical volumes, and a registry that owns the volume tree.
// It intentionally covers only what the geometry builder and the GDML codec
// consume; it is not a general solid-modeling kit.
package geant4

import "fmt"

// Vector3 is a point or offset in mm (positions) or degrees (rotations).
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// IsZero reports whether all three components are exactly zero.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// DetectorInfo marks a physical volume as an active (sensitive) volume for
// the downstream transport engine. Type follows the remage detector naming
// ("germanium", "scintillator", ...) and UID must be unique per registry.
type DetectorInfo struct {
	Type string
	UID  int
}
