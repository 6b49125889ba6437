package geant4

import "fmt"

// LogicalVolume binds a solid to a material and carries the placements of its
// daughter volumes.
type LogicalVolume struct {
	Name      string
	Solid     Solid
	Material  *Material
	Daughters []*PhysicalVolume
}

// PhysicalVolume places a logical volume inside a mother volume at a given
// translation (mm) and rotation (degrees, passive XYZ Euler angles).
type PhysicalVolume struct {
	Name     string
	Volume   *LogicalVolume
	Mother   *LogicalVolume
	Position Vector3
	Rotation Vector3
	Detector *DetectorInfo
}

// NewLogicalVolume creates a logical volume and registers it.
func NewLogicalVolume(reg *Registry, name string, solid Solid, mat *Material) (*LogicalVolume, error) {
	if solid == nil {
		return nil, fmt.Errorf("geant4: logical volume %q: nil solid", name)
	}
	if mat == nil {
		return nil, fmt.Errorf("geant4: logical volume %q: nil material", name)
	}
	lv := &LogicalVolume{Name: name, Solid: solid, Material: mat}
	if err := reg.AddVolume(lv); err != nil {
		return nil, err
	}
	reg.addMaterial(mat)
	return lv, nil
}

// NewPhysicalVolume places vol inside mother and registers the placement.
// A nil mother is rejected; the world volume is never placed.
func NewPhysicalVolume(reg *Registry, name string, vol, mother *LogicalVolume, pos, rot Vector3) (*PhysicalVolume, error) {
	if vol == nil {
		return nil, fmt.Errorf("geant4: physical volume %q: nil volume", name)
	}
	if mother == nil {
		return nil, fmt.Errorf("geant4: physical volume %q: nil mother", name)
	}
	if vol == mother {
		return nil, fmt.Errorf("geant4: physical volume %q: volume placed inside itself", name)
	}
	pv := &PhysicalVolume{Name: name, Volume: vol, Mother: mother, Position: pos, Rotation: rot}
	if err := reg.AddPlacement(pv); err != nil {
		return nil, err
	}
	mother.Daughters = append(mother.Daughters, pv)
	return pv, nil
}

// SetDetector marks the placement as a sensitive volume.
func (pv *PhysicalVolume) SetDetector(info DetectorInfo) {
	pv.Detector = &info
}
