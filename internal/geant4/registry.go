package geant4

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName is returned when a solid, volume or placement name is
	// registered twice with different objects.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrNoWorld is returned by CheckSanity when no world volume was set.
	ErrNoWorld = errors.New("no world volume set")
)

// Registry owns one geometry tree: every solid, material, logical volume and
// placement, plus the world designation. Registration order is preserved so
// serialization is deterministic.
type Registry struct {
	solids     map[string]Solid
	materials  map[string]*Material
	volumes    map[string]*LogicalVolume
	placements map[string]*PhysicalVolume

	solidOrder     []string
	materialOrder  []string
	volumeOrder    []string
	placementOrder []string

	world *LogicalVolume
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		solids:     map[string]Solid{},
		materials:  map[string]*Material{},
		volumes:    map[string]*LogicalVolume{},
		placements: map[string]*PhysicalVolume{},
	}
}

// SetWorld designates the world volume. The volume must be registered.
func (r *Registry) SetWorld(lv *LogicalVolume) error {
	if _, ok := r.volumes[lv.Name]; !ok {
		return fmt.Errorf("geant4: world volume %q is not registered", lv.Name)
	}
	r.world = lv
	return nil
}

// World returns the world volume, or nil if none was designated.
func (r *Registry) World() *LogicalVolume { return r.world }

// AddSolid registers a solid under its name.
func (r *Registry) AddSolid(s Solid) error {
	name := s.SolidName()
	if prev, ok := r.solids[name]; ok {
		if prev == s {
			return nil
		}
		return fmt.Errorf("geant4: solid %q: %w", name, ErrDuplicateName)
	}
	r.solids[name] = s
	r.solidOrder = append(r.solidOrder, name)
	return nil
}

func (r *Registry) addMaterial(m *Material) {
	if _, ok := r.materials[m.Name]; ok {
		return
	}
	r.materials[m.Name] = m
	r.materialOrder = append(r.materialOrder, m.Name)
}

// AddVolume registers a logical volume under its name.
func (r *Registry) AddVolume(lv *LogicalVolume) error {
	if prev, ok := r.volumes[lv.Name]; ok {
		if prev == lv {
			return nil
		}
		return fmt.Errorf("geant4: logical volume %q: %w", lv.Name, ErrDuplicateName)
	}
	r.volumes[lv.Name] = lv
	r.volumeOrder = append(r.volumeOrder, lv.Name)
	return nil
}

// AddPlacement registers a physical volume under its name.
func (r *Registry) AddPlacement(pv *PhysicalVolume) error {
	if prev, ok := r.placements[pv.Name]; ok {
		if prev == pv {
			return nil
		}
		return fmt.Errorf("geant4: physical volume %q: %w", pv.Name, ErrDuplicateName)
	}
	r.placements[pv.Name] = pv
	r.placementOrder = append(r.placementOrder, pv.Name)
	return nil
}

// AddVolumeRecursive imports a logical volume together with its solid,
// material and entire daughter sub-tree. It is used to merge a volume read
// from a model file into the main registry. Re-registering the same objects
// is a no-op; a clashing name bound to a different object is an error.
func (r *Registry) AddVolumeRecursive(lv *LogicalVolume) error {
	if err := r.AddVolume(lv); err != nil {
		return err
	}
	if err := r.AddSolid(lv.Solid); err != nil {
		return err
	}
	r.addMaterial(lv.Material)
	for _, pv := range lv.Daughters {
		if err := r.AddPlacement(pv); err != nil {
			return err
		}
		if err := r.AddVolumeRecursive(pv.Volume); err != nil {
			return err
		}
	}
	return nil
}

// Solid returns the registered solid with the given name.
func (r *Registry) Solid(name string) (Solid, bool) {
	s, ok := r.solids[name]
	return s, ok
}

// Volume returns the registered logical volume with the given name.
func (r *Registry) Volume(name string) (*LogicalVolume, bool) {
	lv, ok := r.volumes[name]
	return lv, ok
}

// Placement returns the registered physical volume with the given name.
func (r *Registry) Placement(name string) (*PhysicalVolume, bool) {
	pv, ok := r.placements[name]
	return pv, ok
}

// SolidNames returns all solid names in registration order.
func (r *Registry) SolidNames() []string {
	return append([]string(nil), r.solidOrder...)
}

// LogicalVolumeNames returns all logical volume names in registration order.
func (r *Registry) LogicalVolumeNames() []string {
	return append([]string(nil), r.volumeOrder...)
}

// PhysicalVolumeNames returns all placement names in registration order.
func (r *Registry) PhysicalVolumeNames() []string {
	return append([]string(nil), r.placementOrder...)
}

// DetectorVolumes returns all placements flagged as sensitive volumes, in
// registration order.
func (r *Registry) DetectorVolumes() []*PhysicalVolume {
	var out []*PhysicalVolume
	for _, name := range r.placementOrder {
		if pv := r.placements[name]; pv.Detector != nil {
			out = append(out, pv)
		}
	}
	return out
}

// CheckSanity verifies the registry invariants: a world is set, every
// placement links registered volumes, every volume's solid and material are
// registered, detector UIDs are unique, and the tree reachable from the
// world contains no placement that is absent from the registry.
func (r *Registry) CheckSanity() error {
	if r.world == nil {
		return ErrNoWorld
	}
	for _, name := range r.volumeOrder {
		lv := r.volumes[name]
		if got, ok := r.solids[lv.Solid.SolidName()]; !ok || got != lv.Solid {
			return fmt.Errorf("geant4: volume %q references unregistered solid %q", name, lv.Solid.SolidName())
		}
		if _, ok := r.materials[lv.Material.Name]; !ok {
			return fmt.Errorf("geant4: volume %q references unregistered material %q", name, lv.Material.Name)
		}
	}
	uids := map[int]string{}
	for _, name := range r.placementOrder {
		pv := r.placements[name]
		if got, ok := r.volumes[pv.Volume.Name]; !ok || got != pv.Volume {
			return fmt.Errorf("geant4: placement %q references unregistered volume %q", name, pv.Volume.Name)
		}
		if got, ok := r.volumes[pv.Mother.Name]; !ok || got != pv.Mother {
			return fmt.Errorf("geant4: placement %q references unregistered mother %q", name, pv.Mother.Name)
		}
		if pv.Detector != nil {
			if prev, taken := uids[pv.Detector.UID]; taken {
				return fmt.Errorf("geant4: detector uid %d assigned to both %q and %q", pv.Detector.UID, prev, name)
			}
			uids[pv.Detector.UID] = name
		}
	}
	return r.checkReachable(r.world, map[*LogicalVolume]bool{})
}

func (r *Registry) checkReachable(lv *LogicalVolume, seen map[*LogicalVolume]bool) error {
	if seen[lv] {
		return fmt.Errorf("geant4: volume %q appears in its own ancestry", lv.Name)
	}
	seen[lv] = true
	defer delete(seen, lv)
	for _, pv := range lv.Daughters {
		if got, ok := r.placements[pv.Name]; !ok || got != pv {
			return fmt.Errorf("geant4: daughter %q of %q is not registered", pv.Name, lv.Name)
		}
		if err := r.checkReachable(pv.Volume, seen); err != nil {
			return err
		}
	}
	return nil
}
