package geant4

import "fmt"

// Solid is a primitive shape referenced by logical volumes. All lengths are
// in mm, all angles in radians.
type Solid interface {
	// SolidName returns the registry name of the solid.
	SolidName() string
}

// Box is a rectangular parallelepiped given by its full edge lengths.
type Box struct {
	Name    string
	X, Y, Z float64
}

func (b *Box) SolidName() string { return b.Name }

// Tube is a cylindrical section.
type Tube struct {
	Name     string
	RMin     float64
	RMax     float64
	Z        float64
	StartPhi float64
	DeltaPhi float64
}

func (t *Tube) SolidName() string { return t.Name }

// ZPlane is one z plane of a Polycone with its inner and outer radius.
type ZPlane struct {
	Z    float64
	RMin float64
	RMax float64
}

// Polycone is a solid of revolution described by a stack of z planes, each
// carrying an inner and outer radius.
type Polycone struct {
	Name     string
	StartPhi float64
	DeltaPhi float64
	Planes   []ZPlane
}

func (p *Polycone) SolidName() string { return p.Name }

// GenericPolycone is a solid of revolution described by an arbitrary closed
// (r, z) boundary polygon. R and Z are parallel arrays of equal length.
type GenericPolycone struct {
	Name     string
	StartPhi float64
	DeltaPhi float64
	R        []float64
	Z        []float64
}

func (g *GenericPolycone) SolidName() string { return g.Name }

// NewBox creates a box solid and registers it.
func NewBox(reg *Registry, name string, x, y, z float64) (*Box, error) {
	b := &Box{Name: name, X: x, Y: y, Z: z}
	if err := reg.AddSolid(b); err != nil {
		return nil, err
	}
	return b, nil
}

// NewTube creates a tube solid and registers it.
func NewTube(reg *Registry, name string, rmin, rmax, z, startPhi, deltaPhi float64) (*Tube, error) {
	if rmin < 0 || rmax <= rmin {
		return nil, fmt.Errorf("geant4: tube %q: invalid radii rmin=%g rmax=%g", name, rmin, rmax)
	}
	t := &Tube{Name: name, RMin: rmin, RMax: rmax, Z: z, StartPhi: startPhi, DeltaPhi: deltaPhi}
	if err := reg.AddSolid(t); err != nil {
		return nil, err
	}
	return t, nil
}

// NewPolycone creates a polycone from its z planes and registers it.
func NewPolycone(reg *Registry, name string, startPhi, deltaPhi float64, planes []ZPlane) (*Polycone, error) {
	if len(planes) < 2 {
		return nil, fmt.Errorf("geant4: polycone %q: need at least 2 z planes, got %d", name, len(planes))
	}
	p := &Polycone{Name: name, StartPhi: startPhi, DeltaPhi: deltaPhi, Planes: planes}
	if err := reg.AddSolid(p); err != nil {
		return nil, err
	}
	return p, nil
}

// NewGenericPolycone creates a generic polycone from parallel r/z boundary
// arrays and registers it.
func NewGenericPolycone(reg *Registry, name string, startPhi, deltaPhi float64, r, z []float64) (*GenericPolycone, error) {
	if len(r) != len(z) {
		return nil, fmt.Errorf("geant4: generic polycone %q: r and z length mismatch (%d vs %d)", name, len(r), len(z))
	}
	if len(r) < 3 {
		return nil, fmt.Errorf("geant4: generic polycone %q: need at least 3 boundary points, got %d", name, len(r))
	}
	g := &GenericPolycone{Name: name, StartPhi: startPhi, DeltaPhi: deltaPhi, R: r, Z: z}
	if err := reg.AddSolid(g); err != nil {
		return nil, err
	}
	return g, nil
}
