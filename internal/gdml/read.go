package gdml

import (
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"math"
	"sort"
	"strconv"

	"github.com/legend-exp/hadesgeom/internal/geant4"
)

// Options controls how a GDML document is interpreted.
type Options struct {
	// Replacements overrides the values of define constants and quantities
	// by name before any solid attribute is evaluated. Every replacement
	// name must exist in the document's define block.
	Replacements map[string]float64
}

// ReadFS parses the named GDML document from fsys into a fresh registry.
func ReadFS(fsys fs.FS, name string, opts *Options) (*geant4.Registry, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("gdml: open model %s: %w", name, err)
	}
	defer f.Close()
	reg, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("gdml: model %s: %w", name, err)
	}
	return reg, nil
}

// Read parses one GDML document into a fresh registry. The document's setup
// element designates the world volume of the returned registry.
func Read(r io.Reader, opts *Options) (*geant4.Registry, error) {
	var doc xmlGDML
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if opts == nil {
		opts = &Options{}
	}

	defines, err := evalDefines(&doc.Define, opts.Replacements)
	if err != nil {
		return nil, err
	}

	reg := geant4.NewRegistry()
	for i := range doc.Solids.Solids {
		if err := buildSolid(reg, &doc.Solids.Solids[i], defines); err != nil {
			return nil, err
		}
	}

	detectors := map[string]geant4.DetectorInfo{}
	for i := range doc.Structure.Volumes {
		if err := buildVolume(reg, &doc.Structure.Volumes[i], defines, detectors); err != nil {
			return nil, err
		}
	}
	for _, name := range reg.PhysicalVolumeNames() {
		pv, _ := reg.Placement(name)
		if info, ok := detectors[pv.Volume.Name]; ok {
			pv.SetDetector(info)
		}
	}

	if doc.Setup.World.Ref == "" {
		return nil, fmt.Errorf("setup: no world reference")
	}
	world, ok := reg.Volume(doc.Setup.World.Ref)
	if !ok {
		return nil, fmt.Errorf("setup: world references undefined volume %q", doc.Setup.World.Ref)
	}
	if err := reg.SetWorld(world); err != nil {
		return nil, err
	}
	return reg, nil
}

func evalDefines(def *xmlDefine, repl map[string]float64) (map[string]float64, error) {
	defines := map[string]float64{}
	unused := map[string]bool{}
	for name := range repl {
		unused[name] = true
	}
	take := func(name, value string, unitFactor float64) error {
		if v, ok := repl[name]; ok {
			defines[name] = v
			delete(unused, name)
			return nil
		}
		v, err := evalExpr(value, defines)
		if err != nil {
			return fmt.Errorf("define %q: %w", name, err)
		}
		defines[name] = v * unitFactor
		return nil
	}
	for _, c := range def.Constants {
		if err := take(c.Name, c.Value, 1); err != nil {
			return nil, err
		}
	}
	for _, q := range def.Quantities {
		factor, err := lengthUnit(q.Unit)
		if err != nil {
			return nil, fmt.Errorf("define %q: %w", q.Name, err)
		}
		if err := take(q.Name, q.Value, factor); err != nil {
			return nil, err
		}
	}
	if len(unused) > 0 {
		names := make([]string, 0, len(unused))
		for name := range unused {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("replacements not present in define block: %v", names)
	}
	return defines, nil
}

func buildSolid(reg *geant4.Registry, s *xmlSolid, defines map[string]float64) error {
	lu, err := lengthUnit(s.LUnit)
	if err != nil {
		return fmt.Errorf("solid %q: %w", s.Name, err)
	}
	au, err := angleUnit(s.AUnit)
	if err != nil {
		return fmt.Errorf("solid %q: %w", s.Name, err)
	}
	length := func(attr string) (float64, error) {
		if attr == "" {
			return 0, nil
		}
		v, err := evalExpr(attr, defines)
		return v * lu, err
	}
	angle := func(attr string, dflt float64) (float64, error) {
		if attr == "" {
			return dflt, nil
		}
		v, err := evalExpr(attr, defines)
		return v * au, err
	}

	switch s.XMLName.Local {
	case "box":
		x, err := length(s.X)
		if err != nil {
			return fmt.Errorf("solid %q: %w", s.Name, err)
		}
		y, err := length(s.Y)
		if err != nil {
			return fmt.Errorf("solid %q: %w", s.Name, err)
		}
		z, err := length(s.Z)
		if err != nil {
			return fmt.Errorf("solid %q: %w", s.Name, err)
		}
		_, err = geant4.NewBox(reg, s.Name, x, y, z)
		return err
	case "tube":
		rmin, err := length(s.RMin)
		if err != nil {
			return fmt.Errorf("solid %q: %w", s.Name, err)
		}
		rmax, err := length(s.RMax)
		if err != nil {
			return fmt.Errorf("solid %q: %w", s.Name, err)
		}
		z, err := length(s.Z)
		if err != nil {
			return fmt.Errorf("solid %q: %w", s.Name, err)
		}
		sphi, err := angle(s.StartPhi, 0)
		if err != nil {
			return fmt.Errorf("solid %q: %w", s.Name, err)
		}
		dphi, err := angle(s.DeltaPhi, 2*math.Pi)
		if err != nil {
			return fmt.Errorf("solid %q: %w", s.Name, err)
		}
		_, err = geant4.NewTube(reg, s.Name, rmin, rmax, z, sphi, dphi)
		return err
	case "polycone":
		sphi, err := angle(s.StartPhi, 0)
		if err != nil {
			return fmt.Errorf("solid %q: %w", s.Name, err)
		}
		dphi, err := angle(s.DeltaPhi, 2*math.Pi)
		if err != nil {
			return fmt.Errorf("solid %q: %w", s.Name, err)
		}
		planes := make([]geant4.ZPlane, 0, len(s.ZPlanes))
		for _, zp := range s.ZPlanes {
			z, err := length(zp.Z)
			if err != nil {
				return fmt.Errorf("solid %q: %w", s.Name, err)
			}
			rmin, err := length(zp.RMin)
			if err != nil {
				return fmt.Errorf("solid %q: %w", s.Name, err)
			}
			rmax, err := length(zp.RMax)
			if err != nil {
				return fmt.Errorf("solid %q: %w", s.Name, err)
			}
			planes = append(planes, geant4.ZPlane{Z: z, RMin: rmin, RMax: rmax})
		}
		_, err = geant4.NewPolycone(reg, s.Name, sphi, dphi, planes)
		return err
	case "genericPolycone":
		sphi, err := angle(s.StartPhi, 0)
		if err != nil {
			return fmt.Errorf("solid %q: %w", s.Name, err)
		}
		dphi, err := angle(s.DeltaPhi, 2*math.Pi)
		if err != nil {
			return fmt.Errorf("solid %q: %w", s.Name, err)
		}
		r := make([]float64, 0, len(s.RZPoints))
		z := make([]float64, 0, len(s.RZPoints))
		for _, pt := range s.RZPoints {
			rv, err := length(pt.R)
			if err != nil {
				return fmt.Errorf("solid %q: %w", s.Name, err)
			}
			zv, err := length(pt.Z)
			if err != nil {
				return fmt.Errorf("solid %q: %w", s.Name, err)
			}
			r = append(r, rv)
			z = append(z, zv)
		}
		_, err = geant4.NewGenericPolycone(reg, s.Name, sphi, dphi, r, z)
		return err
	default:
		return fmt.Errorf("solid %q: unsupported solid element <%s>", s.Name, s.XMLName.Local)
	}
}

func buildVolume(reg *geant4.Registry, v *xmlVolume, defines map[string]float64, detectors map[string]geant4.DetectorInfo) error {
	solid, ok := reg.Solid(v.SolidRef.Ref)
	if !ok {
		return fmt.Errorf("volume %q: references undefined solid %q", v.Name, v.SolidRef.Ref)
	}
	if v.MaterialRef.Ref == "" {
		return fmt.Errorf("volume %q: missing material reference", v.Name)
	}
	lv, err := geant4.NewLogicalVolume(reg, v.Name, solid, geant4.MaterialPredefined(v.MaterialRef.Ref))
	if err != nil {
		return err
	}
	for _, phys := range v.PhysVols {
		child, ok := reg.Volume(phys.VolumeRef.Ref)
		if !ok {
			return fmt.Errorf("physvol %q: references undefined volume %q (volumes must be declared before use)", phys.Name, phys.VolumeRef.Ref)
		}
		pos, err := readPosition(phys.Position, defines)
		if err != nil {
			return fmt.Errorf("physvol %q: %w", phys.Name, err)
		}
		rot, err := readRotation(phys.Rotation, defines)
		if err != nil {
			return fmt.Errorf("physvol %q: %w", phys.Name, err)
		}
		if _, err := geant4.NewPhysicalVolume(reg, phys.Name, child, lv, pos, rot); err != nil {
			return err
		}
	}
	for _, aux := range v.Auxiliary {
		if aux.AuxType != auxDetector {
			continue
		}
		info := geant4.DetectorInfo{Type: aux.AuxValue}
		for _, child := range aux.Children {
			if child.AuxType == auxDetectorUID {
				uid, err := strconv.Atoi(child.AuxValue)
				if err != nil {
					return fmt.Errorf("volume %q: bad detector uid %q", v.Name, child.AuxValue)
				}
				info.UID = uid
			}
		}
		detectors[v.Name] = info
	}
	return nil
}

func readPosition(p *xmlPosition, defines map[string]float64) (geant4.Vector3, error) {
	if p == nil {
		return geant4.Vector3{}, nil
	}
	factor, err := lengthUnit(p.Unit)
	if err != nil {
		return geant4.Vector3{}, err
	}
	return readTriple(p.X, p.Y, p.Z, factor, defines)
}

func readRotation(r *xmlRotation, defines map[string]float64) (geant4.Vector3, error) {
	if r == nil {
		return geant4.Vector3{}, nil
	}
	// rotations are kept in degrees on the geant4 side
	factor := 1.0
	switch r.Unit {
	case "", "deg":
	case "rad":
		factor = 180 / math.Pi
	default:
		return geant4.Vector3{}, fmt.Errorf("unsupported angle unit %q", r.Unit)
	}
	return readTriple(r.X, r.Y, r.Z, factor, defines)
}

func readTriple(xs, ys, zs string, factor float64, defines map[string]float64) (geant4.Vector3, error) {
	var v geant4.Vector3
	var err error
	eval := func(attr string) (float64, error) {
		if attr == "" {
			return 0, nil
		}
		ev, err := evalExpr(attr, defines)
		return ev * factor, err
	}
	if v.X, err = eval(xs); err != nil {
		return v, err
	}
	if v.Y, err = eval(ys); err != nil {
		return v, err
	}
	if v.Z, err = eval(zs); err != nil {
		return v, err
	}
	return v, nil
}

func lengthUnit(unit string) (float64, error) {
	switch unit {
	case "", "mm":
		return 1, nil
	case "cm":
		return 10, nil
	case "m":
		return 1000, nil
	default:
		return 0, fmt.Errorf("unsupported length unit %q", unit)
	}
}

func angleUnit(unit string) (float64, error) {
	switch unit {
	case "", "rad":
		return 1, nil
	case "deg":
		return math.Pi / 180, nil
	default:
		return 0, fmt.Errorf("unsupported angle unit %q", unit)
	}
}
