package gdml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/legend-exp/hadesgeom/internal/geant4"
)

// WriteFile serializes the registry to the given GDML file. An empty path is
// a no-op, so callers can run listing-only or diagnostic-only invocations
// without producing a file.
func WriteFile(reg *geant4.Registry, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gdml: create %s: %w", path, err)
	}
	if err := Write(reg, f); err != nil {
		f.Close()
		return fmt.Errorf("gdml: write %s: %w", path, err)
	}
	return f.Close()
}

// Write serializes the registry as a GDML document. The registry must pass
// its sanity check; a broken tree is never written out.
func Write(reg *geant4.Registry, w io.Writer) error {
	if err := reg.CheckSanity(); err != nil {
		return err
	}

	doc := xmlGDML{
		SchemaInstance: "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: schemaLocation,
		Setup: xmlSetup{
			Name:    "Default",
			Version: "1.0",
			World:   xmlRef{Ref: reg.World().Name},
		},
	}

	for _, name := range reg.SolidNames() {
		solid, _ := reg.Solid(name)
		doc.Solids.Solids = append(doc.Solids.Solids, solidToXML(solid))
	}

	// The detector auxiliary record is carried by the logical volume whose
	// placement is sensitive, so gather the markings per volume first.
	detectors := map[*geant4.LogicalVolume]geant4.DetectorInfo{}
	for _, pv := range reg.DetectorVolumes() {
		detectors[pv.Volume] = *pv.Detector
	}

	for _, lv := range volumesBottomUp(reg) {
		doc.Structure.Volumes = append(doc.Structure.Volumes, volumeToXML(lv, detectors))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// volumesBottomUp orders logical volumes so every volume appears after all
// of its daughters, as GDML requires. Volumes unreachable from the world are
// appended last in registration order.
func volumesBottomUp(reg *geant4.Registry) []*geant4.LogicalVolume {
	var out []*geant4.LogicalVolume
	seen := map[*geant4.LogicalVolume]bool{}
	var visit func(lv *geant4.LogicalVolume)
	visit = func(lv *geant4.LogicalVolume) {
		if seen[lv] {
			return
		}
		seen[lv] = true
		for _, pv := range lv.Daughters {
			visit(pv.Volume)
		}
		out = append(out, lv)
	}
	visit(reg.World())
	for _, name := range reg.LogicalVolumeNames() {
		if lv, _ := reg.Volume(name); !seen[lv] {
			visit(lv)
		}
	}
	return out
}

func solidToXML(solid geant4.Solid) xmlSolid {
	switch s := solid.(type) {
	case *geant4.Box:
		return xmlSolid{
			XMLName: xml.Name{Local: "box"},
			Name:    s.Name,
			X:       ftoa(s.X), Y: ftoa(s.Y), Z: ftoa(s.Z),
			LUnit: "mm",
		}
	case *geant4.Tube:
		return xmlSolid{
			XMLName: xml.Name{Local: "tube"},
			Name:    s.Name,
			RMin:    ftoa(s.RMin), RMax: ftoa(s.RMax), Z: ftoa(s.Z),
			StartPhi: ftoa(s.StartPhi), DeltaPhi: ftoa(s.DeltaPhi),
			LUnit: "mm", AUnit: "rad",
		}
	case *geant4.Polycone:
		x := xmlSolid{
			XMLName:  xml.Name{Local: "polycone"},
			Name:     s.Name,
			StartPhi: ftoa(s.StartPhi), DeltaPhi: ftoa(s.DeltaPhi),
			LUnit: "mm", AUnit: "rad",
		}
		for _, zp := range s.Planes {
			x.ZPlanes = append(x.ZPlanes, xmlZPlane{Z: ftoa(zp.Z), RMin: ftoa(zp.RMin), RMax: ftoa(zp.RMax)})
		}
		return x
	case *geant4.GenericPolycone:
		x := xmlSolid{
			XMLName:  xml.Name{Local: "genericPolycone"},
			Name:     s.Name,
			StartPhi: ftoa(s.StartPhi), DeltaPhi: ftoa(s.DeltaPhi),
			LUnit: "mm", AUnit: "rad",
		}
		for i := range s.R {
			x.RZPoints = append(x.RZPoints, xmlRZPoint{R: ftoa(s.R[i]), Z: ftoa(s.Z[i])})
		}
		return x
	default:
		// The geant4 model defines exactly four primitive kinds, so this
		// is a programming error rather than a data error.
		panic(fmt.Sprintf("gdml: unserializable solid %T", solid))
	}
}

func volumeToXML(lv *geant4.LogicalVolume, detectors map[*geant4.LogicalVolume]geant4.DetectorInfo) xmlVolume {
	v := xmlVolume{
		Name:        lv.Name,
		MaterialRef: xmlRef{Ref: lv.Material.Name},
		SolidRef:    xmlRef{Ref: lv.Solid.SolidName()},
	}
	for _, pv := range lv.Daughters {
		phys := xmlPhysVol{
			Name:      pv.Name,
			VolumeRef: xmlRef{Ref: pv.Volume.Name},
			Position: &xmlPosition{
				Name: pv.Name + "_pos",
				X:    ftoa(pv.Position.X), Y: ftoa(pv.Position.Y), Z: ftoa(pv.Position.Z),
				Unit: "mm",
			},
		}
		if !pv.Rotation.IsZero() {
			phys.Rotation = &xmlRotation{
				Name: pv.Name + "_rot",
				X:    ftoa(pv.Rotation.X), Y: ftoa(pv.Rotation.Y), Z: ftoa(pv.Rotation.Z),
				Unit: "deg",
			}
		}
		v.PhysVols = append(v.PhysVols, phys)
	}
	if info, ok := detectors[lv]; ok {
		v.Auxiliary = append(v.Auxiliary, xmlAux{
			AuxType:  auxDetector,
			AuxValue: info.Type,
			Children: []xmlAux{{AuxType: auxDetectorUID, AuxValue: strconv.Itoa(info.UID)}},
		})
	}
	return v
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
