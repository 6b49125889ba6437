package geometry

import (
	"go.uber.org/zap"

	"github.com/legend-exp/hadesgeom/internal/geant4"
	"github.com/legend-exp/hadesgeom/internal/measurement"
	"github.com/legend-exp/hadesgeom/internal/metadata"
)

// placeSource drops the calibration source and its mechanical fixtures into
// the laboratory at the measured position. The source type and mounting
// position together decide the fixture set.
func (b *builder) placeSource(pos metadata.SourcePosition) error {
	if err := b.checkSupported(); err != nil {
		return err
	}
	x, y, z := TranslateToDetectorFrame(pos.PhiInDeg, pos.RInMM, pos.ZInMM, b.info.Source)
	b.log.Info("placing source",
		zap.String("source", string(b.info.Source)),
		zap.String("position", string(b.info.Position)),
		zap.Float64("x_mm", x),
		zap.Float64("y_mm", y),
		zap.Float64("z_mm", z))

	switch {
	case b.info.Source == measurement.AmHS1:
		return b.placeAmCollimator(x, y, z)
	case b.info.Source == measurement.ThHS2 && b.info.Position == measurement.Lateral:
		return b.placeThLateral(x, y, z)
	case b.info.Source == measurement.ThHS2:
		return b.placeThTop(x, y, z)
	default:
		return b.placeCapsuleTop(x, y, z)
	}
}

// checkSupported rejects source/position combinations the test bench never
// ran: bottom irradiation is not possible at all, and only the collimated
// americium and the thorium source were ever clamped laterally.
func (b *builder) checkSupported() error {
	switch b.info.Position {
	case measurement.Top:
		switch b.info.Source {
		case measurement.AmHS1, measurement.ThHS2, measurement.BaHS4,
			measurement.CoHS5, measurement.AmHS6:
			return nil
		}
	case measurement.Lateral:
		switch b.info.Source {
		case measurement.AmHS1, measurement.ThHS2:
			return nil
		}
	}
	return &UnsupportedSourceError{Source: b.info.Source, Position: b.info.Position}
}

// placeCapsuleTop handles the plain encapsulated sources (ba_HS4, co_HS5,
// am_HS6) resting in the plexiglass holder above the cryostat top face.
func (b *builder) placeCapsuleTop(x, y, z float64) error {
	src, err := loadModel(b.reg, "source_encapsulated_"+string(b.info.Source), nil)
	if err != nil {
		return err
	}
	if _, err := geant4.NewPhysicalVolume(b.reg, "source_pv", src, b.lab,
		geant4.Vector3{X: x, Y: y, Z: -z}, geant4.Vector3{}); err != nil {
		return err
	}

	holder, err := loadModel(b.reg, "plexiglass_source_holder", nil)
	if err != nil {
		return err
	}
	_, err = geant4.NewPhysicalVolume(b.reg, "s_holder_pv", holder, b.lab,
		geant4.Vector3{X: x, Y: y, Z: -(z + sourceHolderTopPlateHeightInMM/2)}, geant4.Vector3{})
	return err
}

// placeAmCollimator handles the collimated am_HS1 source. The collimator
// body is self-supporting, so no holder is placed.
func (b *builder) placeAmCollimator(x, y, z float64) error {
	src, err := loadModel(b.reg, "source_encapsulated_am_HS1", nil)
	if err != nil {
		return err
	}
	_, err = geant4.NewPhysicalVolume(b.reg, "source_pv", src, b.lab,
		geant4.Vector3{X: x, Y: y, Z: -z - amCollimatorHeightInMM/2}, geant4.Vector3{})
	return err
}

// placeThTop handles the thorium source above the cryostat: the capsule
// hangs into its copper can, which rests on the plexiglass support plate
// inside the can bore.
func (b *builder) placeThTop(x, y, z float64) error {
	srcZ := -(z + sourceHolderTopPlateHeightInMM/2 + thCopperCanHeightInMM + thCopperCanBaseHeightInMM)

	src, err := loadModel(b.reg, "source_encapsulated_th_HS2", nil)
	if err != nil {
		return err
	}
	if _, err := geant4.NewPhysicalVolume(b.reg, "source_pv", src, b.lab,
		geant4.Vector3{X: x, Y: y, Z: srcZ}, geant4.Vector3{}); err != nil {
		return err
	}

	plate, err := loadModel(b.reg, "th_plate", nil)
	if err != nil {
		return err
	}
	if _, err := geant4.NewPhysicalVolume(b.reg, "th_plate_pv", plate, b.lab,
		geant4.Vector3{X: x, Y: y, Z: srcZ + (thCopperCanHeightInMM+thPlateHeightInMM)/2},
		geant4.Vector3{}); err != nil {
		return err
	}

	can, err := loadModel(b.reg, "source_holder_th_HS2", nil)
	if err != nil {
		return err
	}
	_, err = geant4.NewPhysicalVolume(b.reg, "s_holder_pv", can, b.lab,
		geant4.Vector3{X: x, Y: y, Z: srcZ + thCopperCanBaseHeightInMM/2}, geant4.Vector3{})
	return err
}

// placeThLateral handles the thorium source clamped to the side of the
// cryostat: source and can are rotated to horizontal and pushed out by half
// the holder width plus the can bottom, with z kept as measured.
func (b *builder) placeThLateral(x, y, z float64) error {
	rot := geant4.Vector3{X: 90}
	y += b.det.Hades.Holder.OuterWidthInMM/2 + thCopperCanBottomHeightInMM

	src, err := loadModel(b.reg, "source_encapsulated_th_HS2", nil)
	if err != nil {
		return err
	}
	if _, err := geant4.NewPhysicalVolume(b.reg, "source_pv", src, b.lab,
		geant4.Vector3{X: x, Y: y, Z: z}, rot); err != nil {
		return err
	}

	can, err := loadModel(b.reg, "source_holder_th_HS2", nil)
	if err != nil {
		return err
	}
	_, err = geant4.NewPhysicalVolume(b.reg, "s_holder_pv", can, b.lab,
		geant4.Vector3{X: x, Y: y, Z: z}, rot)
	return err
}

// buildShielding places the measurement table fixtures around the cryostat:
// the steel bottom plate the cryostat hangs through and the lead castle of
// the selected table.
func (b *builder) buildShielding(table int) error {
	b.log.Debug("building shielding", zap.Int("table", table))

	plate, err := loadModel(b.reg, "bottom_plate", nil)
	if err != nil {
		return err
	}
	if _, err := geant4.NewPhysicalVolume(b.reg, "plate_pv", plate, b.lab,
		geant4.Vector3{Z: b.cryo.CavityFromBottomInMM + bottomPlateHeightInMM/2},
		geant4.Vector3{}); err != nil {
		return err
	}

	model := "lead_castle_table1"
	if table == 2 {
		model = "lead_castle_table2"
	}
	castle, err := loadModel(b.reg, model, nil)
	if err != nil {
		return err
	}
	_, err = geant4.NewPhysicalVolume(b.reg, "castle_pv", castle, b.lab,
		geant4.Vector3{Z: b.cryo.CavityFromBottomInMM - castleBaseHeightInMM/2},
		geant4.Vector3{})
	return err
}
