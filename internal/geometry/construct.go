// Package geometry assembles the HADES underground-laboratory test bench
// for one detector characterization measurement: the germanium detector
// inside its vacuum cryostat, the calibration source with its mechanical
// fixtures, and the lead shielding castle of the measurement table.
package geometry

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/legend-exp/hadesgeom/internal/config"
	"github.com/legend-exp/hadesgeom/internal/geant4"
	"github.com/legend-exp/hadesgeom/internal/measurement"
	"github.com/legend-exp/hadesgeom/internal/metadata"
)

// Options tunes geometry construction. The zero value resolves detector
// metadata from the environment and source positions from the packaged
// position database.
type Options struct {
	// PublicGeometry allows falling back to the packaged public metadata
	// when no full metadata installation is available.
	PublicGeometry bool

	// Resolver overrides the detector metadata resolver.
	Resolver *metadata.Resolver

	// Positions overrides the source position database.
	Positions *metadata.PositionDB

	Logger *zap.Logger
}

// Construct builds the full geometry tree for the given configuration and
// returns the populated registry, ready for serialization.
func Construct(cfg *config.Config, opts Options) (*geant4.Registry, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	info, err := measurement.Parse(cfg.Measurement)
	if err != nil {
		return nil, err
	}

	res := opts.Resolver
	if res == nil {
		res, err = metadata.NewResolver(metadata.ResolverOptions{
			PublicOnly: opts.PublicGeometry,
			Logger:     log,
		})
		if err != nil {
			return nil, err
		}
	}

	det, err := res.Detector(cfg.DetectorName())
	if err != nil {
		return nil, err
	}
	cryo, err := res.Cryostat(det)
	if err != nil {
		return nil, err
	}
	log.Info("constructing geometry",
		zap.String("detector", det.Name),
		zap.String("measurement", cfg.Measurement),
		zap.String("campaign", cfg.Campaign))

	pos, runKey, err := resolveSourcePosition(cfg, opts.Positions)
	if err != nil {
		return nil, err
	}

	b := &builder{
		reg:  geant4.NewRegistry(),
		cfg:  cfg,
		info: info,
		det:  det,
		cryo: cryo,
		log:  log,
	}
	if err := b.buildWorld(); err != nil {
		return nil, err
	}
	if cfg.HasAssembly(config.AssemblyHPGe) {
		if err := b.buildHPGe(); err != nil {
			return nil, err
		}
	}
	if pos != nil && cfg.HasAssembly(config.AssemblySource) {
		if err := b.placeSource(*pos); err != nil {
			return nil, err
		}
	}
	if cfg.HasAssembly(config.AssemblyLeadCastle) && info.Source != measurement.AmHS1 {
		table, err := shieldingTable(cfg, runKey)
		if err != nil {
			return nil, err
		}
		if err := b.buildShielding(table); err != nil {
			return nil, err
		}
	}

	if err := b.reg.CheckSanity(); err != nil {
		return nil, err
	}
	return b.reg, nil
}

// resolveSourcePosition turns the configured run number or explicit source
// position into the position the placement code uses, plus the run key the
// shielding table selection may need. With neither configured no source is
// placed, unless the source assembly was explicitly requested.
func resolveSourcePosition(cfg *config.Config, db *metadata.PositionDB) (*metadata.SourcePosition, string, error) {
	if cfg.Run == nil && cfg.SourcePosition == nil {
		if cfg.SourceExplicit() {
			return nil, "", config.ErrNoSourcePosition
		}
		return nil, "", nil
	}

	if db == nil {
		db = metadata.DefaultPositionDB()
	}
	meas, err := db.Measurement(cfg.DetectorName(), cfg.Campaign, cfg.Measurement)
	if err != nil {
		return nil, "", err
	}
	if cfg.Run != nil {
		pos, key, err := meas.ByRun(*cfg.Run)
		if err != nil {
			return nil, "", err
		}
		return &pos, key, nil
	}
	pos, key, err := meas.ByPosition(*cfg.SourcePosition)
	if err != nil {
		return nil, "", err
	}
	return &pos, key, nil
}

// builder carries the intermediate state of one construction pass.
type builder struct {
	reg  *geant4.Registry
	cfg  *config.Config
	info measurement.Info
	det  *metadata.DiodeMetadata
	cryo metadata.CryostatMetadata
	log  *zap.Logger

	lab    *geant4.LogicalVolume
	cavity *geant4.LogicalVolume
}

// buildWorld creates the world and laboratory boxes, the cryostat shell and
// its vacuum cavity. The laboratory is flipped upside down so that inside it
// z grows downwards, away from the cryostat top face at z = 0.
func (b *builder) buildWorld() error {
	worldSolid, err := geant4.NewBox(b.reg, "world", worldSideInMM, worldSideInMM, worldSideInMM)
	if err != nil {
		return err
	}
	world, err := geant4.NewLogicalVolume(b.reg, "world_lv", worldSolid, geant4.MaterialPredefined("G4_AIR"))
	if err != nil {
		return err
	}
	if err := b.reg.SetWorld(world); err != nil {
		return err
	}

	labSolid, err := geant4.NewBox(b.reg, "lab", labSideInMM, labSideInMM, labSideInMM)
	if err != nil {
		return err
	}
	lab, err := geant4.NewLogicalVolume(b.reg, "lab_lv", labSolid, geant4.MaterialPredefined("G4_AIR"))
	if err != nil {
		return err
	}
	if _, err := geant4.NewPhysicalVolume(b.reg, "lab_pv", lab, world,
		geant4.Vector3{}, geant4.Vector3{X: 180}); err != nil {
		return err
	}
	b.lab = lab

	cryoLV, err := loadModel(b.reg, "cryostat", map[string]float64{
		"cryostat_height": b.cryo.HeightInMM,
		"cryostat_radius": b.cryo.DiameterInMM / 2,
		"cryostat_wall":   b.cryo.WallThicknessInMM,
	})
	if err != nil {
		return err
	}
	if _, err := geant4.NewPhysicalVolume(b.reg, "cryo_pv", cryoLV, lab,
		geant4.Vector3{}, geant4.Vector3{}); err != nil {
		return err
	}

	h := b.cryo.CavityHeightInMM()
	r := b.cryo.CavityRadiusInMM()
	cavSolid, err := geant4.NewGenericPolycone(b.reg, "cavity", 0, 2*math.Pi,
		[]float64{0, r, r, 0}, []float64{0, 0, h, h})
	if err != nil {
		return err
	}
	cavity, err := geant4.NewLogicalVolume(b.reg, "cavity_lv", cavSolid, geant4.MaterialPredefined("G4_Galactic"))
	if err != nil {
		return err
	}
	if _, err := geant4.NewPhysicalVolume(b.reg, "cavity_pv", cavity, lab,
		geant4.Vector3{Z: b.cryo.CavityFromTopInMM}, geant4.Vector3{}); err != nil {
		return err
	}
	b.cavity = cavity
	return nil
}

// buildHPGe mounts the detector assembly inside the vacuum cavity: the
// teflon wrap, the plexiglass holder and the upside-down germanium crystal.
// All offsets in the metadata are measured from the cryostat top face, so
// placements inside the cavity subtract the cavity top offset.
func (b *builder) buildHPGe() error {
	extra := b.det.Hades
	if extra == nil {
		return fmt.Errorf("geometry: detector %s has no characterization fixture data", b.det.Name)
	}

	wrapLV, err := loadModel(b.reg, "wrap", map[string]float64{
		"wrap_outer_radius":  extra.Wrap.OuterRadiusInMM,
		"wrap_inner_radius":  extra.Wrap.InnerRadiusInMM,
		"wrap_height":        extra.Wrap.OuterHeightInMM,
		"wrap_top_thickness": extra.Wrap.TopThicknessInMM,
	})
	if err != nil {
		return err
	}
	if _, err := geant4.NewPhysicalVolume(b.reg, "wrap_pv", wrapLV, b.cavity,
		geant4.Vector3{Z: extra.Offsets.WrapInMM - b.cryo.CavityFromTopInMM}, geant4.Vector3{}); err != nil {
		return err
	}

	holderLV, err := loadModel(b.reg, "holder", map[string]float64{
		"holder_outer_width":    extra.Holder.OuterWidthInMM,
		"holder_inner_width":    extra.Holder.InnerWidthInMM,
		"holder_height":         extra.Holder.HeightInMM,
		"holder_base_thickness": extra.Holder.BaseThicknessInMM,
	})
	if err != nil {
		return err
	}
	if _, err := geant4.NewPhysicalVolume(b.reg, "holder_pv", holderLV, b.cavity,
		geant4.Vector3{Z: extra.Offsets.HolderInMM - b.cryo.CavityFromTopInMM}, geant4.Vector3{}); err != nil {
		return err
	}

	detLV, err := loadModel(b.reg, "detector", map[string]float64{
		"detector_radius": b.det.Geometry.RadiusInMM,
		"detector_height": b.det.Geometry.HeightInMM,
	})
	if err != nil {
		return err
	}
	prof, err := GetProfile(detLV.Solid, false)
	if err != nil {
		return err
	}
	hpge, err := geant4.NewPhysicalVolume(b.reg, "hpge_pv", detLV, b.cavity,
		geant4.Vector3{Z: extra.Offsets.DetectorInMM - b.cryo.CavityFromTopInMM + prof.MaxZ()},
		geant4.Vector3{X: 180})
	if err != nil {
		return err
	}
	hpge.SetDetector(geant4.DetectorInfo{Type: "germanium", UID: 1})

	b.log.Debug("mounted detector assembly",
		zap.Float64("crystal_height_mm", prof.MaxZ()),
		zap.Float64("holder_offset_mm", extra.Offsets.HolderInMM))
	return nil
}
