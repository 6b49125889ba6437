package metadata

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrPublicDataOnly guards against silently building a geometry from the
// packaged records when the authoritative metadata was merely unreachable.
var ErrPublicDataOnly = errors.New("cannot construct geometry from public data only if not explicitly instructed")

// DefaultEnrichment is assumed when a diode record carries no enrichment
// fraction.
const DefaultEnrichment = 0.9

// extrasKeyDefault is the fallback entry in the hades extras set.
const extrasKeyDefault = "default"

// Resolver merges diode records with the characterization-setup extras and
// derives the cryostat model.
type Resolver struct {
	source DiodeSource
	extras map[string]HadesExtra
	log    *zap.Logger
}

// ResolverOptions configures NewResolver. The zero value resolves against
// the checkout named by $LEGEND_METADATA with the packaged extras.
type ResolverOptions struct {
	// MetadataRoot is an explicit metadata checkout, overriding
	// $LEGEND_METADATA.
	MetadataRoot string
	// PublicOnly opts in to the packaged public records instead of the
	// authoritative service.
	PublicOnly bool
	// ExtrasPath is an explicit hades extras file, overriding the
	// packaged set.
	ExtrasPath string
	// Source substitutes the diode source directly. Used by tests.
	Source DiodeSource
	Logger *zap.Logger
}

// NewResolver builds a resolver. Without the public opt-in, an unreachable
// metadata checkout is a hard error, never a silent fallback.
func NewResolver(opts ResolverOptions) (*Resolver, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	source := opts.Source
	if source == nil && !opts.PublicOnly {
		fileStore, err := NewFileStore(opts.MetadataRoot)
		switch {
		case err == nil:
			source = fileStore
		case errors.Is(err, ErrUnavailable):
			return nil, ErrPublicDataOnly
		default:
			return nil, err
		}
	}
	if source == nil {
		log.Warn("constructing geometry from public data only")
		source = NewPublicStore()
	}

	extras, err := loadExtras(opts.ExtrasPath)
	if err != nil {
		return nil, err
	}
	return &Resolver{source: source, extras: extras, log: log}, nil
}

// Detector resolves one detector: the diode record with the hades extras
// merged in and the enrichment fraction back-filled.
func (r *Resolver) Detector(name string) (*DiodeMetadata, error) {
	d, err := r.source.Diode(name)
	if err != nil {
		return nil, err
	}

	extra := r.extras[extrasKeyDefault]
	if o, ok := r.extras[name]; ok {
		if o.Wrap != (WrapSpec{}) {
			extra.Wrap = o.Wrap
		}
		if o.Holder != (HolderSpec{}) {
			extra.Holder = o.Holder
		}
		if o.Offsets != (AssemblyOffsets{}) {
			extra.Offsets = o.Offsets
		}
	}
	d.Hades = &extra

	if d.Production.Enrichment == nil {
		r.log.Debug("diode record has no enrichment fraction, assuming default",
			zap.String("detector", name), zap.Float64("enrichment", DefaultEnrichment))
		d.Production.Enrichment = &ValUnc{Val: DefaultEnrichment}
	}
	return d, nil
}

// Cryostat picks the vendor cryostat model for a detector. The selection
// depends only on the diode type and production order.
func (r *Resolver) Cryostat(d *DiodeMetadata) (CryostatMetadata, error) {
	switch d.Type {
	case "icpc", "coax":
		if d.Production.Order <= 2 {
			// GERDA-era refurbished crystals came back in the older,
			// narrower vendor housing.
			return CryostatMetadata{
				HeightInMM:           220,
				DiameterInMM:         95,
				WallThicknessInMM:    1.5,
				CavityFromTopInMM:    25,
				CavityFromBottomInMM: 60,
			}, nil
		}
		return CryostatMetadata{
			HeightInMM:           240,
			DiameterInMM:         110,
			WallThicknessInMM:    1.5,
			CavityFromTopInMM:    25,
			CavityFromBottomInMM: 75,
		}, nil
	case "bege", "ppc":
		return CryostatMetadata{
			HeightInMM:           180,
			DiameterInMM:         100,
			WallThicknessInMM:    1.5,
			CavityFromTopInMM:    20,
			CavityFromBottomInMM: 70,
		}, nil
	default:
		return CryostatMetadata{}, fmt.Errorf("metadata: no cryostat model for detector type %q", d.Type)
	}
}

func loadExtras(path string) (map[string]HadesExtra, error) {
	var raw []byte
	var err error
	if path != "" {
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("metadata: read hades extras %s: %w", path, err)
		}
	} else {
		raw, err = packagedData.ReadFile("data/hades.yaml")
		if err != nil {
			return nil, fmt.Errorf("metadata: packaged hades extras: %w", err)
		}
	}
	extras := map[string]HadesExtra{}
	if err := yaml.Unmarshal(raw, &extras); err != nil {
		return nil, fmt.Errorf("metadata: decode hades extras: %w", err)
	}
	if _, ok := extras[extrasKeyDefault]; !ok {
		return nil, fmt.Errorf("metadata: hades extras have no %q entry", extrasKeyDefault)
	}
	return extras, nil
}
