// Package metadata resolves HADES detector metadata: diode records from the
// LEGEND metadata service (or the packaged public fallback), the
// characterization-specific extras merged under the "hades" sub-key, the
// cryostat selection and the calibration source position database.
package metadata

// ValUnc is a measured value with its uncertainty.
type ValUnc struct {
	Val float64 `yaml:"val"`
	Unc float64 `yaml:"unc,omitempty"`
}

// Production covers the manufacturing part of a diode record.
type Production struct {
	Manufacturer string  `yaml:"manufacturer,omitempty"`
	Order        int     `yaml:"order"`
	Slice        string  `yaml:"slice,omitempty"`
	Enrichment   *ValUnc `yaml:"enrichment,omitempty"`
	MassInG      float64 `yaml:"mass_in_g,omitempty"`
}

// Geometry carries the crystal dimensions needed to parameterize the
// detector model.
type Geometry struct {
	HeightInMM float64 `yaml:"height_in_mm"`
	RadiusInMM float64 `yaml:"radius_in_mm"`
}

// DiodeMetadata is one germanium detector record. Hades is not part of the
// upstream record, the resolver fills it in from the packaged extras.
type DiodeMetadata struct {
	Name       string      `yaml:"name"`
	Type       string      `yaml:"type"`
	Production Production  `yaml:"production"`
	Geometry   Geometry    `yaml:"geometry"`
	Hades      *HadesExtra `yaml:"hades,omitempty"`
}

// WrapSpec describes the teflon wrap around the crystal.
type WrapSpec struct {
	OuterHeightInMM  float64 `yaml:"outer_height_in_mm"`
	OuterRadiusInMM  float64 `yaml:"outer_radius_in_mm"`
	InnerRadiusInMM  float64 `yaml:"inner_radius_in_mm"`
	TopThicknessInMM float64 `yaml:"top_thickness_in_mm"`
}

// HolderSpec describes the plexiglass holder the crystal sits in.
type HolderSpec struct {
	OuterWidthInMM    float64 `yaml:"outer_width_in_mm"`
	InnerWidthInMM    float64 `yaml:"inner_width_in_mm"`
	HeightInMM        float64 `yaml:"height_in_mm"`
	BaseThicknessInMM float64 `yaml:"base_thickness_in_mm"`
}

// AssemblyOffsets are per-assembly z offsets measured from the top of the
// cryostat, in mm, positive pointing down into the cryostat.
type AssemblyOffsets struct {
	WrapInMM     float64 `yaml:"wrap_in_mm"`
	HolderInMM   float64 `yaml:"holder_in_mm"`
	DetectorInMM float64 `yaml:"detector_in_mm"`
}

// HadesExtra is the characterization-setup geometry attached to a diode
// record under the reserved "hades" sub-key.
type HadesExtra struct {
	Wrap    WrapSpec        `yaml:"wrap"`
	Holder  HolderSpec      `yaml:"holder"`
	Offsets AssemblyOffsets `yaml:"positions_from_cryostat_top"`
}

// CryostatMetadata describes the vendor cryostat a detector is mounted in.
// It is derived from the diode type and production order, never stored.
type CryostatMetadata struct {
	HeightInMM           float64
	DiameterInMM         float64
	WallThicknessInMM    float64
	CavityFromTopInMM    float64
	CavityFromBottomInMM float64
}

// CavityHeightInMM is the height of the internal vacuum cavity.
func (c CryostatMetadata) CavityHeightInMM() float64 {
	return c.HeightInMM - c.CavityFromTopInMM - c.CavityFromBottomInMM
}

// CavityRadiusInMM is the inner radius left by the cryostat wall.
func (c CryostatMetadata) CavityRadiusInMM() float64 {
	return (c.DiameterInMM - 2*c.WallThicknessInMM) / 2
}

// SourcePosition is one calibration source position record in cylindrical
// metadata coordinates.
type SourcePosition struct {
	PhiInDeg float64 `yaml:"phi_in_deg" json:"phi_in_deg" toml:"phi_in_deg"`
	RInMM    float64 `yaml:"r_in_mm" json:"r_in_mm" toml:"r_in_mm"`
	ZInMM    float64 `yaml:"z_in_mm" json:"z_in_mm" toml:"z_in_mm"`
}
