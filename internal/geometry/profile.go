package geometry

import (
	"github.com/legend-exp/hadesgeom/internal/geant4"
)

// Profile is a closed 2-D (r, z) outline of a solid of revolution, plus the
// vertical offset of the volume's placement so outlines of different
// volumes can be drawn in a common frame.
type Profile struct {
	R      []float64 `json:"r"`
	Z      []float64 `json:"z"`
	Offset float64   `json:"offset"`
}

// MaxZ returns the largest z value of the outline.
func (p Profile) MaxZ() float64 {
	max := 0.0
	for i, z := range p.Z {
		if i == 0 || z > max {
			max = z
		}
	}
	return max
}

// GetProfile derives the outline of a polycone or generic polycone. The
// outline is closed, the first point repeats at the end. flip negates all z
// values, for volumes placed with inverted orientation.
func GetProfile(solid geant4.Solid, flip bool) (Profile, error) {
	var r, z []float64
	switch s := solid.(type) {
	case *geant4.Polycone:
		// Inner boundary walked down the planes, outer boundary walked
		// back up.
		for _, p := range s.Planes {
			r = append(r, p.RMin)
			z = append(z, p.Z)
		}
		for i := len(s.Planes) - 1; i >= 0; i-- {
			r = append(r, s.Planes[i].RMax)
			z = append(z, s.Planes[i].Z)
		}
	case *geant4.GenericPolycone:
		r = append(r, s.R...)
		z = append(z, s.Z...)
	default:
		return Profile{}, &UnsupportedSolidError{Solid: solid}
	}

	// close the loop
	r = append(r, r[0])
	z = append(z, z[0])

	if flip {
		for i := range z {
			z[i] = -z[i]
		}
	}
	return Profile{R: r, Z: z}, nil
}

// Profiles derives the silhouettes of the profile-capable volumes placed
// inside the cryostat, keyed by physical volume name. Offsets are expressed
// in the lab frame.
func Profiles(reg *geant4.Registry) map[string]Profile {
	out := map[string]Profile{}

	cavityZ := 0.0
	if pv, ok := reg.Placement("cavity_pv"); ok {
		if p, err := GetProfile(pv.Volume.Solid, false); err == nil {
			p.Offset = pv.Position.Z
			cavityZ = pv.Position.Z
			out[pv.Name] = p
		}
	}
	if pv, ok := reg.Placement("hpge_pv"); ok {
		flipped := pv.Rotation.X == 180
		if p, err := GetProfile(pv.Volume.Solid, flipped); err == nil {
			p.Offset = cavityZ + pv.Position.Z
			out[pv.Name] = p
		}
	}
	return out
}
