package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legend-exp/hadesgeom/internal/config"
	"github.com/legend-exp/hadesgeom/internal/geant4"
)

func TestGetProfile_Polycone(t *testing.T) {
	reg := geant4.NewRegistry()
	pc, err := geant4.NewPolycone(reg, "pc", 0, 2*math.Pi, []geant4.ZPlane{
		{Z: 0, RMin: 2, RMax: 3},
		{Z: 10, RMin: 10, RMax: 10},
	})
	require.NoError(t, err)

	p, err := GetProfile(pc, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 10, 10, 3, 2}, p.R)
	assert.Equal(t, []float64{0, 10, 10, 0, 0}, p.Z)
	assert.Equal(t, 10.0, p.MaxZ())
}

func TestGetProfile_GenericPolycone(t *testing.T) {
	reg := geant4.NewRegistry()
	gp, err := geant4.NewGenericPolycone(reg, "gp", 0, 2*math.Pi,
		[]float64{0, 5, 5, 0}, []float64{0, 0, 8, 8})
	require.NoError(t, err)

	p, err := GetProfile(gp, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 5, 5, 0, 0}, p.R)
	assert.Equal(t, []float64{0, 0, 8, 8, 0}, p.Z)
	assert.Equal(t, 8.0, p.MaxZ())

	flipped, err := GetProfile(gp, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, -8, -8, 0}, flipped.Z)
	assert.Equal(t, 0.0, flipped.MaxZ())
}

func TestGetProfile_UnsupportedSolid(t *testing.T) {
	reg := geant4.NewRegistry()
	tube, err := geant4.NewTube(reg, "tb", 0, 5, 10, 0, 2*math.Pi)
	require.NoError(t, err)

	_, err = GetProfile(tube, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupported))

	var solidErr *UnsupportedSolidError
	require.True(t, errors.As(err, &solidErr))
	assert.Equal(t, "tb", solidErr.Solid.SolidName())
}

func TestProfiles(t *testing.T) {
	cfg := mustValid(t, &config.Config{Detector: "V07302A", Measurement: "am_HS6_top_dlt"})
	reg, err := Construct(cfg, publicOpts())
	require.NoError(t, err)

	profs := Profiles(reg)
	require.Contains(t, profs, "cavity_pv")
	require.Contains(t, profs, "hpge_pv")

	assert.InDelta(t, 25, profs["cavity_pv"].Offset, 1e-9)
	assert.InDelta(t, 140, profs["cavity_pv"].MaxZ(), 1e-9)

	// the crystal hangs upside down, offsets add up in the lab frame
	assert.InDelta(t, 128.3, profs["hpge_pv"].Offset, 1e-9)
	assert.Equal(t, 0.0, profs["hpge_pv"].MaxZ())
}
