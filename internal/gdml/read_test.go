package gdml

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legend-exp/hadesgeom/internal/geant4"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<gdml>
  <define>
    <constant name="side" value="20"/>
    <quantity name="gap" type="length" value="1" unit="cm"/>
  </define>
  <materials/>
  <solids>
    <box name="outer" x="side" y="side" z="side" lunit="mm"/>
    <box name="inner" x="side - gap" y="side - gap" z="side - gap" lunit="mm"/>
  </solids>
  <structure>
    <volume name="inner_lv">
      <materialref ref="G4_Ge"/>
      <solidref ref="inner"/>
      <auxiliary auxtype="RMG_detector" auxvalue="germanium">
        <auxiliary auxtype="RMG_detector_uid" auxvalue="7"/>
      </auxiliary>
    </volume>
    <volume name="outer_lv">
      <materialref ref="G4_AIR"/>
      <solidref ref="outer"/>
      <physvol name="inner_pv">
        <volumeref ref="inner_lv"/>
        <position name="inner_pos" unit="mm" z="2"/>
      </physvol>
    </volume>
  </structure>
  <setup name="Default" version="1.0">
    <world ref="outer_lv"/>
  </setup>
</gdml>
`

func TestRead(t *testing.T) {
	reg, err := Read(strings.NewReader(sampleDoc), nil)
	require.NoError(t, err)
	require.NoError(t, reg.CheckSanity())

	require.NotNil(t, reg.World())
	assert.Equal(t, "outer_lv", reg.World().Name)

	solid, ok := reg.Solid("inner")
	require.True(t, ok)
	inner, ok := solid.(*geant4.Box)
	require.True(t, ok)
	// the quantity carries its cm unit into the expression
	assert.InDelta(t, 10, inner.X, 1e-9)

	pv, ok := reg.Placement("inner_pv")
	require.True(t, ok)
	assert.InDelta(t, 2, pv.Position.Z, 1e-9)
	require.NotNil(t, pv.Detector)
	assert.Equal(t, "germanium", pv.Detector.Type)
	assert.Equal(t, 7, pv.Detector.UID)
}

func TestRead_Replacements(t *testing.T) {
	reg, err := Read(strings.NewReader(sampleDoc), &Options{
		Replacements: map[string]float64{"side": 30},
	})
	require.NoError(t, err)

	solid, ok := reg.Solid("inner")
	require.True(t, ok)
	assert.InDelta(t, 20, solid.(*geant4.Box).X, 1e-9)
}

func TestRead_UnknownReplacement(t *testing.T) {
	_, err := Read(strings.NewReader(sampleDoc), &Options{
		Replacements: map[string]float64{"nope": 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not present in define block")
	assert.Contains(t, err.Error(), "nope")
}

func TestRead_ForwardVolumeReference(t *testing.T) {
	doc := strings.Replace(sampleDoc, `<volume name="inner_lv">`, `<volume name="zz_lv">`, 1)
	_, err := Read(strings.NewReader(doc), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined volume")
}

func TestReadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"models/sample.gdml": &fstest.MapFile{Data: []byte(sampleDoc)},
	}

	reg, err := ReadFS(fsys, "models/sample.gdml", nil)
	require.NoError(t, err)
	assert.Equal(t, "outer_lv", reg.World().Name)

	_, err = ReadFS(fsys, "models/missing.gdml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.gdml")
}
