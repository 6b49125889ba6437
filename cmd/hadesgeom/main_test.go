package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legend-exp/hadesgeom/internal/config"
	"github.com/legend-exp/hadesgeom/internal/geometry"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "measurement.yaml")
	doc := "detector: V07302A\nmeasurement: th_HS2_top_dlt\nrun: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func resetFlags() {
	cfgPath = ""
	publicGeom = false
	metadataRoot = ""
	assemblies = nil
	printVolumes = ""
	dumpProfiles = ""
	watchMode = false
	logger = nil
}

func TestRunRoot_NoActionIsAnError(t *testing.T) {
	resetFlags()
	cfgPath = writeConfig(t)
	publicGeom = true

	err := runRoot(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no output file and no action specified")
}

func TestRunRoot_WritesGDML(t *testing.T) {
	resetFlags()
	cfgPath = writeConfig(t)
	publicGeom = true
	out := filepath.Join(t.TempDir(), "setup.gdml")

	require.NoError(t, runRoot(rootCmd, []string{out}))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<gdml")
	assert.Contains(t, string(raw), `auxtype="RMG_detector"`)
}

func TestRunRoot_DumpProfiles(t *testing.T) {
	resetFlags()
	cfgPath = writeConfig(t)
	publicGeom = true
	dumpProfiles = filepath.Join(t.TempDir(), "profiles.json")

	require.NoError(t, runRoot(rootCmd, nil))

	raw, err := os.ReadFile(dumpProfiles)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"hpge_pv"`)
	assert.Contains(t, string(raw), `"cavity_pv"`)
}

func TestPrintVolumeReport(t *testing.T) {
	cfg := &config.Config{Detector: "B00000B", Measurement: "am_HS6_top_dlt"}
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	reg, err := geometry.Construct(cfg, geometry.Options{PublicGeometry: true})
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, printVolumeReport(reg, "detector", &sb))
	assert.Equal(t, "hpge_pv germanium uid=1\n", sb.String())

	sb.Reset()
	require.NoError(t, printVolumeReport(reg, "physical", &sb))
	assert.Contains(t, sb.String(), "castle_pv\n")

	err = printVolumeReport(reg, "everything", &sb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown volume listing mode")
}
