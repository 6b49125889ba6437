package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/legend-exp/hadesgeom/internal/metadata"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "geom.yaml", `
detector: V07302A
measurement: am_HS1_top_dlt
run: 1
daq_settings:
  flashcam:
    card_interface: efb1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DetectorName() != "V07302A" {
		t.Errorf("expected detector V07302A, got %s", cfg.DetectorName())
	}
	if cfg.Campaign != "c1" {
		t.Errorf("expected default campaign c1, got %s", cfg.Campaign)
	}
	if cfg.Run == nil || *cfg.Run != 1 {
		t.Errorf("expected run 1, got %v", cfg.Run)
	}
	if cfg.DAQ.Flashcam.CardInterface != "efb1" {
		t.Errorf("expected card efb1, got %s", cfg.DAQ.Flashcam.CardInterface)
	}
}

func TestLoad_LegacyAlias(t *testing.T) {
	path := writeConfig(t, "geom.yml", `
hpge_name: B00000B
measurement: am_HS6_top_dlt
campaign: c2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DetectorName() != "B00000B" {
		t.Errorf("expected detector B00000B, got %s", cfg.DetectorName())
	}
	if cfg.Campaign != "c2" {
		t.Errorf("expected campaign c2, got %s", cfg.Campaign)
	}
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "geom.json", `{
  "detector": "V07302A",
  "measurement": "th_HS2_lat_psa",
  "source_position": {"phi_in_deg": 0.0, "r_in_mm": 30.0, "z_in_mm": 60.0}
}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SourcePosition == nil {
		t.Fatal("expected source position")
	}
	if cfg.SourcePosition.RInMM != 30.0 {
		t.Errorf("expected r=30, got %g", cfg.SourcePosition.RInMM)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "geom.toml", `
detector = "V02160B"
measurement = "am_HS6_top_dlt"

[daq_settings.flashcam]
card_interface = "efb2"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Detector != "V02160B" {
		t.Errorf("expected detector V02160B, got %s", cfg.Detector)
	}
	if cfg.DAQ.Flashcam.CardInterface != "efb2" {
		t.Errorf("expected card efb2, got %s", cfg.DAQ.Flashcam.CardInterface)
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "geom.ini", "detector=V07302A\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestValidate(t *testing.T) {
	run := 3
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"minimal", Config{Detector: "V07302A", Measurement: "am_HS1_top_dlt"}, false},
		{"missing detector", Config{Measurement: "am_HS1_top_dlt"}, true},
		{"missing measurement", Config{Detector: "V07302A"}, true},
		{"alias agrees", Config{Detector: "V07302A", HPGeName: "V07302A", Measurement: "am_HS1_top_dlt"}, false},
		{"alias disagrees", Config{Detector: "V07302A", HPGeName: "B00000B", Measurement: "am_HS1_top_dlt"}, true},
		{"run and position", Config{
			Detector: "V07302A", Measurement: "am_HS1_top_dlt",
			Run: &run, SourcePosition: &metadata.SourcePosition{ZInMM: 38},
		}, true},
		{"unknown assembly", Config{
			Detector: "V07302A", Measurement: "am_HS1_top_dlt",
			Assemblies: []string{"wrap"},
		}, true},
		{"valid assemblies", Config{
			Detector: "V07302A", Measurement: "am_HS1_top_dlt",
			Assemblies: []string{AssemblyHPGe, AssemblyLeadCastle},
		}, false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAssemblySelection(t *testing.T) {
	all := Config{Detector: "V07302A", Measurement: "am_HS1_top_dlt"}
	if !all.HasAssembly(AssemblySource) || !all.HasAssembly(AssemblyHPGe) {
		t.Error("empty selection should include every assembly")
	}
	if all.SourceExplicit() {
		t.Error("empty selection is not an explicit source request")
	}

	some := Config{Assemblies: []string{AssemblySource}}
	if !some.SourceExplicit() {
		t.Error("expected explicit source request")
	}
	if some.HasAssembly(AssemblyLeadCastle) {
		t.Error("lead_castle not selected")
	}
}
