// Package config loads and validates the geometry construction
// configuration. YAML, JSON and TOML files are accepted, keyed by file
// extension.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/legend-exp/hadesgeom/internal/metadata"
)

// Assembly names selectable in the configuration.
const (
	AssemblyHPGe       = "hpge"
	AssemblySource     = "source"
	AssemblyLeadCastle = "lead_castle"
)

// DefaultAssemblies returns the full assembly set.
func DefaultAssemblies() []string {
	return []string{AssemblyHPGe, AssemblySource, AssemblyLeadCastle}
}

var (
	// ErrNoSourcePosition reports a requested source assembly with
	// neither a run number nor an explicit source position.
	ErrNoSourcePosition = errors.New("config: either a run number or an explicit source position is required")

	// ErrUnknownCard reports an unrecognized flashcam card interface in
	// the DAQ settings.
	ErrUnknownCard = errors.New("config: unknown flashcam card interface")
)

// Config mirrors the construction configuration file.
type Config struct {
	// Detector is the detector name; HPGeName is the historical alias
	// still found in old configuration files.
	Detector string `yaml:"detector,omitempty" json:"detector,omitempty" toml:"detector,omitempty"`
	HPGeName string `yaml:"hpge_name,omitempty" json:"hpge_name,omitempty" toml:"hpge_name,omitempty"`

	Measurement string `yaml:"measurement" json:"measurement" toml:"measurement"`
	Campaign    string `yaml:"campaign,omitempty" json:"campaign,omitempty" toml:"campaign,omitempty"`

	Run            *int                     `yaml:"run,omitempty" json:"run,omitempty" toml:"run,omitempty"`
	SourcePosition *metadata.SourcePosition `yaml:"source_position,omitempty" json:"source_position,omitempty" toml:"source_position,omitempty"`

	// Assemblies restricts construction to the named assemblies. Empty
	// means all of them, with the source placed only when a position is
	// known.
	Assemblies []string `yaml:"assemblies,omitempty" json:"assemblies,omitempty" toml:"assemblies,omitempty"`

	DAQ DAQSettings `yaml:"daq_settings,omitempty" json:"daq_settings,omitempty" toml:"daq_settings,omitempty"`
}

// DAQSettings carries the data acquisition electronics configuration of the
// measurement, used to pick the shielding table variant.
type DAQSettings struct {
	Flashcam FlashcamSettings `yaml:"flashcam,omitempty" json:"flashcam,omitempty" toml:"flashcam,omitempty"`
}

// FlashcamSettings names the flashcam card the detector was cabled to.
type FlashcamSettings struct {
	CardInterface string `yaml:"card_interface,omitempty" json:"card_interface,omitempty" toml:"card_interface,omitempty"`
}

// Load reads, decodes and validates a configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &cfg)
	case ".json":
		err = json.Unmarshal(raw, &cfg)
	case ".toml":
		err = toml.Unmarshal(raw, &cfg)
	default:
		return nil, fmt.Errorf("config: unsupported configuration format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DetectorName returns the configured detector, honoring the legacy alias.
func (c *Config) DetectorName() string {
	if c.Detector != "" {
		return c.Detector
	}
	return c.HPGeName
}

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.Campaign == "" {
		c.Campaign = "c1"
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.DetectorName() == "" {
		return errors.New("config: detector (or hpge_name) is required")
	}
	if c.Detector != "" && c.HPGeName != "" && c.Detector != c.HPGeName {
		return fmt.Errorf("config: detector %q and hpge_name %q disagree", c.Detector, c.HPGeName)
	}
	if c.Measurement == "" {
		return errors.New("config: measurement is required")
	}
	if c.Run != nil && c.SourcePosition != nil {
		return errors.New("config: run and source_position are mutually exclusive")
	}
	for _, a := range c.Assemblies {
		switch a {
		case AssemblyHPGe, AssemblySource, AssemblyLeadCastle:
		default:
			return fmt.Errorf("config: unknown assembly %q (valid: %s)",
				a, strings.Join(DefaultAssemblies(), ", "))
		}
	}
	return nil
}

// HasAssembly reports whether the named assembly is selected. With no
// explicit selection every assembly is.
func (c *Config) HasAssembly(name string) bool {
	if len(c.Assemblies) == 0 {
		return true
	}
	for _, a := range c.Assemblies {
		if a == name {
			return true
		}
	}
	return false
}

// SourceExplicit reports whether the source assembly was explicitly listed,
// as opposed to implied by the default selection.
func (c *Config) SourceExplicit() bool {
	for _, a := range c.Assemblies {
		if a == AssemblySource {
			return true
		}
	}
	return false
}
