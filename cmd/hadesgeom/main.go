package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/legend-exp/hadesgeom/internal/config"
	"github.com/legend-exp/hadesgeom/internal/gdml"
	"github.com/legend-exp/hadesgeom/internal/geant4"
	"github.com/legend-exp/hadesgeom/internal/geometry"
	"github.com/legend-exp/hadesgeom/internal/metadata"
)

const version = "0.3.0"

var (
	// Global flags
	verbose      bool
	debug        bool
	cfgPath      string
	publicGeom   bool
	metadataRoot string
	assemblies   []string
	printVolumes string
	dumpProfiles string
	watchMode    bool

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hadesgeom [output.gdml]",
	Short: "Assemble the HADES detector characterization geometry",
	Long: `hadesgeom builds the Geant4 geometry of one detector characterization
measurement in the HADES underground laboratory: the germanium detector in
its vacuum cryostat, the calibration source with its mechanical fixtures,
and the lead castle of the measurement table.

The measurement is described by a configuration file (YAML, JSON or TOML);
the detector dimensions come from the LEGEND metadata. The assembled
geometry is written as a GDML file ready for remage.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
		if debug {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable info logging")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Measurement configuration file (required)")
	rootCmd.Flags().BoolVar(&publicGeom, "public-geom", false, "Build from the packaged public metadata")
	rootCmd.Flags().StringVar(&metadataRoot, "metadata", "", "LEGEND metadata checkout (default: $LEGEND_METADATA)")
	rootCmd.Flags().StringSliceVar(&assemblies, "assemblies", nil, "Restrict construction to the named assemblies")
	rootCmd.Flags().StringVar(&printVolumes, "print-volumes", "", "List volumes instead of keeping quiet: logical, physical or detector")
	rootCmd.Flags().StringVar(&dumpProfiles, "dump-profiles", "", "Write the (r, z) volume profiles to a JSON file")
	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Rebuild whenever the configuration file changes")
	_ = rootCmd.MarkFlagRequired("config")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	output := ""
	if len(args) == 1 {
		output = args[0]
	}
	if output == "" && printVolumes == "" && dumpProfiles == "" {
		return errors.New("no output file and no action specified")
	}

	if err := buildOnce(cmd, output); err != nil {
		if !watchMode {
			return err
		}
		logger.Warn("initial build failed", zap.Error(err))
	}
	if !watchMode {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info("watching configuration", zap.String("config", cfgPath))
	return watchAndRebuild(ctx, cfgPath, func() error { return buildOnce(cmd, output) })
}

// buildOnce loads the configuration and runs one full assembly pass,
// producing whatever outputs were requested on the command line.
func buildOnce(cmd *cobra.Command, output string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if len(assemblies) > 0 {
		cfg.Assemblies = assemblies
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	resolver, err := metadata.NewResolver(metadata.ResolverOptions{
		MetadataRoot: metadataRoot,
		PublicOnly:   publicGeom,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	logger.Info("assembling geometry",
		zap.String("config", cfgPath),
		zap.String("detector", cfg.DetectorName()),
		zap.String("measurement", cfg.Measurement))

	reg, err := geometry.Construct(cfg, geometry.Options{
		PublicGeometry: publicGeom,
		Resolver:       resolver,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	if printVolumes != "" {
		if err := printVolumeReport(reg, printVolumes, cmd.OutOrStdout()); err != nil {
			return err
		}
	}
	if dumpProfiles != "" {
		if err := writeProfiles(reg, dumpProfiles); err != nil {
			return err
		}
		logger.Info("profiles written", zap.String("path", dumpProfiles))
	}
	if err := gdml.WriteFile(reg, output); err != nil {
		return err
	}
	if output != "" {
		logger.Info("geometry written", zap.String("path", output))
	}
	return nil
}

// printVolumeReport lists the volumes of the assembled geometry. Detector
// mode prints the sensitive placements with their remage UIDs.
func printVolumeReport(reg *geant4.Registry, mode string, w io.Writer) error {
	switch mode {
	case "logical":
		for _, name := range reg.LogicalVolumeNames() {
			fmt.Fprintln(w, name)
		}
	case "physical":
		for _, name := range reg.PhysicalVolumeNames() {
			fmt.Fprintln(w, name)
		}
	case "detector":
		for _, pv := range reg.DetectorVolumes() {
			fmt.Fprintf(w, "%s %s uid=%d\n", pv.Name, pv.Detector.Type, pv.Detector.UID)
		}
	default:
		return fmt.Errorf("unknown volume listing mode %q (valid: logical, physical, detector)", mode)
	}
	return nil
}

// writeProfiles dumps the (r, z) outlines of the profile-capable volumes.
func writeProfiles(reg *geant4.Registry, path string) error {
	raw, err := json.MarshalIndent(geometry.Profiles(reg), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}
