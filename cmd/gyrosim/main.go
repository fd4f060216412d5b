package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/gyrosim/internal/config"
	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/scene"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool
	fps        int

	mass      float64
	charge    float64
	field     float64
	vperp     float64
	vpar      float64
	timescale float64
	follow    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gyrosim",
		Short: "charged particle gyration in a uniform magnetic field",
		Long: "gyrosim traces a charged particle on its helix in a uniform magnetic field\n" +
			"along z, with a fading trail and an optional follow camera.",
		SilenceUsage: true,
		RunE:         runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".gyrosim", "run directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frames per second")

	d := dynamo.DefaultParams()
	pf.Float64Var(&mass, "mass", d.Mass, "particle mass")
	pf.Float64Var(&charge, "charge", d.Charge, "particle charge")
	pf.Float64Var(&field, "field", d.Field, "magnetic field strength along z")
	pf.Float64Var(&vperp, "vperp", d.VPerp, "speed perpendicular to the field")
	pf.Float64Var(&vpar, "vpar", d.VPar, "speed along the field")
	pf.Float64Var(&timescale, "timescale", d.TimeScale, "simulated seconds per wall-clock second")
	pf.BoolVar(&follow, "follow", d.Follow, "camera follows the particle")

	rootCmd.AddCommand(
		newLiveCmd(), newGUICmd(), newServeCmd(),
		newRunCmd(), newListCmd(), newPlotCmd(),
		newExportCmd(), newExportJSONCmd(), newExportCSVCmd(), newExportSVGCmd(),
		newAnalyzeCmd(), newFitCmd(), newCompareCmd(), newSweepCmd(), newMonteCarloCmd(),
		newScenarioCmd(), newPresetsCmd(), newInfoCmd(), newInitConfigCmd(),
	)
	return rootCmd
}

// loadConfig layers defaults, the config file, the preset and finally any
// flag the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	float := func(name string, dst *float64, v float64) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	float("mass", &cfg.Params.Mass, mass)
	float("charge", &cfg.Params.Charge, charge)
	float("field", &cfg.Params.Field, field)
	float("vperp", &cfg.Params.VPerp, vperp)
	float("vpar", &cfg.Params.VPar, vpar)
	float("timescale", &cfg.Params.TimeScale, timescale)
	if flags.Changed("follow") {
		cfg.Params.Follow = follow
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func sceneOptions(cfg *config.Config) (scene.Options, error) {
	policy, err := scene.DefaultPolicy().With(cfg.ResetOnChange)
	if err != nil {
		return scene.Options{}, err
	}
	return scene.Options{
		TrailCapacity: cfg.TrailCapacity,
		Follow:        scene.NewFollowRig(cfg.Follow.Distance, cfg.Follow.AngleDeg),
		Policy:        policy,
	}, nil
}

func newSimulation(cmd *cobra.Command) (*scene.Simulation, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	opts, err := sceneOptions(cfg)
	if err != nil {
		return nil, nil, err
	}
	return scene.New(cfg.Params.ToParams(), opts), cfg, nil
}

// newLogger builds the diagnostics logger. Command output goes to stdout
// separately.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return zc.Build()
}
