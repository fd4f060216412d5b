package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/gyrosim/internal/analysis"
	"github.com/san-kum/gyrosim/internal/automation"
	"github.com/san-kum/gyrosim/internal/config"
	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/optim"
	"github.com/san-kum/gyrosim/internal/physics"
)

var (
	dt         float64
	span       float64
	trialSpan  float64
	steps      int
	trials     int
	perturb    float64
	tolerance  float64
	seed       int64
	sampleRate float64
	fitParams  []string
	fitPoints  int
	fitRounds  int
	fitWindow  float64
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "integrate the Lorentz ODE and compare with the closed form",
		Long:  "compare steps the equations of motion with each integrator (the config's\nintegrators list, or all of them, when none are named) and reports the distance from the analytic helix.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			p := cfg.Params.ToParams()
			window := span
			if window <= 0 {
				window = physics.NewHelix(p).Period()
				if math.IsInf(window, 0) {
					window = 10
				}
			}

			names := args
			if len(names) == 0 {
				names = cfg.Integrators
			}
			results, err := analysis.CompareIntegrators(p, names, dt, window)
			if err != nil {
				return err
			}

			fmt.Printf("dt=%g  duration=%.4g\n\n", dt, window)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tMAX ERROR\tFINAL ERROR\tENERGY DRIFT\tTIME")
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(w, "%s\t%d\tfailed: %v\t\t\t%v\n", r.Integrator, r.Steps, r.Err, r.Elapsed)
					continue
				}
				fmt.Fprintf(w, "%s\t%d\t%.3e\t%.3e\t%.3e\t%v\n",
					r.Integrator, r.Steps, r.MaxError, r.FinalError, r.EnergyDrift, r.Elapsed)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&dt, "dt", 1e-3, "integration step")
	cmd.Flags().Float64Var(&span, "time", 0, "integration span (default one gyration period)")
	return cmd
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [param] [min] [max]",
		Short: "tabulate gyration over a parameter range",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			lo, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("min: %w", err)
			}
			hi, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("max: %w", err)
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
				Base:       cfg.Params.ToParams(),
				ParamName:  args[0],
				ParamMin:   lo,
				ParamMax:   hi,
				NumSteps:   steps,
				SampleRate: sampleRate,
			}, log)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tOMEGA\tGYRORADIUS\tPERIOD\tPITCH\tMEASURED FREQ\n", args[0])
			for _, r := range results {
				fmt.Fprintf(w, "%.4g\t%s\t%s\t%s\t%s\t%s\n",
					r.ParamValue, num(r.Omega), num(r.Gyroradius), num(r.Period), num(r.Pitch), num(r.MeasuredFrequency))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 10, "number of sweep points")
	cmd.Flags().Float64Var(&sampleRate, "rate", 0, "sample rate for the frequency measurement (default 32)")
	return cmd
}

func newMonteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb the parameters and check the helix stays on its circle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
				Base:         cfg.Params.ToParams(),
				Perturbation: perturb,
				NumTrials:    trials,
				Duration:     trialSpan,
				Seed:         seed,
			}, log)
			if err != nil {
				return err
			}

			good, bad := automation.MonteCarloStats(results, tolerance)
			worst := 0.0
			for _, r := range results {
				worst = math.Max(worst, r.MaxRadial)
			}
			fmt.Printf("trials: %d  perturbation: ±%.0f%%\n", len(results), perturb*100)
			fmt.Printf("within %.0e of the gyroradius: %d\n", tolerance, good)
			fmt.Printf("outside or non-finite: %d\n", bad)
			fmt.Printf("worst radial error: %.3e\n", worst)
			return nil
		},
	}
	cmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	cmd.Flags().Float64Var(&perturb, "perturb", 0.1, "relative perturbation of each parameter")
	cmd.Flags().Float64Var(&tolerance, "tol", 1e-9, "radial error tolerance")
	cmd.Flags().Float64Var(&trialSpan, "time", 20, "simulated span per trial")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 for time based)")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMASS\tCHARGE\tFIELD\tVPERP\tVPAR\tTIMESCALE\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				pr := config.GetPreset(name)
				p := pr.Params
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t%g\t%s\n",
					name, p.Mass, p.Charge, p.Field, p.VPerp, p.VPar, p.TimeScale, pr.Description)
			}
			return w.Flush()
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "show the gyration derived from the current parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			p := cfg.Params.ToParams()
			h := physics.NewHelix(p)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "mass\t%g\n", p.Mass)
			fmt.Fprintf(w, "charge\t%g\n", p.Charge)
			fmt.Fprintf(w, "field\t%g\n", p.Field)
			fmt.Fprintf(w, "vperp\t%g\n", p.VPerp)
			fmt.Fprintf(w, "vpar\t%g\n", p.VPar)
			fmt.Fprintf(w, "timescale\t%g\n", p.TimeScale)
			fmt.Fprintf(w, "follow\t%v\n", p.Follow)
			fmt.Fprintln(w, "\t")
			fmt.Fprintf(w, "omega\t%s\n", num(h.Omega()))
			fmt.Fprintf(w, "gyroradius\t%s\n", num(h.Gyroradius()))
			fmt.Fprintf(w, "period\t%s\n", num(h.Period()))
			fmt.Fprintf(w, "pitch\t%s\n", num(h.Pitch()))
			if h.Degenerate() {
				fmt.Fprintln(w, "motion\tstraight-line drift")
			} else {
				fmt.Fprintln(w, "motion\thelix")
			}
			return w.Flush()
		},
	}
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
}

func newFitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit [run_id]",
		Short: "recover parameters from a recorded trajectory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			if fitWindow > 0 {
				n := 0
				for n < len(samples) && samples[n].Time <= fitWindow {
					n++
				}
				samples = samples[:n]
			}
			if len(samples) == 0 {
				return fmt.Errorf("run %s: %w", meta.ID, dynamo.ErrEmptyRun)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			res, err := optim.FitTrajectory(ctx, samples, meta.Params, optim.FitOptions{
				Params: fitParams,
				Points: fitPoints,
				Rounds: fitRounds,
			})
			if err != nil {
				return err
			}

			fmt.Printf("run: %s  samples: %d  evaluated: %d\n\n", meta.ID, len(samples), res.Evaluated)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PARAM\tRECORDED\tFITTED")
			for _, name := range fitParams {
				rec, _ := meta.Params.Get(name)
				got, _ := res.Params.Get(name)
				fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", name, rec, got)
			}
			fmt.Fprintf(w, "rms\t\t%.3e\n", res.Cost)
			return w.Flush()
		},
	}
	cmd.Flags().StringSliceVar(&fitParams, "params", []string{dynamo.ParamField, dynamo.ParamVPerp}, "parameters to fit ("+strings.Join(dynamo.ParamNames[:5], ", ")+")")
	cmd.Flags().IntVar(&fitPoints, "points", 11, "grid points per parameter per round")
	cmd.Flags().IntVar(&fitRounds, "rounds", 6, "refinement rounds")
	cmd.Flags().Float64Var(&fitWindow, "window", 5, "fit only the first seconds of the run (0 for all)")
	return cmd
}
