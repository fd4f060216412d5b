package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gyrosim/internal/analysis"
	"github.com/san-kum/gyrosim/internal/automation"
	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/export"
	"github.com/san-kum/gyrosim/internal/metrics"
	"github.com/san-kum/gyrosim/internal/physics"
	"github.com/san-kum/gyrosim/internal/storage"
)

var (
	frames    int
	plane     string
	outFile   string
	svgWidth  int
	svgHeight int
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "headless run, saved to the run directory",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	cmd.Flags().IntVar(&frames, "frames", 600, "number of frames to simulate")
	return cmd
}

func runHeadless(cmd *cobra.Command, args []string) error {
	sim, cfg, err := newSimulation(cmd)
	if err != nil {
		return err
	}
	if frames < 1 {
		return fmt.Errorf("frames=%d: %w", frames, dynamo.ErrInvalidConfig)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %d frames at %d fps...\n", frames, cfg.FPS)
	start := time.Now()
	samples := sim.Record(frames, 1/float64(cfg.FPS))
	elapsed := time.Since(start)

	results := metrics.Collect(metrics.Standard(sim.Model()), samples)
	runID, err := st.Save(storage.RunMetadata{
		Source:        "run",
		Params:        sim.Params(),
		FPS:           float64(cfg.FPS),
		Frames:        frames,
		TrailCapacity: sim.Trail().Cap(),
		Metrics:       results,
	}, samples)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(samples))
	printMetrics(results)
	return nil
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSOURCE\tTIME\tFRAMES\tSIM TIME\tMASS\tCHARGE\tFIELD\tVPERP\tVPAR")
			for _, run := range runs {
				p := run.Params
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%g\t%g\t%g\t%g\t%g\n",
					run.ID,
					run.Source,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Frames,
					run.Duration(),
					p.Mass, p.Charge, p.Field, p.VPerp, p.VPar,
				)
			}
			return w.Flush()
		},
	}
}

// loadRun reads a run's metadata and samples.
func loadRun(id string) (*storage.RunMetadata, []dynamo.Sample, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(id)
	if err != nil {
		return nil, nil, err
	}
	return meta, samples, nil
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot x, y and z against time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("samples: %d\n\n", len(samples))

			for _, axis := range []struct {
				a    analysis.Axis
				name string
			}{{analysis.AxisX, "x"}, {analysis.AxisY, "y"}, {analysis.AxisZ, "z"}} {
				graph := asciigraph.Plot(analysis.Component(samples, axis.a),
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption(axis.name+" vs time"),
				)
				fmt.Println(graph)
				fmt.Println()
			}

			if plane != "" {
				pl := analysis.Plane(plane)
				if !pl.Valid() {
					return fmt.Errorf("plane %q: %w", plane, dynamo.ErrInvalidConfig)
				}
				fmt.Printf("%s projection:\n", plane)
				fmt.Println(analysis.ProjectionToASCII(analysis.Project(samples, pl), 60, 24))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&plane, "plane", "xy", "also draw the projection onto xy, xz or yz (empty to skip)")
	return cmd
}

// output opens outFile, or stdout when it is empty.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func writeOutput(write func(io.Writer) error) error {
	w, err := output()
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Fprintf(os.Stderr, "wrote %s\n", outFile)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := storage.New(dataDir).Load(args[0])
			if err != nil {
				return err
			}
			return writeOutput(func(w io.Writer) error { return storage.ExportMetadata(w, *meta) })
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return writeOutput(func(w io.Writer) error { return storage.ExportJSON(w, *meta, samples) })
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newExportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return writeOutput(func(w io.Writer) error { return storage.WriteCSV(w, samples) })
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newExportSVGCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a projection of the trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl := analysis.Plane(plane)
			if !pl.Valid() {
				return fmt.Errorf("plane %q: %w", plane, dynamo.ErrInvalidConfig)
			}
			_, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			opts := export.DefaultOptions()
			if svgWidth > 0 {
				opts.Width = svgWidth
			}
			if svgHeight > 0 {
				opts.Height = svgHeight
			}
			return writeOutput(func(w io.Writer) error { return export.WriteTrajectory(w, samples, pl, opts) })
		},
	}
	cmd.Flags().StringVar(&plane, "plane", "xy", "projection plane: xy, xz or yz")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&svgWidth, "width", 0, "image width")
	cmd.Flags().IntVar(&svgHeight, "height", 0, "image height")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "compare measured gyration with the closed form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, samples, err := loadRun(args[0])
			if err != nil {
				return err
			}
			if meta.FPS <= 0 || meta.Params.TimeScale <= 0 {
				return fmt.Errorf("run %s has no simulated time step: %w", meta.ID, dynamo.ErrInvalidConfig)
			}
			// Samples are one frame apart in wall time, timescale apart in
			// simulated time.
			rate := meta.FPS / meta.Params.TimeScale
			r, err := analysis.Analyze(samples, meta.Params, rate)
			if err != nil {
				return err
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("samples: %d at %.2f Hz (simulated)\n\n", r.Samples, rate)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "QUANTITY\tEXPECTED\tMEASURED")
			fmt.Fprintf(w, "frequency\t%s\t%s\n", num(r.ExpectedFrequency), num(r.MeasuredFrequency))
			fmt.Fprintf(w, "period\t%s\t%s\n", num(r.ExpectedPeriod), num(r.CrossingPeriod))
			if r.FitErr != nil {
				fmt.Fprintf(w, "gyroradius\t%s\t(%v)\n", num(r.ExpectedRadius), r.FitErr)
			} else {
				fmt.Fprintf(w, "gyroradius\t%s\t%s\n", num(r.ExpectedRadius), num(r.Fit.R))
				fmt.Fprintf(w, "center\t(0, %s)\t(%s, %s)\n", num(physics.NewHelix(meta.Params).Center(0).Y), num(r.Fit.CX), num(r.Fit.CY))
			}
			fmt.Fprintf(w, "vpar\t%s\t%s\n", num(r.ExpectedVPar), num(r.MeasuredVPar))
			if err := w.Flush(); err != nil {
				return err
			}
			printMetrics(meta.Metrics)
			return nil
		},
	}
}

func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return fmt.Sprintf("%.6g", v)
}

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "replay a scripted scenario and save it as a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			opts, err := sceneOptions(cfg)
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

			fmt.Printf("scenario %s: %d frames at %d fps\n", sc.Name, sc.Frames(), sc.FPS)
			res, err := automation.RunScenario(ctx, sc, opts, log)
			if err != nil {
				return err
			}

			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
			capacity := opts.TrailCapacity
			if sc.TrailCapacity > 0 {
				capacity = sc.TrailCapacity
			}
			runID, err := st.Save(storage.RunMetadata{
				Source:        "scenario",
				Params:        res.Final,
				FPS:           float64(sc.FPS),
				Frames:        sc.Frames(),
				TrailCapacity: capacity,
			}, res.Samples)
			if err != nil {
				return err
			}

			fmt.Printf("run id: %s\n", runID)
			fmt.Printf("events fired: %d, resets: %d\n", res.Fired, res.Resets)
			fmt.Printf("samples: %d\n", len(res.Samples))
			return nil
		},
	}
}
