package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/tosslab/internal/config"
	"github.com/san-kum/tosslab/internal/curve"
	"github.com/san-kum/tosslab/internal/export"
	"github.com/san-kum/tosslab/internal/integrators"
	"github.com/san-kum/tosslab/internal/launch"
	"github.com/san-kum/tosslab/internal/metrics"
	"github.com/san-kum/tosslab/internal/phys"
	"github.com/san-kum/tosslab/internal/storage"
	"github.com/san-kum/tosslab/internal/vec"
	"github.com/san-kum/tosslab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	offsetX    float64
	offsetY    float64
	integrator string
	dt         float64
	duration   float64
	cols       int
	rows       int
	watch      bool
	outFile    string
	topView    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tosslab",
		Short: "drag-to-aim ball toss lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the interactive live view.
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".tosslab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	tossCmd := &cobra.Command{
		Use:   "toss",
		Short: "run one launch and store the flight",
		RunE:  runToss,
	}
	tossCmd.Flags().Float64Var(&offsetX, "ox", 0, "drag offset x (goal-face local units)")
	tossCmd.Flags().Float64Var(&offsetY, "oy", 0, "drag offset y")
	tossCmd.Flags().StringVar(&integrator, "integrator", "", "integrator override")
	tossCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	tossCmd.Flags().Float64Var(&duration, "time", 0, "max duration override")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "render the curve for a drag offset",
		RunE:  runPreview,
	}
	previewCmd.Flags().Float64Var(&offsetX, "ox", 0, "drag offset x")
	previewCmd.Flags().Float64Var(&offsetY, "oy", 0, "drag offset y")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive aim-and-release view",
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&watch, "watch", false, "reload the config file on change")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "launch a grid of drag offsets and report landing accuracy",
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&cols, "cols", 5, "grid columns")
	sweepCmd.Flags().IntVar(&rows, "rows", 3, "grid rows")
	sweepCmd.Flags().StringVar(&integrator, "integrator", "", "integrator override")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored flight's height profile",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a stored flight as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&outFile, "out", "", "output path (default <run_id>.svg)")
	exportCmd.Flags().BoolVar(&topView, "top", false, "top view instead of side view")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(tossCmd, previewCmd, liveCmd, sweepCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset, then config file, in that order.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	return cfg, nil
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("integrator") {
		cfg.Sim.Integrator = integrator
	}
	if cmd.Flags().Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Sim.MaxDuration = duration
	}
}

// buildCurve replays the given absolute drag offset through a fresh builder.
func buildCurve(cfg *config.Config, ox, oy float64) curve.Curve {
	b := curve.New(cfg.Frame(), cfg.CurveParams())
	b.BeginDrag()
	center := cfg.CurveParams().RectCenter()
	b.Drag(vec.Vec2{X: ox - center.X, Y: oy - center.Y})
	c := b.Rebuild()
	b.EndDrag()
	return c
}

func newWorld(cfg *config.Config) (*phys.World, error) {
	integ, err := integrators.New(cfg.Sim.Integrator)
	if err != nil {
		return nil, err
	}
	world := phys.NewWorld(cfg.Scene.Gravity, cfg.Scene.GroundY, integ)
	if box, ok := cfg.Backboard(); ok {
		world.AddBox(box)
	}
	return world, nil
}

func runToss(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	c := buildCurve(cfg, offsetX, offsetY)
	world, err := newWorld(cfg)
	if err != nil {
		return err
	}

	launcher, err := launch.FromCurve(world, c, cfg.Body, cfg.Steer.BoostSpeed, cfg.SteerParams())
	if err != nil {
		return err
	}
	launcher.AddMetric(metrics.NewCrossTrack(c.Samples))
	launcher.AddMetric(metrics.NewControlEffort())
	launcher.AddMetric(metrics.NewPeakHeight())

	fmt.Println("launching...")
	start := time.Now()

	result, err := launcher.Run(context.Background(), launch.Config{
		Dt:          cfg.Sim.Dt,
		MaxDuration: cfg.Sim.MaxDuration,
		Settle:      cfg.Sim.Settle,
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	label := "toss"
	if preset != "" {
		label = preset
	}
	runID, err := st.Save(label, cfg.Sim.Dt, cfg.Sim.Integrator, c.Samples, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("stop: %s\n", result.Stop)
	fmt.Printf("completion: %.0f%%\n", result.Completion*100)
	fmt.Printf("final: %.3f from goal\n", result.Final().Sub(c.End).Length())
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	b := curve.New(cfg.Frame(), cfg.CurveParams())
	preview := viz.NewPreview(40, 12)
	b.AddObserver(preview)

	b.BeginDrag()
	center := cfg.CurveParams().RectCenter()
	b.Drag(vec.Vec2{X: offsetX - center.X, Y: offsetY - center.Y})
	b.Rebuild()

	fmt.Println(preview.Render())
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var watcher *config.Watcher
	if watch && configFile != "" {
		watcher, err = config.NewWatcher(filepath.Dir(configFile))
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	p := tea.NewProgram(viz.NewModel(cfg, configFile, watcher))
	_, err = p.Run()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)

	factory := launch.Factory{
		Frame:      cfg.Frame(),
		Curve:      cfg.CurveParams(),
		Body:       cfg.Body,
		Boost:      cfg.Steer.BoostSpeed,
		Steer:      cfg.SteerParams(),
		Gravity:    cfg.Scene.Gravity,
		GroundY:    cfg.Scene.GroundY,
		Integrator: cfg.Sim.Integrator,
	}

	cells, err := launch.RunSweep(context.Background(), factory, cols, rows, launch.Config{
		Dt:          cfg.Sim.Dt,
		MaxDuration: cfg.Sim.MaxDuration,
		Settle:      cfg.Sim.Settle,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "offset\tstop\tcompletion\tlanding err")
	for _, cell := range cells {
		fmt.Fprintf(w, "(%.2f, %.2f)\t%s\t%.0f%%\t%.3f\n",
			cell.Offset.X, cell.Offset.Y, cell.Stop, cell.Completion*100, cell.LandingError)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tstop\tcompletion\tduration\twhen")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.0f%%\t%.2fs\t%s\n",
			run.ID, run.Stop, run.Completion*100, run.Duration,
			run.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, _, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("run %s has no trajectory", args[0])
	}

	heights := make([]float64, len(states))
	for i, x := range states {
		heights[i] = x[1]
	}

	fmt.Println(asciigraph.Plot(heights,
		asciigraph.Height(14),
		asciigraph.Width(72),
		asciigraph.Caption("height over ticks")))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, _, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	flown := make([]vec.Vec3, len(states))
	for i, x := range states {
		flown[i] = vec.Vec3{X: x[0], Y: x[1], Z: x[2]}
	}

	plane := viz.SideView
	if topView {
		plane = viz.TopView
	}
	svg := export.FlightToSVG(meta.PlannedPath(), flown, plane, 800, 500)
	if svg == "" {
		return fmt.Errorf("run %s has too few points to draw", args[0])
	}

	path := outFile
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
