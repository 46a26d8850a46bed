package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/boxsim/internal/automation"
	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/console"
	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/export"
	"github.com/san-kum/boxsim/internal/gui"
	"github.com/san-kum/boxsim/internal/metrics"
	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/scene"
	"github.com/san-kum/boxsim/internal/sim"
	"github.com/san-kum/boxsim/internal/storage"
	"github.com/san-kum/boxsim/internal/viewport"
	"github.com/san-kum/boxsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	engine     string
	steps      int
	dt         float64
	save       bool
	quiet      bool
	bodyID     int
	columns    []string
	engines    []string
	watchFile  bool
	svgOut     string
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepCount int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "boxsim",
		Short:        "rigid body example programs",
		SilenceUsage: true,
		RunE:         runHello,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".boxsim", "data directory")

	helloCmd := &cobra.Command{
		Use:   "hello",
		Short: "drop a box on the ground and print x y angle for 60 steps",
		Args:  cobra.NoArgs,
		RunE:  runHello,
	}

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene headless",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	runCmd.Flags().StringVar(&engine, "engine", config.DefaultEngine, "physics engine ("+strings.Join(physics.Engines(), ", ")+")")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultIterations, "number of steps")
	runCmd.Flags().Float64Var(&dt, "dt", dynamo.DefaultStep().Dt, "timestep")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "skip per-step output")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body's trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&bodyID, "body", 0, "body id (default: first dynamic body)")
	plotCmd.Flags().StringSliceVar(&columns, "columns", []string{"y", "angle"}, "columns to plot ("+strings.Join(sim.Columns, ", ")+")")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's frames as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a run's final frame and a body's path as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&bodyID, "body", 0, "body id for the path (default: first dynamic body)")
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default: stdout)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	liveCmd.Flags().StringVar(&engine, "engine", config.DefaultEngine, "physics engine")

	guiCmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "run a scene in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	guiCmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	guiCmd.Flags().StringVar(&engine, "engine", config.DefaultEngine, "physics engine")
	guiCmd.Flags().BoolVar(&watchFile, "watch", false, "reload the scene file when it changes, keeping --engine, --steps and --dt")

	compareCmd := &cobra.Command{
		Use:   "compare [preset]",
		Short: "run a scene on several engines side by side",
		Args:  cobra.MaximumNArgs(1),
		RunE:  compareEngines,
	}
	compareCmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	compareCmd.Flags().StringSliceVar(&engines, "engines", physics.Engines(), "engines to compare")
	compareCmd.Flags().IntVar(&steps, "steps", config.DefaultIterations, "number of steps")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run a scene once per value of a box or world parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	sweepCmd.Flags().StringVar(&engine, "engine", config.DefaultEngine, "physics engine")
	sweepCmd.Flags().IntVar(&steps, "steps", config.DefaultIterations, "number of steps")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "restitution", "parameter to sweep ("+strings.Join(automation.Params(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.9, "last value")
	sweepCmd.Flags().IntVar(&sweepCount, "count", 4, "number of values")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tENGINE\tSTEPS\tBOX")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%d\t%v\n", name, p.Engine, p.Iterations, p.Box.Position)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(helloCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, liveCmd, guiCmd, compareCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScene resolves the scene for a command: preset argument (default
// hello), then --config, then any changed flags.
func loadScene(cmd *cobra.Command, args []string) (*config.Scene, error) {
	name := "hello"
	if len(args) > 0 {
		name = args[0]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies the scene flags set on the command line over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Scene) {
	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Engine = engine
	}
	if flags.Changed("steps") {
		cfg.Iterations = steps
	}
	if flags.Changed("dt") {
		cfg.Step.Dt = dt
	}
}

func runHello(cmd *cobra.Command, args []string) error {
	_, err := console.Hello(cmd.Context(), os.Stdout, config.Default())
	return err
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	s, err := scene.New(cfg)
	if err != nil {
		return err
	}

	runner := sim.New(s.World(), cfg.Step)
	for _, m := range metrics.Default() {
		runner.AddMetric(m)
	}
	if !quiet {
		runner.AddObserver(console.NewPrinter(os.Stdout, s.Tracked()[0].ID()).WithStep())
	}

	start := time.Now()
	result, err := runner.Run(cmd.Context(), cfg.Iterations)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("\nscene: %s  engine: %s  steps: %d  (%.2fms)\n", cfg.Name, result.Engine, len(result.Frames), float64(elapsed.Microseconds())/1000)
	printMetrics(result.Metrics)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Name, result)
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", runID)
	}
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-14s %10.4f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tENGINE\tTIME\tSTEPS\tDT\tBODIES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4fs\t%d\n",
			run.ID,
			run.Scene,
			run.Engine,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Iterations,
			run.Step.Dt,
			run.Bodies,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	id := bodyID
	if id == 0 {
		id = firstDynamic(frames[0])
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s (%s)\n", meta.Scene, meta.Engine)
	fmt.Printf("body: %d  samples: %d\n\n", id, len(frames))

	for _, col := range columns {
		data, err := sim.Series(frames, id, col)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return fmt.Errorf("body %d not in run %s", id, runID)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs step", col)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func firstDynamic(f sim.Frame) int {
	for _, b := range f.Bodies {
		if b.Type == dynamo.DynamicBody {
			return b.ID
		}
	}
	return 0
}

func exportCSV(cmd *cobra.Command, args []string) error {
	frames, err := storage.New(dataDir).LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.WriteFramesCSV(os.Stdout, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	frames, err := storage.New(dataDir).LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to draw")
	}

	id := bodyID
	if id == 0 {
		id = firstDynamic(frames[0])
	}

	vc := config.Default().Viewport
	vp := viewport.FromConfig(vc)

	out := os.Stdout
	if svgOut != "" {
		f, err := os.Create(svgOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return export.RunSVG(out, frames, id, vp, vc.Width, vc.Height)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	return viz.Run(cfg)
}

func runGUI(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && configFile == "" {
		args = []string{"testbed"}
	}
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	tb, err := gui.NewTestbed(cfg, configFile)
	if err != nil {
		return err
	}
	if watchFile {
		tb.SetOverrides(func(c *config.Scene) { applyFlags(cmd, c) })
		if err := tb.Watch(); err != nil {
			return err
		}
	}
	return tb.Run()
}

func compareEngines(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	worlds := make([]dynamo.World, len(engines))
	boxes := make([]int, len(engines))
	for i, name := range engines {
		c := cfg.Clone()
		c.Engine = name
		s, err := scene.New(c)
		if err != nil {
			return err
		}
		worlds[i] = s.World()
		boxes[i] = s.Tracked()[0].ID()
	}

	results, err := sim.NewEnsemble(worlds, cfg.Step, metrics.Default).Run(cmd.Context(), cfg.Iterations)
	if err != nil {
		return err
	}

	fmt.Printf("comparing engines for %s (dt=%.4f, steps=%d)\n\n", cfg.Name, cfg.Step.Dt, cfg.Iterations)
	fmt.Printf("%-10s  %-18s  %8s  %8s  %10s  %12s\n", "engine", "final x y angle", "settle", "drop", "max_speed", "static_drift")
	fmt.Println(strings.Repeat("-", 76))
	for i, r := range results {
		final, _ := r.Frames[len(r.Frames)-1].Body(boxes[i])
		pose := fmt.Sprintf("%.2f %.2f %.2f", final.Position.X, final.Position.Y, final.Angle)
		fmt.Printf("%-10s  %-18s  %8.0f  %8.3f  %10.3f  %12.2e\n",
			r.Engine, pose,
			r.Metrics["settle_step"], r.Metrics["drop"], r.Metrics["max_speed"], r.Metrics["static_drift"])
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	sw := automation.Sweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, Count: sweepCount}
	results, err := automation.RunSweep(cmd.Context(), cfg, sw)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s for %s on %s (steps=%d)\n\n", sw.Param, cfg.Name, cfg.Engine, cfg.Iterations)
	fmt.Printf("%-12s  %-18s  %8s  %8s  %10s\n", sw.Param, "final x y angle", "settle", "drop", "max_speed")
	fmt.Println(strings.Repeat("-", 64))
	for _, r := range results {
		pose := fmt.Sprintf("%.2f %.2f %.2f", r.Final.Position.X, r.Final.Position.Y, r.Final.Angle)
		fmt.Printf("%-12.4f  %-18s  %8.0f  %8.3f  %10.3f\n",
			r.Value, pose, r.Metrics["settle_step"], r.Metrics["drop"], r.Metrics["max_speed"])
	}
	return nil
}
