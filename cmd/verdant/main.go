package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/verdantlab/verdant/internal/bridge"
	"github.com/verdantlab/verdant/internal/config"
	"github.com/verdantlab/verdant/internal/engine"
	"github.com/verdantlab/verdant/internal/runner"
	"github.com/verdantlab/verdant/internal/scenario"
	"github.com/verdantlab/verdant/internal/store"
	"github.com/verdantlab/verdant/internal/viz"
)

var (
	dataDir    string
	seedText   string
	scenarioID string
	dtMs       int
	cycles     int
	speed      float64
	biomeName  string
	// Accessibility toggles
	colorAgnostic bool
	reducedMotion bool
	photoSafe     bool
	// Config file and preset
	configFile string
	presetName string
	// run output options
	saveRun   bool
	jsonOut   bool
	plotAfter bool
	// plot column
	column string
	// export output path
	outPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "verdant",
		Short: "deterministic life-simulation visualizer",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the live view when no command given
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".verdant", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run trace")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "write the trace as JSON to stdout")
	runCmd.Flags().BoolVar(&plotAfter, "plot", false, "plot vitality after the run")

	scrubCmd := &cobra.Command{
		Use:   "scrub [cycle]",
		Short: "reconstruct the snapshot at an arbitrary cycle",
		Args:  cobra.ExactArgs(1),
		RunE:  scrubToCycle,
	}
	addSimFlags(scrubCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a trace column of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "vitality", "trace column to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "re-run a saved configuration and export full uniforms as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&outPath, "out", "", "output file (stdout if empty)")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list available scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLABEL\tDESCRIPTION")
			for _, s := range scenario.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Label, s.Description)
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in configuration presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, scrubCmd, liveCmd, listCmd, plotCmd, exportCmd, scenariosCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&seedText, "seed", config.DefaultSeed, "seed text")
	cmd.Flags().StringVar(&scenarioID, "scenario", config.DefaultScenario, "scenario id")
	cmd.Flags().IntVar(&dtMs, "dt-ms", runner.DefaultDtMs, "fixed timestep in milliseconds")
	cmd.Flags().IntVar(&cycles, "cycles", config.DefaultCycles, "number of cycles")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "playback speed multiplier")
	cmd.Flags().StringVar(&biomeName, "biome", engine.DefaultBiome, "biome tuning")
	cmd.Flags().BoolVar(&colorAgnostic, "color-agnostic", false, "shape-first rendering, hue shifts disabled")
	cmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "cap motion amplitudes")
	cmd.Flags().BoolVar(&photoSafe, "photosafe", false, "cap pulse and flicker intensity")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&presetName, "preset", "", "use a built-in preset")
}

// buildConfig resolves preset, config file and CLI flags in that order,
// with later sources winning for flags the user actually set.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if presetName != "" {
		p := config.GetPreset(presetName)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seedText
	}
	if cmd.Flags().Changed("scenario") {
		cfg.Scenario = scenarioID
	}
	if cmd.Flags().Changed("dt-ms") {
		cfg.DtMs = dtMs
	}
	if cmd.Flags().Changed("cycles") {
		cfg.Cycles = cycles
	}
	if cmd.Flags().Changed("speed") {
		cfg.Speed = speed
	}
	if cmd.Flags().Changed("biome") {
		cfg.Biome = biomeName
	}
	if cmd.Flags().Changed("color-agnostic") {
		cfg.Accessibility.ColorAgnostic = colorAgnostic
	}
	if cmd.Flags().Changed("reduced-motion") {
		cfg.Accessibility.ReducedMotion = reducedMotion
	}
	if cmd.Flags().Changed("photosafe") {
		cfg.Accessibility.PhotosensitivitySafe = photoSafe
	}

	return cfg, nil
}

// newRunner builds a bridge and runner from the resolved config and applies
// the configured settings to the bridge before the first cycle.
func newRunner(cfg *config.Config) (*runner.Runner, *bridge.Bridge, error) {
	set, err := cfg.Settings()
	if err != nil {
		return nil, nil, err
	}

	b := bridge.New()
	b.SetSettings(set)

	run, err := runner.New(cfg.RunnerConfig(), b)
	if err != nil {
		return nil, nil, err
	}
	return run, b, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Cycles < 1 {
		return fmt.Errorf("cycles must be at least 1, got %d", cfg.Cycles)
	}

	run, _, err := newRunner(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s / %s for %d cycles...\n", cfg.Scenario, cfg.Seed, cfg.Cycles)
	start := time.Now()

	run.Start()
	trace := make([]engine.Snapshot, 0, cfg.Cycles)
	for i := 0; i < cfg.Cycles; i++ {
		trace = append(trace, run.StepOnce())
	}

	elapsed := time.Since(start)
	last := trace[len(trace)-1]

	fractures := 0
	for _, snap := range trace {
		if snap.MacroMutationFired {
			fractures++
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("final phase: %s\n", last.Life.Phase)
	fmt.Printf("final vitality: %.4f\n", last.Uniforms.UVitality)
	fmt.Printf("final stress: %.4f\n", last.Life.Stress)
	fmt.Printf("fractures: %d\n", fractures)

	if saveRun {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(runTuple(cfg), trace)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	if jsonOut {
		if err := store.ExportJSONStdout(runTuple(cfg), trace); err != nil {
			return err
		}
	}

	if plotAfter {
		data := make([]float64, len(trace))
		for i, snap := range trace {
			data[i] = snap.Uniforms.UVitality
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("vitality vs cycle"),
		))
	}

	return nil
}

func scrubToCycle(cmd *cobra.Command, args []string) error {
	target, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid cycle %q: %w", args[0], err)
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	run, _, err := newRunner(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progress := func(done, total int) {
		fmt.Fprintf(os.Stderr, "replayed %d/%d cycles\r", done, total)
	}

	start := time.Now()
	snap, err := run.SnapshotAtCycle(ctx, target, progress)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "reconstructed cycle %d in %v\n", target, time.Since(start))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Cycle    int                   `json:"cycle"`
		Time     float64               `json:"time"`
		Phase    engine.Phase          `json:"phase"`
		Stress   float64               `json:"stress"`
		Plants   engine.PlantSelection `json:"plants_top3"`
		Uniforms engine.Uniforms       `json:"uniforms"`
	}{
		Cycle:    snap.CycleIndex,
		Time:     snap.Time,
		Phase:    snap.Life.Phase,
		Stress:   snap.Life.Stress,
		Plants:   snap.PlantsTop3,
		Uniforms: snap.Uniforms,
	})
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	run, b, err := newRunner(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(run, b))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEED\tSCENARIO\tBIOME\tTIME\tCYCLES\tDT\tPHASE\tVITALITY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%dms\t%s\t%.3f\n",
			run.ID,
			run.Seed,
			run.Scenario,
			run.Biome,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Cycles,
			run.DtMs,
			run.FinalPhase,
			run.FinalVitality,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	data, err := st.TraceColumn(runID, column)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%s)\n", meta.Scenario, meta.Biome)
	fmt.Printf("samples: %d\n\n", len(data))

	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s vs cycle", column)),
	))

	return nil
}

// runTuple collects everything replay needs: accessibility and overrides
// alter the cycle stream just like seed, scenario, timestep and biome.
func runTuple(cfg *config.Config) store.RunTuple {
	return store.RunTuple{
		Seed:          cfg.Seed,
		Scenario:      cfg.Scenario,
		DtMs:          cfg.DtMs,
		Biome:         cfg.Biome,
		Accessibility: cfg.Accessibility,
		Overrides:     cfg.Overrides,
	}
}

// exportRun replays a saved run from its reproducibility tuple, so the
// exported uniforms match the original run without storing them.
func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	cfg := &config.Config{
		Seed:          meta.Seed,
		Scenario:      meta.Scenario,
		DtMs:          meta.DtMs,
		Biome:         meta.Biome,
		Accessibility: meta.Accessibility,
		Overrides:     meta.Overrides,
	}
	run, _, err := newRunner(cfg)
	if err != nil {
		return err
	}

	run.Start()
	trace := make([]engine.Snapshot, 0, meta.Cycles)
	for i := 0; i < meta.Cycles; i++ {
		trace = append(trace, run.StepOnce())
	}

	if outPath == "" {
		return store.ExportJSONStdout(meta.RunTuple, trace)
	}
	if err := store.ExportJSON(outPath, meta.RunTuple, trace); err != nil {
		return err
	}
	fmt.Printf("exported %d cycles to %s\n", len(trace), outPath)
	return nil
}
