package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/glassdial/internal/config"
	"github.com/san-kum/glassdial/internal/engine"
	"github.com/san-kum/glassdial/internal/export"
	"github.com/san-kum/glassdial/internal/glass"
	"github.com/san-kum/glassdial/internal/input"
	"github.com/san-kum/glassdial/internal/metrics"
	"github.com/san-kum/glassdial/internal/storage"
	"github.com/san-kum/glassdial/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	fps        int
	frames     int
	script     string
	random     bool
	magnitude  int32
	noAudio    bool
	svgOut     string
	svgScale   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "glassdial",
		Short: "interactive glass destruction toy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			if noAudio {
				cfg.Audio = false
			}
			return tui.Run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".glassdial", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	rootCmd.PersistentFlags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	rootCmd.Flags().BoolVar(&noAudio, "no-audio", false, "disable tone cues")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless session and save the result",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	runCmd.Flags().StringVar(&script, "script", "", "comma-separated rotation deltas")
	runCmd.Flags().BoolVar(&random, "random", false, "randomized rotation input")
	runCmd.Flags().Int32Var(&magnitude, "magnitude", 2, "max random delta per frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's destruction level",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and events",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frame history to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "replay a run and export its final frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "", "output path (default stdout)")
	exportSVGCmd.Flags().Float64Var(&svgScale, "scale", 6.0, "SVG pixels per logical unit")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark session throughput",
		RunE:  benchSession,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig resolves preset, then config file, then flags; later layers
// only override what the user actually set.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return cfg, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = fps
	}
	return cfg, nil
}

func buildPoller(cfg config.Config) (input.Poller, error) {
	if random {
		return input.NewRandom(cfg.Seed, magnitude), nil
	}
	deltas, err := input.ParseScript(script)
	if err != nil {
		return nil, err
	}
	return input.NewScript(deltas), nil
}

func defaultMetrics() []engine.Metric {
	return []engine.Metric{
		metrics.NewPeakLevel(),
		metrics.NewTransitions(),
		metrics.NewCrackHighWater(),
		metrics.NewTimeInState(glass.Normal),
	}
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("frames") {
		cfg.Frames = frames
	}

	poller, err := buildPoller(cfg)
	if err != nil {
		return err
	}

	session := glass.NewSession(cfg.GlassTuning(), cfg.Seed)
	eng := engine.New(session, poller)
	for _, m := range defaultMetrics() {
		eng.AddMetric(m)
	}

	fmt.Printf("running %d frames...\n", cfg.Frames)
	start := time.Now()

	result, err := eng.Run(context.Background(), engine.Config{
		Frames:  cfg.Frames,
		FrameDt: cfg.FrameDt(),
		Start:   time.Unix(0, 0),
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Seed:      cfg.Seed,
		Frames:    cfg.Frames,
		FPS:       cfg.FPS,
		Preset:    preset,
		Script:    script,
		Random:    random,
		Magnitude: magnitude,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("final: %s at level %.3f\n", result.Final.State, result.Final.Level)
	fmt.Printf("state changes: %d\n", len(result.Events))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.4f\n", name, val)
	}
	return nil
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
	fmt.Fprintln(w, "ID\tTIME\tFRAMES\tSEED\tFINAL\tLEVEL\tCHANGES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%.3f\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Seed,
			run.FinalState,
			run.FinalLevel,
			len(run.Events),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	levels, _, err := st.LoadLevels(args[0])
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("frames: %d\n\n", len(levels))

	graph := asciigraph.Plot(levels,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.Caption("destruction level"),
	)
	fmt.Println(graph)
	fmt.Println()

	fmt.Println("state changes:")
	for _, ev := range meta.Events {
		fmt.Printf("  frame %5d  %s -> %s\n", ev.Frame, ev.Old, ev.New)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(meta, os.Stdout)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportCSV(args[0], os.Stdout)
}

// exportSVG replays a saved run from its stored seed and input, so the
// exported frame is exactly the one the run ended on.
func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	var poller input.Poller
	if meta.Random {
		poller = input.NewRandom(meta.Seed, meta.Magnitude)
	} else {
		deltas, err := input.ParseScript(meta.Script)
		if err != nil {
			return err
		}
		poller = input.NewScript(deltas)
	}

	tuning := glass.DefaultTuning()
	if meta.Preset != "" {
		if p := config.GetPreset(meta.Preset); p != nil {
			tuning = p.GlassTuning()
		}
	}
	session := glass.NewSession(tuning, meta.Seed)
	eng := engine.New(session, poller)

	frameDt := time.Second / time.Duration(config.DefaultFPS)
	if meta.FPS > 0 {
		frameDt = time.Second / time.Duration(meta.FPS)
	}

	var last glass.Frame
	err = eng.RunWithCallback(context.Background(), engine.Config{
		Frames:  meta.Frames,
		FrameDt: frameDt,
		Start:   time.Unix(0, 0),
	}, func(frame int, f glass.Frame) bool {
		last = f
		return true
	})
	if err != nil {
		return err
	}

	svg := export.FrameSVG(last, tuning.Width, tuning.Height, svgScale)
	if svgOut == "" {
		fmt.Print(svg)
		return nil
	}
	return os.WriteFile(svgOut, []byte(svg), 0644)
}

func benchSession(cmd *cobra.Command, args []string) error {
	counts := []int{1000, 10000, 100000}

	fmt.Println("benchmarking session throughput")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAMES\tTIME\tFRAMES/SEC")

	for _, n := range counts {
		session := glass.NewSession(glass.DefaultTuning(), seed)
		eng := engine.New(session, input.NewRandom(seed, 2))

		start := time.Now()
		_, err := eng.Run(context.Background(), engine.Config{
			Frames:  n,
			FrameDt: time.Second / 60,
			Start:   time.Unix(0, 0),
		})
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%d\t%v\t%.0f\n", n, elapsed, float64(n)/elapsed.Seconds())
	}
	return w.Flush()
}
