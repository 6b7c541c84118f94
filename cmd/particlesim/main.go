package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/particlesim/internal/analysis"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/export"
	"github.com/san-kum/particlesim/internal/metrics"
	"github.com/san-kum/particlesim/internal/nbody"
	"github.com/san-kum/particlesim/internal/storage"
	"github.com/san-kum/particlesim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string

	bodies     int
	width      float64
	height     float64
	workers    int
	targetJobs int
	dt         float64
	steps      int
	seed       int64
	validate   bool
	every      int

	benchWorkers []int
	outFile      string
	svgWidth     int
	svgHeight    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "particlesim",
		Short:         "parallel 2D gravitational particle simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".particlesim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its series",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&validate, "validate", false, "check for NaN/Inf after every step")
	runCmd.Flags().IntVar(&every, "every", 1, "record a sample every N steps")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure steps/sec across worker counts",
		Args:  cobra.NoArgs,
		RunE:  benchWorkerCounts,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().IntSliceVar(&benchWorkers, "worker-counts", []int{1, 2, 4, 8}, "worker counts to compare")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "drift and frequency analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a run's final positions as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 1280, "image width in pixels")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 720, "image height in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initConfigCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, listCmd, plotCmd, analyzeCmd,
		exportCmd, exportSVGCmd, presetsCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.Warning.Render("error:"), err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&bodies, "bodies", def.Bodies, "number of particles")
	cmd.Flags().Float64Var(&width, "width", def.Width, "world width")
	cmd.Flags().Float64Var(&height, "height", def.Height, "world height")
	cmd.Flags().IntVar(&workers, "workers", def.Workers, "worker goroutines")
	cmd.Flags().IntVar(&targetJobs, "target-jobs", def.TargetJobs, "jobs per step; chunk = bodies / target-jobs")
	cmd.Flags().Float64Var(&dt, "dt", def.Dt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", def.Steps, "number of steps")
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "random seed")
}

// resolveConfig layers preset, then config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
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

	flags := cmd.Flags()
	if flags.Changed("bodies") {
		cfg.Bodies = bodies
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("target-jobs") {
		cfg.TargetJobs = targetJobs
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Lookup("validate") != nil && flags.Changed("validate") {
		cfg.CheckFinite = validate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func warnDropped(e *nbody.Engine) {
	if d := e.Dropped(); d > 0 {
		fmt.Println(viz.Warning.Render(fmt.Sprintf(
			"warning: %d of %d bodies fall outside the job range (chunk %d x %d jobs) and receive no force",
			d, e.Bodies(), e.ChunkSize(), e.Jobs())))
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	e, err := nbody.New(cfg.Options())
	if err != nil {
		return err
	}
	defer e.Close()

	series := metrics.NewSeries(e.Params().Mass, every)
	ms := metrics.Defaults(e.Params().Mass, float32(cfg.Width), float32(cfg.Height))
	e.AddObserver(series)
	for _, m := range ms {
		e.AddObserver(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(viz.Title.Render(fmt.Sprintf("running %d bodies for %d steps", e.Bodies(), cfg.Steps)))
	warnDropped(e)

	began := time.Now()
	for i := 0; i < cfg.Steps; i++ {
		if ctx.Err() != nil {
			fmt.Println(viz.StatusPaused.Render(fmt.Sprintf("interrupted after %d steps", e.Steps())))
			break
		}
		if err := e.Step(float32(cfg.Dt)); err != nil {
			return err
		}
		if cfg.CheckFinite {
			if err := e.Validate(); err != nil {
				return err
			}
		}
	}
	elapsed := time.Since(began)

	x, y := e.Positions()
	meta := storage.RunMetadata{
		Preset:     preset,
		Seed:       cfg.Seed,
		Bodies:     e.Bodies(),
		Width:      cfg.Width,
		Height:     cfg.Height,
		Workers:    e.Workers(),
		ChunkSize:  e.ChunkSize(),
		Dropped:    e.Dropped(),
		Dt:         cfg.Dt,
		Steps:      e.Steps(),
		G:          cfg.Physics.G,
		Mass:       cfg.Physics.Mass,
		Epsilon:    cfg.Physics.Epsilon,
		WallTimeMs: float64(elapsed.Microseconds()) / 1000,
		Metrics:    metrics.Values(ms),
	}
	runID, err := st.Save(meta, series.Samples, x.Slice(), y.Slice())
	if err != nil {
		return err
	}

	fmt.Println(viz.Metric("completed", elapsed.String()))
	fmt.Println(viz.Metric("run id", runID))
	fmt.Println(viz.Metric("steps", fmt.Sprintf("%d", e.Steps())))
	fmt.Println(viz.Metric("chunk", fmt.Sprintf("%d x %d jobs", e.ChunkSize(), e.Jobs())))
	fmt.Println("\nmetrics:")
	for _, m := range ms {
		fmt.Println(viz.Metric("  "+m.Name(), fmt.Sprintf("%.6f", m.Value())))
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	title := "particlesim"
	if preset != "" {
		title = preset
	}
	opts := cfg.Options()
	m, err := viz.NewLiveModel(title, func() (*nbody.Engine, error) {
		return nbody.New(opts)
	}, float32(cfg.Dt), float32(cfg.Width), float32(cfg.Height))
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func benchWorkerCounts(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("steps") && cfg.Steps > 100 {
		cfg.Steps = 100
	}

	fmt.Printf("benchmarking %d bodies, %d steps\n\n", cfg.Bodies, cfg.Steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tCHUNK\tJOBS\tDROPPED\tTIME\tSTEPS/SEC\tSPEEDUP")

	var baseline float64
	for _, n := range benchWorkers {
		opts := cfg.Options()
		opts.Workers = n

		e, err := nbody.New(opts)
		if err != nil {
			return err
		}

		began := time.Now()
		for i := 0; i < cfg.Steps; i++ {
			if err := e.Step(float32(cfg.Dt)); err != nil {
				e.Close()
				return err
			}
		}
		elapsed := time.Since(began)
		e.Close()

		rate := float64(cfg.Steps) / elapsed.Seconds()
		if baseline == 0 {
			baseline = rate
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%v\t%.1f\t%.2fx\n",
			n, e.ChunkSize(), e.Jobs(), e.Dropped(), elapsed.Round(time.Microsecond), rate, rate/baseline)
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
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tBODIES\tWORKERS\tSTEPS\tDT\tWALL")

	for _, run := range runs {
		name := run.Preset
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.4f\t%.1fms\n",
			run.ID,
			name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Workers,
			run.Steps,
			run.Dt,
			run.WallTimeMs,
		)
	}

	return w.Flush()
}

type column struct {
	caption string
	field   func(metrics.Sample) float64
}

var seriesColumns = []column{
	{"kinetic energy", func(s metrics.Sample) float64 { return s.KineticEnergy }},
	{"position sum", func(s metrics.Sample) float64 { return s.PositionSum }},
	{"momentum x", func(s metrics.Sample) float64 { return s.MomentumX }},
	{"momentum y", func(s metrics.Sample) float64 { return s.MomentumY }},
	{"step time (ms)", func(s metrics.Sample) float64 { return float64(s.StepNanos) / 1e6 }},
}

func loadSeries(runID string) (*storage.RunMetadata, *metrics.Series, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	samples, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, errors.New("no data to plot")
	}

	return meta, &metrics.Series{Samples: samples}, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("bodies: %d\n", meta.Bodies)
	fmt.Printf("samples: %d\n\n", len(series.Samples))

	for _, c := range seriesColumns {
		graph := asciigraph.Plot(series.Column(c.field),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(c.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n\n", meta.ID)

	sampleDt := meta.Dt
	if len(series.Samples) > 1 {
		sampleDt = series.Samples[1].Time - series.Samples[0].Time
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tFIRST\tLAST\tDRIFT\tDOMINANT FREQ")
	for _, c := range seriesColumns {
		data := series.Column(c.field)
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\t%+.3e\t%.4g\n",
			c.caption, data[0], data[len(data)-1], analysis.Drift(data), analysis.DominantFrequency(data, sampleDt))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(series.Column(seriesColumns[0].field))
	if len(ps) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(ps,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("kinetic energy power spectrum"),
		))
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	x, y, err := st.LoadPositions(runID)
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	opts := export.DefaultSVGOptions()
	opts.Width, opts.Height = svgWidth, svgHeight
	drawn, err := export.WriteParticlesSVG(f, x, y, float32(meta.Width), float32(meta.Height), opts)
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d of %d particles in bounds)\n", path, drawn, len(x))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tWORLD\tWORKERS\tTARGET JOBS\tDT\tSTEPS\tG\tEPSILON")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%gx%g\t%d\t%d\t%g\t%d\t%g\t%g\n",
			name, p.Bodies, p.Width, p.Height, p.Workers, p.TargetJobs, p.Dt, p.Steps, p.Physics.G, p.Physics.Epsilon)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
