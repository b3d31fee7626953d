package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/dpdsim/internal/analysis"
	"github.com/san-kum/dpdsim/internal/config"
	"github.com/san-kum/dpdsim/internal/dpd"
	"github.com/san-kum/dpdsim/internal/export"
	"github.com/san-kum/dpdsim/internal/metrics"
	"github.com/san-kum/dpdsim/internal/neighbor"
	"github.com/san-kum/dpdsim/internal/sim"
	"github.com/san-kum/dpdsim/internal/storage"
	"github.com/san-kum/dpdsim/internal/thermostat"
	"github.com/san-kum/dpdsim/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	particles   int
	dt          float64
	steps       int
	temperature float64
	seed        int64
	sampleEvery int
	frameRate   int
	numRuns     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dpdsim",
		Short: "dissipative particle dynamics with an implicit pairwise thermostat",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dpdsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run independent seeded replicas in parallel",
		RunE:  runEnsemble,
	}
	addRunFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 4, "number of replicas")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the temperature trace of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "radial distribution function of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "export the final frame of a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, ensembleCmd, listCmd, plotCmd, analyzeCmd, snapshotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "preset name")
	cmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "number of particles")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Float64Var(&temperature, "temp", config.DefaultTemperature, "target temperature")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&sampleEvery, "sample", config.DefaultSampleEvery, "trajectory sample interval")
}

// loadConfig merges preset, config file and CLI flags, flags winning.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
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

	if cmd.Flags().Changed("particles") {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("temp") {
		cfg.Temperature = temperature
	}
	if cmd.Flags().Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	return cfg, cfg.Validate()
}

// buildSimulator assembles the thermostat, neighbor builder and initial
// state for one replica.
func buildSimulator(cfg *config.Config, replicaSeed int64) (*sim.Simulator, dpd.Vector, dpd.Vector, float64, error) {
	coeffs, err := cfg.CoeffTable()
	if err != nil {
		return nil, nil, nil, 0, err
	}

	th, err := thermostat.New(coeffs, cfg.Dt, cfg.SolverOptions())
	if err != nil {
		return nil, nil, nil, 0, err
	}

	box := neighbor.Box{L: cfg.BoxLength(), Periodic: true}
	builder := neighbor.NewBuilder(box, coeffs, cfg.ParticleTypes(), replicaSeed)

	rng := rand.New(rand.NewSource(replicaSeed))
	pos := sim.Lattice(cfg.Particles, box.L, rng)
	vel := sim.MaxwellVelocities(cfg.Particles, cfg.Temperature, rng)

	s := sim.New(th, builder, box)
	s.AddMetric(metrics.NewTemperature())
	s.AddMetric(metrics.NewMomentumDrift())
	s.AddMetric(metrics.NewSolverIterations(th))

	return s, pos, vel, box.L, nil
}

func simConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		Steps:         cfg.Steps,
		SampleEvery:   cfg.SampleEvery,
		Seed:          cfg.Seed,
		ValidateState: true,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, pos, vel, box, err := buildSimulator(cfg, cfg.Seed)
	if err != nil {
		return err
	}

	fmt.Printf("running %d particles for %d steps (dt=%g, T=%g)...\n",
		cfg.Particles, cfg.Steps, cfg.Dt, cfg.Temperature)
	start := time.Now()

	result, err := s.Run(context.Background(), pos, vel, simConfig(cfg))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Particles, box, cfg.Dt, cfg.Steps, cfg.Temperature, cfg.Seed, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	fmt.Println(viz.SummaryPanel(result.Metrics))
	ss := result.SolverStats
	fmt.Printf("solver: %d solves, %.2f iterations/solve, %.2f products/solve, %v total\n",
		ss.Solves, ratio(ss.Iterations, ss.Solves), ratio(ss.Applies, ss.Solves), ss.Elapsed.Round(time.Millisecond))

	return nil
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, pos, vel, box, err := buildSimulator(cfg, cfg.Seed)
	if err != nil {
		return err
	}
	return viz.Run(s, pos, vel, box, frameRate)
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("need at least 1 replica, got %d", numRuns)
	}

	_, pos, vel, _, err := buildSimulator(cfg, cfg.Seed)
	if err != nil {
		return err
	}

	ens := sim.NewEnsemble(func(replicaSeed int64) (*sim.Simulator, error) {
		s, _, _, _, err := buildSimulator(cfg, replicaSeed)
		return s, err
	}, numRuns, cfg.Seed)

	fmt.Printf("running %d replicas of %d particles...\n", numRuns, cfg.Particles)
	start := time.Now()
	results, err := ens.Run(context.Background(), pos, vel, simConfig(cfg))
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", time.Since(start))

	temps := make([]float64, 0, len(results))
	for i, r := range results {
		t := r.Metrics["temperature"]
		temps = append(temps, t)
		fmt.Printf("  replica %d: temperature %.4f, momentum drift %.2e\n",
			i, t, r.Metrics["momentum_drift"])
	}
	fmt.Printf("ensemble temperature: %.4f +/- %.4f (target %g)\n",
		stat.Mean(temps, nil), stat.StdDev(temps, nil), cfg.Temperature)

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

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPARTICLES\tSTEPS\tDT\tTEMP\tTIME")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%g\t%s\n",
			r.ID, r.Particles, r.Steps, r.Dt, r.Temperature,
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	temps := make([]float64, 0, len(frames))
	for _, fr := range frames {
		temps = append(temps, metrics.KineticTemperature(fr.Vel))
	}
	fmt.Println(viz.TemperaturePlot(temps, 15))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("run %s has too few frames", args[0])
	}

	// Skip the first half as equilibration.
	box := neighbor.Box{L: meta.Box, Periodic: true}
	rdf := analysis.ComputeRDF(frames[len(frames)/2:], box, meta.Box/2, 50)
	fmt.Println(viz.RDFPlot(rdf.G, 15))
	return nil
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", args[0])
	}

	out := filepath.Join(dataDir, args[0], "snapshot.svg")
	last := frames[len(frames)-1]
	if err := export.WriteSnapshotSVG(out, last.Pos, meta.Box, 600); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}
