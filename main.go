package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"github.com/pthm-cable/canefield/config"
	"github.com/pthm-cable/canefield/game"
	"github.com/pthm-cable/canefield/telemetry"
)

// cliOptions holds the parsed command line.
type cliOptions struct {
	configPath string
	steps      int
	seed       *int64 // nil = use config
	outputDir  string
	logStats   bool
	perf       bool
	workers    int
}

func parseFlags(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("canefield", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	fs.IntVar(&opts.steps, "steps", 0, "Steps to run (0 = use config)")
	fs.Func("seed", "RNG seed (unset = use config)", func(s string) error {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		opts.seed = &v
		return nil
	})
	fs.StringVar(&opts.outputDir, "output-dir", "", "Output directory for CSV series, summary and config snapshot")
	fs.BoolVar(&opts.logStats, "log-stats", false, "Output periodic stats via slog")
	fs.BoolVar(&opts.perf, "perf", false, "Collect and log per-phase step timing")
	fs.IntVar(&opts.workers, "workers", 1, "Goroutines used to grow patches (0 = GOMAXPROCS)")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	if opts.workers == 0 {
		opts.workers = runtime.GOMAXPROCS(0)
	}
	return opts, nil
}

// applyOverrides copies command line overrides into cfg.
func (o cliOptions) applyOverrides(cfg *config.Config) {
	if o.steps > 0 {
		cfg.Run.Steps = o.steps
	}
	if o.seed != nil {
		seed := *o.seed
		cfg.Run.Seed = &seed
	}
}

func main() {
	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(opts cliOptions) error {
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()
	opts.applyOverrides(cfg)

	var perfCollector *telemetry.PerfCollector
	if opts.perf {
		perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	}

	out, err := telemetry.NewOutputManager(opts.outputDir, cfg.Telemetry.CompressAgents)
	if err != nil {
		return err
	}
	defer out.Close()

	f, err := game.NewField(cfg, game.Options{Workers: opts.workers, Perf: perfCollector})
	if err != nil {
		return fmt.Errorf("building field: %w", err)
	}
	defer f.Close()

	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	width, height := f.Size()
	slog.Info("starting headless simulation",
		"seed", f.Seed(),
		"steps", cfg.Run.Steps,
		"width", width,
		"height", height,
		"patches", f.NumPatches(),
		"workers", opts.workers,
		"output_dir", out.Dir(),
	)

	logEvery := cfg.Telemetry.LogEvery
	for f.Tick() < cfg.Run.Steps {
		if err := f.Step(); err != nil {
			return err
		}

		if logEvery > 0 && f.Tick()%logEvery == 0 {
			if opts.logStats {
				bx, by, _ := f.BestPatch()
				telemetry.StepStats{
					Step:          f.Tick(),
					Rain:          f.Rain(),
					BestX:         bx,
					BestY:         by,
					AverageHeight: f.AverageHeight(),
					Cashflow:      f.Cashflow(),
					HarvestCount:  f.HarvestCount(),
				}.LogStats()
			}
			if perfCollector != nil {
				stats := perfCollector.Stats()
				stats.LogStats()
				if err := out.WritePerf(stats, f.Tick()); err != nil {
					slog.Error("failed to write perf", "error", err)
				}
			}
		}
	}

	slog.Info("max steps reached", "tick", f.Tick())

	summary := f.Summary(cfg.Telemetry.HistogramBins)
	slog.Info("run complete", "summary", summary)

	if err := out.WriteSeries(f.Recorder()); err != nil {
		return err
	}
	return out.WriteSummary(summary)
}
