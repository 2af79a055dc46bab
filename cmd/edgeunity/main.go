package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/kailinx/edgeunity/internal/batch"
	"github.com/kailinx/edgeunity/internal/config"
	"github.com/kailinx/edgeunity/internal/errors"
	"github.com/kailinx/edgeunity/internal/history"
	"github.com/kailinx/edgeunity/internal/metrics"
	"github.com/kailinx/edgeunity/internal/operator"
)

var version = "dev"

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"edgeunity.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Detect struct {
		Input    string  `arg:"" help:"Input image path"`
		Output   string  `arg:"" optional:"" help:"Output image path (default: input with suffix)"`
		Operator string  `short:"o" help:"Operator name (see 'operators')"`
		Scale    float64 `help:"Gradient scale factor"`
		Delta    float64 `help:"Gradient offset"`
		Workers  int     `short:"w" help:"Worker pool size for parallel operators"`
	} `cmd:"" help:"Detect edges in a single image"`

	Batch struct {
		Dir      string `arg:"" help:"Directory of input images"`
		Operator string `short:"o" help:"Operator name (see 'operators')"`
		Jobs     int    `short:"j" default:"4" help:"Images processed concurrently"`
	} `cmd:"" help:"Detect edges in every image in a directory"`

	Watch struct {
		Dir      string `arg:"" help:"Directory to watch for images"`
		Operator string `short:"o" help:"Operator name (see 'operators')"`
	} `cmd:"" help:"Watch a directory and process new or changed images"`

	Operators struct{} `cmd:"" help:"List available operators"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Write a default configuration file"`

	History struct {
		Limit int `short:"n" default:"20" help:"Number of runs to show"`
	} `cmd:"" help:"Show recent pipeline runs"`

	Version struct{} `cmd:"" help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	adapter := errors.NewCLIErrorAdapter(CLI.Verbose, logger)

	cfg, err := loadConfig()
	if err != nil {
		adapter.Report(err)
		os.Exit(adapter.ExitCodeFor(err))
	}

	switch ctx.Command() {
	case "detect <input>", "detect <input> <output>":
		err = runDetect(cfg)
	case "batch <dir>":
		err = runBatch(cfg)
	case "watch <dir>":
		err = runWatch(cfg)
	case "operators":
		for _, name := range operator.Names() {
			fmt.Println(name)
		}
	case "init":
		err = runInit()
	case "history":
		err = runHistory(cfg)
	case "version":
		fmt.Printf("edgeunity %s\n", version)
	}

	if err != nil {
		adapter.Report(err)
		os.Exit(adapter.ExitCodeFor(err))
	}
}

// loadConfig reads the config file when present and falls back to defaults
// otherwise; an explicitly broken file is still an error.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(CLI.Config); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(CLI.Config)
}

// operatorOptions merges config values with command-line overrides.
func operatorOptions(cfg *config.Config, name string, scale, delta float64, workers int, rec metrics.Recorder) (string, operator.Options) {
	if name == "" {
		name = cfg.Operator.Name
	}
	opts := operator.Options{
		KernelSize: cfg.Operator.KernelSize,
		Scale:      cfg.Operator.Scale,
		Delta:      cfg.Operator.Delta,
		Workers:    cfg.Operator.Workers,
		Recorder:   rec,
	}
	if scale != 0 {
		opts.Scale = scale
	}
	if delta != 0 {
		opts.Delta = delta
	}
	if workers != 0 {
		opts.Workers = workers
	}
	return name, opts
}

func runDetect(cfg *config.Config) error {
	name, opts := operatorOptions(cfg, CLI.Detect.Operator, CLI.Detect.Scale, CLI.Detect.Delta, CLI.Detect.Workers, nil)
	op, err := operator.New(name, opts)
	if err != nil {
		return err
	}

	output := CLI.Detect.Output
	if output == "" {
		runner := &batch.Runner{OutputDir: cfg.Output.Directory, Suffix: cfg.Output.Suffix}
		output = runner.OutputPath(CLI.Detect.Input)
	}

	start := time.Now()
	edges, err := op.GetEdges(context.Background(), CLI.Detect.Input, output)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	slog.Info("edges written",
		"operator", op.Name(), "output", output,
		"height", edges.Height, "width", edges.Width, "duration", elapsed)

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		_, err = store.Append(context.Background(), history.Run{
			Operator:   op.Name(),
			InputPath:  CLI.Detect.Input,
			OutputPath: output,
			Height:     edges.Height,
			Width:      edges.Width,
			Workers:    opts.Workers,
			Duration:   elapsed,
			Outcome:    "success",
		})
		return err
	}
	return nil
}

func newRunner(cfg *config.Config, name string, jobs int, rec metrics.Recorder) (*batch.Runner, func(), error) {
	name, opts := operatorOptions(cfg, name, 0, 0, 0, rec)
	op, err := operator.New(name, opts)
	if err != nil {
		return nil, nil, err
	}

	runner := &batch.Runner{
		Operator:    op,
		OutputDir:   cfg.Output.Directory,
		Suffix:      cfg.Output.Suffix,
		Concurrency: jobs,
		Logger:      slog.Default(),
	}

	cleanup := func() {}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
		runner.Store = store
		cleanup = func() { _ = store.Close() }
	}
	return runner, cleanup, nil
}

func runBatch(cfg *config.Config) error {
	runner, cleanup, err := newRunner(cfg, CLI.Batch.Operator, CLI.Batch.Jobs, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := runner.ProcessDir(context.Background(), CLI.Batch.Dir, cfg.Watch.Extensions)
	if err != nil {
		return errors.InternalError("batch scan failed", err)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	slog.Info("batch finished", "processed", len(results)-failed, "failed", failed)
	if failed > 0 {
		return errors.New(errors.CategoryOperator, errors.SeverityError,
			fmt.Sprintf("%d of %d images failed", failed, len(results)))
	}
	return nil
}

func runWatch(cfg *config.Config) error {
	var rec metrics.Recorder
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
		srv := metrics.Serve(cfg.Metrics.Listen, reg)
		defer func() { _ = srv.Close() }()
		slog.Info("metrics listening", "addr", cfg.Metrics.Listen)
	}

	runner, cleanup, err := newRunner(cfg, CLI.Watch.Operator, 2, rec)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := batch.NewWatcher(runner, CLI.Watch.Dir, cfg.Watch.Extensions,
		time.Duration(cfg.Watch.DebounceSeconds)*time.Second,
		time.Duration(cfg.Watch.RescanMinutes)*time.Minute,
		slog.Default())
	return watcher.Run(ctx)
}

func runInit() error {
	if _, err := os.Stat(CLI.Config); err == nil && !CLI.Init.Force {
		return errors.ValidationFailed("config", CLI.Config+" already exists (use --force to overwrite)")
	}
	if err := os.WriteFile(CLI.Config, []byte(defaultConfigYAML), 0o644); err != nil {
		return errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "failed to write config file").
			WithContext("path", CLI.Config)
	}
	slog.Info("configuration written", "path", CLI.Config)
	return nil
}

const defaultConfigYAML = `# edgeunity configuration
operator:
  name: sobel          # sobel | parallel-sobel | prewitt | roberts-cross | opencv-* ...
  scale: 1.0           # multiplier applied to each raw gradient sum
  delta: 0.0           # offset added after scaling
  workers: 0           # parallel variants; 0 means all CPUs

output:
  directory: ""        # empty writes next to the input
  suffix: "_edges"

metrics:
  enabled: false
  listen: ":9464"

history:
  enabled: false
  path: edgeunity.db

watch:
  debounce_seconds: 2
  rescan_minutes: 10
  extensions: []       # empty means every decodable image format
`

func runHistory(cfg *config.Config) error {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(context.Background(), CLI.History.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}
	for _, run := range runs {
		fmt.Printf("%s  %-22s %4dx%-4d %8s  %-7s %s -> %s\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Operator, run.Width, run.Height,
			run.Duration.Round(time.Millisecond), run.Outcome,
			run.InputPath, run.OutputPath)
	}
	return nil
}
