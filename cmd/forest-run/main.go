package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"forest-disease/internal/core"
	"forest-disease/internal/metrics"
	"forest-disease/internal/report"
	"forest-disease/internal/sims/forest"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/labstack/echo/v4"
	"github.com/spf13/pflag"
)

type options struct {
	config      string
	seed        int64
	overrides   []string
	maxTicks    int
	tps         int
	logEvery    int
	chart       string
	video       string
	videoScale  int
	videoFPS    int
	metricsAddr string
}

func main() {
	var opts options
	pflag.StringVar(&opts.config, "config", "", "YAML file with forest parameters")
	pflag.Int64Var(&opts.seed, "seed", 0, "seed for the run (0 keeps the config seed)")
	pflag.StringArrayVar(&opts.overrides, "set", nil, "parameter override in key=value form (repeatable)")
	pflag.IntVar(&opts.maxTicks, "max-ticks", 10000, "stop after this many ticks even if trees remain healthy (0 = no limit)")
	pflag.IntVar(&opts.tps, "tps", 0, "pace the run at this many ticks per second (0 = as fast as possible)")
	pflag.IntVar(&opts.logEvery, "log-every", 50, "log progress every N ticks (0 disables)")
	pflag.StringVar(&opts.chart, "chart", "", "write a PNG chart of counts per tick (\"auto\" names it after the run id)")
	pflag.StringVar(&opts.video, "video", "", "write an MJPEG AVI with one frame per tick (\"auto\" names it after the run id)")
	pflag.IntVar(&opts.videoScale, "video-scale", 4, "pixel scale of video frames")
	pflag.IntVar(&opts.videoFPS, "video-fps", 10, "frame rate of the video")
	pflag.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	pflag.Parse()

	runID := uuid.New()
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "forest-run",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	}).With("run", runID.String()[:8])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, runID, logger); err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, runID uuid.UUID, logger *log.Logger) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	world, err := forest.NewWorld(cfg)
	if err != nil {
		return err
	}

	collector := metrics.New()
	collector.Attach(world)
	if opts.metricsAddr != "" {
		shutdown := serveMetrics(opts.metricsAddr, collector, logger)
		defer shutdown()
	}

	var rec *report.Recorder
	if path := outputPath(opts.video, runID, "avi"); path != "" {
		rec, err = report.NewRecorder(path, world.Size(), opts.videoScale, opts.videoFPS)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Error("close video", "path", path, "err", err)
				return
			}
			logger.Info("video written", "path", path, "frames", rec.Frames())
		}()
		if err := rec.Record(world.Cells(), world.Palette()); err != nil {
			return err
		}
	}

	logger.Info("starting",
		"w", cfg.Width, "h", cfg.Height, "seed", cfg.Seed,
		"density", cfg.Params.Density, "mortality", cfg.Params.Mortality,
		"wind", cfg.Params.Wind, "distance", cfg.Params.Distance,
		"trees", world.NumTrees())

	var pacer *core.FixedStep
	if opts.tps > 0 {
		pacer = core.NewFixedStep(opts.tps)
	}

	start := time.Now()
	for world.Running() {
		if opts.maxTicks > 0 && world.Tick() >= opts.maxTicks {
			logger.Warn("tick limit reached", "ticks", world.Tick())
			break
		}
		if pacer != nil {
			if !pacer.Wait(ctx) {
				break
			}
		} else if ctx.Err() != nil {
			break
		}
		world.Step()
		collector.ObserveTick(world)
		if rec != nil {
			if err := rec.Record(world.Cells(), world.Palette()); err != nil {
				return err
			}
		}
		if opts.logEvery > 0 && world.Tick()%opts.logEvery == 0 {
			c := world.Counts()
			logger.Info("progress", "tick", world.Tick(), "healthy", c.Healthy, "infected", c.Infected, "dead", c.Dead)
		}
	}
	if ctx.Err() != nil {
		logger.Warn("interrupted", "tick", world.Tick())
	}

	c := world.Counts()
	logger.Info("finished",
		"tick", world.Tick(), "phase", world.Phase(),
		"healthy", c.Healthy, "infected", c.Infected, "dead", c.Dead,
		"elapsed", time.Since(start).Round(time.Millisecond))

	if path := outputPath(opts.chart, runID, "png"); path != "" {
		if err := writeChart(path, world.History()); err != nil {
			return err
		}
		logger.Info("chart written", "path", path)
	}
	return nil
}

func loadConfig(opts options) (forest.Config, error) {
	cfg := forest.DefaultConfig()
	if opts.config != "" {
		loaded, err := forest.LoadConfig(opts.config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	overrides := make(map[string]string, len(opts.overrides))
	for _, kv := range opts.overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return cfg, ierrors.Wrapf(forest.ErrInvalidConfig, "override %q: expected key=value", kv)
		}
		overrides[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	cfg = cfg.Apply(overrides)
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}
	return cfg, cfg.Validate()
}

func outputPath(value string, runID uuid.UUID, ext string) string {
	if value != "auto" {
		return value
	}
	return fmt.Sprintf("forest-%s.%s", runID, ext)
}

func writeChart(path string, history []forest.Counts) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return report.WriteCountsChart(f, history, report.DefaultChartOptions())
}

func serveMetrics(addr string, collector *metrics.Collector, logger *log.Logger) func() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(collector.Handler()))

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := e.Start(addr); err != nil && !ierrors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = e.Shutdown(ctx)
	}
}
