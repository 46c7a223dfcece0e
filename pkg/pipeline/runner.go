package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/arice/trmnl-astro/pkg/chart"
	"github.com/arice/trmnl-astro/pkg/chart/sink"
	"github.com/arice/trmnl-astro/pkg/ephemeris"
	"github.com/arice/trmnl-astro/pkg/errors"
	"github.com/arice/trmnl-astro/pkg/notify"
	"github.com/arice/trmnl-astro/pkg/observability"
	"github.com/arice/trmnl-astro/pkg/publish"
	"github.com/arice/trmnl-astro/pkg/raster"
)

// Runner executes chart update runs. It is stateless apart from its clients
// and logger, so multiple goroutines can share one Runner with different
// options.
type Runner struct {
	Ephemeris *ephemeris.Client
	Notifier  *notify.Client
	Logger    *log.Logger

	// Rasterize converts SVG bytes to a PNG of the given dimensions.
	// Defaults to [raster.ToPNG], which requires librsvg; tests substitute
	// a stub so they run without the binary.
	Rasterize func(svg []byte, width, height int) ([]byte, error)

	// now is swapped in tests for deterministic timestamps.
	now func() time.Time
}

// NewRunner creates a runner. The notifier may be nil when runs always set
// SkipNotify.
func NewRunner(eph *ephemeris.Client, notifier *notify.Client, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Ephemeris: eph,
		Notifier:  notifier,
		Logger:    logger,
		Rasterize: raster.ToPNG,
		now:       time.Now,
	}
}

// Execute runs the complete fetch → render → rasterize → publish → notify
// pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID)
	now := r.now().In(opts.Zone())

	runStart := time.Now()
	observability.Run().OnRunStart(ctx, result.RunID)
	var runErr error
	defer func() {
		observability.Run().OnRunComplete(ctx, result.RunID, time.Since(runStart), runErr)
	}()

	// Stage 1: Fetch
	runErr = r.stage(ctx, "fetch", &result.Stats.FetchTime, func() error {
		positions, err := r.Fetch(ctx, opts, now)
		if err != nil {
			return err
		}
		result.Positions = positions
		return nil
	})
	if runErr != nil {
		return nil, fmt.Errorf("fetch: %w", runErr)
	}
	result.Stats.BodyCount = len(result.Positions)
	logger.Info("fetched positions",
		"bodies", result.Stats.BodyCount,
		"duration", result.Stats.FetchTime)

	// Stage 2: Render
	runErr = r.stage(ctx, "render", &result.Stats.RenderTime, func() error {
		svg, err := r.Render(result.Positions, opts, now)
		if err != nil {
			return err
		}
		result.SVG = svg
		return nil
	})
	if runErr != nil {
		return nil, fmt.Errorf("render: %w", runErr)
	}
	logger.Info("rendered chart",
		"bytes", len(result.SVG),
		"duration", result.Stats.RenderTime)

	// Stage 3: Rasterize
	runErr = r.stage(ctx, "rasterize", &result.Stats.RasterizeTime, func() error {
		png, err := r.Rasterize(result.SVG, DefaultWidth, DefaultHeight)
		if err != nil {
			return err
		}
		result.PNG, err = raster.Quantize(png)
		return err
	})
	if runErr != nil {
		return nil, fmt.Errorf("rasterize: %w", runErr)
	}
	logger.Info("rasterized chart",
		"bytes", len(result.PNG),
		"duration", result.Stats.RasterizeTime)

	// Stage 4: Publish
	publisher, err := publish.New(opts.OutputDir, opts.SiteUser, opts.SiteRepo)
	if err != nil {
		runErr = err
		return nil, err
	}
	runErr = r.stage(ctx, "publish", &result.Stats.PublishTime, func() error {
		path, err := publisher.Publish(result.PNG)
		if err != nil {
			return err
		}
		result.Path = path
		result.URL = publisher.URL(now)
		return nil
	})
	if runErr != nil {
		return nil, fmt.Errorf("publish: %w", runErr)
	}
	logger.Info("published chart", "path", result.Path, "url", result.URL)

	// Stage 5: Notify
	if opts.SkipNotify {
		logger.Debug("skipping webhook")
		return result, nil
	}
	if r.Notifier == nil {
		runErr = errors.New(errors.ErrCodeInvalidConfig, "notifier not configured")
		return nil, runErr
	}
	runErr = r.stage(ctx, "notify", &result.Stats.NotifyTime, func() error {
		return r.Notifier.Notify(ctx, opts.PluginUUID, result.URL, now)
	})
	if runErr != nil {
		return nil, fmt.Errorf("notify: %w", runErr)
	}
	logger.Info("notified display", "duration", result.Stats.NotifyTime)

	return result, nil
}

// Fetch queries the position API for the configured location at time now.
func (r *Runner) Fetch(ctx context.Context, opts Options, now time.Time) (chart.Positions, error) {
	if r.Ephemeris == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "ephemeris client not configured")
	}
	subject := ephemeris.SubjectAt(
		opts.Location.Name, opts.Location.City, opts.Location.Nation,
		opts.Location.Latitude, opts.Location.Longitude, opts.Location.Timezone,
		now)
	return r.Ephemeris.Positions(ctx, subject, opts.Bodies, opts.Refresh)
}

// Render produces the SVG scene for already-fetched positions. Exposed so
// the CLI can re-render a saved snapshot without hitting the API.
func (r *Runner) Render(positions chart.Positions, opts Options, now time.Time) ([]byte, error) {
	sinkOpts := []sink.SVGOption{
		sink.WithLocation(opts.Location.Name),
		sink.WithTimestamp(now),
	}
	if opts.HideRetrograde {
		sinkOpts = append(sinkOpts, sink.WithoutRetrograde())
	}
	if opts.HideMoonPhase {
		sinkOpts = append(sinkOpts, sink.WithoutMoonPhase())
	}
	if opts.HideHouses {
		sinkOpts = append(sinkOpts, sink.WithoutHouses())
	}
	return sink.RenderSVG(positions, opts.Bodies, sinkOpts...)
}

// stage runs fn with timing and observability hooks.
func (r *Runner) stage(ctx context.Context, name string, d *time.Duration, fn func() error) error {
	observability.Run().OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	*d = time.Since(start)
	observability.Run().OnStageComplete(ctx, name, *d, err)
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
