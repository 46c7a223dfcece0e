// Package pipeline provides the core chart update pipeline.
//
// This package implements the complete fetch → render → rasterize → publish →
// notify run that can be used by the CLI and by scheduled jobs. By
// centralizing this logic, we ensure consistent behavior across all entry
// points.
//
// # Architecture
//
// A run consists of five stages:
//
//  1. Fetch: Query the position API for the current sky
//  2. Render: Compute the wheel layout and emit SVG
//  3. Rasterize: Convert to PNG and quantize for the e-ink panel
//  4. Publish: Write the PNG into the static site checkout
//  5. Notify: Tell the TRMNL webhook where the fresh chart lives
//
// # Usage
//
// Create a Runner and execute a run:
//
//	runner := pipeline.NewRunner(ephemeris, notifier, logger)
//	opts := pipeline.Options{
//	    Location:  pipeline.Location{Name: "Brooklyn", City: "Brooklyn", Nation: "US",
//	        Latitude: 40.69, Longitude: -73.99, Timezone: "America/New_York"},
//	    OutputDir: "docs",
//	    SiteUser:  "arice",
//	    SiteRepo:  "astro-charts",
//	}
//	result, err := runner.Execute(ctx, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/arice/trmnl-astro/pkg/chart"
	"github.com/arice/trmnl-astro/pkg/errors"
)

// Canvas dimensions of the target panel.
const (
	DefaultWidth  = 800
	DefaultHeight = 480
)

// Location identifies where and in which timezone the sky is observed.
type Location struct {
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Nation    string  `json:"nation"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// Options contains all configuration for a chart update run.
type Options struct {
	// Fetch options
	Location Location `json:"location"`
	Bodies   []string `json:"bodies,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"`

	// Display options
	HideRetrograde bool `json:"hide_retrograde,omitempty"`
	HideMoonPhase  bool `json:"hide_moon_phase,omitempty"`
	HideHouses     bool `json:"hide_houses,omitempty"`

	// Publish options
	OutputDir string `json:"output_dir,omitempty"`
	SiteUser  string `json:"site_user,omitempty"`
	SiteRepo  string `json:"site_repo,omitempty"`

	// Notify options
	PluginUUID string `json:"plugin_uuid,omitempty"`
	SkipNotify bool   `json:"skip_notify,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a run.
type Result struct {
	// RunID uniquely identifies this run in logs and hooks.
	RunID string

	// Positions holds the fetched body positions.
	Positions chart.Positions

	// SVG and PNG are the rendered artifacts. PNG is already quantized.
	SVG []byte
	PNG []byte

	// Path is where the chart was published; URL is its public address.
	// Both are empty for render-only runs.
	Path string
	URL  string

	// Stats contains timing information.
	Stats Stats
}

// Stats contains run execution statistics.
type Stats struct {
	BodyCount     int
	FetchTime     time.Duration
	RenderTime    time.Duration
	RasterizeTime time.Duration
	PublishTime   time.Duration
	NotifyTime    time.Duration
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Location.Name == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "location name is required")
	}
	if o.Location.Timezone == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "location timezone is required")
	}
	if o.OutputDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output directory is required")
	}
	if !o.SkipNotify {
		if err := errors.ValidatePluginUUID(o.PluginUUID); err != nil {
			return err
		}
	}
	for _, body := range o.Bodies {
		if err := errors.ValidateBodyName(body); err != nil {
			return err
		}
	}

	if len(o.Bodies) == 0 {
		o.Bodies = chart.DefaultBodies
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Zone resolves the location's timezone. Falls back to UTC if the zone name
// is unknown so a bad config still produces a chart, just with UTC stamps.
func (o *Options) Zone() *time.Location {
	loc, err := time.LoadLocation(o.Location.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
