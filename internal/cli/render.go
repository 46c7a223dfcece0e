package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arice/trmnl-astro/internal/config"
	"github.com/arice/trmnl-astro/pkg/chart"
	"github.com/arice/trmnl-astro/pkg/ephemeris"
	"github.com/arice/trmnl-astro/pkg/pipeline"
	"github.com/arice/trmnl-astro/pkg/raster"
)

const (
	formatSVG = "svg"
	formatPNG = "png"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output base path, extension added per format
	formats   []string // output formats: "svg", "png"
	positions string   // positions snapshot to render instead of fetching
	refresh   bool     // bypass the position cache when fetching
}

// newRenderCmd creates the render command, which produces chart files locally
// without publishing or notifying. With --positions it renders a saved
// snapshot and needs no API at all.
func newRenderCmd(configPath *string) *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the chart to local files without publishing",
		Example: `  # Fetch current positions and write chart.svg
  trmnl-astro render

  # Write both SVG and quantized PNG
  trmnl-astro render --format svg,png -o out/chart

  # Re-render a saved snapshot offline
  trmnl-astro render --positions snapshot.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			for _, f := range opts.formats {
				if f != formatSVG && f != formatPNG {
					return fmt.Errorf("invalid format: %q (must be svg or png)", f)
				}
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			runOpts := cfg.PipelineOptions(config.Secrets{})
			runOpts.SkipNotify = true
			runOpts.Refresh = opts.refresh
			runOpts.Logger = logger
			now := time.Now().In(runOpts.Zone())

			var positions chart.Positions
			if opts.positions != "" {
				positions, err = readSnapshot(opts.positions)
			} else {
				positions, err = fetchPositions(cmd, runOpts, now)
			}
			if err != nil {
				return err
			}
			logger.Debug("have positions", "bodies", len(positions))

			runner := pipeline.NewRunner(nil, nil, logger)
			svg, err := runner.Render(positions, runOpts, now)
			if err != nil {
				return err
			}

			base := strings.TrimSuffix(opts.output, filepath.Ext(opts.output))
			for _, format := range opts.formats {
				path := base + "." + format
				data := svg
				if format == formatPNG {
					png, err := runner.Rasterize(svg, pipeline.DefaultWidth, pipeline.DefaultHeight)
					if err != nil {
						return err
					}
					if data, err = raster.Quantize(png); err != nil {
						return err
					}
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				printFile(path)
			}
			printSuccess("Rendered %d bodies", len(positions))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "chart", "output base path")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", []string{formatSVG}, "output formats (svg, png)")
	cmd.Flags().StringVar(&opts.positions, "positions", "", "render a positions snapshot instead of fetching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the position cache")

	return cmd
}

// readSnapshot loads a positions map saved as JSON.
func readSnapshot(path string) (chart.Positions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var positions chart.Positions
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return positions, nil
}

// fetchPositions queries the API for current positions. Only the API URL
// secret is needed; webhook and site credentials stay untouched.
func fetchPositions(cmd *cobra.Command, opts pipeline.Options, now time.Time) (chart.Positions, error) {
	secrets, err := config.LoadSecrets(false, false)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(ephemeris.NewClient(secrets.APIURL, nil), nil, loggerFromContext(cmd.Context()))
	return runner.Fetch(cmd.Context(), opts, now)
}
