package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arice/trmnl-astro/internal/config"
	"github.com/arice/trmnl-astro/pkg/ephemeris"
	"github.com/arice/trmnl-astro/pkg/notify"
	"github.com/arice/trmnl-astro/pkg/pipeline"
)

// updateOpts holds the command-line flags for the update command.
type updateOpts struct {
	refresh    bool   // bypass the position cache
	skipNotify bool   // publish without posting the webhook
	output     string // override the configured output directory
}

// newUpdateCmd creates the update command, which runs the full pipeline:
// fetch current positions, render the chart, rasterize it for the panel,
// publish it into the site checkout, and post the TRMNL webhook.
func newUpdateCmd(configPath *string) *cobra.Command {
	var opts updateOpts

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch positions, render the chart, publish, and notify the display",
		Example: `  # Full update using config.toml and environment secrets
  trmnl-astro update

  # Re-render even if cached positions are fresh
  trmnl-astro update --refresh

  # Publish the image but leave the display alone
  trmnl-astro update --skip-notify`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			secrets, err := config.LoadSecrets(true, !opts.skipNotify)
			if err != nil {
				return err
			}

			c, err := cfg.OpenCache(ctx)
			if err != nil {
				printWarning("Cache unavailable, continuing without: %v", err)
				c = nil
			} else {
				defer c.Close()
			}

			var notifier *notify.Client
			if !opts.skipNotify {
				notifier, err = notify.NewClient("", secrets.TRMNLKey)
				if err != nil {
					return err
				}
			}

			runner := pipeline.NewRunner(ephemeris.NewClient(secrets.APIURL, c), notifier, logger)

			runOpts := cfg.PipelineOptions(secrets)
			runOpts.Refresh = opts.refresh
			runOpts.SkipNotify = opts.skipNotify
			runOpts.Logger = logger
			if opts.output != "" {
				runOpts.OutputDir = opts.output
			}

			track := newProgress(logger)
			spinner := newSpinnerWithContext(ctx, "Updating chart...")
			spinner.Start()

			result, err := runner.Execute(ctx, runOpts)
			if err != nil {
				spinner.StopWithError(fmt.Sprintf("Update failed: %v", err))
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Updated chart with %d bodies", result.Stats.BodyCount))

			printFile(result.Path)
			printLink(result.URL)
			if opts.skipNotify {
				printDetail("Webhook skipped")
			} else {
				printDetail("Display notified")
			}
			track.done("Update complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the position cache")
	cmd.Flags().BoolVar(&opts.skipNotify, "skip-notify", false, "publish without posting the TRMNL webhook")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "override the output directory")

	return cmd
}
