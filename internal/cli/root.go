package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/arice/trmnl-astro/pkg/buildinfo"
)

// Execute runs the trmnl-astro CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "trmnl-astro",
		Short:        "trmnl-astro keeps an astrology chart fresh on a TRMNL display",
		Long:         `trmnl-astro fetches current planetary positions, renders them as a zodiac wheel chart tuned for 2-bit e-ink, publishes the image to a static site, and tells the TRMNL display to pick it up.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default config.toml)")

	root.AddCommand(newUpdateCmd(&configPath))
	root.AddCommand(newRenderCmd(&configPath))
	root.AddCommand(newPreviewCmd(&configPath))
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}
