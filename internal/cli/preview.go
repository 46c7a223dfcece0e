package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/arice/trmnl-astro/internal/config"
)

// newPreviewCmd creates the preview command, which serves the output
// directory over HTTP so the chart can be checked in a browser before the
// Pages deploy picks it up.
func newPreviewCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve the output directory over HTTP",
		Example: `  # Serve the configured output directory on :8080
  trmnl-astro preview

  # Pick another port
  trmnl-astro preview --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			r := chi.NewRouter()
			r.Use(middleware.RequestID)
			r.Use(middleware.Recoverer)
			r.Use(middleware.NoCache)
			r.Handle("/*", http.FileServer(http.Dir(cfg.Output.Dir)))

			srv := &http.Server{
				Addr:              addr,
				Handler:           r,
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			printInfo("Serving %s on http://localhost%s", cfg.Output.Dir, addr)
			logger.Info("preview server listening", "addr", addr, "dir", cfg.Output.Dir)

			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}
