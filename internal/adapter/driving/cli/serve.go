package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diillson/campaign-analytics-go/internal/adapter/driving/httpapi"
)

const shutdownTimeout = 10 * time.Second

func (app *CLIApp) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.serve(cmd.Context())
		},
	}
	cmd.Flags().String("listen", "", "Listen address (default "+DefaultListenAddr+")")
	return cmd
}

// serve runs the HTTP API until ctx ends or the process is interrupted.
func (app *CLIApp) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              app.config.ListenAddr,
		Handler:           httpapi.NewRouter(app.services, app.logger, httpapi.NewMetrics("campaign_analytics")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("registry", app.services.DescribeRegistry(ctx)),
			zap.String("version", app.version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	app.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
