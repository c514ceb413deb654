package cmd

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/isometry/razorpay-interakt-app/internal/config"
	"github.com/isometry/razorpay-interakt-app/internal/metrics"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownGrace = 10 * time.Second

// cmdService is the command for running as a standalone HTTP service.
func cmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		PreRunE: func(_ *cobra.Command, _ []string) error {
			logger.Info("Spawning...")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rtm, err := setup(ctx)
			if err != nil {
				return errors.Wrap(err, "failed to setup service")
			}

			if err = metrics.Setup(config.Global.Metrics.PushURL, config.Global.Metrics.PushInterval, config.Global.Metrics.Labels); err != nil {
				return err
			}

			logger.Debug("Creating HTTP server...")
			s := &http.Server{
				Handler:           rtm.HTTPHandler(),
				Addr:              net.JoinHostPort(config.Service.Addr, config.Service.Port),
				WriteTimeout:      config.Service.Timeout,
				ReadTimeout:       config.Service.Timeout,
				ReadHeaderTimeout: config.Service.Timeout,
				IdleTimeout:       config.Service.Timeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Serving...", "address", s.Addr, "timeout", config.Service.Timeout.String())
				errCh <- s.ListenAndServe()
			}()

			select {
			case err = <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				logger.Info("Shutting down...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
				defer cancel()
				return s.Shutdown(shutdownCtx)
			}
		},
	}

	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapDuration)

	return cmd
}
