package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/selimozcann/urlrisk/internal/config"
	"github.com/selimozcann/urlrisk/internal/handler"
	"github.com/selimozcann/urlrisk/internal/middleware"
	"github.com/selimozcann/urlrisk/internal/observability"
)

func newServeCmd() *cobra.Command {
	var (
		addr     string
		envFiles []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the scoring engine over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(envFiles...)
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides HTTP_ADDR)")
	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")
	return cmd
}

// buildHandler assembles the routes and the middleware chain.
func buildHandler(cfg config.Config, logger *slog.Logger, metrics *observability.Metrics) http.Handler {
	mux := http.NewServeMux()
	handler.NewServer(logger, metrics).RegisterRoutes(mux)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit)
	}
	return middleware.Chain(mux,
		middleware.Recover(logger),
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.RateLimit(limiter),
	)
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	metrics := observability.NewMetrics()

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      buildHandler(cfg, logger, metrics),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "rate_limit", cfg.RateLimit)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}
