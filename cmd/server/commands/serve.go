package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/benvon/content-api/internal/config"
	"github.com/benvon/content-api/internal/logger"
	"github.com/benvon/content-api/internal/ratelimit"
	"github.com/benvon/content-api/internal/server"
	"github.com/benvon/content-api/internal/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// NewServeCmd creates the serve command
func NewServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  "Start the HTTP server and run until SIGINT or SIGTERM",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}
}

func runServe(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	zapLogger, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync(zapLogger) }()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTELEnabled {
		tp, err := telemetry.InitTracer(ctx, telemetry.ServiceName, config.APIVersion, cfg.OTELEndpoint)
		if err != nil {
			zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			cfg.OTELEnabled = false
		} else {
			zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
				defer cancel()
				if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
					zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
				}
			}()
		}
	}

	limiter := ratelimit.NewFromRate(cfg.Rate)
	sweeper := ratelimit.NewSweeper(limiter, limiter.Window(), zapLogger)
	go func() {
		if err := sweeper.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("rate_limit_sweeper_stopped_with_error", zap.Error(err))
		}
	}()

	srv := server.New(cfg, zapLogger, limiter)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zapLogger.Error("server_failed_to_start", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server_forced_to_shutdown", zap.Error(err))
		return err
	}
	return <-errCh
}
