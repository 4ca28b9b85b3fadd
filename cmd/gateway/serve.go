package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"model_gateway/internal/httpapi"
	"model_gateway/internal/logging"
)

func serveCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		Long: `Start the HTTP gateway.

With --env-file (or GATEWAY_ENV_FILE) the gateway writes KEY=VALUE lines that
point vendor SDKs at this process. The keys are only valid while it runs.

Example:
  gateway serve --env-file ~/.gateway.env &
  set -a; . ~/.gateway.env; set +a`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "Write the SDK env contract of this process to a file")
	return cmd
}

func runServe(parent context.Context, envFile string) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, deps, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logging.Logger().Warn().Err(err).Msg("failed to close dependencies")
		}
	}()

	// Background provider config reloads stop with ctx
	deps.Start(ctx)

	if envFile == "" {
		envFile = cfg.Gateway.EnvFile
	}
	if envFile != "" {
		if err := deps.WriteEnvFile(ctx, cfg.GatewayBaseURL(), envFile); err != nil {
			return err
		}
		logging.Logger().Info().Str("path", envFile).Msg("wrote SDK env file")
	}

	addr := ":" + cfg.HTTPPort
	server := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
		// Streaming completions can run for minutes, so no write timeout
		IdleTimeout: 120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.Logger().Info().
			Str("addr", addr).
			Str("base_url", cfg.GatewayBaseURL()).
			Msg("gateway listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logging.Logger().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Logger().Warn().Err(err).Msg("server forced to shutdown")
	}

	logging.Logger().Info().Msg("server exited")
	return nil
}
