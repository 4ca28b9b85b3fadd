// Package main provides the model gateway entrypoint.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"model_gateway/internal/config"
	"model_gateway/internal/httpapi"
	"model_gateway/internal/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gateway",
		Short: "Local AI model gateway",
		Long: `Gateway: one local endpoint in front of many AI model providers.

Usage modes:
  gateway            Start the HTTP gateway (same as 'gateway serve')
  gateway <command>  Inspect the configured providers

All settings come from the environment; see PROVIDERS_FILE and DATABASE_URL.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), "")
		},
	}

	rootCmd.AddCommand(
		serveCmd(),
		modelsCmd(),
		selectCmd(),
		verifyCmd(),
		creditsCmd(),
		keygenCmd(),
		importProvidersCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads configuration, configures logging and builds every service.
func setup(ctx context.Context) (*config.Config, *httpapi.Dependencies, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	deps, err := httpapi.NewDependencies(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, deps, nil
}
