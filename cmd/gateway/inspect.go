package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"model_gateway/internal/fetch"
	"model_gateway/internal/httpapi"
	"model_gateway/internal/models"
	"model_gateway/internal/providers"
	"model_gateway/internal/resolver"
	"model_gateway/internal/utils"
)

// withDeps runs fn against freshly built dependencies and closes them after.
func withDeps(ctx context.Context, fn func(*httpapi.Dependencies, string, []models.ProviderConfig) error) error {
	cfg, deps, err := setup(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	configs, err := deps.Configs.ProviderConfigs(ctx)
	if err != nil {
		return err
	}
	return fn(deps, cfg.GatewayBaseURL(), configs)
}

func modelsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the model catalog of every configured provider",
		Long: `List models as JSON.

By default only chat models are listed, de-duplicated and ordered the same
way as GET /openai/models. Use --all for every provider's full catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *httpapi.Dependencies, _ string, configs []models.ProviderConfig) error {
				if all {
					return utils.WriteIndentedJSON(cmd.OutOrStdout(), d.Resolver.FetchAll(cmd.Context(), configs))
				}
				return utils.WriteIndentedJSON(cmd.OutOrStdout(), d.Resolver.ChatModels(cmd.Context(), configs))
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include every provider and capability")
	return cmd
}

func selectCmd() *cobra.Command {
	var providerType string

	cmd := &cobra.Command{
		Use:   "select <capability>",
		Short: "Pick the provider config that serves a capability",
		Long: `Pick the provider config to use for a capability only some vendors offer.

DEFAULT_PROVIDER_CONFIG_ID is tried first when its vendor qualifies, then
vendors in priority order. The first config whose API key verifies wins.

Capabilities: image-generation, web-search`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			capability := models.Capability(args[0])
			return withDeps(cmd.Context(), func(d *httpapi.Dependencies, _ string, configs []models.ProviderConfig) error {
				preferred := resolver.Preference{
					ConfigID: d.DefaultConfigID,
					Type:     models.ProviderType(providerType),
				}
				cfg, err := d.Resolver.SelectForCapability(cmd.Context(), configs, capability, preferred)
				if err != nil {
					return err
				}
				return utils.WriteIndentedJSON(cmd.OutOrStdout(), cfg)
			})
		},
	}
	cmd.Flags().StringVar(&providerType, "type", "", "Preferred provider type when no default config applies")
	return cmd
}

// checkResult is one line of verify or credits output.
type checkResult struct {
	ConfigID string          `json:"configId"`
	Type     string          `json:"type"`
	OK       bool            `json:"ok"`
	Error    string          `json:"error,omitempty"`
	Credits  *models.Credits `json:"credits,omitempty"`
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check every configured API key against its provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *httpapi.Dependencies, _ string, configs []models.ProviderConfig) error {
				outcomes := fetch.FanOut(cmd.Context(), fetch.DefaultConcurrency, configs,
					func(ctx context.Context, cfg models.ProviderConfig) (struct{}, error) {
						adapter, err := d.Registry.ForConfig(cfg)
						if err != nil {
							return struct{}{}, err
						}
						return struct{}{}, adapter.VerifyAPIKey(ctx, cfg.APIKey, cfg.BaseURL)
					})

				results := make([]checkResult, len(configs))
				failed := 0
				for i, cfg := range configs {
					results[i] = checkResult{ConfigID: cfg.ID, Type: string(cfg.Type), OK: outcomes[i].Err == nil}
					if err := outcomes[i].Err; err != nil {
						results[i].Error = err.Error()
						failed++
					}
				}
				if err := utils.WriteIndentedJSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d provider configs failed verification", failed, len(configs))
				}
				return nil
			})
		},
	}
}

func creditsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "credits",
		Short: "Show the prepaid balance of aggregator providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *httpapi.Dependencies, _ string, configs []models.ProviderConfig) error {
				var results []checkResult
				for _, cfg := range configs {
					adapter, err := d.Registry.ForConfig(cfg)
					if err != nil {
						return err
					}
					fetcher, ok := adapter.(providers.CreditsFetcher)
					if !ok {
						continue
					}

					res := checkResult{ConfigID: cfg.ID, Type: string(cfg.Type)}
					credits, err := fetcher.FetchCredits(cmd.Context(), cfg)
					if err != nil {
						res.Error = err.Error()
					} else {
						res.OK = true
						res.Credits = credits
					}
					results = append(results, res)
				}

				if len(results) == 0 {
					fmt.Fprintln(os.Stderr, "No configured provider reports credits")
					return nil
				}
				return utils.WriteIndentedJSON(cmd.OutOrStdout(), results)
			})
		},
	}
}
