package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"model_gateway/internal/config"
	"model_gateway/internal/logging"
	"model_gateway/internal/storage"
)

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate an ENCRYPTION_KEY for the provider config database",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := storage.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}

func importProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-providers <file>",
		Short: "Copy provider configs from a YAML file into the database",
		Long: `Read a providers YAML file and upsert every config into the
provider_configs table, encrypting API keys with ENCRYPTION_KEY.

Example:
  DATABASE_URL=postgres://... ENCRYPTION_KEY=$(gateway keygen) gateway import-providers providers.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			if err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
				return err
			}

			configs, err := config.LoadProviderConfigs(args[0])
			if err != nil {
				return err
			}

			encryption, err := storage.NewEncryptionFromHex(cfg.EncryptionKey)
			if err != nil {
				return err
			}
			db, err := storage.NewDB(storage.DBConfig{
				DSN:             cfg.Database.URL,
				MaxOpenConns:    cfg.Database.MaxOpenConns,
				MaxIdleConns:    cfg.Database.MaxIdleConns,
				ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
				ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
			})
			if err != nil {
				return err
			}
			defer db.Close()

			repo := storage.NewProviderConfigRepository(db, encryption)
			if err := repo.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			for i, pc := range configs {
				if err := repo.Upsert(cmd.Context(), pc, i); err != nil {
					return err
				}
				logging.Logger().Info().
					Str("config_id", pc.ID).
					Str("provider_type", string(pc.Type)).
					Msg("imported provider config")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d provider configs\n", len(configs))
			return nil
		},
	}
}
