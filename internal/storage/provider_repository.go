package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"model_gateway/internal/models"
)

// providerConfigRow mirrors the provider_configs table. The API key is
// stored AES-GCM encrypted.
type providerConfigRow struct {
	ID              string `db:"id"`
	ProviderType    string `db:"provider_type"`
	EncryptedAPIKey string `db:"encrypted_api_key"`
	BaseURL         string `db:"base_url"`
	DisplayName     string `db:"display_name"`
	SubType         string `db:"sub_type"`
	CacheIdentifier string `db:"cache_identifier"`
}

const providerConfigColumns = `
	id, provider_type, encrypted_api_key,
	COALESCE(base_url, '') AS base_url,
	COALESCE(display_name, '') AS display_name,
	COALESCE(sub_type, '') AS sub_type,
	COALESCE(cache_identifier, '') AS cache_identifier`

// ProviderConfigSchema creates the provider_configs table.
const ProviderConfigSchema = `
CREATE TABLE IF NOT EXISTS provider_configs (
	id                TEXT PRIMARY KEY,
	provider_type     TEXT NOT NULL,
	encrypted_api_key TEXT NOT NULL DEFAULT '',
	base_url          TEXT,
	display_name      TEXT,
	sub_type          TEXT,
	cache_identifier  TEXT,
	position          INTEGER NOT NULL DEFAULT 0,
	enabled           BOOLEAN NOT NULL DEFAULT TRUE,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// ProviderConfigRepository loads provider configs from Postgres.
type ProviderConfigRepository struct {
	db         *DB
	encryption *Encryption
}

// NewProviderConfigRepository creates a new provider config repository
func NewProviderConfigRepository(db *DB, encryption *Encryption) *ProviderConfigRepository {
	return &ProviderConfigRepository{db: db, encryption: encryption}
}

// GetByID retrieves a provider config by ID
func (r *ProviderConfigRepository) GetByID(ctx context.Context, id string) (*models.ProviderConfig, error) {
	var row providerConfigRow
	query := `SELECT ` + providerConfigColumns + ` FROM provider_configs WHERE id = $1 AND enabled`

	if err := r.db.conn.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProviderConfigNotFound
		}
		return nil, fmt.Errorf("failed to get provider config: %w", err)
	}

	cfg, err := r.toModel(row)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// List returns all enabled provider configs in their configured order.
func (r *ProviderConfigRepository) List(ctx context.Context) ([]models.ProviderConfig, error) {
	query := `SELECT ` + providerConfigColumns + ` FROM provider_configs WHERE enabled ORDER BY position, id`

	var rows []providerConfigRow
	if err := r.db.conn.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list provider configs: %w", err)
	}

	configs := make([]models.ProviderConfig, 0, len(rows))
	for _, row := range rows {
		cfg, err := r.toModel(row)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// EnsureSchema creates the provider_configs table if it is missing.
func (r *ProviderConfigRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.conn.ExecContext(ctx, ProviderConfigSchema); err != nil {
		return fmt.Errorf("failed to create provider_configs table: %w", err)
	}
	return nil
}

// Upsert stores cfg at position, encrypting its API key. An existing row
// with the same ID is replaced and re-enabled.
func (r *ProviderConfigRepository) Upsert(ctx context.Context, cfg models.ProviderConfig, position int) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	encrypted := ""
	if cfg.APIKey != "" {
		var err error
		encrypted, err = r.encryption.EncryptString(cfg.APIKey)
		if err != nil {
			return fmt.Errorf("provider config %s: failed to encrypt api key: %w", cfg.ID, err)
		}
	}

	query := `
		INSERT INTO provider_configs (
			id, provider_type, encrypted_api_key, base_url, display_name,
			sub_type, cache_identifier, position, enabled
		) VALUES (
			:id, :provider_type, :encrypted_api_key, NULLIF(:base_url, ''), NULLIF(:display_name, ''),
			NULLIF(:sub_type, ''), NULLIF(:cache_identifier, ''), :position, TRUE
		)
		ON CONFLICT (id) DO UPDATE SET
			provider_type = EXCLUDED.provider_type,
			encrypted_api_key = EXCLUDED.encrypted_api_key,
			base_url = EXCLUDED.base_url,
			display_name = EXCLUDED.display_name,
			sub_type = EXCLUDED.sub_type,
			cache_identifier = EXCLUDED.cache_identifier,
			position = EXCLUDED.position,
			enabled = TRUE,
			updated_at = NOW()`

	row := struct {
		providerConfigRow
		Position int `db:"position"`
	}{
		providerConfigRow: providerConfigRow{
			ID:              cfg.ID,
			ProviderType:    string(cfg.Type),
			EncryptedAPIKey: encrypted,
			BaseURL:         cfg.BaseURL,
			DisplayName:     cfg.DisplayName,
			SubType:         cfg.SubType,
			CacheIdentifier: cfg.CacheIdentifier,
		},
		Position: position,
	}

	if _, err := r.db.conn.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to upsert provider config %s: %w", cfg.ID, err)
	}
	return nil
}

// Disable hides a provider config from List without deleting it.
func (r *ProviderConfigRepository) Disable(ctx context.Context, id string) error {
	res, err := r.db.conn.ExecContext(ctx, `UPDATE provider_configs SET enabled = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to disable provider config: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProviderConfigNotFound
	}
	return nil
}

// ProviderConfigs implements the provider config source contract.
func (r *ProviderConfigRepository) ProviderConfigs(ctx context.Context) ([]models.ProviderConfig, error) {
	return r.List(ctx)
}

func (r *ProviderConfigRepository) toModel(row providerConfigRow) (models.ProviderConfig, error) {
	providerType, err := models.ParseProviderType(row.ProviderType)
	if err != nil {
		return models.ProviderConfig{}, fmt.Errorf("provider config %s: %w", row.ID, err)
	}

	apiKey := ""
	if row.EncryptedAPIKey != "" {
		apiKey, err = r.encryption.DecryptString(row.EncryptedAPIKey)
		if err != nil {
			return models.ProviderConfig{}, fmt.Errorf("provider config %s: failed to decrypt api key: %w", row.ID, err)
		}
	}

	return models.ProviderConfig{
		ID:              row.ID,
		Type:            providerType,
		APIKey:          apiKey,
		BaseURL:         row.BaseURL,
		DisplayName:     row.DisplayName,
		SubType:         row.SubType,
		CacheIdentifier: row.CacheIdentifier,
	}, nil
}
