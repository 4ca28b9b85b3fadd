package httpapi

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
)

// WriteEnvFile writes the env contract of this gateway process to path as
// sorted KEY=VALUE lines. The values carry the process secret, so the file
// is only valid while this process serves and is kept owner-readable.
func (d *Dependencies) WriteEnvFile(ctx context.Context, gatewayBaseURL, path string) error {
	configs, err := d.Configs.ProviderConfigs(ctx)
	if err != nil {
		return err
	}

	env := d.Registry.EnvForProviderConfigs(gatewayBaseURL, configs)
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, env[k])
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict env file: %w", err)
	}
	return nil
}
