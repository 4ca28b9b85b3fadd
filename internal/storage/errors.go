package storage

import "errors"

var (
	// ErrProviderConfigNotFound is returned when a provider config is not found
	ErrProviderConfigNotFound = errors.New("provider config not found")
)
