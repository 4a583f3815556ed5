package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces the environment overrides, e.g. WEATHERVIS_INPUT_PATH.
const EnvPrefix = "WEATHERVIS"

// EnvProvider layers environment variable overrides on top of another provider
type EnvProvider struct {
	prefix string
	base   ConfigProvider
}

// NewEnvProvider creates a provider that reads base and then applies
// prefix_* environment variables. Unset variables leave base values alone.
func NewEnvProvider(prefix string, base ConfigProvider) *EnvProvider {
	return &EnvProvider{
		prefix: prefix,
		base:   base,
	}
}

// LoadConfig loads the base configuration and applies environment overrides
func (e *EnvProvider) LoadConfig() (*Config, error) {
	cfg, err := e.base.LoadConfig()
	if err != nil {
		return nil, err
	}

	if err := envconfig.Process(e.prefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return cfg, nil
}
