package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// LoadConfig returns the complete run configuration. Fields the source
	// does not mention keep the values of DefaultConfig.
	LoadConfig() (*Config, error)
}

// Load builds the run configuration from the defaults, an optional YAML file
// and WEATHERVIS_* environment overrides, in that order of precedence.
func Load(filename string) (*Config, error) {
	var base ConfigProvider = DefaultProvider{}
	if filename != "" {
		base = NewYAMLProvider(filename)
	}

	cfg, err := NewEnvProvider(EnvPrefix, base).LoadConfig()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultProvider serves DefaultConfig unchanged
type DefaultProvider struct{}

// LoadConfig returns a fresh copy of the defaults
func (DefaultProvider) LoadConfig() (*Config, error) {
	return DefaultConfig(), nil
}
