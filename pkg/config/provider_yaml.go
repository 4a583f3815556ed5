package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *Config
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the configuration from the YAML file on top of the defaults
func (y *YAMLProvider) LoadConfig() (*Config, error) {
	if y.config != nil {
		return y.config.Clone(), nil
	}

	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", y.filename, err)
	}

	config := DefaultConfig()
	if err := yaml.UnmarshalStrict(cfgFile, config); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", y.filename, err)
	}

	y.config = config
	return config.Clone(), nil
}
