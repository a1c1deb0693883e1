/*
Package config manages TOML config for the address parser.

InitConfig handles automatic config file creation and loading with fallback to defaults.
LoadConfig and SaveConfig provide direct fs for runtime changes.
Update allows targeted parameter changes with persistence.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/addrstat/addrstat/internal/utils"
	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Features FeatureConfig `toml:"features"`
	Loader   LoaderConfig  `toml:"loader"`
	CLI      CliConfig     `toml:"cli"`
}

// FeatureConfig holds on/off switches for the optional feature-extraction
// families. They are saved and loaded with the rest of the config;
// ExtractFeatures does not read them, so each family runs whenever its
// resource is loaded.
type FeatureConfig struct {
	EnableSubWords    bool `toml:"enable_sub_words"`
	EnableVenueLookup bool `toml:"enable_venue_lookup"`
	EnablePostalCode  bool `toml:"enable_postal_code"`
}

// LoaderConfig holds a model-directory default and a trie-size bound. They
// are saved and loaded with the rest of the config; LoadFromDirectory does
// not read them.
type LoaderConfig struct {
	DefaultModelDir string `toml:"default_model_dir"`
	MaxTrieBytes    int    `toml:"max_trie_bytes"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultModelDir string `toml:"default_model_dir"`
	Verbose         bool   `toml:"verbose"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Features: FeatureConfig{
			EnableSubWords:    true,
			EnableVenueLookup: true,
			EnablePostalCode:  true,
		},
		Loader: LoaderConfig{
			DefaultModelDir: "./model",
			MaxTrieBytes:    64 << 20,
		},
		CLI: CliConfig{
			DefaultModelDir: "./model",
			Verbose:         false,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return nil, err
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			return nil, err
		}
		log.Debugf("Created default config file at: ( %s )", configPath)
		return config, nil
	}
	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config, using defaults: %v", err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		log.Errorf("Failed to decode config file: %v", err)
		return nil, err
	}
	return &config, nil
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the config values and saves to file
func (c *Config) Update(configPath string, modelDir *string, verbose *bool, enablePostalCode *bool) error {
	if modelDir != nil {
		c.CLI.DefaultModelDir = *modelDir
	}
	if verbose != nil {
		c.CLI.Verbose = *verbose
	}
	if enablePostalCode != nil {
		c.Features.EnablePostalCode = *enablePostalCode
	}
	return SaveConfig(c, configPath)
}
