// Package config provides configuration management for VPN Panel.
// It handles loading, saving, and validating panel settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yllada/vpn-panel/common"
)

// Config represents the application configuration.
// All settings are persisted to a YAML file in the user's config directory.
type Config struct {
	// ClientBinary is the VPN client executable the panel drives.
	ClientBinary string `yaml:"client_binary"`
	// GeoEndpoint is the IP-geolocation URL queried to verify the public identity.
	GeoEndpoint string `yaml:"geo_endpoint"`
	// LookupTimeout bounds a single geolocation request.
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
	// ProcessTimeout bounds a single VPN client invocation. Zero waits forever.
	ProcessTimeout time.Duration `yaml:"process_timeout"`
	// Credentials locates the saved VPN account.
	Credentials CredentialsConfig `yaml:"credentials"`
	// Notifications enables desktop notifications for connection events.
	Notifications bool `yaml:"notifications"`
	// Theme sets the color theme: "light", "dark", or "auto".
	Theme string `yaml:"theme"`

	path string
}

// CredentialsConfig describes where the VPN account is read from.
type CredentialsConfig struct {
	// Source is "file" (INI file under the user's home) or "keyring".
	Source string `yaml:"source"`
	// Path is the INI file path relative to the invoking user's home.
	Path string `yaml:"path"`
	// Section and Key locate the username inside the INI file.
	Section string `yaml:"section"`
	Key     string `yaml:"key"`
	// KeyringService is the service name used with the keyring source.
	KeyringService string `yaml:"keyring_service"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ClientBinary:   common.DefaultClientBinary,
		GeoEndpoint:    common.DefaultGeoEndpoint,
		LookupTimeout:  common.LookupTimeout,
		ProcessTimeout: common.ProcessTimeout,
		Credentials: CredentialsConfig{
			Source:         common.CredentialSourceFile,
			Path:           common.DefaultCredentialsPath,
			Section:        common.DefaultCredentialsSection,
			Key:            common.DefaultCredentialsKey,
			KeyringService: common.DefaultKeyringService,
		},
		Notifications: false,
		Theme:         common.ThemeAuto,
	}
}

// Load loads the configuration from path, or from the default location
// when path is empty. If the file doesn't exist, it creates one with
// default values.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = getConfigPath()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return cfg, fmt.Errorf("%w: %v", common.ErrConfigSave, err)
		}
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: error opening configuration: %v", common.ErrConfigLoad, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true) // Strict validation: reject unknown fields

	// Start from defaults so omitted keys keep sensible values.
	config := DefaultConfig()
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("%w: error parsing configuration: %v", common.ErrConfigLoad, err)
	}
	config.path = path

	config.validate()

	return config, nil
}

// validate normalises invalid values back to their defaults.
func (c *Config) validate() {
	defaults := DefaultConfig()

	if c.ClientBinary == "" {
		c.ClientBinary = defaults.ClientBinary
	}
	if c.GeoEndpoint == "" {
		c.GeoEndpoint = defaults.GeoEndpoint
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = defaults.LookupTimeout
	}
	if c.ProcessTimeout < 0 {
		c.ProcessTimeout = 0
	}

	switch c.Credentials.Source {
	case common.CredentialSourceFile, common.CredentialSourceKeyring:
	default:
		c.Credentials.Source = defaults.Credentials.Source
	}
	if c.Credentials.Path == "" {
		c.Credentials.Path = defaults.Credentials.Path
	}
	if c.Credentials.Section == "" {
		c.Credentials.Section = defaults.Credentials.Section
	}
	if c.Credentials.Key == "" {
		c.Credentials.Key = defaults.Credentials.Key
	}
	if c.Credentials.KeyringService == "" {
		c.Credentials.KeyringService = defaults.Credentials.KeyringService
	}

	switch c.Theme {
	case common.ThemeAuto, common.ThemeLight, common.ThemeDark:
	default:
		c.Theme = common.ThemeAuto
	}
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Save saves the configuration to the file it was loaded from.
func (c *Config) Save() error {
	configPath := c.path
	if configPath == "" {
		var err error
		configPath, err = getConfigPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error serializing configuration: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("error saving configuration: %w", err)
	}

	return nil
}

func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", common.ConfigDirName, common.ConfigFileName), nil
}
