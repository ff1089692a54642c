// Package config loads and saves the daemon's YAML profile configuration
// and resolves managed secrets from the OS keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/99designs/keyring"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultKeyringService names the keyring service managed secrets live under.
const DefaultKeyringService = "ahkgo"

// DefaultPath is the config file the daemon uses when none is given.
const DefaultPath = "ahkd.yaml"

// Config is the daemon configuration. Secrets maps logical secret names to
// the marker "managed"; the values themselves live in the OS keyring and
// are resolved into an unexported runtime map at load time.
type Config struct {
	UseNotifications bool              `yaml:"use_notifications"`
	Endpoint         string            `yaml:"endpoint,omitempty"`
	Profiles         []Profile         `yaml:"profiles"`
	Secrets          map[string]string `yaml:"secrets,omitempty"`

	configPath      string
	keyringService  string
	resolvedSecrets map[string]string
	logger          *zap.Logger
}

// Profile groups a named, toggleable set of bindings.
type Profile struct {
	Name       string             `yaml:"name"`
	Enabled    bool               `yaml:"enabled"`
	Hotkeys    []HotkeyBinding    `yaml:"hotkeys,omitempty"`
	Hotstrings []HotstringBinding `yaml:"hotstrings,omitempty"`
	Remaps     []RemapBinding     `yaml:"remaps,omitempty"`
}

// HotkeyBinding binds a key combo to sending text or running a command.
// Exactly one of Send and Run should be set.
type HotkeyBinding struct {
	Keys string `yaml:"keys"`
	Send string `yaml:"send,omitempty"`
	Run  string `yaml:"run,omitempty"`
}

// HotstringBinding expands a typed trigger into a replacement. When Secret
// is set, the replacement is the resolved keyring value instead of the
// Replacement field.
type HotstringBinding struct {
	Trigger       string `yaml:"trigger"`
	Replacement   string `yaml:"replacement,omitempty"`
	Secret        string `yaml:"secret,omitempty"`
	CaseSensitive bool   `yaml:"case_sensitive,omitempty"`
	InsideWord    bool   `yaml:"inside_word,omitempty"`
	NoEndChar     bool   `yaml:"no_end_char,omitempty"`
	RawText       bool   `yaml:"raw_text,omitempty"`
}

// RemapBinding remaps one key to act as another.
type RemapBinding struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// GetConfigPath returns the path this config was loaded from.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// GetResolvedSecrets returns the secrets resolved from the keyring at load
// time, keyed by logical name.
func (c *Config) GetResolvedSecrets() map[string]string {
	if c.resolvedSecrets == nil {
		return make(map[string]string)
	}
	return c.resolvedSecrets
}

// ResolveReplacement returns the expansion text for a hotstring binding,
// resolving a secret reference if the binding carries one.
func (c *Config) ResolveReplacement(h HotstringBinding) (string, error) {
	if h.Secret == "" {
		return h.Replacement, nil
	}
	value, ok := c.GetResolvedSecrets()[h.Secret]
	if !ok {
		return "", fmt.Errorf("secret %q is not resolved; add it via the tray menu or check keyring access", h.Secret)
	}
	return value, nil
}

// Load reads and parses the configuration file, creating a default one if
// it does not exist, and resolves managed secrets from the keyring.
// A nil logger disables logging.
func Load(configPath string, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file %q: %w", configPath, err)
		}
		logger.Info("config file not found, creating default", zap.String("path", configPath))
		if createErr := CreateDefaultConfig(configPath); createErr != nil {
			return nil, fmt.Errorf("config file not found and default creation failed for %q: %w", configPath, createErr)
		}
		data, err = os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file %q after creating default: %w", configPath, err)
		}
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", configPath, err)
	}

	config.configPath = configPath
	config.keyringService = DefaultKeyringService
	config.logger = logger
	config.resolvedSecrets = make(map[string]string)

	if len(config.Secrets) > 0 {
		config.loadSecrets()
	} else {
		logger.Debug("no managed secrets in config, skipping keyring")
	}

	return &config, nil
}

// loadSecrets resolves every managed secret name from the keyring. Failures
// are logged rather than fatal: bindings referencing an unresolved secret
// fail individually at registration time.
func (c *Config) loadSecrets() {
	c.logger.Info("loading secrets from keyring",
		zap.String("service", c.keyringService),
		zap.Int("count", len(c.Secrets)))

	kr, err := openKeyring(c.keyringService)
	if err != nil {
		c.logger.Warn("failed to open keyring, secrets will not be resolved",
			zap.String("service", c.keyringService), zap.Error(err))
		return
	}

	for name := range c.Secrets {
		item, err := kr.Get(name)
		switch {
		case err == nil:
			c.resolvedSecrets[name] = string(item.Data)
			c.logger.Debug("resolved secret", zap.String("name", name))
		case errors.Is(err, keyring.ErrKeyNotFound):
			c.logger.Warn("secret not found in keyring, bindings using it will fail",
				zap.String("name", name))
		default:
			c.logger.Warn("error retrieving secret from keyring",
				zap.String("name", name), zap.Error(err))
		}
	}
}

func openKeyring(service string) (keyring.Keyring, error) {
	return keyring.Open(keyring.Config{
		ServiceName: service,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
		},
		LibSecretCollectionName:  "login",
		PassPrefix:               service,
		WinCredPrefix:            service,
		KeychainTrustApplication: true,
	})
}

// Save writes the current configuration back to its file.
func (c *Config) Save() error {
	if c.Secrets == nil {
		c.Secrets = make(map[string]string)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	// 0600: the config names secrets and launches commands.
	return os.WriteFile(c.configPath, data, 0600)
}

// AddSecretReference stores a secret value in the keyring and records its
// logical name in the config. The value is picked up on the next reload.
func (c *Config) AddSecretReference(name, value string) error {
	kr, err := openKeyring(c.keyringService)
	if err != nil {
		return fmt.Errorf("open keyring for service %q: %w", c.keyringService, err)
	}

	err = kr.Set(keyring.Item{
		Key:         name,
		Data:        []byte(value),
		Label:       fmt.Sprintf("Secret %s used by %s", name, c.keyringService),
		Description: "Managed by ahkgo",
	})
	if err != nil {
		return fmt.Errorf("store secret %q in keyring: %w", name, err)
	}

	if c.Secrets == nil {
		c.Secrets = make(map[string]string)
	}
	c.Secrets[name] = "managed"
	return c.Save()
}

// RemoveSecretReference deletes a secret from the keyring and drops its
// reference from the config. A secret missing from the keyring is still
// removed from the config.
func (c *Config) RemoveSecretReference(name string) error {
	kr, err := openKeyring(c.keyringService)
	if err != nil {
		return fmt.Errorf("open keyring for service %q: %w", c.keyringService, err)
	}

	err = kr.Remove(name)
	switch {
	case err == nil:
		c.logger.Info("deleted secret from keyring", zap.String("name", name))
	case errors.Is(err, keyring.ErrKeyNotFound):
		c.logger.Info("secret not in keyring, removing reference only", zap.String("name", name))
	default:
		c.logger.Warn("failed to delete secret from keyring",
			zap.String("name", name), zap.Error(err))
	}

	if c.Secrets != nil {
		delete(c.Secrets, name)
	}
	return c.Save()
}

// GetSecretNames returns the logical names of managed secrets, sorted.
func (c *Config) GetSecretNames() []string {
	names := make([]string, 0, len(c.Secrets))
	for name := range c.Secrets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateDefaultConfig writes a starter configuration if none exists.
func CreateDefaultConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("check config path %q: %w", configPath, err)
	}

	defaultConfig := &Config{
		UseNotifications: true,
		Secrets:          make(map[string]string),
		Profiles: []Profile{
			{
				Name:    "Examples",
				Enabled: true,
				Hotkeys: []HotkeyBinding{
					{Keys: "ctrl+alt+d", Send: "{U+2014}"},
				},
				Hotstrings: []HotstringBinding{
					{Trigger: "btw", Replacement: "by the way"},
				},
			},
			{
				Name:    "Secret Expansion",
				Enabled: false,
				Hotstrings: []HotstringBinding{
					// Add the secret via the tray menu, then enable the profile.
					{Trigger: "@@key", Secret: "my_api_key", NoEndChar: true},
				},
			},
		},
	}

	data, err := yaml.Marshal(defaultConfig)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("write default config file %q: %w", configPath, err)
	}
	return nil
}
