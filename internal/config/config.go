package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourorg/sigbridge/internal/keyref"
)

// contextKey is the key type used to store values in cli.Context
type contextKey string

const (
	ConfigKey  contextKey = "config"
	ContextKey contextKey = "context"
	LoggerKey  contextKey = "logger"
)

// KeystorePasswordEnv is consulted when a context references a keystore
// but carries no password of its own.
const KeystorePasswordEnv = "SIGBRIDGE_KEYSTORE_PASSWORD"

// Config represents the CLI configuration
type Config struct {
	CurrentContext string              `json:"currentContext,omitempty"`
	Contexts       map[string]*Context `json:"contexts,omitempty"`
}

// Context represents a configuration context: one named signing identity
// and the custody backend that holds its key.
type Context struct {
	Name string `json:"name,omitempty"`

	// KeyRef selects the custody backend, e.g. kms://<key-id>,
	// ledger://m/44'/60'/0'/0/0, remote://<address>, keystore://<path>
	// or a raw hex private key.
	KeyRef string `json:"keyRef,omitempty"`

	// ChainID is the default chain for transaction signing
	ChainID uint64 `json:"chainId,omitempty"`

	// Legacy signer configuration (mutually exclusive with KeyRef)
	ECDSAPrivateKey  string `json:"ecdsaPrivateKey,omitempty"`  // Hex-encoded private key
	KeystorePath     string `json:"keystorePath,omitempty"`     // Path to keystore file
	KeystorePassword string `json:"keystorePassword,omitempty"` // Keystore password
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".sigbridge")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{
				Contexts: make(map[string]*Context),
			}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetCurrentContext returns the current context
func GetCurrentContext() (*Context, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}

	ctx, exists := cfg.Contexts[cfg.CurrentContext]
	if !exists {
		return nil, fmt.Errorf("current context '%s' not found", cfg.CurrentContext)
	}

	return ctx, nil
}

// ResolveKeystorePassword returns the context's keystore password, falling
// back to the environment so the secret can stay out of the config file.
func (c *Context) ResolveKeystorePassword() string {
	if c.KeystorePassword != "" {
		return c.KeystorePassword
	}
	return os.Getenv(KeystorePasswordEnv)
}

// displayKeyRef returns a key reference safe to print. A local reference
// is the private key itself, so only its backend is shown.
func displayKeyRef(s string) string {
	ref, err := keyref.Parse(s)
	if err == nil && ref.Backend == keyref.BackendLocal {
		return string(keyref.BackendLocal) + "://<redacted>"
	}
	return s
}

// ToMap converts context to a map for display, with secrets redacted
func (c *Context) ToMap() map[string]interface{} {
	m := make(map[string]interface{})

	if c.Name != "" {
		m["name"] = c.Name
	}
	if c.KeyRef != "" {
		m["key-ref"] = displayKeyRef(c.KeyRef)
	}
	if c.ChainID != 0 {
		m["chain-id"] = c.ChainID
	}
	if c.ECDSAPrivateKey != "" {
		m["ecdsa-private-key"] = "<redacted>"
	}
	if c.KeystorePath != "" {
		m["keystore-path"] = c.KeystorePath
	}
	if c.KeystorePassword != "" {
		m["keystore-password"] = "<redacted>"
	}

	return m
}
