package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Secret backends
const (
	BackendEnv   = "env"
	BackendAWS   = "aws"
	BackendVault = "vault"
	BackendLocal = "local"
)

// Config holds all application configuration
type Config struct {
	BlueSnap BlueSnapConfig `yaml:"bluesnap"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logger   LoggerConfig   `yaml:"logger"`
	Secrets  SecretsConfig  `yaml:"secrets"`
}

// BlueSnapConfig holds the API user and environment
type BlueSnapConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	TestMode bool   `yaml:"test_mode"`
	StoreID  string `yaml:"store_id"` // Hosted checkout store, used by purchase redirects
}

// HTTPConfig holds transport settings
type HTTPConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"` // 0 keeps the client default
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// SecretsConfig selects where API credentials come from. With the env
// backend they are read from BlueSnapConfig directly.
type SecretsConfig struct {
	Backend           string `yaml:"backend"`
	CredentialsSecret string `yaml:"credentials_secret"`
	AWSRegion         string `yaml:"aws_region"`
	VaultAddr         string `yaml:"vault_addr"`
	VaultToken        string `yaml:"vault_token"`
	VaultMountPath    string `yaml:"vault_mount_path"`
	LocalPath         string `yaml:"local_path"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		BlueSnap: BlueSnapConfig{TestMode: true},
		Logger:   LoggerConfig{Level: "info"},
		Secrets: SecretsConfig{
			Backend:        BackendEnv,
			VaultMountPath: "secret",
			LocalPath:      "./secrets",
		},
	}
}

// LoadFromEnv loads configuration from the file named by
// BLUESNAP_CONFIG_FILE, if any, and then from environment variables.
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv("BLUESNAP_CONFIG_FILE"))
}

// Load reads the YAML file at path (skipped when empty) and applies
// environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.BlueSnap.Username = getEnv("BLUESNAP_USERNAME", c.BlueSnap.Username)
	c.BlueSnap.Password = getEnv("BLUESNAP_PASSWORD", c.BlueSnap.Password)
	c.BlueSnap.TestMode = getEnvAsBool("BLUESNAP_TEST_MODE", c.BlueSnap.TestMode)
	c.BlueSnap.StoreID = getEnv("BLUESNAP_STORE_ID", c.BlueSnap.StoreID)

	c.HTTP.TimeoutSeconds = getEnvAsInt("BLUESNAP_HTTP_TIMEOUT_SECONDS", c.HTTP.TimeoutSeconds)

	c.Logger.Level = getEnv("LOG_LEVEL", c.Logger.Level)
	c.Logger.Development = getEnvAsBool("LOG_DEVELOPMENT", c.Logger.Development)

	c.Secrets.Backend = getEnv("SECRETS_BACKEND", c.Secrets.Backend)
	c.Secrets.CredentialsSecret = getEnv("BLUESNAP_CREDENTIALS_SECRET", c.Secrets.CredentialsSecret)
	c.Secrets.AWSRegion = getEnv("AWS_REGION", c.Secrets.AWSRegion)
	c.Secrets.VaultAddr = getEnv("VAULT_ADDR", c.Secrets.VaultAddr)
	c.Secrets.VaultToken = getEnv("VAULT_TOKEN", c.Secrets.VaultToken)
	c.Secrets.VaultMountPath = getEnv("VAULT_MOUNT_PATH", c.Secrets.VaultMountPath)
	c.Secrets.LocalPath = getEnv("LOCAL_SECRETS_PATH", c.Secrets.LocalPath)
}

// Validate checks that the selected secret backend has what it needs.
func (c *Config) Validate() error {
	switch c.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error (got %q)", c.Logger.Level)
	}
	if c.HTTP.TimeoutSeconds < 0 {
		return fmt.Errorf("BLUESNAP_HTTP_TIMEOUT_SECONDS cannot be negative")
	}

	switch c.Secrets.Backend {
	case BackendEnv:
		if c.BlueSnap.Username == "" {
			return fmt.Errorf("BLUESNAP_USERNAME is required")
		}
		if c.BlueSnap.Password == "" {
			return fmt.Errorf("BLUESNAP_PASSWORD is required")
		}
		return nil
	case BackendAWS:
		if c.Secrets.AWSRegion == "" {
			return fmt.Errorf("AWS_REGION is required for the aws secrets backend")
		}
	case BackendVault:
		if c.Secrets.VaultAddr == "" {
			return fmt.Errorf("VAULT_ADDR is required for the vault secrets backend")
		}
		if c.Secrets.VaultToken == "" {
			return fmt.Errorf("VAULT_TOKEN is required for the vault secrets backend")
		}
	case BackendLocal:
		if c.Secrets.LocalPath == "" {
			return fmt.Errorf("LOCAL_SECRETS_PATH is required for the local secrets backend")
		}
	default:
		return fmt.Errorf("unknown SECRETS_BACKEND %q", c.Secrets.Backend)
	}

	if c.Secrets.CredentialsSecret == "" {
		return fmt.Errorf("BLUESNAP_CREDENTIALS_SECRET is required for the %s secrets backend", c.Secrets.Backend)
	}
	return nil
}

// HTTPTimeout returns the configured client timeout, 0 for the default.
func (c *HTTPConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
