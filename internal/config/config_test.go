package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"BLUESNAP_CONFIG_FILE",
	"BLUESNAP_USERNAME", "BLUESNAP_PASSWORD", "BLUESNAP_TEST_MODE", "BLUESNAP_STORE_ID",
	"BLUESNAP_HTTP_TIMEOUT_SECONDS",
	"LOG_LEVEL", "LOG_DEVELOPMENT",
	"SECRETS_BACKEND", "BLUESNAP_CREDENTIALS_SECRET", "AWS_REGION",
	"VAULT_ADDR", "VAULT_TOKEN", "VAULT_MOUNT_PATH", "LOCAL_SECRETS_PATH",
}

// clearEnv blanks every key the loader reads; empty counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLUESNAP_USERNAME", "api_user")
	t.Setenv("BLUESNAP_PASSWORD", "secret")
	t.Setenv("BLUESNAP_TEST_MODE", "false")
	t.Setenv("BLUESNAP_STORE_ID", "12345")
	t.Setenv("BLUESNAP_HTTP_TIMEOUT_SECONDS", "15")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "api_user", cfg.BlueSnap.Username)
	assert.Equal(t, "secret", cfg.BlueSnap.Password)
	assert.False(t, cfg.BlueSnap.TestMode)
	assert.Equal(t, "12345", cfg.BlueSnap.StoreID)
	assert.Equal(t, 15*time.Second, cfg.HTTP.HTTPTimeout())
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, BackendEnv, cfg.Secrets.Backend)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLUESNAP_USERNAME", "u")
	t.Setenv("BLUESNAP_PASSWORD", "p")
	t.Setenv("BLUESNAP_HTTP_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.BlueSnap.TestMode, "sandbox by default")
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, time.Duration(0), cfg.HTTP.HTTPTimeout())
	assert.Equal(t, "secret", cfg.Secrets.VaultMountPath)
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "bluesnap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bluesnap:
  test_mode: false
  store_id: "999"
logger:
  level: warn
  development: true
secrets:
  backend: vault
  credentials_secret: bluesnap/api
  vault_addr: http://vault:8200
  vault_token: from-file
`), 0o600))

	t.Setenv("VAULT_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.BlueSnap.TestMode)
	assert.Equal(t, "999", cfg.BlueSnap.StoreID)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.True(t, cfg.Logger.Development)
	assert.Equal(t, BackendVault, cfg.Secrets.Backend)
	assert.Equal(t, "bluesnap/api", cfg.Secrets.CredentialsSecret)
	assert.Equal(t, "from-env", cfg.Secrets.VaultToken)
	assert.Equal(t, "secret", cfg.Secrets.VaultMountPath)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("bluesnap: [unterminated"), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "env backend needs username",
			mutate:  func(c *Config) {},
			wantErr: "BLUESNAP_USERNAME is required",
		},
		{
			name:    "env backend needs password",
			mutate:  func(c *Config) { c.BlueSnap.Username = "u" },
			wantErr: "BLUESNAP_PASSWORD is required",
		},
		{
			name: "aws needs region",
			mutate: func(c *Config) {
				c.Secrets.Backend = BackendAWS
				c.Secrets.CredentialsSecret = "bluesnap"
			},
			wantErr: "AWS_REGION is required for the aws secrets backend",
		},
		{
			name: "aws needs secret name",
			mutate: func(c *Config) {
				c.Secrets.Backend = BackendAWS
				c.Secrets.AWSRegion = "us-east-1"
			},
			wantErr: "BLUESNAP_CREDENTIALS_SECRET is required for the aws secrets backend",
		},
		{
			name: "vault needs address",
			mutate: func(c *Config) {
				c.Secrets.Backend = BackendVault
			},
			wantErr: "VAULT_ADDR is required for the vault secrets backend",
		},
		{
			name: "unknown backend",
			mutate: func(c *Config) {
				c.Secrets.Backend = "gcp"
			},
			wantErr: `unknown SECRETS_BACKEND "gcp"`,
		},
		{
			name: "bad log level",
			mutate: func(c *Config) {
				c.Logger.Level = "verbose"
			},
			wantErr: `LOG_LEVEL must be one of debug, info, warn, error (got "verbose")`,
		},
		{
			name: "local backend complete",
			mutate: func(c *Config) {
				c.Secrets.Backend = BackendLocal
				c.Secrets.CredentialsSecret = "bluesnap"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
