package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kevin07696/bluesnap-gateway/internal/adapters/ports"
	"github.com/kevin07696/bluesnap-gateway/internal/config"
)

// Credentials is the BlueSnap API user stored in a secret as
// {"username": "...", "password": "..."}.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewSecretManager builds the adapter for the configured backend. The env
// backend has no secret manager and returns nil.
func NewSecretManager(ctx context.Context, cfg config.SecretsConfig, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	switch cfg.Backend {
	case config.BackendEnv:
		return nil, nil
	case config.BackendAWS:
		return NewAWSSecretsManagerAdapter(ctx, DefaultAWSSecretsManagerConfig(cfg.AWSRegion), logger)
	case config.BackendVault:
		vc := DefaultVaultConfig(cfg.VaultAddr)
		vc.Token = cfg.VaultToken
		if cfg.VaultMountPath != "" {
			vc.MountPath = cfg.VaultMountPath
		}
		return NewVaultAdapter(ctx, vc, logger)
	case config.BackendLocal:
		return NewLocalSecretManager(cfg.LocalPath, logger), nil
	default:
		return nil, fmt.Errorf("unsupported secrets backend: %s", cfg.Backend)
	}
}

// LoadCredentials reads and decodes the credentials secret at path.
func LoadCredentials(ctx context.Context, sm ports.SecretManagerAdapter, path string) (*Credentials, error) {
	secret, err := sm.GetSecret(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load BlueSnap credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(strings.TrimSpace(secret.Value)), &creds); err != nil {
		return nil, fmt.Errorf("BlueSnap credentials secret %s is not a JSON object: %w", path, err)
	}
	if creds.Username == "" || creds.Password == "" {
		return nil, fmt.Errorf("BlueSnap credentials secret %s must contain username and password", path)
	}
	return &creds, nil
}

// ResolveCredentials returns the API user for cfg: straight from the
// configuration with the env backend, otherwise from the secret manager.
func ResolveCredentials(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Credentials, error) {
	sm, err := NewSecretManager(ctx, cfg.Secrets, logger)
	if err != nil {
		return nil, err
	}
	if sm == nil {
		return &Credentials{Username: cfg.BlueSnap.Username, Password: cfg.BlueSnap.Password}, nil
	}
	return LoadCredentials(ctx, sm, cfg.Secrets.CredentialsSecret)
}
