package ports

import (
	"context"
)

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value     string            // The secret value, e.g. the BlueSnap API credentials document
	Version   string            // Secret version identifier
	Metadata  map[string]string // Additional secret metadata
	CreatedAt string            // When this version was created
}

// SecretManagerAdapter defines the port for retrieving secrets from a secret management service.
// Backends: AWS Secrets Manager, HashiCorp Vault and the local filesystem.
type SecretManagerAdapter interface {
	// GetSecret retrieves a secret by its path/name
	// Path format depends on implementation:
	//   - AWS: "bluesnap/api-credentials" or a full ARN
	//   - Vault: "bluesnap/api-credentials" under the configured KV mount
	//   - Local: a file path relative to the secrets directory
	// Returns error if the secret does not exist, access is denied or the
	// backend cannot be reached.
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
