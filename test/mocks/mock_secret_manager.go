package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kevin07696/bluesnap-gateway/internal/adapters/ports"
)

// MockSecretManager is a testify mock of ports.SecretManagerAdapter
type MockSecretManager struct {
	mock.Mock
}

// GetSecret returns what the test registered with On("GetSecret", ...)
func (m *MockSecretManager) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Secret), args.Error(1)
}
