package http

import (
	"crypto/tls"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_AppliesConfig(t *testing.T) {
	cfg := BlueSnapClientConfig()

	client := NewHTTPClient(cfg, 45*time.Second)

	assert.Equal(t, 45*time.Second, client.Timeout)
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, cfg.MaxConnsPerHost, transport.MaxConnsPerHost)
	assert.Equal(t, cfg.ResponseHeaderTimeout, transport.ResponseHeaderTimeout)
	assert.Equal(t, uint16(tls.VersionTLS12), transport.TLSClientConfig.MinVersion)
	assert.False(t, transport.TLSClientConfig.InsecureSkipVerify)
}

func TestNewHTTPClient_NilConfigUsesDefaults(t *testing.T) {
	client := NewHTTPClient(nil, 0)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, DefaultClientConfig().MaxIdleConns, transport.MaxIdleConns)
	assert.Zero(t, client.Timeout)
}
