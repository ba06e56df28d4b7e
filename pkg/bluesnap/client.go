package bluesnap

import (
	"go.uber.org/zap"

	pkghttp "github.com/kevin07696/bluesnap-gateway/pkg/http"
	"github.com/kevin07696/bluesnap-gateway/pkg/ports"
	"github.com/kevin07696/bluesnap-gateway/pkg/security"
)

// Client carries the collaborators every request needs: the transport,
// the logger and the event listeners. It holds no per-request state and
// can be shared by gateways.
type Client struct {
	httpClient ports.HTTPClient
	logger     ports.Logger
	listeners  []Listener
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(httpClient ports.HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger.
func WithLogger(logger ports.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithListener registers a listener for send events.
func WithListener(l Listener) ClientOption {
	return func(c *Client) {
		c.listeners = append(c.listeners, l)
	}
}

// NewClient creates a client with a tuned HTTP transport and a no-op logger
// unless options say otherwise.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = pkghttp.NewHTTPClient(pkghttp.BlueSnapClientConfig(), 0)
	}
	if c.logger == nil {
		c.logger = security.NewZapLogger(zap.NewNop())
	}
	return c
}

func (c *Client) emit(e Event) {
	for _, l := range c.listeners {
		l.HandleEvent(e)
	}
}
