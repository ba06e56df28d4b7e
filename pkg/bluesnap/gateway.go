package bluesnap

import (
	"context"
	"net/url"

	"github.com/kevin07696/bluesnap-gateway/pkg/bluesnap/models"
)

// GatewayConfig holds the API user credentials and environment.
type GatewayConfig struct {
	Username string
	Password string
	TestMode bool
}

// Gateway exposes the reporting operations and IPN parsing.
type Gateway struct {
	name   string
	config GatewayConfig
	client *Client
}

// NewGateway creates a gateway. A nil client gets the defaults of NewClient.
func NewGateway(cfg GatewayConfig, client *Client) *Gateway {
	if client == nil {
		client = NewClient()
	}
	return &Gateway{name: "BlueSnap", config: cfg, client: client}
}

// Name returns the gateway's display name.
func (g *Gateway) Name() string {
	return g.name
}

// DefaultParameters returns the parameters every request starts from.
func (g *Gateway) DefaultParameters() Parameters {
	return Parameters{
		Username: g.config.Username,
		Password: g.config.Password,
		TestMode: g.config.TestMode,
	}
}

// Username returns the API user name.
func (g *Gateway) Username() string {
	return g.config.Username
}

// SetUsername sets the API user name.
func (g *Gateway) SetUsername(v string) {
	g.config.Username = v
}

// Password returns the API password.
func (g *Gateway) Password() string {
	return g.config.Password
}

// SetPassword sets the API password.
func (g *Gateway) SetPassword(v string) {
	g.config.Password = v
}

// TestMode reports whether requests go to the sandbox.
func (g *Gateway) TestMode() bool {
	return g.config.TestMode
}

// SetTestMode switches between sandbox and production.
func (g *Gateway) SetTestMode(v bool) {
	g.config.TestMode = v
}

// Client returns the client requests are sent through.
func (g *Gateway) Client() *Client {
	return g.client
}

func (g *Gateway) request(op *operation, p Parameters) (*Request, error) {
	return newRequest(g.client, op, p.merge(g.DefaultParameters()))
}

// FetchTransactions requests the TransactionDetail report between
// StartTime and EndTime, optionally filtered by TransactionType.
func (g *Gateway) FetchTransactions(p Parameters) (*ReportingRequest, error) {
	req, err := g.request(opReportTransactions, p)
	if err != nil {
		return nil, err
	}
	return &ReportingRequest{Request: req}, nil
}

// FetchSubscriptions requests the ActiveSubscriptions report.
func (g *Gateway) FetchSubscriptions(p Parameters) (*ReportingRequest, error) {
	req, err := g.request(opReportSubscriptions, p)
	if err != nil {
		return nil, err
	}
	return &ReportingRequest{Request: req}, nil
}

// FetchCanceledSubscriptions requests the CanceledSubscriptions report.
func (g *Gateway) FetchCanceledSubscriptions(p Parameters) (*ReportingRequest, error) {
	req, err := g.request(opReportCanceledSubscriptions, p)
	if err != nil {
		return nil, err
	}
	return &ReportingRequest{Request: req}, nil
}

// ParseIPNCallback parses a notification URL or query string.
func (g *Gateway) ParseIPNCallback(raw string) *IPNCallback {
	return NewIPNCallback(raw)
}

// ParseIPNForm parses a notification received as a POSTed form.
func (g *Gateway) ParseIPNForm(values url.Values) *IPNCallback {
	return NewIPNCallbackFromValues(values)
}

// ExtendedGateway adds the Extended API: shoppers, orders, subscriptions
// and refunds.
type ExtendedGateway struct {
	*Gateway
}

// NewExtendedGateway creates an Extended API gateway.
func NewExtendedGateway(cfg GatewayConfig, client *Client) *ExtendedGateway {
	g := NewGateway(cfg, client)
	g.name = "BlueSnap Extended"
	return &ExtendedGateway{Gateway: g}
}

func (g *ExtendedGateway) extended(op *operation, p Parameters) (*ExtendedRequest, error) {
	req, err := g.request(op, p)
	if err != nil {
		return nil, err
	}
	return &ExtendedRequest{Request: req}, nil
}

// FetchCustomer fetches a shopper by CustomerReference.
func (g *ExtendedGateway) FetchCustomer(p Parameters) (*ExtendedRequest, error) {
	return g.extended(opFetchCustomer, p)
}

// FetchTransaction fetches the order containing TransactionReference.
func (g *ExtendedGateway) FetchTransaction(p Parameters) (*ExtendedRequest, error) {
	return g.extended(opFetchTransaction, p)
}

// FetchSubscription fetches a subscription with its charges.
func (g *ExtendedGateway) FetchSubscription(p Parameters) (*ExtendedRequest, error) {
	return g.extended(opFetchSubscription, p)
}

// FetchSubscriptionCharge fetches one charge of a subscription.
func (g *ExtendedGateway) FetchSubscriptionCharge(p Parameters) (*ExtendedRequest, error) {
	return g.extended(opFetchSubscriptionCharge, p)
}

// UpdateSubscription changes price, currency, next charge date or plan.
func (g *ExtendedGateway) UpdateSubscription(p Parameters) (*ExtendedRequest, error) {
	return g.extended(opUpdateSubscription, p)
}

// CancelSubscription sets a subscription's status to canceled.
func (g *ExtendedGateway) CancelSubscription(p Parameters) (*ExtendedRequest, error) {
	return g.extended(opCancelSubscription, p)
}

// ReactivateSubscription sets a subscription's status back to active.
func (g *ExtendedGateway) ReactivateSubscription(p Parameters) (*ExtendedRequest, error) {
	return g.extended(opReactivateSubscription, p)
}

// TestChargeSubscription triggers an immediate charge. Sandbox only.
func (g *ExtendedGateway) TestChargeSubscription(p Parameters) (*ExtendedRequest, error) {
	return g.extended(opTestChargeSubscription, p)
}

// Refund refunds TransactionReference, fully or by Amount.
func (g *ExtendedGateway) Refund(p Parameters) (*ExtendedRequest, error) {
	return g.extended(opRefund, p)
}

// FetchSubscriptions lists a shopper's subscriptions when CustomerReference
// is set, and otherwise requests the active subscriptions report.
func (g *ExtendedGateway) FetchSubscriptions(p Parameters) (*FetchSubscriptionsRequest, error) {
	op := opReportSubscriptions
	if p.CustomerReference != "" {
		op = opFetchCustomerSubscriptions
	}
	req, err := g.request(op, p)
	if err != nil {
		return nil, err
	}
	return &FetchSubscriptionsRequest{Request: req}, nil
}

// SubscriptionsResult is what both subscription listing APIs answer with.
type SubscriptionsResult interface {
	Code() string
	IsSuccessful() bool
	Message() string
	Subscriptions() []*models.Subscription
}

// FetchSubscriptionsRequest lists subscriptions through whichever API the
// parameters selected.
type FetchSubscriptionsRequest struct {
	*Request
}

// ByCustomer reports whether the Extended API lookup was chosen.
func (r *FetchSubscriptionsRequest) ByCustomer() bool {
	return r.op == opFetchCustomerSubscriptions
}

// Send executes the request. The result is an *ExtendedResponse for
// customer lookups and a *ReportingResponse otherwise.
func (r *FetchSubscriptionsRequest) Send(ctx context.Context) (SubscriptionsResult, error) {
	base, err := r.send(ctx)
	if err != nil {
		return nil, err
	}
	if r.ByCustomer() {
		return newExtendedResponse(base), nil
	}
	return newReportingResponse(base), nil
}

// HostedCheckoutGateway adds the hosted checkout flow.
type HostedCheckoutGateway struct {
	*ExtendedGateway
}

// NewHostedCheckoutGateway creates a hosted checkout gateway.
func NewHostedCheckoutGateway(cfg GatewayConfig, client *Client) *HostedCheckoutGateway {
	g := NewExtendedGateway(cfg, client)
	g.name = "BlueSnap Hosted Checkout"
	return &HostedCheckoutGateway{ExtendedGateway: g}
}

// Purchase encrypts the checkout parameters for StoreReference. The
// response's RedirectURL sends the shopper to the checkout page.
func (g *HostedCheckoutGateway) Purchase(p Parameters) (*HostedCheckoutPurchaseRequest, error) {
	req, err := g.request(opHostedCheckoutPurchase, p)
	if err != nil {
		return nil, err
	}
	return &HostedCheckoutPurchaseRequest{Request: req}, nil
}

// DecryptReturnURL decrypts the parameters appended to ReturnURL.
func (g *HostedCheckoutGateway) DecryptReturnURL(p Parameters) (*DecryptReturnURLRequest, error) {
	req, err := g.request(opDecryptReturnURL, p)
	if err != nil {
		return nil, err
	}
	return &DecryptReturnURLRequest{Request: req}, nil
}
