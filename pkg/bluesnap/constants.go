// Package bluesnap is a client for the BlueSnap Extended, Reporting and
// Hosted Checkout APIs. Requests are built from typed parameters, sent over
// a ports.HTTPClient and parsed into the value objects in package models.
package bluesnap

// API endpoints and protocol constants
const (
	APIVersion    = "2.0"
	LiveEndpoint  = "https://ws.bluesnap.com"
	TestEndpoint  = "https://sandbox.bluesnap.com"
	ServicePath   = "/services/2"
	XMLNamespace  = "http://ws.plimus.com"
	VersionHeader = "bluesnap-version"
	RequestIDHdr  = "Request-Id"
	ContentType   = "application/xml"

	liveCheckoutHost = "checkout.bluesnap.com"
	testCheckoutHost = "sandbox.bluesnap.com"
)

// HTTP methods used by the API
const (
	HTTPMethodGet  = "GET"
	HTTPMethodPut  = "PUT"
	HTTPMethodPost = "POST"
)

// Reversal types tagged on post-sale invoices
const (
	ReversalChargeback = "CHARGEBACK"
	ReversalRefund     = "REFUND"
)

// Transaction types as printed by the Reporting API
const (
	TransactionTypeChargeback = "Chargeback"
	TransactionTypeRefund     = "Refund"
	TransactionTypeSale       = "Sale"
)

// Report names
const (
	ReportTransactionDetail     = "TransactionDetail"
	ReportActiveSubscriptions   = "ActiveSubscriptions"
	ReportCanceledSubscriptions = "CanceledSubscriptions"
)

// Subscription statuses written by cancel and reactivate
const (
	SubscriptionStatusActive   = "A"
	SubscriptionStatusCanceled = "C"
)
