package bluesnap

import (
	"net/url"
	"time"

	"github.com/kevin07696/bluesnap-gateway/pkg/timeutil"
)

// IPN transaction types
const (
	IPNCharge                    = "CHARGE"
	IPNCancellation              = "CANCELLATION"
	IPNCancelOnRenewal           = "CANCEL_ON_RENEWAL"
	IPNChargeback                = "CHARGEBACK"
	IPNRecurring                 = "RECURRING"
	IPNRefund                    = "REFUND"
	IPNChargeFailed              = "CC_CHARGE_FAILED"
	IPNSubscriptionChargeFailure = "SUBSCRIPTION_CHARGE_FAILURE"
)

// IPNCallback is a read-only view of an Instant Payment Notification.
type IPNCallback struct {
	params map[string]string
}

// NewIPNCallback parses a full callback URL or a bare query string.
func NewIPNCallback(raw string) *IPNCallback {
	query := raw
	if u, err := url.Parse(raw); err == nil && u.RawQuery != "" {
		query = u.RawQuery
	}
	values, _ := url.ParseQuery(query)
	return NewIPNCallbackFromValues(values)
}

// NewIPNCallbackFromValues builds a callback from posted form values. When
// a key repeats, the last value wins.
func NewIPNCallbackFromValues(values url.Values) *IPNCallback {
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[len(v)-1]
		}
	}
	return &IPNCallback{params: params}
}

// NewIPNCallbackFromMap builds a callback from already decoded fields.
func NewIPNCallbackFromMap(fields map[string]string) *IPNCallback {
	params := make(map[string]string, len(fields))
	for k, v := range fields {
		params[k] = v
	}
	return &IPNCallback{params: params}
}

// Type returns the transactionType field.
func (c *IPNCallback) Type() string {
	return c.params["transactionType"]
}

func (c *IPNCallback) IsCharge() bool                    { return c.Type() == IPNCharge }
func (c *IPNCallback) IsCancellation() bool              { return c.Type() == IPNCancellation }
func (c *IPNCallback) IsCancellationRequest() bool       { return c.Type() == IPNCancelOnRenewal }
func (c *IPNCallback) IsChargeback() bool                { return c.Type() == IPNChargeback }
func (c *IPNCallback) IsSubscriptionCharge() bool        { return c.Type() == IPNRecurring }
func (c *IPNCallback) IsRefund() bool                    { return c.Type() == IPNRefund }
func (c *IPNCallback) IsChargeFailure() bool             { return c.Type() == IPNChargeFailed }
func (c *IPNCallback) IsSubscriptionChargeFailure() bool { return c.Type() == IPNSubscriptionChargeFailure }

// TransactionReference returns referenceNumber.
func (c *IPNCallback) TransactionReference() string {
	return c.params["referenceNumber"]
}

// SubscriptionReference returns subscriptionId.
func (c *IPNCallback) SubscriptionReference() string {
	return c.params["subscriptionId"]
}

// PlanReference returns contractId.
func (c *IPNCallback) PlanReference() string {
	return c.params["contractId"]
}

// CustomerReference returns accountId.
func (c *IPNCallback) CustomerReference() string {
	return c.params["accountId"]
}

// Amount returns invoiceAmount, or "" when BlueSnap sent it empty. It is
// never defaulted to zero.
func (c *IPNCallback) Amount() string {
	return c.params["invoiceAmount"]
}

// Currency returns the currency field.
func (c *IPNCallback) Currency() string {
	return c.params["currency"]
}

// Date parses transactionDate in the gateway zone.
func (c *IPNCallback) Date() *time.Time {
	return timeutil.ParseGatewayTime(c.params["transactionDate"])
}

// Parameter returns any field of the notification.
func (c *IPNCallback) Parameter(name string) (string, bool) {
	v, ok := c.params[name]
	return v, ok
}

// Parameters returns a copy of every field.
func (c *IPNCallback) Parameters() map[string]string {
	out := make(map[string]string, len(c.params))
	for k, v := range c.params {
		out[k] = v
	}
	return out
}
