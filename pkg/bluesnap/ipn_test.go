package bluesnap

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/bluesnap-gateway/internal/testutil/fixtures"
	"github.com/kevin07696/bluesnap-gateway/pkg/timeutil"
)

func TestIPNCallback_Sources(t *testing.T) {
	fields := map[string]string{
		"transactionType": "RECURRING",
		"referenceNumber": "38305129",
		"subscriptionId":  "2152762",
		"contractId":      "2160706",
		"accountId":       "19575974",
		"invoiceAmount":   "9.99",
		"currency":        "USD",
		"transactionDate": "01/12/2024 09:15 PM",
	}
	query := fixtures.IPNQuery(fields)

	sources := map[string]*IPNCallback{
		"url":          NewIPNCallback("https://merchant.example.com/ipn?" + query),
		"query string": NewIPNCallback(query),
		"map":          NewIPNCallbackFromMap(fields),
	}

	for name, ipn := range sources {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, IPNRecurring, ipn.Type())
			assert.True(t, ipn.IsSubscriptionCharge())
			assert.False(t, ipn.IsCharge())
			assert.Equal(t, "38305129", ipn.TransactionReference())
			assert.Equal(t, "2152762", ipn.SubscriptionReference())
			assert.Equal(t, "2160706", ipn.PlanReference())
			assert.Equal(t, "19575974", ipn.CustomerReference())
			assert.Equal(t, "9.99", ipn.Amount())
			assert.Equal(t, "USD", ipn.Currency())

			date := ipn.Date()
			require.NotNil(t, date)
			assert.True(t, time.Date(2024, 1, 12, 21, 15, 0, 0, timeutil.GatewayLocation()).Equal(*date))
			assert.True(t, timeutil.InGatewayZone(*date))
		})
	}
}

func TestIPNCallback_Predicates(t *testing.T) {
	tests := []struct {
		transactionType string
		predicate       func(*IPNCallback) bool
	}{
		{"CHARGE", (*IPNCallback).IsCharge},
		{"CANCELLATION", (*IPNCallback).IsCancellation},
		{"CANCEL_ON_RENEWAL", (*IPNCallback).IsCancellationRequest},
		{"CHARGEBACK", (*IPNCallback).IsChargeback},
		{"RECURRING", (*IPNCallback).IsSubscriptionCharge},
		{"REFUND", (*IPNCallback).IsRefund},
		{"CC_CHARGE_FAILED", (*IPNCallback).IsChargeFailure},
		{"SUBSCRIPTION_CHARGE_FAILURE", (*IPNCallback).IsSubscriptionChargeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.transactionType, func(t *testing.T) {
			ipn := NewIPNCallbackFromMap(map[string]string{"transactionType": tt.transactionType})
			assert.True(t, tt.predicate(ipn))

			other := NewIPNCallbackFromMap(map[string]string{"transactionType": "SOMETHING_ELSE"})
			assert.False(t, tt.predicate(other))
		})
	}
}

func TestIPNCallback_Absent(t *testing.T) {
	ipn := NewIPNCallback("")

	assert.Empty(t, ipn.Type())
	assert.Empty(t, ipn.Amount())
	assert.Nil(t, ipn.Date())
	_, ok := ipn.Parameter("referenceNumber")
	assert.False(t, ok)
	assert.Empty(t, ipn.Parameters())
}

func TestIPNCallback_EmptyAmountStaysEmpty(t *testing.T) {
	ipn := NewIPNCallback("transactionType=CHARGE&invoiceAmount=")

	assert.Empty(t, ipn.Amount())
	v, ok := ipn.Parameter("invoiceAmount")
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestIPNCallback_FormValues(t *testing.T) {
	gw := NewGateway(GatewayConfig{}, nil)
	ipn := gw.ParseIPNForm(url.Values{
		"transactionType": {"REFUND"},
		"referenceNumber": {"1", "2"},
	})

	assert.True(t, ipn.IsRefund())
	assert.Equal(t, "2", ipn.TransactionReference())

	params := ipn.Parameters()
	params["transactionType"] = "CHARGE"
	assert.True(t, ipn.IsRefund(), "Parameters must return a copy")

	assert.True(t, gw.ParseIPNCallback("transactionType=CHARGEBACK").IsChargeback())
}
