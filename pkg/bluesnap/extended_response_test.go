package bluesnap

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/bluesnap-gateway/internal/testutil/fixtures"
	"github.com/kevin07696/bluesnap-gateway/pkg/bluesnap/models"
	"github.com/kevin07696/bluesnap-gateway/pkg/timeutil"
	"github.com/kevin07696/bluesnap-gateway/test/mocks"
)

// extendedResponseFor sends p through build against a canned XML body.
func extendedResponseFor(t *testing.T, body string, p Parameters,
	build func(*ExtendedGateway, Parameters) (*ExtendedRequest, error)) *ExtendedResponse {
	t.Helper()

	httpClient := mocks.NewMockHTTPClient(mocks.Respond(http.StatusOK, "application/xml; charset=UTF-8", body))
	gw := NewExtendedGateway(GatewayConfig{Username: "u", Password: "p", TestMode: true},
		NewClient(WithHTTPClient(httpClient)))

	req, err := build(gw, p)
	require.NoError(t, err)
	resp, err := req.Send(context.Background())
	require.NoError(t, err)
	return resp
}

func fetchTransaction(gw *ExtendedGateway, p Parameters) (*ExtendedRequest, error) {
	return gw.FetchTransaction(p)
}

func fetchSubscription(gw *ExtendedGateway, p Parameters) (*ExtendedRequest, error) {
	return gw.FetchSubscription(p)
}

func TestExtendedResponse_Order(t *testing.T) {
	sale := fixtures.Reference()
	other := fixtures.Reference()
	shopper := fixtures.Reference()

	body := fixtures.NewOrder().
		WithShopperID(shopper).
		WithTax("1.25").
		WithSkuParameter("campaign", "spring").
		WithInvoice(fixtures.Invoice{
			ID:       other,
			Amount:   "99.00",
			Currency: "EUR",
			Status:   "Approved",
		}).
		WithInvoice(fixtures.Invoice{
			ID:          sale,
			Amount:      "25.00",
			Currency:    "USD",
			Status:      "Approved",
			DateCreated: "05-Feb-17",
			SkuID:       "2160706",
			Card: &fixtures.Card{
				Type:        "VISA",
				LastFour:    "1111",
				ExpiryMonth: "7",
				ExpiryYear:  "2029",
			},
			Contact: &fixtures.Contact{
				FirstName: "Jane",
				LastName:  "Doe",
				Email:     "jane@example.com",
				State:     "CA",
				Country:   "us",
				Zip:       "94110",
			},
		}).
		WithInvoice(fixtures.Invoice{
			ID:           "R1",
			OriginalID:   sale,
			ReversalType: ReversalRefund,
			Amount:       "5.00",
			Currency:     "USD",
			Status:       "Approved",
			DateCreated:  "06-Feb-17",
		}).
		WithInvoice(fixtures.Invoice{
			ID:           "R2",
			OriginalID:   other,
			ReversalType: ReversalRefund,
			Amount:       "1.00",
			Currency:     "EUR",
		}).
		WithInvoice(fixtures.Invoice{
			ID:           "R3",
			ReversalType: ReversalRefund,
			Amount:       "2.00",
		}).
		WithInvoice(fixtures.Invoice{
			ID:           "C1",
			OriginalID:   sale,
			ReversalType: ReversalChargeback,
			Amount:       "25.00",
			Currency:     "USD",
			DateCreated:  "10-Mar-17",
		}).
		Build()

	resp := extendedResponseFor(t, body, Parameters{TransactionReference: sale}, fetchTransaction)

	t.Run("primary invoice", func(t *testing.T) {
		assert.Equal(t, sale, resp.TransactionReference())
		assert.Equal(t, shopper, resp.CustomerReference())
		assert.Equal(t, "25.00", resp.Amount())
		assert.Equal(t, "USD", resp.Currency())
		assert.Equal(t, "Approved", resp.Status())
		assert.Equal(t, "2160706", resp.PlanReference())
		assert.Equal(t, "1.25", resp.Tax())
		assert.Equal(t, "spring", resp.CustomParameter("campaign"))
		assert.Empty(t, resp.CustomParameter("missing"))

		require.NotNil(t, resp.DateCreated())
		assert.True(t, timeutil.Date(2017, time.February, 5).Equal(*resp.DateCreated()))
		assert.True(t, timeutil.InGatewayZone(*resp.DateCreated()))
	})

	t.Run("transaction", func(t *testing.T) {
		tx := resp.Transaction()
		require.NotNil(t, tx)
		assert.Same(t, tx, resp.Transaction())
		assert.Equal(t, sale, tx.TransactionReference)
		assert.Equal(t, shopper, tx.CustomerReference)
		assert.Equal(t, "25.00", tx.Amount)
		assert.Equal(t, "USD", tx.Currency)
		assert.Equal(t, "Approved", tx.Status)
	})

	t.Run("card", func(t *testing.T) {
		card := resp.Card()
		require.NotNil(t, card)
		assert.Equal(t, models.BrandVisa, card.Brand())
		assert.Equal(t, "1111", card.NumberLastFour())
		assert.Equal(t, 7, card.ExpiryMonth)
		assert.Equal(t, 2029, card.ExpiryYear)
		assert.Equal(t, "Jane Doe", card.Name())
		assert.Equal(t, "jane@example.com", card.Email)
		assert.Equal(t, "94110", card.Postcode)
	})

	t.Run("refunds only for the requested sale", func(t *testing.T) {
		refunds := resp.Refunds()
		require.Len(t, refunds, 1)
		assert.Equal(t, "R1", refunds[0].RefundReference)
		assert.Equal(t, sale, refunds[0].TransactionReference)
		assert.Equal(t, "5.00", refunds[0].Amount)
		require.NotNil(t, refunds[0].Time)
		assert.True(t, timeutil.Date(2017, time.February, 6).Equal(*refunds[0].Time))
	})

	t.Run("chargebacks", func(t *testing.T) {
		chargebacks := resp.Chargebacks()
		require.Len(t, chargebacks, 1)
		assert.Equal(t, "C1", chargebacks[0].ChargebackReference)
		assert.Equal(t, sale, chargebacks[0].TransactionReference)
		assert.Equal(t, ReversalChargeback, chargebacks[0].Status)
		require.NotNil(t, chargebacks[0].ProcessorReceivedTime)
	})
}

func TestExtendedResponse_NoMatchingInvoice(t *testing.T) {
	body := fixtures.NewOrder().
		WithInvoice(fixtures.Invoice{ID: "111", Amount: "10.00", Currency: "USD"}).
		Build()

	resp := extendedResponseFor(t, body, Parameters{TransactionReference: "999"}, fetchTransaction)

	assert.Nil(t, resp.Transaction())
	assert.Nil(t, resp.Refunds())
	assert.Nil(t, resp.Chargebacks())
	assert.Empty(t, resp.TransactionReference())
	assert.Empty(t, resp.Amount())
	assert.Nil(t, resp.DateCreated())
	assert.Nil(t, resp.Card())
}

func TestExtendedResponse_FirstMatchingInvoiceWins(t *testing.T) {
	body := fixtures.NewOrder().
		WithInvoice(fixtures.Invoice{ID: "111", Amount: "10.00", Currency: "USD"}).
		WithInvoice(fixtures.Invoice{ID: "111", Amount: "20.00", Currency: "USD"}).
		Build()

	resp := extendedResponseFor(t, body, Parameters{TransactionReference: "111"}, fetchTransaction)

	assert.Equal(t, "10.00", resp.Amount())
}

func TestExtendedResponse_Subscription(t *testing.T) {
	t.Run("override price wins over catalog", func(t *testing.T) {
		body := fixtures.NewSubscription().
			WithID("2152762").
			WithShopperID("19575974").
			WithSkuID("2160706").
			WithCatalogCharge("9.99", "USD").
			WithOverrideCharge("7.50", "EUR").
			WithNextChargeDate("05-Mar-24").
			WithCard(fixtures.Card{Type: "MASTERCARD", LastFour: "4444", ExpiryMonth: "12", ExpiryYear: "2030"}).
			WithCharge(fixtures.Charge{InvoiceID: "38305129", Amount: "7.50", Currency: "EUR", DateCreated: "05-Feb-24"}).
			WithCharge(fixtures.Charge{InvoiceID: "38305130", Amount: "7.50", Currency: "EUR", DateCreated: "05-Jan-24"}).
			Build()

		resp := extendedResponseFor(t, body, Parameters{SubscriptionReference: "2152762"}, fetchSubscription)

		assert.Equal(t, "2152762", resp.SubscriptionReference())
		assert.Equal(t, "19575974", resp.CustomerReference())
		assert.Equal(t, "7.50", resp.Amount())
		assert.Equal(t, "EUR", resp.Currency())
		assert.Equal(t, "A", resp.Status())
		assert.Equal(t, "2160706", resp.PlanReference())
		assert.Nil(t, resp.Transaction())

		next := resp.NextChargeDate()
		require.NotNil(t, next)
		assert.True(t, timeutil.Date(2024, time.March, 5).Equal(*next))

		charges := resp.SubscriptionCharges()
		require.Len(t, charges, 2)
		assert.Equal(t, "38305129", charges[0].TransactionReference)
		assert.Equal(t, "2152762", charges[0].SubscriptionReference)
		assert.Equal(t, "19575974", charges[0].CustomerReference)
		require.NotNil(t, resp.DateCreated())
		assert.True(t, timeutil.Date(2024, time.February, 5).Equal(*resp.DateCreated()))

		card := resp.Card()
		require.NotNil(t, card)
		assert.Equal(t, "mastercard", card.Brand())
		assert.Equal(t, "4444", card.Number)
		assert.Empty(t, card.Email)
	})

	t.Run("catalog price without override", func(t *testing.T) {
		body := fixtures.NewSubscription().WithCatalogCharge("9.99", "USD").Build()

		resp := extendedResponseFor(t, body, Parameters{SubscriptionReference: "1"}, fetchSubscription)

		assert.Equal(t, "9.99", resp.Amount())
		assert.Equal(t, "USD", resp.Currency())
		assert.Nil(t, resp.SubscriptionCharges())
		assert.Nil(t, resp.DateCreated())
		assert.Nil(t, resp.Card())
	})
}

func TestExtendedResponse_SubscriptionCharge(t *testing.T) {
	body := fixtures.SubscriptionChargeXML(fixtures.Charge{
		InvoiceID:   "38305129",
		Amount:      "7.50",
		Currency:    "EUR",
		DateCreated: "05-Feb-24",
	})

	resp := extendedResponseFor(t, body,
		Parameters{SubscriptionReference: "2152762", SubscriptionChargeReference: "38305129"},
		func(gw *ExtendedGateway, p Parameters) (*ExtendedRequest, error) {
			return gw.FetchSubscriptionCharge(p)
		})

	assert.Equal(t, "38305129", resp.TransactionReference())
	assert.Equal(t, "7.50", resp.Amount())
	assert.Equal(t, "EUR", resp.Currency())
	require.NotNil(t, resp.DateCreated())
	assert.True(t, timeutil.Date(2024, time.February, 5).Equal(*resp.DateCreated()))
}

func TestExtendedResponse_Customer(t *testing.T) {
	resp := extendedResponseFor(t, fixtures.ShopperXML("19575974"), Parameters{CustomerReference: "19575974"},
		func(gw *ExtendedGateway, p Parameters) (*ExtendedRequest, error) {
			return gw.FetchCustomer(p)
		})

	assert.Equal(t, "19575974", resp.CustomerReference())
	assert.Nil(t, resp.Subscriptions())
	assert.Empty(t, resp.Amount())
}

func TestSelectInvoices_EmptyReferenceMatchesNothing(t *testing.T) {
	body := fixtures.NewOrder().
		WithInvoice(fixtures.Invoice{ID: "", Amount: "1.00"}).
		Build()
	payload := parsePayload("application/xml", []byte(body))
	root := payload.(*XMLPayload).Root

	view := selectInvoices(root, "")
	assert.Nil(t, view.primary)
	assert.Empty(t, view.refunds)
	assert.Empty(t, view.chargebacks)
}
