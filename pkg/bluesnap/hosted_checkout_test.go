package bluesnap

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/bluesnap-gateway/internal/testutil/fixtures"
)

func TestHostedCheckout_Purchase(t *testing.T) {
	gw, _, _ := setupGatewayTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/services/2/tools/param-encryption", r.URL.Path)

		b, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.True(t, strings.Contains(string(b), "<param-key>sku2160706</param-key>"))

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(fixtures.EncryptionXML("ENC123")))
	})

	req, err := gw.Purchase(Parameters{StoreReference: "12345", PlanReference: "2160706"})
	require.NoError(t, err)

	resp, err := req.Send(context.Background())
	require.NoError(t, err)

	assert.True(t, resp.IsRedirect())
	assert.Equal(t, "ENC123", resp.EncryptedToken())
	assert.Equal(t, "https://sandbox.bluesnap.com/buynow/checkout?storeId=12345&enc=ENC123", resp.RedirectURL())
	assert.Equal(t, "GET", resp.RedirectMethod())
	assert.Empty(t, resp.RedirectData())
}

func TestHostedCheckout_PurchaseLiveHost(t *testing.T) {
	gw, _, _ := setupGatewayTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(fixtures.EncryptionXML("ENC")))
	})
	gw.SetTestMode(false)

	req, err := gw.Purchase(Parameters{StoreReference: "12345"})
	require.NoError(t, err)

	resp, err := req.Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.bluesnap.com/buynow/checkout?storeId=12345&enc=ENC", resp.RedirectURL())
}

func TestHostedCheckout_PurchaseFailed(t *testing.T) {
	gw, _, _ := setupGatewayTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(fixtures.ErrorXML("10001", "User is not authorized")))
	})

	req, err := gw.Purchase(Parameters{StoreReference: "12345"})
	require.NoError(t, err)

	resp, err := req.Send(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.IsRedirect())
	assert.Equal(t, "User is not authorized", resp.Message())
	assert.Empty(t, resp.EncryptedToken())
}

func TestHostedCheckout_DecryptReturnURL(t *testing.T) {
	gw, _, _ := setupGatewayTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/2/tools/param-decryption", r.URL.Path)

		b, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Contains(t, string(b), "<encrypted-token>TOKEN</encrypted-token>")

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(fixtures.DecryptionXML("invoiceId=38305129&sku2160706=1&invoiceId=38305130")))
	})

	req, err := gw.DecryptReturnURL(Parameters{ReturnURL: "https://shop.example.com/thanks?encParams=TOKEN"})
	require.NoError(t, err)

	resp, err := req.Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"invoiceId":  "38305130",
		"sku2160706": "1",
	}, resp.DecryptedParameters())
}

func TestHostedCheckout_DecryptWithoutToken(t *testing.T) {
	gw, _, _ := setupGatewayTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req, err := gw.DecryptReturnURL(Parameters{ReturnURL: "TOKEN"})
	require.NoError(t, err)

	resp, err := req.Send(context.Background())
	require.NoError(t, err)
	assert.Nil(t, resp.DecryptedParameters())
}

func TestGatewayNames(t *testing.T) {
	cfg := GatewayConfig{Username: "u", Password: "p"}

	assert.Equal(t, "BlueSnap", NewGateway(cfg, nil).Name())
	assert.Equal(t, "BlueSnap Extended", NewExtendedGateway(cfg, nil).Name())
	assert.Equal(t, "BlueSnap Hosted Checkout", NewHostedCheckoutGateway(cfg, nil).Name())

	gw := NewGateway(cfg, nil)
	gw.SetUsername("other")
	gw.SetTestMode(true)
	assert.Equal(t, Parameters{Username: "other", Password: "p", TestMode: true}, gw.DefaultParameters())
	assert.NotNil(t, gw.Client())
}
