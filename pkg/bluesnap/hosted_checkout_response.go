package bluesnap

import "net/url"

// HostedCheckoutPurchaseResponse carries the encrypted token needed to
// redirect a shopper to the hosted checkout page.
type HostedCheckoutPurchaseResponse struct {
	*Response
}

// IsRedirect is true whenever the encryption call succeeded.
func (r *HostedCheckoutPurchaseResponse) IsRedirect() bool {
	return r.IsSuccessful()
}

// EncryptedToken returns the token produced by param encryption.
func (r *HostedCheckoutPurchaseResponse) EncryptedToken() string {
	return textOrEmpty(r.xmlRoot(), "encrypted-token")
}

// RedirectURL returns the hosted checkout URL for the store.
func (r *HostedCheckoutPurchaseResponse) RedirectURL() string {
	host := liveCheckoutHost
	var store string
	if req := r.Request(); req != nil {
		if req.TestMode() {
			host = testCheckoutHost
		}
		store = req.StoreReference()
	}
	return "https://" + host + "/buynow/checkout?storeId=" + store + "&enc=" + r.EncryptedToken()
}

// RedirectMethod is always GET.
func (r *HostedCheckoutPurchaseResponse) RedirectMethod() string {
	return HTTPMethodGet
}

// RedirectData is empty; everything travels in the URL.
func (r *HostedCheckoutPurchaseResponse) RedirectData() map[string]string {
	return map[string]string{}
}

// DecryptReturnURLResponse carries the parameters decrypted from a hosted
// checkout return URL.
type DecryptReturnURLResponse struct {
	*Response
}

// DecryptedParameters decodes the decrypted-token query string. It returns
// nil when there is nothing to decode.
func (r *DecryptReturnURLResponse) DecryptedParameters() map[string]string {
	token, ok := text(r.xmlRoot(), "decrypted-token")
	if !ok {
		return nil
	}
	values, _ := url.ParseQuery(token)
	if len(values) == 0 {
		return nil
	}
	params := make(map[string]string, len(values))
	for k, v := range values {
		params[k] = v[len(v)-1]
	}
	return params
}
