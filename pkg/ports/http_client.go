package ports

import "net/http"

// HTTPClient is the transport the gateway client sends through.
// *http.Client satisfies it; tests substitute mocks or httptest-backed clients.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
