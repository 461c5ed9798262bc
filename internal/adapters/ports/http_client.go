package ports

import "net/http"

// HTTPClient is the subset of *http.Client used by the HTTP transport
// Lets tests swap in a mock without a real server
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
