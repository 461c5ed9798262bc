package mocks

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/kevin07696/fss-gateway/internal/adapters/ports"
)

var _ ports.HTTPClient = (*MockHTTPClient)(nil)

// MockHTTPClient is a ports.HTTPClient that records requests and answers
// through DoFunc
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
	Calls  []*http.Request

	mu sync.Mutex
}

// NewMockHTTPClient creates a mock client; a nil doFunc answers every request
// with an empty 200 text/xml reply
func NewMockHTTPClient(doFunc func(req *http.Request) (*http.Response, error)) *MockHTTPClient {
	return &MockHTTPClient{DoFunc: doFunc}
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()

	if m.DoFunc != nil {
		return m.DoFunc(req)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("")),
		Header:     http.Header{"Content-Type": {"text/xml"}},
		Request:    req,
	}, nil
}
