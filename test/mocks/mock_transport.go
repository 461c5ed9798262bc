package mocks

import (
	"context"
	"testing"

	"github.com/kevin07696/fss-gateway/internal/adapters/ports"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var _ ports.Transport = (*MockTransport)(nil)

// MockTransport is a testify mock of ports.Transport
type MockTransport struct {
	mock.Mock
}

// PostedRequest is one recorded Post
type PostedRequest struct {
	URL  string
	Body string
}

// NewMockTransport returns a transport that answers every Post with reply
func NewMockTransport(reply string) *MockTransport {
	m := &MockTransport{}
	m.On("Post", mock.Anything, mock.Anything, mock.Anything).Return([]byte(reply), nil)
	return m
}

// NewFailingTransport returns a transport whose every Post fails with err
func NewFailingTransport(err error) *MockTransport {
	m := &MockTransport{}
	m.On("Post", mock.Anything, mock.Anything, mock.Anything).Return(nil, err)
	return m
}

func (m *MockTransport) Post(ctx context.Context, url string, body []byte) ([]byte, error) {
	args := m.Called(ctx, url, body)
	var reply []byte
	if v := args.Get(0); v != nil {
		reply = v.([]byte)
	}
	return reply, args.Error(1)
}

// Posted returns every recorded Post in call order
func (m *MockTransport) Posted() []PostedRequest {
	var out []PostedRequest
	for _, call := range m.Calls {
		if call.Method != "Post" {
			continue
		}
		out = append(out, PostedRequest{
			URL:  call.Arguments.String(1),
			Body: string(call.Arguments.Get(2).([]byte)),
		})
	}
	return out
}

// LastPost returns the most recent Post, failing the test when there was none
func (m *MockTransport) LastPost(t testing.TB) PostedRequest {
	t.Helper()
	posted := m.Posted()
	require.NotEmpty(t, posted, "expected a request to be sent")
	return posted[len(posted)-1]
}
