package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kevin07696/fss-gateway/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/fss-gateway/pkg/errors"
	"go.uber.org/zap"
)

// ContentTypeXML is sent with every request to the FSS servlets
const ContentTypeXML = "text/xml"

// maxReplySize caps how much of a reply body is read
const maxReplySize = 1 << 20

// HTTPTransport posts requests with a net/http client
type HTTPTransport struct {
	client ports.HTTPClient
	logger *zap.Logger
}

// NewHTTPTransport creates a transport around client. Use
// pkghttp.NewHTTPClient(pkghttp.FSSClientConfig(), timeout) in production.
func NewHTTPTransport(client ports.HTTPClient, logger *zap.Logger) *HTTPTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPTransport{client: client, logger: logger}
}

// Post sends body as a single POST. Nothing is retried.
func (t *HTTPTransport) Post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &pkgerrors.TransportError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", ContentTypeXML)

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Debug("FSS request failed",
			zap.String("url", url),
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil, &pkgerrors.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return nil, &pkgerrors.TransportError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	t.logger.Debug("FSS request completed",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_length", len(reply)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &pkgerrors.TransportError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected HTTP status %s", resp.Status)}
	}
	return reply, nil
}
