package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	pkgerrors "github.com/kevin07696/fss-gateway/pkg/errors"
	"go.uber.org/zap"
)

// RestyTransport posts requests with a resty client
type RestyTransport struct {
	r      *resty.Client
	logger *zap.Logger
}

// NewRestyTransport creates a resty-backed transport. Retries are disabled:
// a payment request must be sent at most once.
func NewRestyTransport(timeout time.Duration, logger *zap.Logger) *RestyTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", ContentTypeXML)

	return &RestyTransport{r: r, logger: logger}
}

// Raw returns the underlying resty client
func (t *RestyTransport) Raw() *resty.Client {
	return t.r
}

// Post sends body as a single POST
func (t *RestyTransport) Post(ctx context.Context, url string, body []byte) ([]byte, error) {
	resp, err := t.r.R().
		SetContext(ctx).
		SetBody(body).
		Post(url)
	if err != nil {
		t.logger.Debug("FSS request failed", zap.String("url", url), zap.Error(err))
		return nil, &pkgerrors.TransportError{URL: url, Err: err}
	}

	t.logger.Debug("FSS request completed",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode()),
		zap.Int("body_length", len(resp.Body())),
		zap.Duration("elapsed", resp.Time()),
	)

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &pkgerrors.TransportError{URL: url, StatusCode: resp.StatusCode(), Err: fmt.Errorf("unexpected HTTP status %s", resp.Status())}
	}
	return resp.Body(), nil
}
