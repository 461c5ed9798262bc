package fss

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kevin07696/fss-gateway/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/fss-gateway/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Base URLs of the FSS payment servlets
const (
	TestURL = "https://securepgtest.fssnet.co.in/pgway/servlet/"
	LiveURL = "https://securepg.fssnet.co.in/pgway/servlet/"
)

// Config contains configuration for the FSS gateway
type Config struct {
	// Merchant credentials (required)
	Login    string
	Password string

	// TestMode selects TestURL instead of LiveURL
	TestMode bool

	// Optional base URL overrides
	TestURL string
	LiveURL string
}

// DefaultConfig returns a configuration pointing at the FSS servlets
func DefaultConfig(login, password string, testMode bool) *Config {
	return &Config{
		Login:    login,
		Password: password,
		TestMode: testMode,
		TestURL:  TestURL,
		LiveURL:  LiveURL,
	}
}

// Recorder receives one observation per processor exchange
type Recorder interface {
	RecordTransaction(action, outcome string, elapsed time.Duration)
}

// Option customizes a Gateway
type Option func(*Gateway)

// WithRecorder reports transaction outcomes to r
func WithRecorder(r Recorder) Option {
	return func(g *Gateway) {
		g.recorder = r
	}
}

// Gateway performs card operations against FSS. It holds only immutable
// configuration and is safe for concurrent use.
type Gateway struct {
	creds     Credentials
	testMode  bool
	baseURL   string
	transport ports.Transport
	logger    *zap.Logger
	recorder  Recorder
}

// New creates a gateway. Login and password are required.
func New(cfg *Config, transport ports.Transport, logger *zap.Logger, opts ...Option) (*Gateway, error) {
	if cfg == nil {
		return nil, pkgerrors.NewConfigurationError("config", "is required")
	}
	if cfg.Login == "" {
		return nil, pkgerrors.NewConfigurationError("login", "is required")
	}
	if cfg.Password == "" {
		return nil, pkgerrors.NewConfigurationError("password", "is required")
	}
	if transport == nil {
		return nil, pkgerrors.NewConfigurationError("transport", "is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := cfg.LiveURL
	if baseURL == "" {
		baseURL = LiveURL
	}
	if cfg.TestMode {
		baseURL = cfg.TestURL
		if baseURL == "" {
			baseURL = TestURL
		}
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	g := &Gateway{
		creds:     Credentials{Login: cfg.Login, Password: cfg.Password},
		testMode:  cfg.TestMode,
		baseURL:   baseURL,
		transport: transport,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// TestMode reports whether the gateway talks to the test servlets
func (g *Gateway) TestMode() bool {
	return g.testMode
}

// URL returns the full servlet URL for an action
func (g *Gateway) URL(action Action) string {
	return g.baseURL + action.Endpoint()
}

// Purchase charges a card. When opts.Preauth is set the card is ignored and
// the 3-D Secure handshake is completed with the token instead.
func (g *Gateway) Purchase(ctx context.Context, amount decimal.Decimal, card *CreditCard, opts Options) (*Result, error) {
	if opts.Preauth != nil {
		result, err := g.commit(ctx, TransactionRequest{Action: ActionUsePreauth, Token: opts.Preauth})
		if err != nil {
			return nil, err
		}
		result.Preauth = completedPreauth()
		return result, nil
	}

	req := newTransactionRequest(ActionPurchase, amount, opts)
	req.Card = card
	return g.commit(ctx, req)
}

// Authorize places a hold on a card without capturing it
func (g *Gateway) Authorize(ctx context.Context, amount decimal.Decimal, card *CreditCard, opts Options) (*Result, error) {
	req := newTransactionRequest(ActionAuthorize, amount, opts)
	req.Card = card
	return g.commit(ctx, req)
}

// Capture settles a prior authorization
func (g *Gateway) Capture(ctx context.Context, amount decimal.Decimal, authorization string, opts Options) (*Result, error) {
	req := newTransactionRequest(ActionCapture, amount, opts)
	req.Authorization = authorization
	return g.commit(ctx, req)
}

// Refund returns funds from a prior capture
func (g *Gateway) Refund(ctx context.Context, amount decimal.Decimal, authorization string, opts Options) (*Result, error) {
	req := newTransactionRequest(ActionRefund, amount, opts)
	req.Authorization = authorization
	return g.commit(ctx, req)
}

// StartPreauth checks 3-D Secure enrollment. A successful result carries a
// PreauthResult describing the ACS redirect.
func (g *Gateway) StartPreauth(ctx context.Context, amount decimal.Decimal, card *CreditCard, opts Options) (*Result, error) {
	req := newTransactionRequest(ActionStartPreauth, amount, opts)
	req.Card = card
	result, err := g.commit(ctx, req)
	if err != nil {
		return nil, err
	}

	if !result.Success {
		g.logger.Info("3-D Secure enrollment check failed",
			zap.String("state", string(PreauthEnrollmentFailed)),
			zap.String("message", result.Message),
		)
		return result, nil
	}

	result.Preauth = preauthFromEnrollment(result.Params)
	g.logger.Info("3-D Secure enrollment checked",
		zap.String("state", string(result.Preauth.State)),
		zap.Bool("enrolled", result.Preauth.Enrolled),
	)
	return result, nil
}

// FinishPreauth decodes the ACS callback into a token for Purchase. raw may be
// a PreauthCallback, a map[string]string, url.Values, or a query string as
// string or []byte.
func (g *Gateway) FinishPreauth(raw any) (*ContinuationToken, error) {
	callback, err := DecodePreauthCallback(raw)
	if err != nil {
		g.logger.Warn("Rejected 3-D Secure callback", zap.Error(err))
		return nil, err
	}
	token, err := NewContinuationToken(callback)
	if err != nil {
		g.logger.Warn("Rejected 3-D Secure callback", zap.Error(err))
		return nil, err
	}
	g.logger.Info("3-D Secure callback accepted", zap.String("state", string(PreauthTokenReceived)))
	return token, nil
}

// commit encodes, sends, parses and classifies one request
func (g *Gateway) commit(ctx context.Context, req TransactionRequest) (*Result, error) {
	requestID := uuid.NewString()
	action := req.Action.String()

	fields, err := EncodeTransaction(req, g.creds)
	if err != nil {
		g.logger.Error("Invalid FSS request",
			zap.String("request_id", requestID),
			zap.String("action", action),
			zap.Error(err),
		)
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	body, err := BuildRequest(fields)
	if err != nil {
		g.logger.Error("Failed to build FSS request", zap.String("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	endpoint := g.URL(req.Action)
	g.logger.Info("Processing FSS transaction",
		zap.String("request_id", requestID),
		zap.String("action", action),
		zap.String("endpoint", endpoint),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("card_last_four", req.Card.LastFour()),
		zap.Bool("test_mode", g.testMode),
	)

	startTime := time.Now()
	raw, err := g.transport.Post(ctx, endpoint, body)
	if err != nil {
		g.logger.Error("Failed to send FSS request",
			zap.String("request_id", requestID),
			zap.Error(err),
			zap.Duration("elapsed", time.Since(startTime)),
		)
		g.record(action, "error", time.Since(startTime))
		return nil, err
	}

	resp, err := ParseResponse(raw)
	if err != nil {
		g.logger.Warn("Malformed FSS response, classifying parsed fields",
			zap.String("request_id", requestID),
			zap.Error(err),
			zap.Int("body_length", len(raw)),
		)
	}

	result := classify(resp, g.testMode)
	g.logger.Info("Processed FSS transaction",
		zap.String("request_id", requestID),
		zap.String("action", action),
		zap.Bool("success", result.Success),
		zap.String("result", result.ResultCode),
		zap.String("message", result.Message),
		zap.String("tranid", result.Authorization),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	outcome := "failure"
	if result.Success {
		outcome = "success"
	}
	g.record(action, outcome, time.Since(startTime))
	return result, nil
}

func (g *Gateway) record(action, outcome string, elapsed time.Duration) {
	if g.recorder != nil {
		g.recorder.RecordTransaction(action, outcome, elapsed)
	}
}
