package preauth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kevin07696/fss-gateway/internal/adapters/fss"
	pkgerrors "github.com/kevin07696/fss-gateway/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxCallbackSize bounds the ACS form body; PaRes is a compressed blob of a few KB
const maxCallbackSize = 64 << 10

// Gateway is the part of the FSS gateway the callback needs
type Gateway interface {
	FinishPreauth(raw any) (*fss.ContinuationToken, error)
	Purchase(ctx context.Context, amount decimal.Decimal, card *fss.CreditCard, opts fss.Options) (*fss.Result, error)
}

// CallbackResponse is returned to the caller after the purchase is committed
type CallbackResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Authorization string `json:"authorization,omitempty"`
	ResultCode    string `json:"result_code,omitempty"`
	Test          bool   `json:"test"`
	PreauthState  string `json:"preauth_state,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// CallbackHandler completes a 3-D Secure purchase when the ACS posts back
// PaRes and MD to the term URL
type CallbackHandler struct {
	gateway Gateway
	logger  *zap.Logger
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(gateway Gateway, logger *zap.Logger) *CallbackHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallbackHandler{gateway: gateway, logger: logger}
}

// AppendRoutes mounts the handler on r
func (h *CallbackHandler) AppendRoutes(r chi.Router) {
	r.Route("/preauth", func(r chi.Router) {
		r.Post("/callback", h.HandleCallback)
	})
}

// HandleCallback processes the ACS form post
// POST /preauth/callback  (application/x-www-form-urlencoded: PaRes=...&MD=...)
func (h *CallbackHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackSize+1))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errorResponse{Error: "failed to read callback body"})
		return
	}
	if len(body) > maxCallbackSize {
		h.writeError(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "callback body too large"})
		return
	}

	var raw any = body
	if len(body) == 0 {
		raw = r.URL.RawQuery
	}

	token, err := h.gateway.FinishPreauth(raw)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("Completing 3-D Secure purchase",
		zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		zap.Int("callback_fields", len(token.Fields())),
	)

	result, err := h.gateway.Purchase(r.Context(), decimal.Zero, nil, fss.Options{Preauth: token})
	if err != nil {
		h.handleError(w, err)
		return
	}

	resp := CallbackResponse{
		Success:       result.Success,
		Message:       result.Message,
		Authorization: result.Authorization,
		ResultCode:    result.ResultCode,
		Test:          result.Test,
	}
	if result.Preauth != nil {
		resp.PreauthState = string(result.Preauth.State)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func (h *CallbackHandler) handleError(w http.ResponseWriter, err error) {
	var validationErr *pkgerrors.ValidationError
	var transportErr *pkgerrors.TransportError

	switch {
	case errors.As(err, &validationErr):
		h.writeError(w, http.StatusBadRequest, errorResponse{
			Error: validationErr.Message,
			Code:  string(validationErr.Code),
			Field: validationErr.Field,
		})
	case errors.As(err, &transportErr):
		h.logger.Error("FSS unreachable while completing 3-D Secure purchase", zap.Error(err))
		h.writeError(w, http.StatusBadGateway, errorResponse{Error: "payment processor unavailable"})
	default:
		h.logger.Error("Failed to complete 3-D Secure purchase", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h *CallbackHandler) writeError(w http.ResponseWriter, status int, body errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
