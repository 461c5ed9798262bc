package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of error for handling
type ErrorCategory string

const (
	CategoryApproved          ErrorCategory = "approved"
	CategoryDeclined          ErrorCategory = "declined"
	CategoryInsufficientFunds ErrorCategory = "insufficient_funds"
	CategoryInvalidCard       ErrorCategory = "invalid_card"
	CategoryExpiredCard       ErrorCategory = "expired_card"
	CategoryFraud             ErrorCategory = "fraud"
	CategoryAuthentication    ErrorCategory = "authentication"
	CategorySystemError       ErrorCategory = "system_error"
	CategoryNetworkError      ErrorCategory = "network_error"
	CategoryInvalidRequest    ErrorCategory = "invalid_request"
)

// ValidationCode identifies why input was rejected before reaching the processor
type ValidationCode string

const (
	CodeUnsupportedCurrency  ValidationCode = "UNSUPPORTED_CURRENCY"
	CodeMissingRequiredField ValidationCode = "MISSING_REQUIRED_FIELD"
	CodeInvalidPreauthFormat ValidationCode = "INVALID_PREAUTH_FORMAT"
	CodeInvalidRequest       ValidationCode = "INVALID_REQUEST"
)

// Sentinel errors for errors.Is matching against ValidationError codes
var (
	ErrUnsupportedCurrency  = errors.New("unsupported currency")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidPreauthFormat = errors.New("invalid preauth format")
	ErrInvalidRequest       = errors.New("invalid request")
)

// PaymentError represents a payment processing error with detailed context
type PaymentError struct {
	Code           string
	Message        string
	GatewayMessage string
	IsRetriable    bool
	Category       ErrorCategory
	Details        map[string]interface{}
}

func (e *PaymentError) Error() string {
	if e.GatewayMessage != "" {
		return fmt.Sprintf("%s: %s (gateway: %s)", e.Code, e.Message, e.GatewayMessage)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewPaymentError creates a new payment error
func NewPaymentError(code, message string, category ErrorCategory, retriable bool) *PaymentError {
	return &PaymentError{
		Code:        code,
		Message:     message,
		Category:    category,
		IsRetriable: retriable,
		Details:     make(map[string]interface{}),
	}
}

// ValidationError represents input validation errors.
// Raised before any request is sent.
type ValidationError struct {
	Field   string
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error (%s): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("validation error on field '%s' (%s): %s", e.Field, e.Code, e.Message)
}

// Is matches the sentinel error that corresponds to the validation code
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrUnsupportedCurrency:
		return e.Code == CodeUnsupportedCurrency
	case ErrMissingRequiredField:
		return e.Code == CodeMissingRequiredField
	case ErrInvalidPreauthFormat:
		return e.Code == CodeInvalidPreauthFormat
	case ErrInvalidRequest:
		return e.Code == CodeInvalidRequest
	}
	return false
}

// NewValidationError creates a new validation error
func NewValidationError(field string, code ValidationCode, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Code:    code,
		Message: message,
	}
}

// ConfigurationError is returned when an adapter is constructed without required settings
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error on '%s': %s", e.Field, e.Message)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(field, message string) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: message}
}

// TransportError wraps a network failure or a non-2xx reply from the processor.
// StatusCode is zero when no HTTP response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error posting to %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport error posting to %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *TransportError) Unwrap() error {
	return e.Err
}
