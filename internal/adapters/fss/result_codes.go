package fss

import (
	pkgerrors "github.com/kevin07696/fss-gateway/pkg/errors"
)

// ResultCodeInfo contains detailed information about an FSS result value
type ResultCodeInfo struct {
	Code        string
	Description string
	IsApproved  bool
	IsRetriable bool
	Category    pkgerrors.ErrorCategory
	UserMessage string
}

// Known values of the result field
var resultCodes = map[string]ResultCodeInfo{
	// Approvals
	"CAPTURED": {
		Code:        "CAPTURED",
		Description: "Transaction approved and captured",
		IsApproved:  true,
		Category:    pkgerrors.CategoryApproved,
		UserMessage: "Payment successful",
	},
	"APPROVED": {
		Code:        "APPROVED",
		Description: "Transaction approved",
		IsApproved:  true,
		Category:    pkgerrors.CategoryApproved,
		UserMessage: "Payment authorized",
	},

	// 3-D Secure enrollment
	"ENROLLED": {
		Code:        "ENROLLED",
		Description: "Card is enrolled in 3-D Secure",
		IsApproved:  true,
		Category:    pkgerrors.CategoryApproved,
		UserMessage: "Cardholder authentication required",
	},
	"NOT ENROLLED": {
		Code:        "NOT ENROLLED",
		Description: "Card is not enrolled in 3-D Secure",
		IsApproved:  true,
		Category:    pkgerrors.CategoryApproved,
		UserMessage: "Cardholder authentication not required",
	},

	// Declines
	"NOT CAPTURED": {
		Code:        "NOT CAPTURED",
		Description: "Transaction declined by issuer",
		Category:    pkgerrors.CategoryDeclined,
		UserMessage: "Payment declined. Please use a different payment method.",
	},
	"NOT APPROVED": {
		Code:        "NOT APPROVED",
		Description: "Authorization declined by issuer",
		Category:    pkgerrors.CategoryDeclined,
		UserMessage: "Payment declined. Please use a different payment method.",
	},
	"DENIED BY RISK": {
		Code:        "DENIED BY RISK",
		Description: "Rejected by processor risk rules",
		Category:    pkgerrors.CategoryFraud,
		UserMessage: "Transaction declined for security reasons. Please contact your bank.",
	},
	"AUTH ERROR": {
		Code:        "AUTH ERROR",
		Description: "Cardholder authentication failed",
		Category:    pkgerrors.CategoryAuthentication,
		UserMessage: "Card authentication failed. Please try again.",
	},

	// System errors (retriable by the caller)
	"HOST TIMEOUT": {
		Code:        "HOST TIMEOUT",
		Description: "Issuer or switch timeout",
		IsRetriable: true,
		Category:    pkgerrors.CategorySystemError,
		UserMessage: "Transaction timeout. Please try again.",
	},
	"FAILURE(SUSPECT)": {
		Code:        "FAILURE(SUSPECT)",
		Description: "Processor could not determine the outcome",
		IsRetriable: true,
		Category:    pkgerrors.CategorySystemError,
		UserMessage: "System error. Please try again in a few moments.",
	},
}

// GetResultCode retrieves information for a result value.
// Absent or unknown values are treated as generic declines.
func GetResultCode(code string) ResultCodeInfo {
	if info, exists := resultCodes[code]; exists {
		return info
	}
	return ResultCodeInfo{
		Code:        code,
		Description: "Unknown result",
		Category:    pkgerrors.CategoryDeclined,
		UserMessage: "Transaction declined. Please try a different payment method or contact support.",
	}
}

// ToPaymentError converts a result value to a PaymentError
func (r ResultCodeInfo) ToPaymentError(gatewayMessage string) *pkgerrors.PaymentError {
	code := r.Code
	if code == "" {
		code = "NO RESULT"
	}
	return &pkgerrors.PaymentError{
		Code:           code,
		Message:        r.UserMessage,
		GatewayMessage: gatewayMessage,
		IsRetriable:    r.IsRetriable,
		Category:       r.Category,
		Details:        map[string]interface{}{"description": r.Description},
	}
}
