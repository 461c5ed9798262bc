package fss

import (
	"strings"

	pkgerrors "github.com/kevin07696/fss-gateway/pkg/errors"
)

// Reply field names
const (
	ReplyResult       = "result"
	ReplyTranID       = "tranid"
	ReplyErrorText    = "error_text"
	ReplyErrorCodeTag = "error_code_tag"
	ReplyRedirectURL  = "url"
	ReplyAuthRequest  = "pareq"
	ReplyPaymentID    = "paymentid"
)

const (
	MessageSucceeded = "Succeeded"
	MessageFailed    = "Failed"

	errorTextDelimiter = "-"
)

var successResults = map[string]struct{}{
	"CAPTURED":     {},
	"APPROVED":     {},
	"NOT ENROLLED": {},
	"ENROLLED":     {},
}

// Result is the normalized outcome of one gateway call
type Result struct {
	Success       bool
	Message       string
	Params        Response
	Authorization string
	Test          bool
	Preauth       *PreauthResult

	ResultCode string
	ErrorCode  string
	Category   pkgerrors.ErrorCategory
}

// Err returns nil for a successful result and a *PaymentError describing the
// decline otherwise
func (r *Result) Err() error {
	if r.Success {
		return nil
	}
	info := GetResultCode(r.ResultCode)
	perr := info.ToPaymentError(r.Message)
	if r.ErrorCode != "" {
		perr.Details["error_code_tag"] = r.ErrorCode
	}
	return perr
}

// Succeeded reports whether the reply carries one of the success results
func Succeeded(resp Response) bool {
	_, ok := successResults[resp.Get(ReplyResult)]
	return ok
}

// MessageFrom derives the human-readable message. Failure text comes from
// error_text, falling back to result; FSS prefixes it with dash-delimited
// codes so only the last segment is kept.
func MessageFrom(succeeded bool, resp Response) string {
	if succeeded {
		return MessageSucceeded
	}
	text := resp.Get(ReplyErrorText)
	if text == "" {
		text = resp.Get(ReplyResult)
	}
	if text == "" {
		return MessageFailed
	}
	return lastSegment(text)
}

// lastSegment splits on the delimiter, ignoring trailing empty segments.
// A string with no delimiter is returned unchanged.
func lastSegment(s string) string {
	parts := strings.Split(s, errorTextDelimiter)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return s
	}
	return parts[len(parts)-1]
}

func classify(resp Response, test bool) *Result {
	succeeded := Succeeded(resp)
	code := resp.Get(ReplyResult)
	return &Result{
		Success:       succeeded,
		Message:       MessageFrom(succeeded, resp),
		Params:        resp,
		Authorization: resp.Get(ReplyTranID),
		Test:          test,
		ResultCode:    code,
		ErrorCode:     resp.Get(ReplyErrorCodeTag),
		Category:      GetResultCode(code).Category,
	}
}
