package fss

import (
	"fmt"
	"net/url"
	"strings"

	pkgerrors "github.com/kevin07696/fss-gateway/pkg/errors"
)

// 3-D Secure form field names
const (
	FieldAuthRequest  = "PaReq" // Authentication request posted to the ACS
	FieldMerchantData = "MD"    // Continuation token echoed back by the ACS
	FieldAuthResponse = "PaRes" // Authentication response posted back by the ACS
)

// PreauthState tracks where a 3-D Secure handshake stands
type PreauthState string

const (
	PreauthIdle                PreauthState = "idle"
	PreauthEnrollmentRequested PreauthState = "enrollment_requested"
	PreauthEnrolled            PreauthState = "enrolled"
	PreauthNotEnrolled         PreauthState = "not_enrolled"
	PreauthEnrollmentFailed    PreauthState = "enrollment_failed"
	PreauthTokenReceived       PreauthState = "token_received"
	PreauthCompleted           PreauthState = "completed"
)

// PreauthField is one form field for the ACS redirect. Value is nil when the
// processor did not supply it.
type PreauthField struct {
	Name  string
	Value *string
}

// PreauthResult describes the redirect a cardholder must follow, if any
type PreauthResult struct {
	State    PreauthState
	Enrolled bool
	Post     bool    // Redirect must be submitted as a form POST
	URL      *string // ACS URL, nil when not enrolled
	Fields   []PreauthField
}

// Field returns the value of the named redirect field
func (p *PreauthResult) Field(name string) *string {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return nil
}

func preauthFields(authRequest, merchantData *string) []PreauthField {
	return []PreauthField{
		{Name: FieldAuthRequest, Value: authRequest},
		{Name: FieldMerchantData, Value: merchantData},
	}
}

// preauthFromEnrollment builds the redirect from a successful enrollment reply
func preauthFromEnrollment(resp Response) *PreauthResult {
	if resp.Get(ReplyResult) != "ENROLLED" {
		return &PreauthResult{
			State:  PreauthNotEnrolled,
			Fields: preauthFields(nil, nil),
		}
	}
	return &PreauthResult{
		State:    PreauthEnrolled,
		Enrolled: true,
		Post:     true,
		URL:      optional(resp, ReplyRedirectURL),
		Fields:   preauthFields(optional(resp, ReplyAuthRequest), optional(resp, ReplyPaymentID)),
	}
}

func completedPreauth() *PreauthResult {
	return &PreauthResult{
		State:    PreauthCompleted,
		Enrolled: true,
		Fields:   preauthFields(nil, nil),
	}
}

func optional(resp Response, key string) *string {
	v, ok := resp.Lookup(key)
	if !ok {
		return nil
	}
	return &v
}

// ContinuationToken is the decoded ACS callback used to complete a purchase
type ContinuationToken struct {
	fields map[string]string
}

// AuthResponse returns the PaRes value
func (t *ContinuationToken) AuthResponse() string {
	return t.fields[FieldAuthResponse]
}

// MerchantData returns the MD value
func (t *ContinuationToken) MerchantData() string {
	return t.fields[FieldMerchantData]
}

// Get returns any decoded callback field
func (t *ContinuationToken) Get(key string) (string, bool) {
	v, ok := t.fields[key]
	return v, ok
}

// Fields returns a copy of all decoded callback fields
func (t *ContinuationToken) Fields() map[string]string {
	out := make(map[string]string, len(t.fields))
	for k, v := range t.fields {
		out[k] = v
	}
	return out
}

func (t *ContinuationToken) validate() error {
	for _, key := range []string{FieldAuthResponse, FieldMerchantData} {
		if t.fields[key] == "" {
			return pkgerrors.NewValidationError(key, pkgerrors.CodeMissingRequiredField,
				fmt.Sprintf("preauth callback is missing required field %s", key))
		}
	}
	// Every field is forwarded as an element, so each key must be a usable tag name
	for key := range t.fields {
		if !isFieldName(key) {
			return pkgerrors.NewValidationError(key, pkgerrors.CodeInvalidPreauthFormat,
				fmt.Sprintf("preauth callback field %q is not a valid field name", key))
		}
	}
	return nil
}

func isFieldName(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || r == '.' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}

// PreauthCallback is the raw data the ACS sends back to the term URL.
// Implemented by CallbackFields and CallbackQuery.
type PreauthCallback interface {
	decode() (map[string]string, error)
}

// CallbackFields is an already decoded callback
type CallbackFields map[string]string

func (f CallbackFields) decode() (map[string]string, error) {
	out := make(map[string]string, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out, nil
}

// CallbackQuery is a URL-query-encoded callback, such as a form POST body
type CallbackQuery string

func (q CallbackQuery) decode() (map[string]string, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(string(q), "?"))
	if err != nil {
		return nil, pkgerrors.NewValidationError("", pkgerrors.CodeInvalidPreauthFormat,
			fmt.Sprintf("preauth callback is not a valid query string: %v", err))
	}
	return firstValues(values), nil
}

func firstValues(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// NewContinuationToken decodes and validates a callback.
// Both PaRes and MD must be present.
func NewContinuationToken(raw PreauthCallback) (*ContinuationToken, error) {
	if raw == nil {
		return nil, pkgerrors.NewValidationError("", pkgerrors.CodeInvalidPreauthFormat,
			"preauth callback is empty")
	}
	fields, err := raw.decode()
	if err != nil {
		return nil, err
	}
	token := &ContinuationToken{fields: fields}
	if err := token.validate(); err != nil {
		return nil, err
	}
	return token, nil
}

// DecodePreauthCallback adapts loosely typed input (map[string]string,
// url.Values, string or []byte) to a PreauthCallback
func DecodePreauthCallback(raw any) (PreauthCallback, error) {
	switch v := raw.(type) {
	case PreauthCallback:
		return v, nil
	case map[string]string:
		return CallbackFields(v), nil
	case url.Values:
		return CallbackFields(firstValues(v)), nil
	case string:
		return CallbackQuery(v), nil
	case []byte:
		return CallbackQuery(v), nil
	default:
		return nil, pkgerrors.NewValidationError("", pkgerrors.CodeInvalidPreauthFormat,
			fmt.Sprintf("unsupported preauth callback type %T", raw))
	}
}
