package fss

import (
	"fmt"
	"sort"

	pkgerrors "github.com/kevin07696/fss-gateway/pkg/errors"
)

// Request field names
const (
	FieldAmount       = "amt"
	FieldCurrencyCode = "currencycode"
	FieldTrackID      = "trackid"
	FieldDescription  = "udf1"
	FieldEmail        = "udf2"
	FieldCardHolder   = "member"
	FieldCardNumber   = "card"
	FieldCVV          = "cvv2"
	FieldExpiryYear   = "expyear"
	FieldExpiryMonth  = "expmonth"
	FieldTransID      = "transid"
	FieldLogin        = "id"
	FieldPassword     = "password"
	FieldAction       = "action"
)

// EncodeTransaction maps a request to the ordered protocol fields, credentials and
// action code included. Nothing is encoded when validation fails.
func EncodeTransaction(req TransactionRequest, creds Credentials) (Fields, error) {
	if err := validateRequest(req); err != nil {
		return Fields{}, err
	}

	var b FieldBuilder
	switch req.Action.payload() {
	case payloadToken:
		b = addContinuationToken(b, req.Token)
	case payloadReference:
		var err error
		if b, err = addInvoice(b, req); err != nil {
			return Fields{}, err
		}
		b = b.With(FieldTransID, req.Authorization)
		b = addCustomerData(b, req)
	case payloadCard:
		var err error
		if b, err = addInvoice(b, req); err != nil {
			return Fields{}, err
		}
		b = addCreditCard(b, req.Card)
		b = addCustomerData(b, req)
	}

	b = b.With(FieldLogin, creds.Login).With(FieldPassword, creds.Password)
	if code, ok := req.Action.Code(); ok {
		b = b.With(FieldAction, code)
	}
	return b.Build(), nil
}

func addInvoice(b FieldBuilder, req TransactionRequest) (FieldBuilder, error) {
	currency, err := CurrencyCode(req.Currency)
	if err != nil {
		return b, err
	}
	return b.
		With(FieldAmount, req.Amount.StringFixed(2)).
		With(FieldCurrencyCode, currency).
		WithOptional(FieldTrackID, req.OrderID).
		WithOptional(FieldDescription, req.Description), nil
}

func addCreditCard(b FieldBuilder, card *CreditCard) FieldBuilder {
	return b.
		With(FieldCardHolder, card.Name).
		With(FieldCardNumber, card.Number).
		With(FieldCVV, card.VerificationValue).
		With(FieldExpiryYear, fourDigits(card.Year)).
		With(FieldExpiryMonth, fmt.Sprintf("%02d", card.Month))
}

// fourDigits zero-pads to four digits and keeps the last four
func fourDigits(n int) string {
	s := fmt.Sprintf("%04d", n)
	return s[len(s)-4:]
}

func addCustomerData(b FieldBuilder, req TransactionRequest) FieldBuilder {
	return b.WithOptional(FieldEmail, req.Email)
}

// addContinuationToken forwards every callback field, PaRes and MD first and
// the rest sorted by key. Credential and action keys are never taken from the
// callback.
func addContinuationToken(b FieldBuilder, token *ContinuationToken) FieldBuilder {
	b = b.
		With(FieldAuthResponse, token.AuthResponse()).
		With(FieldMerchantData, token.MerchantData())

	extra := make([]string, 0, len(token.fields))
	for key := range token.fields {
		switch key {
		case FieldAuthResponse, FieldMerchantData, FieldLogin, FieldPassword, FieldAction:
			continue
		}
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		b = b.With(key, token.fields[key])
	}
	return b
}

func validateRequest(req TransactionRequest) error {
	if !req.Action.Valid() {
		return pkgerrors.NewValidationError("action", pkgerrors.CodeInvalidRequest,
			fmt.Sprintf("unknown action %d", int(req.Action)))
	}

	populated := 0
	if req.Card != nil {
		populated++
	}
	if req.Authorization != "" {
		populated++
	}
	if req.Token != nil {
		populated++
	}
	if populated > 1 {
		return pkgerrors.NewValidationError("", pkgerrors.CodeInvalidRequest,
			"exactly one of card, authorization or preauth token may be set")
	}

	switch req.Action.payload() {
	case payloadCard:
		if req.Card == nil {
			return pkgerrors.NewValidationError("card", pkgerrors.CodeMissingRequiredField,
				fmt.Sprintf("%s requires card details", req.Action))
		}
	case payloadReference:
		if req.Authorization == "" {
			return pkgerrors.NewValidationError("authorization", pkgerrors.CodeMissingRequiredField,
				fmt.Sprintf("%s requires a prior transaction reference", req.Action))
		}
	case payloadToken:
		if req.Token == nil {
			return pkgerrors.NewValidationError("preauth", pkgerrors.CodeMissingRequiredField,
				fmt.Sprintf("%s requires a continuation token", req.Action))
		}
		return req.Token.validate()
	}
	return nil
}
