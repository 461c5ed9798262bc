package fss

import (
	"fmt"
	"strings"

	pkgerrors "github.com/kevin07696/fss-gateway/pkg/errors"
)

// DefaultCurrency is used when a request does not name one
const DefaultCurrency = "INR"

// ISO 4217 alpha code -> numeric code accepted by FSS
var currencyCodes = map[string]string{
	"INR": "356",
}

// CurrencyCode returns the numeric code for an ISO alpha currency.
// There is no fallback: unsupported currencies are a validation error.
func CurrencyCode(currency string) (string, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	code, ok := currencyCodes[strings.ToUpper(currency)]
	if !ok {
		return "", pkgerrors.NewValidationError("currency", pkgerrors.CodeUnsupportedCurrency,
			fmt.Sprintf("invalid currency for FSS: %s", currency))
	}
	return code, nil
}

// SupportedCurrencies lists the ISO alpha codes in the currency table
func SupportedCurrencies() []string {
	out := make([]string, 0, len(currencyCodes))
	for iso := range currencyCodes {
		out = append(out, iso)
	}
	return out
}
