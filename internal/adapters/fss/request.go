package fss

import (
	"github.com/shopspring/decimal"
)

// Credentials are the merchant login sent with every request
type Credentials struct {
	Login    string
	Password string
}

// CreditCard holds the card data FSS expects for card-present actions
type CreditCard struct {
	Name              string // Cardholder name as printed
	Number            string
	VerificationValue string
	Month             int
	Year              int
}

// LastFour returns the last four digits of the card number for logging
func (c *CreditCard) LastFour() string {
	if c == nil || len(c.Number) < 4 {
		return ""
	}
	return c.Number[len(c.Number)-4:]
}

// Options carries the optional per-call parameters
type Options struct {
	Currency    string // ISO alpha code, defaults to INR
	OrderID     string // Sent as trackid
	Description string // Sent as udf1
	Email       string // Sent as udf2

	// Preauth completes a 3-D Secure purchase instead of charging a card
	Preauth *ContinuationToken
}

// TransactionRequest is one logical operation ready for encoding.
// Exactly one of Card, Authorization or Token is set, matching Action.
type TransactionRequest struct {
	Action        Action
	Amount        decimal.Decimal
	Currency      string
	OrderID       string
	Description   string
	Email         string
	Card          *CreditCard
	Authorization string // Prior transaction reference for capture/refund
	Token         *ContinuationToken
}

func newTransactionRequest(action Action, amount decimal.Decimal, opts Options) TransactionRequest {
	return TransactionRequest{
		Action:      action,
		Amount:      amount,
		Currency:    opts.Currency,
		OrderID:     opts.OrderID,
		Description: opts.Description,
		Email:       opts.Email,
	}
}
