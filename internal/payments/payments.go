// Package payments charges a card for a booking total.
package payments

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"busbooking/internal/shared/apperror"
	"busbooking/internal/shared/config"
)

var (
	ErrDeclined      = errors.New("payment declined")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Card is what the user types on the payment screen. It is never persisted.
type Card struct {
	Number string `json:"card_number"`
	Holder string `json:"card_holder"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// Digits returns the card number without spaces or dashes.
func (c Card) Digits() string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, c.Number)
}

// Validate checks shape only: a 16-digit number and non-empty holder, expiry and CVV.
func (c Card) Validate() error {
	digits := c.Digits()
	if len(digits) != 16 {
		return apperror.NewValidation(apperror.CodeInvalidCard, "card_number", "card number must have 16 digits")
	}
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return apperror.NewValidation(apperror.CodeInvalidCard, "card_number", "card number must have 16 digits")
		}
	}
	if strings.TrimSpace(c.Holder) == "" {
		return apperror.NewValidation(apperror.CodeInvalidCard, "card_holder", "card holder is required")
	}
	if strings.TrimSpace(c.Expiry) == "" {
		return apperror.NewValidation(apperror.CodeInvalidCard, "expiry", "expiry is required")
	}
	if strings.TrimSpace(c.CVV) == "" {
		return apperror.NewValidation(apperror.CodeInvalidCard, "cvv", "cvv is required")
	}
	return nil
}

// Receipt identifies a captured payment.
type Receipt struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Method    string `json:"method"`
}

// Gateway charges amount (whole rupees) to card. A refused charge returns an error wrapping ErrDeclined.
type Gateway interface {
	Pay(ctx context.Context, card Card, amount int64) (*Receipt, error)
}

// NewGateway picks the gateway named by cfg.Provider, defaulting to the simulator.
func NewGateway(cfg config.PaymentConfig) Gateway {
	switch strings.ToLower(cfg.Provider) {
	case "stripe":
		return NewStripeGateway(cfg.StripeKey, cfg.Currency)
	default:
		return NewSimulatedGateway(cfg.DeclineSuffix, cfg.Currency)
	}
}
