package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway creates a card PaymentMethod and a confirmed PaymentIntent for each charge.
type StripeGateway struct {
	api      *client.API
	currency string
}

func NewStripeGateway(key, currency string) *StripeGateway {
	if currency == "" {
		currency = "inr"
	}
	api := &client.API{}
	api.Init(key, nil)
	return &StripeGateway{api: api, currency: currency}
}

func (g *StripeGateway) Pay(ctx context.Context, card Card, amount int64) (*Receipt, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	month, year, err := parseExpiry(card.Expiry)
	if err != nil {
		return nil, err
	}

	pmParams := &stripe.PaymentMethodParams{
		Type: stripe.String(string(stripe.PaymentMethodTypeCard)),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(card.Digits()),
			ExpMonth: stripe.Int64(month),
			ExpYear:  stripe.Int64(year),
			CVC:      stripe.String(card.CVV),
		},
		BillingDetails: &stripe.PaymentMethodBillingDetailsParams{
			Name: stripe.String(card.Holder),
		},
	}
	pmParams.Context = ctx
	pm, err := g.api.PaymentMethods.New(pmParams)
	if err != nil {
		return nil, mapStripeError(err)
	}

	piParams := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount * 100), // paise
		Currency:           stripe.String(g.currency),
		PaymentMethod:      stripe.String(pm.ID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
		Description:        stripe.String("Bus ticket booking"),
	}
	piParams.Context = ctx
	pi, err := g.api.PaymentIntents.New(piParams)
	if err != nil {
		return nil, mapStripeError(err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("%w: payment intent %s is %s", ErrDeclined, pi.ID, pi.Status)
	}

	return &Receipt{Reference: pi.ID, Amount: amount, Currency: g.currency, Method: "card"}, nil
}

func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
		return fmt.Errorf("%w: %s", ErrDeclined, stripeErr.Msg)
	}
	return fmt.Errorf("stripe request failed: %w", err)
}

// parseExpiry accepts "MM/YY" or "MM/YYYY".
func parseExpiry(expiry string) (int64, int64, error) {
	parts := strings.Split(strings.TrimSpace(expiry), "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: expiry must be MM/YY", ErrDeclined)
	}
	month, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: invalid expiry month", ErrDeclined)
	}
	year, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid expiry year", ErrDeclined)
	}
	if year < 100 {
		year += 2000
	}
	return month, year, nil
}
