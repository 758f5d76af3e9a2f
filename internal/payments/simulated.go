package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SimulatedGateway approves every well-formed card except those ending in declineSuffix.
type SimulatedGateway struct {
	declineSuffix string
	currency      string
}

func NewSimulatedGateway(declineSuffix, currency string) *SimulatedGateway {
	if currency == "" {
		currency = "inr"
	}
	return &SimulatedGateway{declineSuffix: declineSuffix, currency: currency}
}

func (g *SimulatedGateway) Pay(ctx context.Context, card Card, amount int64) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	if g.declineSuffix != "" && strings.HasSuffix(card.Digits(), g.declineSuffix) {
		return nil, fmt.Errorf("%w: card ending %s", ErrDeclined, g.declineSuffix)
	}
	return &Receipt{
		Reference: "SIM_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		Amount:    amount,
		Currency:  g.currency,
		Method:    "card",
	}, nil
}
