package ln

import (
	"context"
)

// Invoice is what the payment gateway hands back on invoice creation.
type Invoice struct {
	PaymentHash    string `json:"payment_hash"`
	PaymentRequest string `json:"payment_request"`
	// ExpirySeconds is the gateway-reported invoice expiry. Zero means the
	// gateway omitted it and the caller has to fall back.
	ExpirySeconds int64 `json:"expiry"`
}

// Settlement is the gateway's view of an invoice's payment state.
// An invoice counts as settled only when Settled is true AND State is
// StateSettled. Any other combination is treated as unpaid.
type Settlement struct {
	Settled bool   `json:"settled"`
	State   string `json:"state"`
}

const StateSettled = "SETTLED"

func (s *Settlement) IsSettled() bool {
	return s.Settled && s.State == StateSettled
}

type GatewayWrapper interface {
	CreateInvoice(ctx context.Context, amountSats int64, memo string) (*Invoice, error)
	CheckSettlement(ctx context.Context, paymentHash string) (*Settlement, error)
}
