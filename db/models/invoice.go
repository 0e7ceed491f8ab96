package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Invoice : Purchase invoice model
//
// One row per purchase attempt, keyed by the payment hash the gateway
// assigned. Paid is monotonic: it is flipped exactly once by a confirmed
// settlement check and never flipped back.
type Invoice struct {
	PaymentHash    string       `json:"payment_hash" bun:",pk"`
	FileID         int64        `json:"file_id" bun:",notnull"`
	Amount         int64        `json:"amount" validate:"gte=0"`
	Memo           string       `json:"memo" bun:",nullzero"`
	PaymentRequest string       `json:"payment_request" bun:",nullzero"`
	Paid           bool         `json:"paid" bun:",default:false"`
	ClientKey      string       `json:"-" bun:",notnull"`
	CreatedAt      time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	ExpiresAt      bun.NullTime `json:"expires_at" bun:",nullzero"`
	UpdatedAt      bun.NullTime `json:"updated_at"`
	SettledAt      bun.NullTime `json:"settled_at"`
}

func (i *Invoice) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		i.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

// IsExpired reports whether the invoice is past its expiry. An expired
// unpaid invoice is inert: it must never yield a download token.
func (i *Invoice) IsExpired() bool {
	return !i.ExpiresAt.IsZero() && i.ExpiresAt.Time.Before(time.Now())
}

var _ bun.BeforeAppendModelHook = (*Invoice)(nil)
