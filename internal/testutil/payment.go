package testutil

import (
	"context"

	"github.com/rrauch/ark/core"
)

// Payment is a flat-fee fake of core.PaymentCapability: it ignores the
// estimate and returns an empty payment option every time.
type Payment struct{}

func (Payment) Payment(ctx context.Context, estimate core.Cost) (core.PaymentOption, error) {
	return core.PaymentOption{}, nil
}
