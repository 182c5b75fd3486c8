package exchange

import (
	"math/big"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/order"
)

// OrderStatusResult mirrors the exchange contract's getOrderStatus return
type OrderStatusResult struct {
	IsValidated bool
	IsCancelled bool
	TotalFilled *big.Int
	TotalSize   *big.Int
}

// UseCase is the boundary toward the on-chain exchange contract
type UseCase interface {
	// CheckStatus resolves the settlement state of a persisted order.
	// Transport failures surface as domain.ErrChainUnavailable, never as a
	// definitive order.StatusInvalid.
	CheckStatus(ctx ctx.Ctx, id order.Id) (order.Status, error)

	// Fulfill submits the fulfillment transaction once, without local retry.
	Fulfill(ctx ctx.Ctx, id order.Id, fulfiller domain.Address) (domain.TxHash, error)

	// RefreshOpenOrders re-checks all open orders and records state changes
	RefreshOpenOrders(ctx ctx.Ctx) error
}
