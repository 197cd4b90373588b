package holdings

import (
	"veles/core/types"
	"veles/crypto"
)

// Event type strings for the holdings & sale-order engine, in the same
// dotted namespace convention as the other native packages.
const (
	EventTypeSaleOrderCreated   = "holdings.sale_order.created"
	EventTypeSaleOrderCompleted = "holdings.sale_order.completed"
	EventTypeSaleOrderClosed    = "holdings.sale_order.closed"
	EventTypeSaleOrderExpired   = "holdings.sale_order.expired"
)

// newSaleOrderCreatedEvent's replay attributes carry sale_hash alongside the
// spec.md §6 (seller, batch_hash, amount, price) signature: every later
// sale-order event (completed/closed/expired) is keyed by sale_hash, so an
// off-chain projection needs it on the row the created event seeds.
func newSaleOrderCreatedEvent(seller crypto.AccountId, saleHash crypto.Hash256, batchHash crypto.Hash256, amount, price types.Balance) *types.Event {
	return types.NewEvent(EventTypeSaleOrderCreated, map[string]string{
		"seller":     seller.String(),
		"sale_hash":  saleHash.String(),
		"batch_hash": batchHash.String(),
		"amount":     amount.String(),
		"price":      price.String(),
	})
}

func newSaleOrderCompletedEvent(buyer crypto.AccountId, saleHash crypto.Hash256) *types.Event {
	return types.NewEvent(EventTypeSaleOrderCompleted, map[string]string{
		"buyer":     buyer.String(),
		"sale_hash": saleHash.String(),
	})
}

func newSaleOrderClosedEvent(seller crypto.AccountId, saleHash crypto.Hash256) *types.Event {
	return types.NewEvent(EventTypeSaleOrderClosed, map[string]string{
		"seller":    seller.String(),
		"sale_hash": saleHash.String(),
	})
}

func newSaleOrderExpiredEvent(seller crypto.AccountId, saleHash crypto.Hash256) *types.Event {
	return types.NewEvent(EventTypeSaleOrderExpired, map[string]string{
		"seller":    seller.String(),
		"sale_hash": saleHash.String(),
	})
}
