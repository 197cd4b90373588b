// Package holdings implements the per-(batch, holder) credit accounting and
// the sale-order lifecycle spec.md §2 item 7 and §4.7 define: create,
// complete, close, and (driven by the timeout scheduler) expire, over
// carbon-credit batches with an available/reserved balance split.
package holdings

import (
	"fmt"

	"veles/core/currency"
	"veles/core/events"
	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
)

// SaleTimeoutQueue is the subset of native/timeout.Queues this engine needs:
// scheduling and cancelling a sale order's expiry entry.
type SaleTimeoutQueue interface {
	SaleEnqueue(block types.BlockNumber, hash crypto.Hash256) error
	SaleRemove(block types.BlockNumber, hash crypto.Hash256) error
}

// Engine mutates Holdings and SaleOrder under the precondition ordering
// spec.md §4.7 specifies.
type Engine struct {
	store    *state.Store
	currency currency.Source
	timeouts SaleTimeoutQueue
	emit     events.Emitter
}

// NewEngine constructs a holdings & sale-order Engine.
func NewEngine(store *state.Store, cur currency.Source, timeouts SaleTimeoutQueue, emit events.Emitter) *Engine {
	if emit == nil {
		emit = events.NoopEmitter{}
	}
	return &Engine{store: store, currency: cur, timeouts: timeouts, emit: emit}
}

func (e *Engine) requireCreditTxEligible(id crypto.AccountId) error {
	eligible, err := e.store.IsEligibleForCreditTx(id)
	if err != nil {
		return err
	}
	if !eligible {
		return ErrUserIsNotEligibleForCreditTx
	}
	return nil
}

// CreateSaleOrder implements spec.md §4.7's create_sale_order. Per spec.md
// §9 open question 2, timeoutBlock must be derived from the
// VotingTimeout configuration value, not SalesTimeout — preserved here as
// observed in the source; the caller supplies the already-resolved
// votingTimeout so this package stays agnostic of where configuration lives.
func (e *Engine) CreateSaleOrder(seller crypto.AccountId, batchHash crypto.Hash256, amount, price types.Balance, nonce uint64, now types.Moment, votingTimeout types.BlockNumber, currentBlock types.BlockNumber) (crypto.Hash256, error) {
	if err := e.requireCreditTxEligible(seller); err != nil {
		return crypto.Hash256{}, err
	}
	batch, found, err := e.store.BatchGet(batchHash)
	if err != nil {
		return crypto.Hash256{}, err
	}
	if !found {
		return crypto.Hash256{}, ErrCarbonCreditBatchDoesNotExist
	}
	if batch.Status != state.BatchActive {
		return crypto.Hash256{}, ErrCarbonCreditBatchIsNotActive
	}
	holding, err := e.store.HoldingsGet(batchHash, seller)
	if err != nil {
		return crypto.Hash256{}, err
	}
	if !holding.Available.GTE(amount) {
		return crypto.Hash256{}, ErrNotEnoughAvailableCredits
	}

	saleHash := crypto.EntityDigest(seller, nonce, now.UnixNano())
	timeoutBlock := currentBlock + votingTimeout
	order := state.SaleOrder{
		BatchHash:    batchHash,
		CreditAmount: amount,
		CreditPrice:  price,
		Seller:       seller,
		Buyer:        seller,
		SaleActive:   true,
		SaleTimeout:  timeoutBlock,
	}
	if err := e.store.SaleOrderPut(saleHash, order); err != nil {
		return crypto.Hash256{}, err
	}
	if err := e.timeouts.SaleEnqueue(timeoutBlock, saleHash); err != nil {
		return crypto.Hash256{}, fmt.Errorf("holdings: enqueue sale timeout: %w", err)
	}
	holding.Available = holding.Available.Sub(amount)
	holding.Reserved = holding.Reserved.Add(amount)
	if err := e.store.HoldingsPut(batchHash, seller, holding); err != nil {
		return crypto.Hash256{}, err
	}
	e.emit.Emit(newSaleOrderCreatedEvent(seller, saleHash, batchHash, amount, price))
	return saleHash, nil
}

// CompleteSaleOrder implements spec.md §4.7's complete_sale_order.
func (e *Engine) CompleteSaleOrder(buyer crypto.AccountId, saleHash crypto.Hash256) error {
	if err := e.requireCreditTxEligible(buyer); err != nil {
		return err
	}
	order, found, err := e.store.SaleOrderGet(saleHash)
	if err != nil {
		return err
	}
	if !found {
		return ErrCarbonCreditSaleOrderDoesNotExist
	}
	if buyer == order.Seller {
		return ErrBuyerCantBuyHisOwnTokens
	}
	batch, found, err := e.store.BatchGet(order.BatchHash)
	if err != nil {
		return err
	}
	if !found {
		return ErrCarbonCreditBatchDoesNotExist
	}
	if batch.Status != state.BatchActive {
		return ErrCarbonCreditBatchIsNotActive
	}

	payment := order.CreditAmount.Mul(order.CreditPrice)
	buyerBalance, err := e.currency.FreeBalance(buyer)
	if err != nil {
		return fmt.Errorf("holdings: read balance: %w", err)
	}
	if !buyerBalance.GTE(payment) {
		return ErrInsufficientFunds
	}
	// Payment direction is seller→buyer, preserved verbatim from spec.md
	// §4.7 item 6 alongside the pallet→user fee-direction open question
	// (spec.md §9 open question 1): both are the source's observed
	// behavior, not this implementation's invention.
	if err := e.currency.Transfer(order.Seller, buyer, payment, true); err != nil {
		return fmt.Errorf("holdings: transfer payment: %w", err)
	}

	order.Buyer = buyer
	order.SaleActive = false
	if err := e.store.SaleOrderPut(saleHash, order); err != nil {
		return err
	}

	sellerHolding, err := e.store.HoldingsGet(order.BatchHash, order.Seller)
	if err != nil {
		return err
	}
	sellerHolding.Reserved = sellerHolding.Reserved.Sub(order.CreditAmount)
	if err := e.store.HoldingsPut(order.BatchHash, order.Seller, sellerHolding); err != nil {
		return err
	}

	buyerHolding, err := e.store.HoldingsGet(order.BatchHash, buyer)
	if err != nil {
		return err
	}
	buyerHolding.Available = buyerHolding.Available.Add(order.CreditAmount)
	if err := e.store.HoldingsPut(order.BatchHash, buyer, buyerHolding); err != nil {
		return err
	}

	if err := e.timeouts.SaleRemove(order.SaleTimeout, saleHash); err != nil {
		return fmt.Errorf("holdings: remove sale timeout: %w", err)
	}
	e.emit.Emit(newSaleOrderCompletedEvent(buyer, saleHash))
	return nil
}

// CloseSaleOrder implements spec.md §4.7's close_sale_order.
func (e *Engine) CloseSaleOrder(seller crypto.AccountId, saleHash crypto.Hash256) error {
	if err := e.requireCreditTxEligible(seller); err != nil {
		return err
	}
	order, found, err := e.store.SaleOrderGet(saleHash)
	if err != nil {
		return err
	}
	if !found {
		return ErrCarbonCreditSaleOrderDoesNotExist
	}
	if order.Seller != seller {
		return ErrUserDidntCreateTheSellOrder
	}
	batch, found, err := e.store.BatchGet(order.BatchHash)
	if err != nil {
		return err
	}
	if !found {
		return ErrCarbonCreditBatchDoesNotExist
	}
	if batch.Status != state.BatchActive {
		return ErrCarbonCreditBatchIsNotActive
	}

	holding, err := e.store.HoldingsGet(order.BatchHash, seller)
	if err != nil {
		return err
	}
	holding.Reserved = holding.Reserved.Sub(order.CreditAmount)
	holding.Available = holding.Available.Add(order.CreditAmount)
	if err := e.store.HoldingsPut(order.BatchHash, seller, holding); err != nil {
		return err
	}

	order.SaleActive = false
	if err := e.store.SaleOrderPut(saleHash, order); err != nil {
		return err
	}
	if err := e.timeouts.SaleRemove(order.SaleTimeout, saleHash); err != nil {
		return fmt.Errorf("holdings: remove sale timeout: %w", err)
	}
	e.emit.Emit(newSaleOrderClosedEvent(seller, saleHash))
	return nil
}

// ExpireSaleOrder implements spec.md §4.6's sale-expiration drain effect for
// a single sale hash drained from SaleTimeouts at the current block: moves
// credit_amount from the seller's reserved back to available and marks the
// order inactive. spec.md §9 open question 4 states the correct Holdings key
// is (batch_hash, seller) — not (sale_hash, seller), the source's bug — and
// this implementation uses the corrected key.
func (e *Engine) ExpireSaleOrder(saleHash crypto.Hash256) error {
	order, found, err := e.store.SaleOrderGet(saleHash)
	if err != nil {
		return err
	}
	if !found {
		// The drain tick must never fail (spec.md §7); an already-settled
		// order whose timeout entry wasn't cleaned up in time is a no-op.
		return nil
	}
	if !order.SaleActive {
		return nil
	}
	holding, err := e.store.HoldingsGet(order.BatchHash, order.Seller)
	if err != nil {
		return err
	}
	holding.Reserved = holding.Reserved.Sub(order.CreditAmount)
	holding.Available = holding.Available.Add(order.CreditAmount)
	if err := e.store.HoldingsPut(order.BatchHash, order.Seller, holding); err != nil {
		return err
	}
	order.SaleActive = false
	if err := e.store.SaleOrderPut(saleHash, order); err != nil {
		return err
	}
	e.emit.Emit(newSaleOrderExpiredEvent(order.Seller, saleHash))
	return nil
}
