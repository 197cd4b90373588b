package timeout

import (
	"fmt"
	"log/slog"

	"veles/core/state"
	"veles/core/types"
	"veles/crypto"
)

// Finalizer is the subset of native/voting.Engine the scheduler drives: one
// artifact's voting-finalization effects for the drained DocString.
type Finalizer interface {
	FinalizeArtifact(kind state.ArtifactKind, doc types.DocString, now types.Moment) error
}

// SaleExpirer is the subset of native/holdings.Engine the scheduler drives:
// one sale order's expiration effects for the drained Hash256.
type SaleExpirer interface {
	ExpireSaleOrder(hash crypto.Hash256) error
}

// Scheduler implements spec.md §4.6's per-block tick: pallet-base-time
// update, then voting finalization, then sale expiration, run once per
// block before any extrinsic of that block is processed (spec.md §5). The
// drain tick is infallible by contract (spec.md §7): Tick returns no error;
// every failure is logged as a diagnostic and the block is not aborted.
type Scheduler struct {
	queues    *Queues
	store     *state.Store
	finalizer Finalizer
	expirer   SaleExpirer
	logger    *slog.Logger
}

// NewScheduler constructs a Scheduler over queues, wiring in the voting
// finalizer and sale-order expirer the drain dispatches to.
func NewScheduler(queues *Queues, store *state.Store, finalizer Finalizer, expirer SaleExpirer, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{queues: queues, store: store, finalizer: finalizer, expirer: expirer, logger: logger}
}

// Tick runs the three-step block hook spec.md §4.6 orders: pallet-base-time
// → voting finalization → sale expiration. now is the clock's current
// moment, reused as the creation_date stamp for any entity finalization
// creates. Per spec.md §7 the drain must never fail the block; any
// inconsistency discovered mid-drain is logged as a diagnostic and the
// remaining entries are still processed.
func (s *Scheduler) Tick(block types.BlockNumber, now types.Moment) {
	if err := s.tickPalletBaseTime(block); err != nil {
		s.logger.Error("timeout: pallet-base-time tick failed", "block", block, "error", err)
	}
	s.drainVoting(block, now)
	s.drainSales(block)
}

// tickPalletBaseTime implements spec.md §4.6's anniversary tick: if
// pallet_base_time is unset or this block completes a full
// blocks-per-year cycle since the last tick, pallet_base_time is reset to
// now. Per spec.md §9 open question 5, nothing downstream consumes the
// value in this core; the tick is still carried faithfully.
func (s *Scheduler) tickPalletBaseTime(block types.BlockNumber) error {
	base, _, err := s.store.TimeValue(state.TimePalletBaseTime)
	if err != nil {
		return fmt.Errorf("read pallet-base-time: %w", err)
	}
	blocksPerYear, _, err := s.store.TimeValue(state.TimeBlocksYearly)
	if err != nil {
		return fmt.Errorf("read blocks-per-year: %w", err)
	}
	if base == 0 || block == base+blocksPerYear {
		if err := s.store.SetTimeValue(state.TimePalletBaseTime, block); err != nil {
			return fmt.Errorf("write pallet-base-time: %w", err)
		}
	}
	return nil
}

// drainVoting finalizes every DocString enqueued for block, in the
// deterministic byte order VotingDrain returns (spec.md §9's "ordered
// container" redesign note and property P6).
func (s *Scheduler) drainVoting(block types.BlockNumber, now types.Moment) {
	docs, err := s.queues.VotingDrain(block)
	if err != nil {
		s.logger.Error("timeout: voting drain failed", "block", block, "error", err)
		return
	}
	for _, doc := range docs {
		kind, found, err := s.store.ArtifactKindOf(doc)
		if err != nil {
			s.logger.Error("timeout: resolve artifact kind failed", "doc", doc, "error", err)
			continue
		}
		if !found {
			s.logger.Error("timeout: enqueued doc owns no artifact table entry", "doc", doc)
			continue
		}
		if err := s.finalizer.FinalizeArtifact(kind, doc, now); err != nil {
			s.logger.Error("timeout: finalize artifact failed", "doc", doc, "kind", kind, "error", err)
			continue
		}
		s.logger.Info("timeout: artifact finalized", "doc", doc, "kind", kind, "block", block)
	}
}

// drainSales expires every sale order enqueued for block, in the
// deterministic byte order SaleDrain returns.
func (s *Scheduler) drainSales(block types.BlockNumber) {
	hashes, err := s.queues.SaleDrain(block)
	if err != nil {
		s.logger.Error("timeout: sale drain failed", "block", block, "error", err)
		return
	}
	for _, hash := range hashes {
		if err := s.expirer.ExpireSaleOrder(hash); err != nil {
			s.logger.Error("timeout: expire sale order failed", "sale_hash", hash.String(), "error", err)
			continue
		}
		s.logger.Info("timeout: sale order expired", "sale_hash", hash.String(), "block", block)
	}
}
