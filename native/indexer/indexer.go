// Package indexer projects marketplace events into queryable SQL tables.
// It is explicitly off-chain and non-consensus-critical: Emit never
// returns an error to the caller that would roll back a state mutation,
// mirroring the teacher's read-model projections (services/swapd's
// ledger mirror) that treat the chain as the source of truth and the SQL
// store as a derived, rebuildable cache.
package indexer

import (
	"encoding/json"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"veles/core/events"
	"veles/core/types"
)

// EventRecord is the durable, append-only projection of every emitted
// core/types.Event, keyed by its envelope ID so redelivery is idempotent.
type EventRecord struct {
	ID         string `gorm:"primaryKey"`
	Type       string `gorm:"index"`
	Attributes string `gorm:"type:text"`
	RecordedAt time.Time
}

// SaleOrderView is a denormalized read model of sale-order lifecycle
// state, rebuilt entirely from holdings.sale_order.* events.
type SaleOrderView struct {
	SaleHash  string `gorm:"primaryKey"`
	BatchHash string `gorm:"index"`
	Seller    string `gorm:"index"`
	Buyer     string
	Amount    string
	Price     string
	Status    string `gorm:"index"`
	UpdatedAt time.Time
}

// Indexer implements events.Emitter, fanning every event out to the
// append-only log and, for holdings events, the SaleOrderView projection.
type Indexer struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open runs AutoMigrate against db and returns a ready Indexer. db should
// be constructed by the caller (gorm.Open with the postgres or sqlite
// driver) so the indexer stays storage-engine agnostic.
func Open(db *gorm.DB, logger *slog.Logger) (*Indexer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := db.AutoMigrate(&EventRecord{}, &SaleOrderView{}); err != nil {
		return nil, err
	}
	return &Indexer{db: db, logger: logger}, nil
}

// Emit implements events.Emitter. Failures are logged, never propagated:
// an indexer outage must not stall block production.
func (idx *Indexer) Emit(event events.Event) {
	native, ok := event.(*types.Event)
	if !ok {
		idx.logger.Warn("indexer: discarding event of unrecognized concrete type", "type", event.EventType())
		return
	}
	encoded, err := json.Marshal(native.Attributes)
	if err != nil {
		idx.logger.Error("indexer: encode event attributes failed", "type", native.Type, "error", err)
		return
	}
	record := EventRecord{
		ID:         native.ID,
		Type:       native.Type,
		Attributes: string(encoded),
		RecordedAt: time.Now(),
	}
	if err := idx.db.Create(&record).Error; err != nil {
		idx.logger.Error("indexer: record event failed", "type", native.Type, "error", err)
		return
	}
	idx.projectSaleOrder(native.Type, native.Attributes)
}

func (idx *Indexer) projectSaleOrder(eventType string, attrs map[string]string) {
	switch eventType {
	case "holdings.sale_order.created":
		view := SaleOrderView{
			SaleHash:  attrs["sale_hash"],
			BatchHash: attrs["batch_hash"],
			Seller:    attrs["seller"],
			Amount:    attrs["amount"],
			Price:     attrs["price"],
			Status:    "active",
			UpdatedAt: time.Now(),
		}
		if view.SaleHash == "" {
			return
		}
		if err := idx.db.Save(&view).Error; err != nil {
			idx.logger.Error("indexer: project sale order created failed", "error", err)
		}
	case "holdings.sale_order.completed":
		idx.updateSaleOrderStatus(attrs["sale_hash"], "completed", attrs["buyer"])
	case "holdings.sale_order.closed":
		idx.updateSaleOrderStatus(attrs["sale_hash"], "closed", "")
	case "holdings.sale_order.expired":
		idx.updateSaleOrderStatus(attrs["sale_hash"], "expired", "")
	}
}

func (idx *Indexer) updateSaleOrderStatus(saleHash, status, buyer string) {
	if saleHash == "" {
		return
	}
	updates := map[string]any{"status": status, "updated_at": time.Now()}
	if buyer != "" {
		updates["buyer"] = buyer
	}
	if err := idx.db.Model(&SaleOrderView{}).Where("sale_hash = ?", saleHash).Updates(updates).Error; err != nil {
		idx.logger.Error("indexer: update sale order status failed", "sale_hash", saleHash, "status", status, "error", err)
	}
}

// SaleOrdersBySeller returns the current projected sale-order views for
// seller, most recently updated first.
func (idx *Indexer) SaleOrdersBySeller(seller string) ([]SaleOrderView, error) {
	var views []SaleOrderView
	err := idx.db.Where("seller = ?", seller).Order("updated_at desc").Find(&views).Error
	return views, err
}
