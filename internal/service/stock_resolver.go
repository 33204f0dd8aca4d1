package service

import (
	"context"

	"salesbot-service/internal/catalog"
	"salesbot-service/internal/models"

	"go.uber.org/zap"
)

// SnapshotSource reads the local inventory snapshot for a SKU.
// found is false when the source has no record at all for the SKU.
type SnapshotSource interface {
	GetSnapshot(ctx context.Context, sku string) (available int, found bool, err error)
}

// StockResolver merges the two stock sources into one authoritative
// figure per SKU. It is pure with respect to session state.
type StockResolver struct {
	snapshot     SnapshotSource
	index        *catalog.Index
	defaultStock int
	logger       *zap.Logger
}

// NewStockResolver creates a new stock resolver
func NewStockResolver(snapshot SnapshotSource, index *catalog.Index, defaultStock int, logger *zap.Logger) *StockResolver {
	return &StockResolver{
		snapshot:     snapshot,
		index:        index,
		defaultStock: defaultStock,
		logger:       logger,
	}
}

// ResolveStock returns max(snapshot, embedded catalog count) for a
// SKU. The two sources can each be stale in opposite directions;
// taking the maximum avoids hiding a product one system still thinks
// is available, accepting a small oversell risk in exchange for fewer
// false "sold out" replies. When neither source has a record, the
// configured optimistic default applies.
func (r *StockResolver) ResolveStock(ctx context.Context, sku string) models.StockRecord {
	var snapAvailable int
	snapFound := false

	if r.snapshot != nil {
		a, found, err := r.snapshot.GetSnapshot(ctx, sku)
		if err != nil {
			// snapshot source down: degrade to catalog data only
			r.logger.Warn("Snapshot lookup failed, using catalog stock only",
				zap.String("sku", sku),
				zap.Error(err))
		} else {
			snapAvailable, snapFound = a, found
		}
	}

	var embedded int
	embeddedFound := false
	if p := r.index.BySKU(sku); p != nil {
		embedded = p.EmbeddedStock
		embeddedFound = true
	}

	if !snapFound && !embeddedFound {
		return models.StockRecord{
			SKU:       sku,
			Available: r.defaultStock,
			InStock:   r.defaultStock > 0,
		}
	}

	available := snapAvailable
	if embedded > available {
		available = embedded
	}

	return models.StockRecord{
		SKU:       sku,
		Available: available,
		InStock:   available > 0,
	}
}
