package search

import (
	"context"
	"testing"

	"salesbot-service/internal/catalog"
	"salesbot-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubStock resolves from a fixed availability map; unknown SKUs are
// out of stock so tests control availability explicitly.
type stubStock struct {
	available map[string]int
}

func (s *stubStock) ResolveStock(_ context.Context, sku string) models.StockRecord {
	n := s.available[sku]
	return models.StockRecord{SKU: sku, Available: n, InStock: n > 0}
}

func fixtureCatalog() []models.Product {
	return []models.Product{
		{SKU: "FARO-LOUNGE-SET", Name: "Faro Lounge Set", Category: "Lounge sets", TaxonomyTag: "lounge", Material: "rattan", Seats: 9},
		{SKU: "FARO-COVER", Name: "Faro Protective Cover", Category: "Covers", Material: "polyester"},
		{SKU: "LIDO-DINING-6", Name: "Lido Dining Set", Category: "Dining sets", TaxonomyTag: "dining", Material: "teak", Seats: 6},
		{SKU: "LIDO-DINING-8", Name: "Lido Dining Set XL", Category: "Dining sets", TaxonomyTag: "dining", Material: "teak", Seats: 8},
		{SKU: "CAPRI-CORNER-5", Name: "Capri Corner Sofa", Category: "Corner sets", TaxonomyTag: "corner", Material: "rattan", Seats: 5},
		{SKU: "SOLE-LOUNGER", Name: "Sole Sunbed", Category: "Loungers", TaxonomyTag: "lounger", Material: "aluminium", Seats: 1},
	}
}

func newTestEngine(t *testing.T, products []models.Product, available map[string]int) *Engine {
	t.Helper()
	idx := catalog.BuildIndex(products, zap.NewNop())
	return NewEngine(idx, &stubStock{available: available}, 5, zap.NewNop())
}

func TestSearchLoungeMinSeats(t *testing.T) {
	engine := newTestEngine(t, fixtureCatalog(), map[string]int{
		"FARO-LOUNGE-SET": 12,
		"LIDO-DINING-6":   3,
	})

	results := engine.Search(context.Background(), models.SearchCriteria{
		FurnitureType: "lounge",
		MinSeats:      6,
	})

	require.Len(t, results, 1)
	assert.Equal(t, "FARO-LOUNGE-SET", results[0].SKU)
}

func TestSearchExcludesOutOfStock(t *testing.T) {
	engine := newTestEngine(t, fixtureCatalog(), map[string]int{
		"LIDO-DINING-6": 0,
		"LIDO-DINING-8": 2,
	})

	results := engine.Search(context.Background(), models.SearchCriteria{FurnitureType: "dining"})

	require.Len(t, results, 1)
	assert.Equal(t, "LIDO-DINING-8", results[0].SKU)
}

func TestSearchSeatFallbackToLargestAvailable(t *testing.T) {
	engine := newTestEngine(t, fixtureCatalog(), map[string]int{
		"FARO-LOUNGE-SET": 12,
		"LIDO-DINING-6":   3,
		"LIDO-DINING-8":   2,
		"CAPRI-CORNER-5":  1,
	})

	// nothing seats 12; fall back to the largest capacity, not to empty
	results := engine.Search(context.Background(), models.SearchCriteria{MinSeats: 12})

	require.Len(t, results, 1)
	assert.Equal(t, "FARO-LOUNGE-SET", results[0].SKU)
	assert.Equal(t, 9, results[0].Seats)
}

func TestSearchSeatFallbackRespectsStockFilter(t *testing.T) {
	engine := newTestEngine(t, fixtureCatalog(), map[string]int{
		"LIDO-DINING-8": 2,
	})

	// the 9-seat fallback winner is out of stock, so even the
	// capacity fallback yields nothing: stock has final say
	results := engine.Search(context.Background(), models.SearchCriteria{MinSeats: 12})

	assert.Empty(t, results)
}

func TestSearchConflictingFiltersReturnEmpty(t *testing.T) {
	engine := newTestEngine(t, fixtureCatalog(), map[string]int{
		"SOLE-LOUNGER": 4,
	})

	// lounger + teak has zero overlap; empty is a valid result
	results := engine.Search(context.Background(), models.SearchCriteria{
		FurnitureType: "lounger",
		Material:      "teak",
	})

	assert.Empty(t, results)
}

func TestSearchEmptyCatalog(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	results := engine.Search(context.Background(), models.SearchCriteria{FurnitureType: "lounge"})

	assert.Empty(t, results)
}

func TestSearchUnknownTypePassesThrough(t *testing.T) {
	engine := newTestEngine(t, fixtureCatalog(), map[string]int{
		"FARO-LOUNGE-SET": 1,
		"LIDO-DINING-6":   1,
		"LIDO-DINING-8":   1,
		"CAPRI-CORNER-5":  1,
		"SOLE-LOUNGER":    1,
		"FARO-COVER":      1,
	})

	results := engine.Search(context.Background(), models.SearchCriteria{FurnitureType: "gazebo"})

	assert.Len(t, results, 5, "unknown type should not filter, then truncate to max results")
}

func TestSearchNameQuery(t *testing.T) {
	engine := newTestEngine(t, fixtureCatalog(), map[string]int{
		"FARO-LOUNGE-SET": 2,
		"FARO-COVER":      2,
		"LIDO-DINING-6":   2,
	})

	results := engine.Search(context.Background(), models.SearchCriteria{NameQuery: "faro"})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Contains(t, r.SKU, "FARO")
	}
}

func TestSearchOrdersByClosestSeatCount(t *testing.T) {
	engine := newTestEngine(t, fixtureCatalog(), map[string]int{
		"LIDO-DINING-6": 1,
		"LIDO-DINING-8": 1,
	})

	results := engine.Search(context.Background(), models.SearchCriteria{
		FurnitureType: "dining",
		MinSeats:      6,
	})

	require.Len(t, results, 2)
	assert.Equal(t, "LIDO-DINING-6", results[0].SKU, "closest seat-count match comes first")
	assert.Equal(t, "LIDO-DINING-8", results[1].SKU)
}

func TestSearchReturnsSummariesOnly(t *testing.T) {
	engine := newTestEngine(t, fixtureCatalog(), map[string]int{"FARO-LOUNGE-SET": 1})

	results := engine.Search(context.Background(), models.SearchCriteria{FurnitureType: "lounge"})

	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "FARO-LOUNGE-SET", r.SKU)
	assert.Equal(t, "Faro Lounge Set", r.Name)
	assert.Equal(t, "rattan", r.Material)
}
