package service

import (
	"context"
	"errors"
	"time"

	"salesbot-service/internal/catalog"
	"salesbot-service/internal/models"
	"salesbot-service/internal/pricing"
	"salesbot-service/internal/session"

	"go.uber.org/zap"
)

// stubSnapshot is an in-memory SnapshotSource for tests
type stubSnapshot struct {
	available map[string]int
	err       error
}

func (s *stubSnapshot) GetSnapshot(_ context.Context, sku string) (int, bool, error) {
	if s.err != nil {
		return 0, false, s.err
	}
	n, ok := s.available[sku]
	return n, ok, nil
}

// failingFetcher simulates the external price source being down, so
// cards fall back to the catalog list price.
type failingFetcher struct{}

func (failingFetcher) GetProductByHandle(_ context.Context, _ string) (*models.PriceData, error) {
	return nil, errors.New("price source unavailable")
}

func serviceProducts() []models.Product {
	return []models.Product{
		{
			SKU: "FARO-LOUNGE-SET", Name: "Faro Lounge Set",
			Category: "Lounge sets", TaxonomyTag: "lounge",
			Material: "rattan", Seats: 9, ListPrice: 249900,
			Dimensions: "320x260x75 cm", RequiresAssembly: true,
			MatchingCoverSKU: "FARO-COVER",
			AccessorySKUs:    []string{"SOLE-CUSHION"},
			EmbeddedStock:    3,
			Care: []models.CareEntry{
				{Material: "rattan", Warranty: "3 years", Durability: "UV-resistant weave", Pros: "Lightweight", Cons: "Needs winter cover"},
			},
		},
		{SKU: "FARO-COVER", Name: "Faro Protective Cover", Category: "Covers", Material: "polyester", ListPrice: 9900, EmbeddedStock: 5},
		{SKU: "SOLE-CUSHION", Name: "Sole Seat Cushion", Category: "Accessories", Material: "polyester", ListPrice: 4900, EmbeddedStock: 8},
		{SKU: "LIDO-DINING-6", Name: "Lido Dining Set", Category: "Dining sets", TaxonomyTag: "dining", Material: "teak", Seats: 6, ListPrice: 179900, EmbeddedStock: 4},
		{SKU: "LIDO-DINING-8", Name: "Lido Dining Set XL", Category: "Dining sets", TaxonomyTag: "dining", Material: "teak", Seats: 8, ListPrice: 219900, EmbeddedStock: 2},
	}
}

func serviceIndex() *catalog.Index {
	return catalog.BuildIndex(serviceProducts(), zap.NewNop())
}

func newTestResolver(index *catalog.Index, snapshot *stubSnapshot) *StockResolver {
	return NewStockResolver(snapshot, index, 10, zap.NewNop())
}

func newTestRenderer(index *catalog.Index, stock *StockResolver) *CardRenderer {
	cache := pricing.NewCache(failingFetcher{}, pricing.CacheTTL, zap.NewNop())
	return NewCardRenderer(index, stock, cache, zap.NewNop())
}

func newTestSession(id string) *session.Session {
	return session.NewStore(12, time.Minute, zap.NewNop()).Get(id)
}
