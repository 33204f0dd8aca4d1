package service

import (
	"context"
	"testing"

	"salesbot-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderUnknownSKUReturnsNil(t *testing.T) {
	index := serviceIndex()
	renderer := newTestRenderer(index, newTestResolver(index, &stubSnapshot{}))

	card := renderer.Render("GHOST-SKU", models.StockRecord{Available: 5}, nil)

	assert.Nil(t, card)
}

func TestRenderOutOfStockReturnsNil(t *testing.T) {
	index := serviceIndex()
	renderer := newTestRenderer(index, newTestResolver(index, &stubSnapshot{}))

	card := renderer.Render("FARO-LOUNGE-SET", models.StockRecord{Available: 0}, nil)

	assert.Nil(t, card)
}

func TestRenderBuildsCardFromCatalogFields(t *testing.T) {
	index := serviceIndex()
	renderer := newTestRenderer(index, newTestResolver(index, &stubSnapshot{}))

	card := renderer.Render("FARO-LOUNGE-SET", models.StockRecord{SKU: "FARO-LOUNGE-SET", Available: 3, InStock: true}, nil)

	require.NotNil(t, card)
	assert.Equal(t, "FARO-LOUNGE-SET", card.SKU)
	assert.Equal(t, "Faro Lounge Set", card.Title)
	assert.Equal(t, "€2499.00", card.Price)
	assert.Equal(t, 3, card.Available)
	assert.Contains(t, card.Body, "Seats: 9")
	assert.Contains(t, card.Body, "Material: rattan")
	assert.Contains(t, card.Body, "Dimensions: 320x260x75 cm")
	assert.Contains(t, card.Body, "Assembly required")
	assert.Contains(t, card.Body, "Warranty (rattan): 3 years")
	assert.Contains(t, card.Body, "Availability: 3 in stock")
}

func TestRenderIsDeterministic(t *testing.T) {
	index := serviceIndex()
	renderer := newTestRenderer(index, newTestResolver(index, &stubSnapshot{}))
	stock := models.StockRecord{SKU: "FARO-LOUNGE-SET", Available: 3, InStock: true}

	first := renderer.Render("FARO-LOUNGE-SET", stock, nil)
	second := renderer.Render("FARO-LOUNGE-SET", stock, nil)

	require.NotNil(t, first)
	assert.Equal(t, first.Body, second.Body, "same inputs must render identical output")
	assert.Equal(t, *first, *second)
}

func TestRenderLivePriceOverridesListPrice(t *testing.T) {
	index := serviceIndex()
	renderer := newTestRenderer(index, newTestResolver(index, &stubSnapshot{}))

	price := &models.PriceData{SKU: "FARO-LOUNGE-SET", Title: "Faro Lounge Set 2026", Price: 2299.50}
	card := renderer.Render("FARO-LOUNGE-SET", models.StockRecord{Available: 3, InStock: true}, price)

	require.NotNil(t, card)
	assert.Equal(t, "Faro Lounge Set 2026", card.Title)
	assert.Equal(t, "€2299.50", card.Price)
}

func TestRenderBatchDropsBadSKUsKeepsOrder(t *testing.T) {
	index := serviceIndex()
	snapshot := &stubSnapshot{available: map[string]int{
		"FARO-LOUNGE-SET": 2,
		"LIDO-DINING-6":   1,
	}}
	renderer := newTestRenderer(index, newTestResolver(index, snapshot))

	cards := renderer.RenderBatch(context.Background(), []string{
		"LIDO-DINING-6", "GHOST-SKU", "FARO-LOUNGE-SET",
	})

	require.Len(t, cards, 2)
	assert.Equal(t, "LIDO-DINING-6", cards[0].SKU)
	assert.Equal(t, "FARO-LOUNGE-SET", cards[1].SKU)
}

func TestRenderBatchEmptyWhenNothingRenderable(t *testing.T) {
	index := serviceIndex()
	renderer := newTestRenderer(index, newTestResolver(index, &stubSnapshot{}))

	cards := renderer.RenderBatch(context.Background(), []string{"GHOST-SKU", "OTHER-GHOST"})

	assert.Empty(t, cards)
}
