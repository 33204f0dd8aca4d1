package service

import (
	"context"
	"fmt"
	"strings"

	"salesbot-service/internal/catalog"
	"salesbot-service/internal/models"
	"salesbot-service/internal/pricing"
	"salesbot-service/internal/util"

	"go.uber.org/zap"
)

// CardRenderer turns verified SKUs into customer-facing cards. Every
// textual claim on a card is copied verbatim from catalog fields;
// free text from the model never passes through here.
type CardRenderer struct {
	index  *catalog.Index
	stock  *StockResolver
	prices *pricing.Cache
	logger *zap.Logger
}

// NewCardRenderer creates a new card renderer
func NewCardRenderer(index *catalog.Index, stock *StockResolver, prices *pricing.Cache, logger *zap.Logger) *CardRenderer {
	return &CardRenderer{
		index:  index,
		stock:  stock,
		prices: prices,
		logger: logger,
	}
}

// Render builds the card for one SKU, or nil when the SKU is unknown
// or out of stock. The stock check here is deliberate even though the
// SKU passed search earlier: time has passed, and inventory may have
// moved under concurrent requests.
func (r *CardRenderer) Render(sku string, stock models.StockRecord, price *models.PriceData) *models.ProductCard {
	product := r.index.BySKU(sku)
	if product == nil {
		return nil
	}

	if stock.Available <= 0 {
		return nil
	}

	title := product.Name
	displayPrice := formatMinorPrice(product.ListPrice)
	imageURL := product.ImageURL
	if price != nil {
		if price.Title != "" {
			title = price.Title
		}
		displayPrice = fmt.Sprintf("€%.2f", price.Price)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s\n", title, displayPrice)
	if product.Seats > 0 {
		fmt.Fprintf(&b, "Seats: %d\n", product.Seats)
	}
	if product.Material != "" {
		fmt.Fprintf(&b, "Material: %s\n", product.Material)
	}
	if product.Dimensions != "" {
		fmt.Fprintf(&b, "Dimensions: %s\n", product.Dimensions)
	}
	if product.RequiresAssembly {
		b.WriteString("Assembly required\n")
	}
	for _, care := range product.Care {
		if care.Warranty != "" {
			fmt.Fprintf(&b, "Warranty (%s): %s\n", care.Material, care.Warranty)
		}
	}
	fmt.Fprintf(&b, "Availability: %d in stock", stock.Available)

	return &models.ProductCard{
		SKU:       product.SKU,
		Title:     title,
		Price:     displayPrice,
		Available: stock.Available,
		ImageURL:  imageURL,
		Body:      b.String(),
	}
}

// RenderBatch renders cards for a verified SKU list, resolving live
// stock and price per SKU. A SKU that fails to render is dropped from
// the batch rather than failing the whole response; the caller must
// substitute the unavailable fallback when the batch comes back empty.
func (r *CardRenderer) RenderBatch(ctx context.Context, skus []string) []models.ProductCard {
	cards := make([]models.ProductCard, 0, len(skus))

	for _, sku := range skus {
		if r.index.BySKU(sku) == nil {
			util.CardsDroppedTotal.WithLabelValues("unknown_sku").Inc()
			r.logger.Warn("Dropping unknown SKU from render batch", zap.String("sku", sku))
			continue
		}

		stock := r.stock.ResolveStock(ctx, sku)
		price := r.prices.Get(ctx, sku)

		card := r.Render(sku, stock, price)
		if card == nil {
			util.CardsDroppedTotal.WithLabelValues("out_of_stock").Inc()
			r.logger.Info("Dropping out-of-stock SKU at render time", zap.String("sku", sku))
			continue
		}

		util.CardsRenderedTotal.Inc()
		cards = append(cards, *card)
	}

	return cards
}

func formatMinorPrice(minor int64) string {
	return fmt.Sprintf("€%d.%02d", minor/100, minor%100)
}
