package search

import (
	"context"
	"sort"
	"strings"

	"salesbot-service/internal/catalog"
	"salesbot-service/internal/models"
	"salesbot-service/internal/util"

	"go.uber.org/zap"
)

// StockResolver reports authoritative availability for a SKU
type StockResolver interface {
	ResolveStock(ctx context.Context, sku string) models.StockRecord
}

// typeMatchers maps each known furniture-type tag to the substrings
// that identify it in a product's taxonomy tag, category or name.
// Unknown type values pass through unfiltered. Rule table on purpose:
// tuning a tag means editing data, not control flow.
var typeMatchers = map[string][]string{
	"dining":  {"dining", "diner", "table set"},
	"lounge":  {"lounge", "sofa set", "loungeset"},
	"corner":  {"corner", "hoek"},
	"lounger": {"lounger", "sunbed", "daybed"},
}

// Engine runs structured searches against the catalog index. The
// result list becomes the session whitelist, so it only ever carries
// verified summary fields and never unverified presentation text.
type Engine struct {
	index      *catalog.Index
	stock      StockResolver
	maxResults int
	logger     *zap.Logger
}

// NewEngine creates a new search engine
func NewEngine(index *catalog.Index, stock StockResolver, maxResults int, logger *zap.Logger) *Engine {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Engine{
		index:      index,
		stock:      stock,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Search narrows the catalog through the filter pipeline and returns
// in-stock summaries only. An empty result is a valid outcome for
// conflicting filters or an empty catalog, never an error.
func (e *Engine) Search(ctx context.Context, criteria models.SearchCriteria) []models.ProductSummary {
	util.CatalogSearchesTotal.Inc()

	candidates := e.index.All()

	candidates = filterComplete(candidates)
	candidates = filterByType(candidates, criteria.FurnitureType)
	candidates = filterByMaterial(candidates, criteria.Material)
	candidates = e.filterBySeats(candidates, criteria.MinSeats)
	candidates = filterByName(candidates, criteria.NameQuery)

	// Stock exclusion is the last filter stage so it always has final
	// say, no matter how well a sold-out product matched.
	inStock := make([]*models.Product, 0, len(candidates))
	for _, p := range candidates {
		if e.stock.ResolveStock(ctx, p.SKU).InStock {
			inStock = append(inStock, p)
		}
	}

	if criteria.MinSeats > 0 {
		sort.SliceStable(inStock, func(i, j int) bool {
			return seatDistance(inStock[i].Seats, criteria.MinSeats) <
				seatDistance(inStock[j].Seats, criteria.MinSeats)
		})
	}

	if len(inStock) > e.maxResults {
		inStock = inStock[:e.maxResults]
	}

	if len(inStock) == 0 {
		util.CatalogSearchEmptyTotal.Inc()
		e.logger.Info("Search returned no candidates",
			zap.String("type", criteria.FurnitureType),
			zap.String("material", criteria.Material),
			zap.Int("min_seats", criteria.MinSeats))
	}

	results := make([]models.ProductSummary, 0, len(inStock))
	for _, p := range inStock {
		results = append(results, models.ProductSummary{
			SKU:      p.SKU,
			Name:     p.Name,
			Category: p.Category,
			Seats:    p.Seats,
			Material: p.Material,
		})
	}
	return results
}

func filterComplete(products []*models.Product) []*models.Product {
	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if p.SKU != "" && p.Category != "" {
			out = append(out, p)
		}
	}
	return out
}

func filterByType(products []*models.Product, furnitureType string) []*models.Product {
	if furnitureType == "" {
		return products
	}

	needles, known := typeMatchers[strings.ToLower(furnitureType)]
	if !known {
		return products
	}

	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		haystack := strings.ToLower(p.TaxonomyTag + " " + p.Category + " " + p.Name)
		for _, needle := range needles {
			if strings.Contains(haystack, needle) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func filterByMaterial(products []*models.Product, material string) []*models.Product {
	if material == "" {
		return products
	}

	needle := strings.ToLower(material)
	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Category), needle) ||
			strings.Contains(strings.ToLower(p.Material), needle) {
			out = append(out, p)
		}
	}
	return out
}

// filterBySeats keeps candidates meeting the minimum. When the minimum
// eliminates everything that existed before the filter, it degrades to
// the largest seat count available instead of returning nothing: a
// customer asking for 12 seats gets shown the 9-seat flagship, not an
// empty reply.
func (e *Engine) filterBySeats(products []*models.Product, minSeats int) []*models.Product {
	if minSeats <= 0 {
		return products
	}

	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if p.Seats >= minSeats {
			out = append(out, p)
		}
	}

	if len(out) > 0 || len(products) == 0 {
		return out
	}

	util.SeatFallbackTotal.Inc()

	maxSeats := 0
	for _, p := range products {
		if p.Seats > maxSeats {
			maxSeats = p.Seats
		}
	}
	if maxSeats == 0 {
		return nil
	}

	for _, p := range products {
		if p.Seats == maxSeats {
			out = append(out, p)
		}
	}
	return out
}

func filterByName(products []*models.Product, query string) []*models.Product {
	if query == "" {
		return products
	}

	needle := strings.ToLower(query)
	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.SKU), needle) {
			out = append(out, p)
		}
	}
	return out
}

func seatDistance(seats, minSeats int) int {
	d := seats - minSeats
	if d < 0 {
		d = -d
	}
	return d
}
