package catalog

import (
	"encoding/json"
	"io"
	"strings"

	"salesbot-service/internal/models"

	"go.uber.org/zap"
)

// Index provides O(1) lookup structures over the product catalog.
// Built once at startup and treated as immutable afterwards.
type Index struct {
	bySKU      map[string]*models.Product
	byCategory map[string][]*models.Product
	byMaterial map[string][]*models.Product
	bySeats    map[int][]*models.Product
	all        []*models.Product
}

// BuildIndex validates and indexes the catalog. Malformed entries
// (missing SKU or category) are logged and excluded; the load never
// aborts. A catalog that degrades beats a service that refuses to
// start.
func BuildIndex(products []models.Product, logger *zap.Logger) *Index {
	idx := &Index{
		bySKU:      make(map[string]*models.Product, len(products)),
		byCategory: make(map[string][]*models.Product),
		byMaterial: make(map[string][]*models.Product),
		bySeats:    make(map[int][]*models.Product),
	}

	for i := range products {
		p := &products[i]

		if p.SKU == "" || p.Category == "" {
			logger.Warn("Skipping malformed catalog entry",
				zap.String("sku", p.SKU),
				zap.String("name", p.Name))
			continue
		}

		if _, exists := idx.bySKU[p.SKU]; exists {
			logger.Warn("Skipping duplicate SKU", zap.String("sku", p.SKU))
			continue
		}

		idx.bySKU[p.SKU] = p
		idx.all = append(idx.all, p)

		category := strings.ToLower(p.Category)
		idx.byCategory[category] = append(idx.byCategory[category], p)

		if p.Material != "" {
			material := strings.ToLower(p.Material)
			idx.byMaterial[material] = append(idx.byMaterial[material], p)
		}

		if p.Seats > 0 {
			idx.bySeats[p.Seats] = append(idx.bySeats[p.Seats], p)
		}
	}

	logger.Info("Catalog index built",
		zap.Int("products", len(idx.all)),
		zap.Int("skipped", len(products)-len(idx.all)))

	return idx
}

// BySKU returns the product for a SKU, or nil when unknown
func (idx *Index) BySKU(sku string) *models.Product {
	return idx.bySKU[sku]
}

// ByCategory returns all products in a category (case-insensitive)
func (idx *Index) ByCategory(category string) []*models.Product {
	return idx.byCategory[strings.ToLower(category)]
}

// ByMaterial returns all products of a material (case-insensitive)
func (idx *Index) ByMaterial(material string) []*models.Product {
	return idx.byMaterial[strings.ToLower(material)]
}

// BySeats returns all products with exactly the given seat count
func (idx *Index) BySeats(seats int) []*models.Product {
	return idx.bySeats[seats]
}

// All returns every indexed product in load order
func (idx *Index) All() []*models.Product {
	return idx.all
}

// Len returns the number of indexed products
func (idx *Index) Len() int {
	return len(idx.all)
}

// LoadJSON decodes a product list from JSON. Used for file-based
// catalogs and test fixtures; validation happens in BuildIndex.
func LoadJSON(r io.Reader) ([]models.Product, error) {
	var products []models.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, err
	}
	return products, nil
}
