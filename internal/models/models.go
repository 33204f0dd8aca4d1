package models

import "time"

// Product is an immutable catalog record keyed by SKU. Loaded once at
// startup and never mutated at runtime.
type Product struct {
	ID               int64     `db:"id" json:"id"`
	SKU              string    `db:"sku" json:"sku"`
	Name             string    `db:"name" json:"name"`
	ImageURL         string    `db:"image_url" json:"image_url"`
	ListPrice        int64     `db:"list_price" json:"list_price"`
	Category         string    `db:"category" json:"category"`
	Material         string    `db:"material" json:"material"`
	TaxonomyTag      string    `db:"taxonomy_tag" json:"taxonomy_tag"`
	Seats            int       `db:"seats" json:"seats"`
	Dimensions       string    `db:"dimensions" json:"dimensions"`
	RequiresAssembly bool      `db:"requires_assembly" json:"requires_assembly"`
	MatchingCoverSKU string    `db:"matching_cover_sku" json:"matching_cover_sku,omitempty"`
	EmbeddedStock    int       `db:"embedded_stock" json:"embedded_stock"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`

	Care          []CareEntry `json:"care,omitempty"`
	AccessorySKUs []string    `json:"accessory_skus,omitempty"`
}

// CareEntry describes materials-and-care information for a product.
type CareEntry struct {
	ProductID  int64  `db:"product_id" json:"-"`
	Material   string `db:"material" json:"material"`
	Warranty   string `db:"warranty" json:"warranty"`
	Durability string `db:"durability" json:"durability"`
	Pros       string `db:"pros" json:"pros"`
	Cons       string `db:"cons" json:"cons"`
}

// StockRecord is the resolved availability for a SKU.
type StockRecord struct {
	SKU       string `json:"sku"`
	Available int    `json:"available"`
	InStock   bool   `json:"in_stock"`
}

// PriceData is the payload returned by the external price/stock API.
type PriceData struct {
	SKU           string  `json:"sku"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	CanonicalURL  string  `json:"canonical_url"`
}

// ProductSummary is the lightweight projection returned by catalog
// search. Search results become the session whitelist, so summaries
// carry no presentation text beyond verified identity fields.
type ProductSummary struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Seats    int    `json:"seats"`
	Material string `json:"material"`
}

// ProductCard is customer-facing presentational content for one SKU.
// Every textual claim on it is copied verbatim from catalog fields.
type ProductCard struct {
	SKU       string `json:"sku"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Available int    `json:"available"`
	ImageURL  string `json:"image_url,omitempty"`
	Body      string `json:"body"`
}

// SearchCriteria is the structured filter input for catalog search.
type SearchCriteria struct {
	FurnitureType string `json:"furniture_type,omitempty"`
	Material      string `json:"material,omitempty"`
	MinSeats      int    `json:"min_seats,omitempty"`
	NameQuery     string `json:"name_query,omitempty"`
}

// Offer types tracked by commercial governance.
const (
	OfferTypeBundle    = "bundle"
	OfferTypeUpsell    = "upsell"
	OfferTypeCrossSell = "cross_sell"
)

// Sentiment levels, ordered weakest to strongest.
const (
	SentimentNeutral        = "NEUTRAL"
	SentimentInterested     = "INTERESTED"
	SentimentPriceSensitive = "PRICE_SENSITIVE"
	SentimentEnthusiastic   = "ENTHUSIASTIC"
)

// Purchase intent levels.
const (
	IntentNone     = "NONE"
	IntentBrowsing = "BROWSING"
	IntentWarm     = "WARM"
	IntentHot      = "HOT"
)
