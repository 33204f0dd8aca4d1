package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"salesbot-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// LoadCatalog loads the full product catalog, including care entries
// and accessory links. Called once at startup; the result is handed to
// the in-memory index and the database is not consulted again on the
// chat hot path.
func (s *Store) LoadCatalog(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	for i := range products {
		care, err := s.getCareEntries(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].Care = care

		accessories, err := s.getAccessorySKUs(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].AccessorySKUs = accessories
	}

	return products, nil
}

// GetProductBySKU retrieves a single product by SKU
func (s *Store) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE sku = $1", sku)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %s", sku)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// LoadInventorySnapshot loads the local inventory snapshot as a
// SKU -> available map. Used to seed the Redis snapshot at startup.
func (s *Store) LoadInventorySnapshot(ctx context.Context) (map[string]int, error) {
	rows := []struct {
		SKU       string `db:"sku"`
		Available int    `db:"available"`
	}{}

	err := s.db.SelectContext(ctx, &rows,
		`SELECT p.sku AS sku, i.available AS available
		 FROM inventory i JOIN products p ON p.id = i.product_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory snapshot: %w", err)
	}

	snapshot := make(map[string]int, len(rows))
	for _, r := range rows {
		snapshot[r.SKU] = r.Available
	}
	return snapshot, nil
}

func (s *Store) getCareEntries(ctx context.Context, productID int64) ([]models.CareEntry, error) {
	var entries []models.CareEntry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM product_care WHERE product_id = $1", productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load care entries for product %d: %w", productID, err)
	}
	return entries, nil
}

func (s *Store) getAccessorySKUs(ctx context.Context, productID int64) ([]string, error) {
	var skus []string
	err := s.db.SelectContext(ctx, &skus,
		"SELECT accessory_sku FROM product_accessories WHERE product_id = $1", productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accessories for product %d: %w", productID, err)
	}
	return skus, nil
}
