package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"limiteds-market/internal/models"

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

	db.SetMaxOpenConns(25)
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

// GetItemByID retrieves a catalog item by ID. Returns (nil, nil) when the
// item does not exist so callers can map absence to their own error kind.
func (s *Store) GetItemByID(ctx context.Context, id int64) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := s.db.GetContext(ctx, &item, "SELECT * FROM catalog_items WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItems retrieves all catalog items
func (s *Store) GetItems(ctx context.Context) ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	err := s.db.SelectContext(ctx, &items, "SELECT * FROM catalog_items ORDER BY id")
	return items, err
}

// UpdateItemRAP persists a freshly computed average and re-arms the
// freshness window. Written unconditionally on every recompute, even when
// the value did not change.
func (s *Store) UpdateItemRAP(ctx context.Context, itemID, rap int64, updatedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE catalog_items SET recent_average_price = $1, rap_last_updated = $2 WHERE id = $3",
		rap, updatedAt, itemID)
	return err
}

// UpdateItemPrice syncs the cached display price to the live market
func (s *Store) UpdateItemPrice(ctx context.Context, itemID, price int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE catalog_items SET price = $1 WHERE id = $2", price, itemID)
	return err
}

// SetItemOnSale flips the purchasable flag
func (s *Store) SetItemOnSale(ctx context.Context, itemID int64, onSale bool) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE catalog_items SET on_sale = $1 WHERE id = $2", onSale, itemID)
	return err
}

// GetRecentReceipts retrieves up to limit receipts for an item created at or
// after since, newest first.
func (s *Store) GetRecentReceipts(ctx context.Context, itemID int64, since time.Time, limit int) ([]models.ItemReceipt, error) {
	var receipts []models.ItemReceipt
	err := s.db.SelectContext(ctx, &receipts,
		"SELECT * FROM item_receipts WHERE item_id = $1 AND created_at >= $2 ORDER BY created_at DESC LIMIT $3",
		itemID, since, limit)
	return receipts, err
}

// InsertReceipt appends an immutable sale record
func (s *Store) InsertReceipt(ctx context.Context, receipt *models.ItemReceipt) error {
	query := `
		INSERT INTO item_receipts (item_id, sale_price, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`

	return s.db.GetContext(ctx, &receipt.ID, query,
		receipt.ItemID, receipt.SalePrice, receipt.CreatedAt)
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
