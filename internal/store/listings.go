package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"limiteds-market/internal/models"
)

// ErrInsufficientInventory is returned when the conditional decrement finds
// no stack with count > 0 for the seller/item pair.
var ErrInsufficientInventory = errors.New("insufficient inventory")

// GetLowestListing retrieves the cheapest active listing for an item,
// ties broken by id. Returns (nil, nil) when no listing exists.
func (s *Store) GetLowestListing(ctx context.Context, itemID int64) (*models.ResaleListing, error) {
	var listing models.ResaleListing
	err := s.db.GetContext(ctx, &listing,
		"SELECT * FROM resale_listings WHERE item_id = $1 ORDER BY price ASC, id ASC LIMIT 1",
		itemID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetListingsByItem retrieves all active listings for an item, price ascending
func (s *Store) GetListingsByItem(ctx context.Context, itemID int64) ([]models.ResaleListing, error) {
	var listings []models.ResaleListing
	err := s.db.SelectContext(ctx, &listings,
		"SELECT * FROM resale_listings WHERE item_id = $1 ORDER BY price ASC, id ASC",
		itemID)
	return listings, err
}

// GetInventoryByOwner retrieves all stacks owned by a user
func (s *Store) GetInventoryByOwner(ctx context.Context, ownerID int64) ([]models.InventoryItem, error) {
	var inventory []models.InventoryItem
	err := s.db.SelectContext(ctx, &inventory,
		"SELECT * FROM inventory_items WHERE owner_id = $1 ORDER BY item_id",
		ownerID)
	return inventory, err
}

// GetInventoryItem retrieves one owner's stack of an item. Returns (nil, nil)
// when the owner holds no units.
func (s *Store) GetInventoryItem(ctx context.Context, itemID, ownerID int64) (*models.InventoryItem, error) {
	var inv models.InventoryItem
	err := s.db.GetContext(ctx, &inv,
		"SELECT * FROM inventory_items WHERE item_id = $1 AND owner_id = $2",
		itemID, ownerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateListingTx converts one owned unit into a resale listing as a single
// transaction: conditional decrement of the seller's stack, delete at zero,
// insert the listing, and re-arm the item's on_sale flag. The conditional
// UPDATE doubles as the ownership gate; two concurrent calls against a
// single-unit stack cannot both succeed. On success the listing's ID and
// CreatedAt are populated.
func (s *Store) CreateListingTx(ctx context.Context, listing *models.ResaleListing) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var remaining int
	err = tx.GetContext(ctx, &remaining, `
		UPDATE inventory_items
		SET count = count - 1, updated_at = NOW()
		WHERE item_id = $1 AND owner_id = $2 AND count > 0
		RETURNING count`,
		listing.ItemID, listing.SellerID)
	if err == sql.ErrNoRows {
		return ErrInsufficientInventory
	}
	if err != nil {
		return fmt.Errorf("failed to decrement inventory: %w", err)
	}

	if remaining == 0 {
		_, err = tx.ExecContext(ctx,
			"DELETE FROM inventory_items WHERE item_id = $1 AND owner_id = $2",
			listing.ItemID, listing.SellerID)
		if err != nil {
			return fmt.Errorf("failed to remove empty stack: %w", err)
		}
	}

	err = tx.GetContext(ctx, listing, `
		INSERT INTO resale_listings (item_id, seller_id, price)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		listing.ItemID, listing.SellerID, listing.Price)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE catalog_items SET on_sale = TRUE WHERE id = $1", listing.ItemID)
	if err != nil {
		return fmt.Errorf("failed to flag item on sale: %w", err)
	}

	return tx.Commit()
}
