package models

import "time"

// CatalogItem represents a limited catalog item. Items are permanent: once
// created they are never deleted, but OnSale toggles as stock cycles.
type CatalogItem struct {
	ID                 int64      `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Price              int64      `db:"price" json:"price"`
	OnSale             bool       `db:"on_sale" json:"on_sale"`
	RecentAveragePrice *int64     `db:"recent_average_price" json:"recent_average_price,omitempty"`
	RAPLastUpdated     *time.Time `db:"rap_last_updated" json:"rap_last_updated,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

// ItemReceipt is an immutable record of a completed sale. Append-only;
// ordering by CreatedAt descending drives the trailing-window average.
type ItemReceipt struct {
	ID        int64     `db:"id" json:"id"`
	ItemID    int64     `db:"item_id" json:"item_id"`
	SalePrice int64     `db:"sale_price" json:"sale_price"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// InventoryItem is one owner's stack of a given item. Count is always >= 1;
// a stack that reaches zero is deleted rather than kept around.
type InventoryItem struct {
	ID        int64     `db:"id" json:"id"`
	ItemID    int64     `db:"item_id" json:"item_id"`
	OwnerID   int64     `db:"owner_id" json:"owner_id"`
	Count     int       `db:"count" json:"count"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ResaleListing is a seller's standing offer for one unit. The lowest price
// (ties broken by id) is the item's current market price.
type ResaleListing struct {
	ID        int64     `db:"id" json:"id"`
	ItemID    int64     `db:"item_id" json:"item_id"`
	SellerID  int64     `db:"seller_id" json:"seller_id"`
	Price     int64     `db:"price" json:"price"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ProcessedEvent for consumer-side idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
