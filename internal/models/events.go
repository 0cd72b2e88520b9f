package models

import "time"

// Event types
const (
	EventTypeListingCreated = "LISTING_CREATED"
	EventTypeItemSoldOut    = "ITEM_SOLD_OUT"
	EventTypeItemSold       = "ITEM_SOLD"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ListingCreatedEvent published when a seller lists a unit for resale
type ListingCreatedEvent struct {
	BaseEvent
	ListingID int64 `json:"listing_id"`
	ItemID    int64 `json:"item_id"`
	SellerID  int64 `json:"seller_id"`
	Price     int64 `json:"price"`
}

// ItemSoldOutEvent published when price resolution finds no active listings
type ItemSoldOutEvent struct {
	BaseEvent
	ItemID int64 `json:"item_id"`
}

// ItemSoldEvent is published by the settlement system when a purchase
// completes. The receipt worker consumes it to append sale history.
type ItemSoldEvent struct {
	BaseEvent
	ItemID    int64     `json:"item_id"`
	ListingID int64     `json:"listing_id"`
	SellerID  int64     `json:"seller_id"`
	BuyerID   int64     `json:"buyer_id"`
	SalePrice int64     `json:"sale_price"`
	SoldAt    time.Time `json:"sold_at"`
}
