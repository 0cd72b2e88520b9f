package service

import "errors"

var (
	// ErrItemUnavailable means the item does not exist or is not currently
	// on sale. Scarcity pricing only applies to circulating items.
	ErrItemUnavailable = errors.New("item not found or not currently on sale")

	// ErrInvalidAskPrice means the requested ask price is below the minimum.
	ErrInvalidAskPrice = errors.New("ask price must be a positive integer")

	// ErrNotOwned means the seller holds no unit of the item.
	ErrNotOwned = errors.New("seller does not own this item")

	// ErrNoSaleHistory means no receipts fall inside the trailing window,
	// so no average can be computed.
	ErrNoSaleHistory = errors.New("item has no recorded sales")
)
