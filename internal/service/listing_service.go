package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"limiteds-market/config"
	"limiteds-market/internal/broker"
	"limiteds-market/internal/models"
	"limiteds-market/internal/store"
	"limiteds-market/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListingStore is the slice of the ledger store the listing processor needs.
type ListingStore interface {
	GetItemByID(ctx context.Context, id int64) (*models.CatalogItem, error)
	GetItems(ctx context.Context) ([]models.CatalogItem, error)
	CreateListingTx(ctx context.Context, listing *models.ResaleListing) error
	GetListingsByItem(ctx context.Context, itemID int64) ([]models.ResaleListing, error)
	GetInventoryByOwner(ctx context.Context, ownerID int64) ([]models.InventoryItem, error)
}

// ListingService converts owned units into resale listings.
type ListingService struct {
	store     ListingStore
	publisher *broker.EventPublisher
	cfg       config.MarketConfig
	logger    *zap.Logger
}

// NewListingService creates a new listing service
func NewListingService(store ListingStore, publisher *broker.EventPublisher, cfg config.MarketConfig) *ListingService {
	return &ListingService{
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		logger:    util.GetLogger(),
	}
}

// CreateResaleListing validates the ask price, then commits the listing,
// the inventory decrement, delete-at-zero, and the on_sale re-arm as one
// transaction. Validation failures never touch the store.
func (s *ListingService) CreateResaleListing(ctx context.Context, itemID, sellerID, askPrice int64) error {
	ctx, span := util.StartSpan(ctx, "ListingService.CreateResaleListing")
	defer span.End()

	if askPrice < s.cfg.MinAskPrice {
		util.ListingsFailedTotal.WithLabelValues("invalid_price").Inc()
		return ErrInvalidAskPrice
	}

	listing := &models.ResaleListing{
		ItemID:   itemID,
		SellerID: sellerID,
		Price:    askPrice,
	}

	err := s.store.CreateListingTx(ctx, listing)
	if errors.Is(err, store.ErrInsufficientInventory) {
		util.ListingsFailedTotal.WithLabelValues("not_owned").Inc()
		return ErrNotOwned
	}
	if err != nil {
		util.ListingsFailedTotal.WithLabelValues("db_error").Inc()
		return fmt.Errorf("failed to create listing for item %d: %w", itemID, err)
	}

	util.ListingsCreatedTotal.Inc()
	s.logger.Info("Listing created",
		zap.Int64("listing_id", listing.ID),
		zap.Int64("item_id", itemID),
		zap.Int64("seller_id", sellerID),
		zap.Int64("price", askPrice))

	if s.publisher != nil {
		event := &models.ListingCreatedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeListingCreated,
				Timestamp: time.Now(),
			},
			ListingID: listing.ID,
			ItemID:    itemID,
			SellerID:  sellerID,
			Price:     askPrice,
		}
		if err := s.publisher.PublishListingCreated(ctx, event); err != nil {
			s.logger.Error("Failed to publish ListingCreated event", zap.Error(err))
		}
	}

	return nil
}

// GetItem retrieves a catalog item. Off-sale items are still visible here;
// only the pricing operations reject them.
func (s *ListingService) GetItem(ctx context.Context, itemID int64) (*models.CatalogItem, error) {
	item, err := s.store.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item %d: %w", itemID, err)
	}
	if item == nil {
		return nil, ErrItemUnavailable
	}
	return item, nil
}

// GetCatalog retrieves all catalog items
func (s *ListingService) GetCatalog(ctx context.Context) ([]models.CatalogItem, error) {
	return s.store.GetItems(ctx)
}

// GetItemListings retrieves the active listings for an item, price ascending
func (s *ListingService) GetItemListings(ctx context.Context, itemID int64) ([]models.ResaleListing, error) {
	return s.store.GetListingsByItem(ctx, itemID)
}

// GetOwnerInventory retrieves all stacks owned by a user
func (s *ListingService) GetOwnerInventory(ctx context.Context, ownerID int64) ([]models.InventoryItem, error) {
	return s.store.GetInventoryByOwner(ctx, ownerID)
}
