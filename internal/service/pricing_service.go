package service

import (
	"context"
	"fmt"
	"time"

	"limiteds-market/internal/broker"
	"limiteds-market/internal/models"
	"limiteds-market/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PricingStore is the slice of the ledger store the pricing resolver needs.
type PricingStore interface {
	GetItemByID(ctx context.Context, id int64) (*models.CatalogItem, error)
	GetLowestListing(ctx context.Context, itemID int64) (*models.ResaleListing, error)
	UpdateItemPrice(ctx context.Context, itemID, price int64) error
	SetItemOnSale(ctx context.Context, itemID int64, onSale bool) error
}

// PricingService resolves the current purchasable price for a limited item,
// which is the lowest standing ask rather than the statistical RAP.
type PricingService struct {
	store     PricingStore
	publisher *broker.EventPublisher
	logger    *zap.Logger
}

// NewPricingService creates a new pricing service
func NewPricingService(store PricingStore, publisher *broker.EventPublisher) *PricingService {
	return &PricingService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// GetCurrentPrice returns the lowest ask for an on-sale item and syncs it
// onto the item's cached display price. When no listing exists the item is
// flagged off-sale and 0 is returned as a not-purchasable sentinel. Every
// call writes; under concurrent listings the price is eventually consistent.
func (s *PricingService) GetCurrentPrice(ctx context.Context, itemID int64) (int64, error) {
	ctx, span := util.StartSpan(ctx, "PricingService.GetCurrentPrice")
	defer span.End()

	item, err := s.store.GetItemByID(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("failed to load item %d: %w", itemID, err)
	}
	if item == nil || !item.OnSale {
		return 0, ErrItemUnavailable
	}

	lowest, err := s.store.GetLowestListing(ctx, itemID)
	if err != nil {
		return 0, fmt.Errorf("failed to query listings for item %d: %w", itemID, err)
	}

	if lowest == nil {
		if err := s.store.SetItemOnSale(ctx, itemID, false); err != nil {
			return 0, fmt.Errorf("failed to flag item %d sold out: %w", itemID, err)
		}

		util.PriceResolutionsTotal.WithLabelValues("sold_out").Inc()
		s.logger.Info("Item sold out", zap.Int64("item_id", itemID))

		if s.publisher != nil {
			event := &models.ItemSoldOutEvent{
				BaseEvent: models.BaseEvent{
					EventID:   uuid.New().String(),
					EventType: models.EventTypeItemSoldOut,
					Timestamp: time.Now(),
				},
				ItemID: itemID,
			}
			if err := s.publisher.PublishItemSoldOut(ctx, event); err != nil {
				s.logger.Error("Failed to publish ItemSoldOut event", zap.Error(err))
			}
		}

		// 0 means "not purchasable", not a real price point
		return 0, nil
	}

	if err := s.store.UpdateItemPrice(ctx, itemID, lowest.Price); err != nil {
		return 0, fmt.Errorf("failed to sync price for item %d: %w", itemID, err)
	}

	util.PriceResolutionsTotal.WithLabelValues("resolved").Inc()
	return lowest.Price, nil
}
