package service

import (
	"context"
	"fmt"

	"limiteds-market/internal/models"
	"limiteds-market/internal/util"

	"go.uber.org/zap"
)

// ReceiptStore is the slice of the ledger store the receipt recorder needs.
type ReceiptStore interface {
	InsertReceipt(ctx context.Context, receipt *models.ItemReceipt) error
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// ReceiptRecorder appends sale receipts from settlement events. Receipts are
// the immutable feed the RAP calculator averages over.
type ReceiptRecorder struct {
	store  ReceiptStore
	cache  RAPCache
	logger *zap.Logger
}

// NewReceiptRecorder creates a new receipt recorder
func NewReceiptRecorder(store ReceiptStore, cache RAPCache) *ReceiptRecorder {
	return &ReceiptRecorder{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// HandleItemSold records one completed sale, idempotently by event ID.
func (rr *ReceiptRecorder) HandleItemSold(ctx context.Context, event *models.ItemSoldEvent) error {
	ctx, span := util.StartSpan(ctx, "ReceiptRecorder.HandleItemSold")
	defer span.End()

	processed, err := rr.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		rr.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	soldAt := event.SoldAt
	if soldAt.IsZero() {
		soldAt = event.Timestamp
	}

	receipt := &models.ItemReceipt{
		ItemID:    event.ItemID,
		SalePrice: event.SalePrice,
		CreatedAt: soldAt,
	}
	if err := rr.store.InsertReceipt(ctx, receipt); err != nil {
		return fmt.Errorf("failed to record receipt: %w", err)
	}

	util.ReceiptsRecordedTotal.Inc()

	// The persisted freshness window still governs recomputation; dropping
	// the Redis entry just keeps the fast path from outliving it.
	if rr.cache != nil {
		if err := rr.cache.InvalidateRAP(ctx, event.ItemID); err != nil {
			rr.logger.Warn("Failed to invalidate RAP cache",
				zap.Int64("item_id", event.ItemID),
				zap.Error(err))
		}
	}

	if err := rr.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		rr.logger.Error("Failed to mark event processed", zap.Error(err))
	}

	rr.logger.Info("Sale receipt recorded",
		zap.Int64("item_id", event.ItemID),
		zap.Int64("sale_price", event.SalePrice),
		zap.Int64("receipt_id", receipt.ID))
	return nil
}
