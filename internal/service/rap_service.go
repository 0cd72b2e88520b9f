package service

import (
	"context"
	"fmt"
	"time"

	"limiteds-market/config"
	"limiteds-market/internal/models"
	"limiteds-market/internal/util"

	"go.uber.org/zap"
)

// RAPStore is the slice of the ledger store the RAP calculator needs.
type RAPStore interface {
	GetItemByID(ctx context.Context, id int64) (*models.CatalogItem, error)
	GetRecentReceipts(ctx context.Context, itemID int64, since time.Time, limit int) ([]models.ItemReceipt, error)
	UpdateItemRAP(ctx context.Context, itemID, rap int64, updatedAt time.Time) error
}

// RAPCache is a best-effort read-through cache in front of the store's
// freshness window. A nil cache disables the fast path.
type RAPCache interface {
	GetRAP(ctx context.Context, itemID int64) (int64, bool, error)
	SetRAP(ctx context.Context, itemID, rap int64, ttl time.Duration) error
	InvalidateRAP(ctx context.Context, itemID int64) error
}

// RAPService computes the Recent Average Price for limited items: a
// trailing-window mean of sale prices, recomputed only when the persisted
// value has aged past the freshness window.
type RAPService struct {
	store  RAPStore
	cache  RAPCache
	cfg    config.MarketConfig
	logger *zap.Logger
}

// NewRAPService creates a new RAP service
func NewRAPService(store RAPStore, cache RAPCache, cfg config.MarketConfig) *RAPService {
	return &RAPService{
		store:  store,
		cache:  cache,
		cfg:    cfg,
		logger: util.GetLogger(),
	}
}

// GetRecentAveragePrice returns the RAP for an on-sale item, from cache when
// the persisted value is still inside the freshness window, otherwise from a
// fresh recompute. Store failures propagate as-is; there is no retry.
func (s *RAPService) GetRecentAveragePrice(ctx context.Context, itemID int64) (int64, error) {
	ctx, span := util.StartSpan(ctx, "RAPService.GetRecentAveragePrice")
	defer span.End()

	item, err := s.store.GetItemByID(ctx, itemID)
	if err != nil {
		util.RAPLookupsFailedTotal.WithLabelValues("db_error").Inc()
		return 0, fmt.Errorf("failed to load item %d: %w", itemID, err)
	}
	if item == nil || !item.OnSale {
		util.RAPLookupsFailedTotal.WithLabelValues("unavailable").Inc()
		return 0, ErrItemUnavailable
	}

	if s.cache != nil {
		rap, ok, err := s.cache.GetRAP(ctx, itemID)
		if err != nil {
			s.logger.Warn("RAP cache read failed, falling back to store",
				zap.Int64("item_id", itemID),
				zap.Error(err))
		} else if ok {
			util.RAPCacheHitsTotal.Inc()
			return rap, nil
		}
	}

	if item.RecentAveragePrice != nil && item.RAPLastUpdated != nil {
		if age := time.Since(*item.RAPLastUpdated); age < s.cfg.RAPFreshness {
			util.RAPCacheHitsTotal.Inc()
			s.cacheRAP(ctx, itemID, *item.RecentAveragePrice, s.cfg.RAPFreshness-age)
			return *item.RecentAveragePrice, nil
		}
	}

	return s.recompute(ctx, itemID)
}

// recompute averages sale prices over the trailing receipt window and
// persists the result, re-arming the freshness window even when the value
// did not change.
func (s *RAPService) recompute(ctx context.Context, itemID int64) (int64, error) {
	start := time.Now()
	defer func() {
		util.RAPComputeLatency.Observe(time.Since(start).Seconds())
	}()

	since := time.Now().Add(-s.cfg.ReceiptWindow)
	receipts, err := s.store.GetRecentReceipts(ctx, itemID, since, s.cfg.ReceiptSampleLimit)
	if err != nil {
		util.RAPLookupsFailedTotal.WithLabelValues("db_error").Inc()
		return 0, fmt.Errorf("failed to load receipts for item %d: %w", itemID, err)
	}

	if len(receipts) == 0 {
		util.RAPLookupsFailedTotal.WithLabelValues("no_history").Inc()
		return 0, ErrNoSaleHistory
	}

	var sum int64
	for _, r := range receipts {
		sum += r.SalePrice
	}
	rap := sum / int64(len(receipts))

	if err := s.store.UpdateItemRAP(ctx, itemID, rap, time.Now()); err != nil {
		util.RAPLookupsFailedTotal.WithLabelValues("db_error").Inc()
		return 0, fmt.Errorf("failed to persist RAP for item %d: %w", itemID, err)
	}

	util.RAPRecomputesTotal.Inc()
	s.logger.Info("RAP recomputed",
		zap.Int64("item_id", itemID),
		zap.Int64("rap", rap),
		zap.Int("sample_size", len(receipts)))

	s.cacheRAP(ctx, itemID, rap, s.cfg.RAPFreshness)
	return rap, nil
}

func (s *RAPService) cacheRAP(ctx context.Context, itemID, rap int64, ttl time.Duration) {
	if s.cache == nil || ttl <= 0 {
		return
	}
	if err := s.cache.SetRAP(ctx, itemID, rap, ttl); err != nil {
		s.logger.Warn("Failed to cache RAP",
			zap.Int64("item_id", itemID),
			zap.Error(err))
	}
}
