package service

import (
	"context"
	"testing"
	"time"

	"limiteds-market/config"
	"limiteds-market/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRAPStore struct {
	item        *models.CatalogItem
	itemErr     error
	receipts    []models.ItemReceipt
	receiptsErr error

	receiptCalls int
	lastSince    time.Time
	lastLimit    int

	rapWrites []int64
	writeErr  error
}

func (f *fakeRAPStore) GetItemByID(ctx context.Context, id int64) (*models.CatalogItem, error) {
	return f.item, f.itemErr
}

func (f *fakeRAPStore) GetRecentReceipts(ctx context.Context, itemID int64, since time.Time, limit int) ([]models.ItemReceipt, error) {
	f.receiptCalls++
	f.lastSince = since
	f.lastLimit = limit
	return f.receipts, f.receiptsErr
}

func (f *fakeRAPStore) UpdateItemRAP(ctx context.Context, itemID, rap int64, updatedAt time.Time) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.rapWrites = append(f.rapWrites, rap)
	return nil
}

type fakeRAPCache struct {
	values      map[int64]int64
	sets        int
	invalidates int
}

func (f *fakeRAPCache) GetRAP(ctx context.Context, itemID int64) (int64, bool, error) {
	v, ok := f.values[itemID]
	return v, ok, nil
}

func (f *fakeRAPCache) SetRAP(ctx context.Context, itemID, rap int64, ttl time.Duration) error {
	if f.values == nil {
		f.values = map[int64]int64{}
	}
	f.values[itemID] = rap
	f.sets++
	return nil
}

func (f *fakeRAPCache) InvalidateRAP(ctx context.Context, itemID int64) error {
	delete(f.values, itemID)
	f.invalidates++
	return nil
}

func marketConfig() config.MarketConfig {
	return config.MarketConfig{
		RAPFreshness:       30 * time.Minute,
		ReceiptWindow:      60 * 24 * time.Hour,
		ReceiptSampleLimit: 120,
		MinAskPrice:        1,
	}
}

func onSaleItem(rap *int64, rapAt *time.Time) *models.CatalogItem {
	return &models.CatalogItem{
		ID:                 1,
		Name:               "Dominus",
		Price:              500,
		OnSale:             true,
		RecentAveragePrice: rap,
		RAPLastUpdated:     rapAt,
	}
}

func TestGetRecentAveragePriceFreshValue(t *testing.T) {
	rap := int64(250)
	updated := time.Now().Add(-5 * time.Minute)
	st := &fakeRAPStore{item: onSaleItem(&rap, &updated)}
	svc := NewRAPService(st, nil, marketConfig())

	got, err := svc.GetRecentAveragePrice(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(250), got)

	// fresh window: no recompute, no store write
	assert.Zero(t, st.receiptCalls)
	assert.Empty(t, st.rapWrites)

	// second call inside the window returns the same value, still no write
	got, err = svc.GetRecentAveragePrice(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(250), got)
	assert.Empty(t, st.rapWrites)
}

func TestGetRecentAveragePriceRecomputesWhenStale(t *testing.T) {
	rap := int64(999)
	updated := time.Now().Add(-45 * time.Minute)
	st := &fakeRAPStore{
		item: onSaleItem(&rap, &updated),
		receipts: []models.ItemReceipt{
			{ItemID: 1, SalePrice: 100},
			{ItemID: 1, SalePrice: 200},
			{ItemID: 1, SalePrice: 301},
		},
	}
	svc := NewRAPService(st, nil, marketConfig())

	got, err := svc.GetRecentAveragePrice(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(200), got) // 601/3 truncated

	require.Len(t, st.rapWrites, 1)
	assert.Equal(t, int64(200), st.rapWrites[0])

	// query covers the trailing 60-day window, capped at 120 receipts
	assert.Equal(t, 120, st.lastLimit)
	assert.WithinDuration(t, time.Now().Add(-60*24*time.Hour), st.lastSince, 5*time.Second)
}

func TestGetRecentAveragePriceFirstComputation(t *testing.T) {
	st := &fakeRAPStore{
		item: onSaleItem(nil, nil),
		receipts: []models.ItemReceipt{
			{ItemID: 1, SalePrice: 80},
			{ItemID: 1, SalePrice: 120},
		},
	}
	svc := NewRAPService(st, nil, marketConfig())

	got, err := svc.GetRecentAveragePrice(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got)
	assert.Equal(t, 1, st.receiptCalls)
	require.Len(t, st.rapWrites, 1)
}

func TestGetRecentAveragePriceNoHistory(t *testing.T) {
	st := &fakeRAPStore{item: onSaleItem(nil, nil)}
	svc := NewRAPService(st, nil, marketConfig())

	_, err := svc.GetRecentAveragePrice(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoSaleHistory)
	assert.Empty(t, st.rapWrites)
}

func TestGetRecentAveragePriceUnavailable(t *testing.T) {
	t.Run("missing item", func(t *testing.T) {
		st := &fakeRAPStore{}
		svc := NewRAPService(st, nil, marketConfig())

		_, err := svc.GetRecentAveragePrice(context.Background(), 1)
		assert.ErrorIs(t, err, ErrItemUnavailable)
		assert.Zero(t, st.receiptCalls)
	})

	t.Run("off sale", func(t *testing.T) {
		item := onSaleItem(nil, nil)
		item.OnSale = false
		st := &fakeRAPStore{item: item}
		svc := NewRAPService(st, nil, marketConfig())

		_, err := svc.GetRecentAveragePrice(context.Background(), 1)
		assert.ErrorIs(t, err, ErrItemUnavailable)
		assert.Zero(t, st.receiptCalls)
	})
}

func TestGetRecentAveragePriceCacheFastPath(t *testing.T) {
	rap := int64(250)
	updated := time.Now().Add(-5 * time.Minute)
	st := &fakeRAPStore{item: onSaleItem(&rap, &updated)}
	cache := &fakeRAPCache{values: map[int64]int64{1: 777}}
	svc := NewRAPService(st, cache, marketConfig())

	got, err := svc.GetRecentAveragePrice(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(777), got)
	assert.Zero(t, st.receiptCalls)
	assert.Empty(t, st.rapWrites)
}

func TestGetRecentAveragePriceRecomputePopulatesCache(t *testing.T) {
	st := &fakeRAPStore{
		item:     onSaleItem(nil, nil),
		receipts: []models.ItemReceipt{{ItemID: 1, SalePrice: 150}},
	}
	cache := &fakeRAPCache{}
	svc := NewRAPService(st, cache, marketConfig())

	got, err := svc.GetRecentAveragePrice(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(150), got)
	assert.Equal(t, int64(150), cache.values[1])

	// next lookup is served from the cache
	got, err = svc.GetRecentAveragePrice(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(150), got)
	assert.Equal(t, 1, st.receiptCalls)
}

func TestGetRecentAveragePricePersistFailure(t *testing.T) {
	st := &fakeRAPStore{
		item:     onSaleItem(nil, nil),
		receipts: []models.ItemReceipt{{ItemID: 1, SalePrice: 150}},
		writeErr: assert.AnError,
	}
	svc := NewRAPService(st, nil, marketConfig())

	_, err := svc.GetRecentAveragePrice(context.Background(), 1)
	assert.ErrorIs(t, err, assert.AnError)
}
