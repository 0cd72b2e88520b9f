package service

import (
	"context"
	"testing"

	"limiteds-market/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePricingStore struct {
	item       *models.CatalogItem
	itemErr    error
	lowest     *models.ResaleListing
	lowestErr  error
	priceSyncs []int64
	onSaleSets []bool
}

func (f *fakePricingStore) GetItemByID(ctx context.Context, id int64) (*models.CatalogItem, error) {
	return f.item, f.itemErr
}

func (f *fakePricingStore) GetLowestListing(ctx context.Context, itemID int64) (*models.ResaleListing, error) {
	return f.lowest, f.lowestErr
}

func (f *fakePricingStore) UpdateItemPrice(ctx context.Context, itemID, price int64) error {
	f.priceSyncs = append(f.priceSyncs, price)
	return nil
}

func (f *fakePricingStore) SetItemOnSale(ctx context.Context, itemID int64, onSale bool) error {
	f.onSaleSets = append(f.onSaleSets, onSale)
	return nil
}

func TestGetCurrentPriceSyncsLowestAsk(t *testing.T) {
	st := &fakePricingStore{
		item:   onSaleItem(nil, nil),
		lowest: &models.ResaleListing{ID: 7, ItemID: 1, SellerID: 42, Price: 30},
	}
	svc := NewPricingService(st, nil)

	price, err := svc.GetCurrentPrice(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(30), price)

	require.Len(t, st.priceSyncs, 1)
	assert.Equal(t, int64(30), st.priceSyncs[0])
	assert.Empty(t, st.onSaleSets)
}

func TestGetCurrentPriceSoldOut(t *testing.T) {
	st := &fakePricingStore{item: onSaleItem(nil, nil)}
	svc := NewPricingService(st, nil)

	price, err := svc.GetCurrentPrice(context.Background(), 1)
	require.NoError(t, err)

	// 0 is the not-purchasable sentinel and the item goes off sale
	assert.Equal(t, int64(0), price)
	require.Len(t, st.onSaleSets, 1)
	assert.False(t, st.onSaleSets[0])
	assert.Empty(t, st.priceSyncs)
}

func TestGetCurrentPriceUnavailable(t *testing.T) {
	t.Run("missing item", func(t *testing.T) {
		svc := NewPricingService(&fakePricingStore{}, nil)

		_, err := svc.GetCurrentPrice(context.Background(), 1)
		assert.ErrorIs(t, err, ErrItemUnavailable)
	})

	t.Run("off sale", func(t *testing.T) {
		item := onSaleItem(nil, nil)
		item.OnSale = false
		svc := NewPricingService(&fakePricingStore{item: item}, nil)

		_, err := svc.GetCurrentPrice(context.Background(), 1)
		assert.ErrorIs(t, err, ErrItemUnavailable)
	})
}

func TestGetCurrentPriceListingQueryFailure(t *testing.T) {
	st := &fakePricingStore{
		item:      onSaleItem(nil, nil),
		lowestErr: assert.AnError,
	}
	svc := NewPricingService(st, nil)

	_, err := svc.GetCurrentPrice(context.Background(), 1)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, st.priceSyncs)
	assert.Empty(t, st.onSaleSets)
}
