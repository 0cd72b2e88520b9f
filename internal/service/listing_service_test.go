package service

import (
	"context"
	"testing"

	"limiteds-market/internal/models"
	"limiteds-market/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeListingStore struct {
	item     *models.CatalogItem
	txErr    error
	txCalls  int
	created  []models.ResaleListing
	listings []models.ResaleListing
	stacks   []models.InventoryItem
}

func (f *fakeListingStore) GetItemByID(ctx context.Context, id int64) (*models.CatalogItem, error) {
	return f.item, nil
}

func (f *fakeListingStore) GetItems(ctx context.Context) ([]models.CatalogItem, error) {
	if f.item == nil {
		return nil, nil
	}
	return []models.CatalogItem{*f.item}, nil
}

func (f *fakeListingStore) CreateListingTx(ctx context.Context, listing *models.ResaleListing) error {
	f.txCalls++
	if f.txErr != nil {
		return f.txErr
	}
	listing.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *listing)
	return nil
}

func (f *fakeListingStore) GetListingsByItem(ctx context.Context, itemID int64) ([]models.ResaleListing, error) {
	return f.listings, nil
}

func (f *fakeListingStore) GetInventoryByOwner(ctx context.Context, ownerID int64) ([]models.InventoryItem, error) {
	return f.stacks, nil
}

func TestCreateResaleListing(t *testing.T) {
	st := &fakeListingStore{}
	svc := NewListingService(st, nil, marketConfig())

	err := svc.CreateResaleListing(context.Background(), 1, 42, 500)
	require.NoError(t, err)

	require.Len(t, st.created, 1)
	assert.Equal(t, int64(1), st.created[0].ItemID)
	assert.Equal(t, int64(42), st.created[0].SellerID)
	assert.Equal(t, int64(500), st.created[0].Price)
}

func TestCreateResaleListingInvalidPrice(t *testing.T) {
	for _, price := range []int64{0, -1, -100} {
		st := &fakeListingStore{}
		svc := NewListingService(st, nil, marketConfig())

		err := svc.CreateResaleListing(context.Background(), 1, 42, price)
		assert.ErrorIs(t, err, ErrInvalidAskPrice)

		// rejected before any store access
		assert.Zero(t, st.txCalls)
	}
}

func TestCreateResaleListingNotOwned(t *testing.T) {
	st := &fakeListingStore{txErr: store.ErrInsufficientInventory}
	svc := NewListingService(st, nil, marketConfig())

	err := svc.CreateResaleListing(context.Background(), 1, 42, 500)
	assert.ErrorIs(t, err, ErrNotOwned)
	assert.Empty(t, st.created)
}

func TestCreateResaleListingStoreFailure(t *testing.T) {
	st := &fakeListingStore{txErr: assert.AnError}
	svc := NewListingService(st, nil, marketConfig())

	err := svc.CreateResaleListing(context.Background(), 1, 42, 500)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestGetItem(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		st := &fakeListingStore{item: onSaleItem(nil, nil)}
		svc := NewListingService(st, nil, marketConfig())

		item, err := svc.GetItem(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), item.ID)
	})

	t.Run("missing", func(t *testing.T) {
		svc := NewListingService(&fakeListingStore{}, nil, marketConfig())

		_, err := svc.GetItem(context.Background(), 1)
		assert.ErrorIs(t, err, ErrItemUnavailable)
	})
}
