package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/example/plant-shop/internal/shopapi"
	"github.com/example/plant-shop/internal/shopapi/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache() (*Cache, *mocks.MockClient) {
	client := mocks.NewMockClient()
	return NewCache(client), client
}

// ============================================
// Snapshot State Tests
// ============================================

func TestCache_LoadingBeforeFirstRefresh(t *testing.T) {
	cache, _ := newTestCache()

	snap := cache.Snapshot()

	assert.Equal(t, StateLoading, snap.State)
	assert.Empty(t, snap.Products)
	assert.NoError(t, snap.Err)
}

func TestCache_Refresh_Success(t *testing.T) {
	cache, client := newTestCache()
	client.AddProduct("Monstera", "10.00", 4)
	client.AddProduct("Pothos", "5.50", 0)

	err := cache.Refresh(context.Background())

	require.NoError(t, err)
	snap := cache.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	require.Len(t, snap.Products, 2)
	assert.Equal(t, "Monstera", snap.Products[0].Name)
	assert.True(t, decimal.RequireFromString("5.5").Equal(snap.Products[1].Price))
	assert.Equal(t, DefaultCategory, snap.Products[0].Category)
}

func TestCache_Refresh_FailureClearsProducts(t *testing.T) {
	cache, client := newTestCache()
	client.AddProduct("Monstera", "10.00", 4)
	require.NoError(t, cache.Refresh(context.Background()))

	fetchErr := errors.New("connection refused")
	client.Errs["ListProducts"] = fetchErr
	err := cache.Refresh(context.Background())

	assert.ErrorIs(t, err, fetchErr)
	snap := cache.Snapshot()
	assert.Equal(t, StateFailed, snap.State)
	assert.Empty(t, snap.Products)
	assert.ErrorIs(t, snap.Err, fetchErr)
}

func TestCache_RefreshAfterFailureRecovers(t *testing.T) {
	cache, client := newTestCache()
	client.AddProduct("Monstera", "10.00", 4)
	client.Errs["ListProducts"] = errors.New("down")
	_ = cache.Refresh(context.Background())

	delete(client.Errs, "ListProducts")
	require.NoError(t, cache.Refresh(context.Background()))

	snap := cache.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Len(t, snap.Products, 1)
	assert.NoError(t, snap.Err)
}

func TestCache_SnapshotIsACopy(t *testing.T) {
	cache, client := newTestCache()
	client.AddProduct("Monstera", "10.00", 4)
	require.NoError(t, cache.Refresh(context.Background()))

	snap := cache.Snapshot()
	snap.Products[0].Name = "mutated"

	assert.Equal(t, "Monstera", cache.Snapshot().Products[0].Name)
}

func TestCache_Lookup(t *testing.T) {
	cache, client := newTestCache()
	id := client.AddProduct("Monstera", "10.00", 4)
	require.NoError(t, cache.Refresh(context.Background()))

	p, ok := cache.Lookup(id)
	assert.True(t, ok)
	assert.Equal(t, "Monstera", p.Name)

	_, ok = cache.Lookup(999)
	assert.False(t, ok)
}

// ============================================
// Mapping Tests
// ============================================

func TestToDisplay_PlaceholderCyclesByIndex(t *testing.T) {
	records := make([]shopapi.Product, 6)
	for i := range records {
		records[i] = shopapi.Product{ID: int64(i + 1), Name: "p"}
	}
	records[2].Image = "https://cdn.example.com/own.jpg"

	products := ToDisplay(records, PlaceholderImages)

	assert.Equal(t, PlaceholderImages[0], products[0].Image)
	assert.Equal(t, PlaceholderImages[1], products[1].Image)
	assert.Equal(t, "https://cdn.example.com/own.jpg", products[2].Image)
	assert.Equal(t, PlaceholderImages[3], products[3].Image)
	assert.Equal(t, PlaceholderImages[0], products[4].Image)
	assert.Equal(t, PlaceholderImages[1], products[5].Image)
}

func TestToDisplay_KeepsCategoryAndClampsStock(t *testing.T) {
	records := []shopapi.Product{{ID: 1, Category: "Succulents", Stock: -2}}

	products := ToDisplay(records, nil)

	assert.Equal(t, "Succulents", products[0].Category)
	assert.Equal(t, 0, products[0].Stock)
	assert.Empty(t, products[0].Image)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"25.5", "25.50"},
		{"10", "10.00"},
		{"0.005", "0.01"},
		{"3.14159", "3.14"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPrice(decimal.RequireFromString(tt.in)))
		})
	}
}
