package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/example/plant-shop/internal/shopapi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, s *MemoryStore, name, price string, stock int) shopapi.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), shopapi.ProductInput{
		Name:        name,
		Description: name,
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
	})
	require.NoError(t, err)
	return *p
}

func submission(items ...shopapi.SubmissionItem) shopapi.OrderSubmission {
	return shopapi.OrderSubmission{
		Items:           items,
		CustomerName:    "Ali",
		CustomerPhone:   "0100",
		CustomerAddress: "Cairo",
	}
}

// ============================================
// Product Tests
// ============================================

func TestMemoryStore_ProductCRUD(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	fern := seedProduct(t, s, "Fern", "10.00", 5)
	cactus := seedProduct(t, s, "Cactus", "5.50", 3)

	list, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, fern.ID, list[0].ID)
	assert.Equal(t, cactus.ID, list[1].ID)

	in := fern.Input()
	in.Stock = 9
	updated, err := s.UpdateProduct(ctx, fern.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Stock)

	got, err := s.GetProduct(ctx, fern.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Stock)

	require.NoError(t, s.DeleteProduct(ctx, fern.ID))
	_, err = s.GetProduct(ctx, fern.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_MissingProduct(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.UpdateProduct(ctx, 3, shopapi.ProductInput{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteProduct(ctx, 3), ErrNotFound)
}

// ============================================
// Order Tests
// ============================================

func TestMemoryStore_PlaceOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	fern := seedProduct(t, s, "Fern", "10.00", 5)
	cactus := seedProduct(t, s, "Cactus", "5.50", 3)

	o, err := s.PlaceOrder(ctx, submission(
		shopapi.SubmissionItem{ProductID: fern.ID, Quantity: 2},
		shopapi.SubmissionItem{ProductID: cactus.ID, Quantity: 1},
	))

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("25.50").Equal(o.TotalPrice))
	assert.Equal(t, "pending", o.Status)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Fern", o.Items[0].Product.Name)
	assert.Equal(t, 2, o.Items[0].Quantity)

	p, _ := s.GetProduct(ctx, fern.ID)
	assert.Equal(t, 3, p.Stock)
	p, _ = s.GetProduct(ctx, cactus.ID)
	assert.Equal(t, 2, p.Stock)
}

func TestMemoryStore_PlaceOrder_InsufficientStockChangesNothing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	fern := seedProduct(t, s, "Fern", "10.00", 5)
	cactus := seedProduct(t, s, "Cactus", "5.50", 1)

	_, err := s.PlaceOrder(ctx, submission(
		shopapi.SubmissionItem{ProductID: fern.ID, Quantity: 2},
		shopapi.SubmissionItem{ProductID: cactus.ID, Quantity: 3},
	))

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Insufficient stock for Cactus. Available: 1, Requested: 3", err.Error())

	p, _ := s.GetProduct(ctx, fern.ID)
	assert.Equal(t, 5, p.Stock)
	orders, _ := s.ListOrders(ctx)
	assert.Empty(t, orders)
}

func TestMemoryStore_PlaceOrder_RepeatedProductSharesStock(t *testing.T) {
	s := NewMemoryStore()
	fern := seedProduct(t, s, "Fern", "1", 3)

	_, err := s.PlaceOrder(context.Background(), submission(
		shopapi.SubmissionItem{ProductID: fern.ID, Quantity: 2},
		shopapi.SubmissionItem{ProductID: fern.ID, Quantity: 2},
	))

	assert.Equal(t, "Insufficient stock for Fern. Available: 1, Requested: 2", err.Error())
}

func TestMemoryStore_PlaceOrder_UnknownProduct(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.PlaceOrder(context.Background(), submission(shopapi.SubmissionItem{ProductID: 99, Quantity: 1}))

	var unknown *UnknownProductError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Product 99 does not exist", err.Error())
}

func TestMemoryStore_PlaceOrder_ConcurrentCannotOversell(t *testing.T) {
	s := NewMemoryStore()
	fern := seedProduct(t, s, "Fern", "1", 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	placed := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.PlaceOrder(context.Background(), submission(shopapi.SubmissionItem{ProductID: fern.ID, Quantity: 1}))
			if err == nil {
				mu.Lock()
				placed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, placed)
	p, _ := s.GetProduct(context.Background(), fern.ID)
	assert.Equal(t, 0, p.Stock)
}

func TestMemoryStore_ListOrders_NewestFirst(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	}
	fern := seedProduct(t, s, "Fern", "1", 10)
	for i := 0; i < 3; i++ {
		_, err := s.PlaceOrder(context.Background(), submission(shopapi.SubmissionItem{ProductID: fern.ID, Quantity: 1}))
		require.NoError(t, err)
	}

	orders, err := s.ListOrders(context.Background())

	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, int64(3), orders[0].ID)
	assert.Equal(t, int64(1), orders[2].ID)
}

func TestMemoryStore_UpdateAndDeleteOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	fern := seedProduct(t, s, "Fern", "1", 10)
	o, err := s.PlaceOrder(ctx, submission(shopapi.SubmissionItem{ProductID: fern.ID, Quantity: 1}))
	require.NoError(t, err)

	updated, err := s.UpdateOrderStatus(ctx, o.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)

	require.NoError(t, s.DeleteOrder(ctx, o.ID))
	_, err = s.GetOrder(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateOrderStatus(ctx, o.ID, "cancelled")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteProductCascadesToOrderLines(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	fern := seedProduct(t, s, "Fern", "1", 10)
	cactus := seedProduct(t, s, "Cactus", "2", 10)
	o, err := s.PlaceOrder(ctx, submission(
		shopapi.SubmissionItem{ProductID: fern.ID, Quantity: 1},
		shopapi.SubmissionItem{ProductID: cactus.ID, Quantity: 1},
	))
	require.NoError(t, err)

	require.NoError(t, s.DeleteProduct(ctx, fern.ID))

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Cactus", got.Items[0].Product.Name)
	assert.True(t, decimal.RequireFromString("3").Equal(got.TotalPrice))
}
