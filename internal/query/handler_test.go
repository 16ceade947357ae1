package query

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/example/plant-shop/internal/infrastructure/cache"
	"github.com/example/plant-shop/internal/infrastructure/store"
	"github.com/example/plant-shop/internal/shopapi"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCache struct {
	gen      int64
	products map[int64][]shopapi.Product
	genErr   error
	getErr   error
	setErr   error
	sets     int
}

func (c *mockCache) Generation(context.Context) (int64, error) {
	return c.gen, c.genErr
}

func (c *mockCache) GetProducts(_ context.Context, gen int64) ([]shopapi.Product, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	products, ok := c.products[gen]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return products, nil
}

func (c *mockCache) SetProducts(_ context.Context, gen int64, products []shopapi.Product) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	if c.products == nil {
		c.products = make(map[int64][]shopapi.Product)
	}
	c.products[gen] = products
	return nil
}

func (c *mockCache) Invalidate(context.Context) error {
	delete(c.products, c.gen)
	c.gen++
	return nil
}

type countingStore struct {
	*store.MemoryStore
	listProducts int
	// afterList runs once the store has been read, before the caller
	// continues.
	afterList func()
}

func (s *countingStore) ListProducts(ctx context.Context) ([]shopapi.Product, error) {
	s.listProducts++
	products, err := s.MemoryStore.ListProducts(ctx)
	if s.afterList != nil {
		s.afterList()
	}
	return products, err
}

func newTestQueryHandler(t *testing.T) (*Handler, *countingStore, *mockCache) {
	t.Helper()
	st := &countingStore{MemoryStore: store.NewMemoryStore()}
	_, err := st.CreateProduct(context.Background(), shopapi.ProductInput{
		Name:        "Fern",
		Description: "Leafy",
		Price:       decimal.RequireFromString("10"),
		Stock:       5,
	})
	require.NoError(t, err)
	pc := &mockCache{}
	return NewHandler(st, pc, nil), st, pc
}

// ============================================
// Product Query Tests
// ============================================

func TestHandler_ListProducts_FillsCacheOnMiss(t *testing.T) {
	handler, st, pc := newTestQueryHandler(t)

	first, err := handler.ListProducts(context.Background())
	require.NoError(t, err)
	second, err := handler.ListProducts(context.Background())
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, st.listProducts)
	assert.Equal(t, 1, pc.sets)
}

func TestHandler_ListProducts_CacheErrorFallsBackToStore(t *testing.T) {
	handler, st, pc := newTestQueryHandler(t)
	pc.getErr = errors.New("connection refused")
	pc.setErr = errors.New("connection refused")

	products, err := handler.ListProducts(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, st.listProducts)
}

func TestHandler_ListProducts_CacheUnreachableSkipsCache(t *testing.T) {
	handler, st, pc := newTestQueryHandler(t)
	pc.genErr = errors.New("connection refused")

	products, err := handler.ListProducts(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, st.listProducts)
	assert.Zero(t, pc.sets)
}

func TestHandler_ListProducts_WriteDuringReadIsNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	pc := cache.NewRedisCache(client, "test")

	st := &countingStore{MemoryStore: store.NewMemoryStore()}
	ctx := context.Background()
	fern, err := st.CreateProduct(ctx, shopapi.ProductInput{
		Name:        "Fern",
		Description: "Leafy",
		Price:       decimal.RequireFromString("10"),
		Stock:       5,
	})
	require.NoError(t, err)
	handler := NewHandler(st, pc, nil)

	// A checkout commits and invalidates while the first read is between
	// the store and the cache.
	st.afterList = func() {
		st.afterList = nil
		_, err := st.PlaceOrder(ctx, shopapi.OrderSubmission{
			Items:           []shopapi.SubmissionItem{{ProductID: fern.ID, Quantity: 1}},
			CustomerName:    "Ali",
			CustomerPhone:   "0100",
			CustomerAddress: "Cairo",
		})
		require.NoError(t, err)
		require.NoError(t, pc.Invalidate(ctx))
	}

	stale, err := handler.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, 5, stale[0].Stock)

	fresh, err := handler.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, 4, fresh[0].Stock)
	assert.Equal(t, 2, st.listProducts)

	cached, err := handler.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, cached[0].Stock)
	assert.Equal(t, 2, st.listProducts)
}

func TestHandler_ListProducts_WithoutCache(t *testing.T) {
	handler := NewHandler(store.NewMemoryStore(), nil, nil)

	products, err := handler.ListProducts(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestHandler_GetProduct(t *testing.T) {
	handler, _, _ := newTestQueryHandler(t)

	p, err := handler.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Fern", p.Name)

	_, err = handler.GetProduct(context.Background(), 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// ============================================
// Order Query Tests
// ============================================

func TestHandler_Orders(t *testing.T) {
	handler, st, _ := newTestQueryHandler(t)

	orders, err := handler.ListOrders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)

	placed, err := st.PlaceOrder(context.Background(), shopapi.OrderSubmission{
		Items:           []shopapi.SubmissionItem{{ProductID: 1, Quantity: 2}},
		CustomerName:    "Ali",
		CustomerPhone:   "0100",
		CustomerAddress: "Cairo",
	})
	require.NoError(t, err)

	got, err := handler.GetOrder(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("20").Equal(got.TotalPrice))

	_, err = handler.GetOrder(context.Background(), placed.ID+1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
