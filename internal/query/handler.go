package query

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/plant-shop/internal/infrastructure/cache"
	"github.com/example/plant-shop/internal/infrastructure/store"
	"github.com/example/plant-shop/internal/shopapi"
)

// Handler serves reads. The product list goes through the cache when one
// is configured; everything else reads the store directly.
type Handler struct {
	store  store.Store
	cache  cache.ProductCache
	logger *slog.Logger
}

func NewHandler(st store.Store, pc cache.ProductCache, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  st,
		cache:  pc,
		logger: logger.With("component", "query"),
	}
}

// ListProducts serves the list from the cache, filling it from the store
// on a miss. The generation is taken before the store read so a write that
// lands in between invalidates what this call caches.
func (h *Handler) ListProducts(ctx context.Context) ([]shopapi.Product, error) {
	gen, cached := h.cacheGeneration(ctx)
	if cached {
		products, err := h.cache.GetProducts(ctx, gen)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.WarnContext(ctx, "product cache read failed", "error", err)
		}
	}

	products, err := h.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []shopapi.Product{}
	}

	if cached {
		if err := h.cache.SetProducts(ctx, gen, products); err != nil {
			h.logger.WarnContext(ctx, "product cache write failed", "error", err)
		}
	}
	return products, nil
}

// cacheGeneration reports false when there is no cache or it cannot be
// reached; the store is read directly then.
func (h *Handler) cacheGeneration(ctx context.Context) (int64, bool) {
	if h.cache == nil {
		return 0, false
	}
	gen, err := h.cache.Generation(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "product cache read failed", "error", err)
		return 0, false
	}
	return gen, true
}

func (h *Handler) GetProduct(ctx context.Context, id int64) (*shopapi.Product, error) {
	return h.store.GetProduct(ctx, id)
}

// Orders
func (h *Handler) ListOrders(ctx context.Context) ([]shopapi.Order, error) {
	orders, err := h.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []shopapi.Order{}
	}
	return orders, nil
}

func (h *Handler) GetOrder(ctx context.Context, id int64) (*shopapi.Order, error) {
	return h.store.GetOrder(ctx, id)
}
