package cache

import (
	"context"
	"errors"

	"github.com/example/plant-shop/internal/shopapi"
)

var ErrCacheMiss = errors.New("cache miss")

// ProductCache holds the full product list between writes.
//
// Lists are stored per generation. A reader takes the generation before it
// reads the store and writes the list back under that generation;
// Invalidate starts a new one, so a list read before a write is never
// served after it.
type ProductCache interface {
	Generation(ctx context.Context) (int64, error)
	GetProducts(ctx context.Context, gen int64) ([]shopapi.Product, error)
	SetProducts(ctx context.Context, gen int64, products []shopapi.Product) error
	Invalidate(ctx context.Context) error
}
