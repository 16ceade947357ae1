package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/plant-shop/internal/shopapi"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidValue = errors.New("invalid value")
)

// Store persists products and orders.
type Store interface {
	ListProducts(ctx context.Context) ([]shopapi.Product, error)
	GetProduct(ctx context.Context, id int64) (*shopapi.Product, error)
	CreateProduct(ctx context.Context, in shopapi.ProductInput) (*shopapi.Product, error)
	UpdateProduct(ctx context.Context, id int64, in shopapi.ProductInput) (*shopapi.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListOrders(ctx context.Context) ([]shopapi.Order, error)
	GetOrder(ctx context.Context, id int64) (*shopapi.Order, error)
	// PlaceOrder checks and decrements stock for every item and records the
	// order atomically. Either all items are taken or nothing changes.
	PlaceOrder(ctx context.Context, sub shopapi.OrderSubmission) (*shopapi.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) (*shopapi.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

// UnknownProductError is returned when an order references a missing product.
type UnknownProductError struct {
	ProductID int64
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("Product %d does not exist", e.ProductID)
}

// InsufficientStockError is returned when an item asks for more than is left.
type InsufficientStockError struct {
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d", e.Name, e.Available, e.Requested)
}

// reserve checks every item against the given stock levels, in submission
// order, and returns the stock left per product and the order total.
// Repeated product ids draw from the same stock.
func reserve(items []shopapi.SubmissionItem, products map[int64]shopapi.Product) (map[int64]int, decimal.Decimal, error) {
	remaining := make(map[int64]int, len(items))
	total := decimal.Zero
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, decimal.Zero, &UnknownProductError{ProductID: it.ProductID}
		}
		left, seen := remaining[p.ID]
		if !seen {
			left = p.Stock
		}
		if left < it.Quantity {
			return nil, decimal.Zero, &InsufficientStockError{Name: p.Name, Available: left, Requested: it.Quantity}
		}
		remaining[p.ID] = left - it.Quantity
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return remaining, total, nil
}
