package catalog

import (
	"context"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/example/plant-shop/internal/shopapi"
	"github.com/shopspring/decimal"
)

// Currency is the single display currency of the shop.
const Currency = "EGP"

// DefaultCategory labels products the collaborator sends without a category.
const DefaultCategory = "Indoor Plants"

// PlaceholderImages are assigned by list position to products without an image.
var PlaceholderImages = []string{
	"https://websitedemos.net/generic-ecommerce-02/wp-content/uploads/sites/1526/2025/03/product-04-400x434.jpg",
	"https://websitedemos.net/generic-ecommerce-02/wp-content/uploads/sites/1526/2025/03/product-05-400x434.jpg",
	"https://websitedemos.net/generic-ecommerce-02/wp-content/uploads/sites/1526/2025/03/product-06-400x434.jpg",
	"https://websitedemos.net/generic-ecommerce-02/wp-content/uploads/sites/1526/2025/03/product-03-400x434.jpg",
}

type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "error"
	default:
		return "unknown"
	}
}

// Product is the storefront's display record.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

// Snapshot is an immutable view of the catalog at one point in time.
type Snapshot struct {
	State    State
	Products []Product
	Err      error
}

// ProductLister fetches the full product list from the collaborator.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]shopapi.Product, error)
}

// Cache holds the last fetched product list.
type Cache struct {
	client       ProductLister
	placeholders []string
	current      atomic.Pointer[Snapshot]
	logger       *slog.Logger
}

type Option func(*Cache)

// WithPlaceholders overrides the placeholder image list. An empty list
// disables placeholder assignment.
func WithPlaceholders(images []string) Option {
	return func(c *Cache) { c.placeholders = images }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

func NewCache(client ProductLister, opts ...Option) *Cache {
	c := &Cache{
		client:       client,
		placeholders: PlaceholderImages,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "catalog")
	c.current.Store(&Snapshot{State: StateLoading})
	return c
}

// Refresh fetches the product list and swaps the snapshot in one step.
// On failure the snapshot becomes an empty list carrying the error.
func (c *Cache) Refresh(ctx context.Context) error {
	records, err := c.client.ListProducts(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to load products", "error", err)
		c.current.Store(&Snapshot{State: StateFailed, Products: []Product{}, Err: err})
		return err
	}

	products := ToDisplay(records, c.placeholders)
	c.current.Store(&Snapshot{State: StateReady, Products: products})
	c.logger.DebugContext(ctx, "catalog refreshed", "products", len(products))
	return nil
}

// Snapshot returns the current view. The product slice is a copy.
func (c *Cache) Snapshot() Snapshot {
	s := *c.current.Load()
	s.Products = slices.Clone(s.Products)
	return s
}

// Lookup finds a product in the current snapshot.
func (c *Cache) Lookup(id int64) (Product, bool) {
	for _, p := range c.current.Load().Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ToDisplay maps collaborator records to display records. A missing image is
// filled with placeholders[index mod len(placeholders)].
func ToDisplay(records []shopapi.Product, placeholders []string) []Product {
	products := make([]Product, 0, len(records))
	for i, r := range records {
		p := Product{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Price:       r.Price,
			Stock:       r.Stock,
			Category:    r.Category,
			Image:       r.Image,
		}
		if p.Stock < 0 {
			p.Stock = 0
		}
		if p.Category == "" {
			p.Category = DefaultCategory
		}
		if p.Image == "" && len(placeholders) > 0 {
			p.Image = placeholders[i%len(placeholders)]
		}
		products = append(products, p)
	}
	return products
}

// FormatPrice renders an amount with two decimal places. Rounding happens
// here and nowhere else.
func FormatPrice(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
