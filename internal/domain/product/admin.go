package product

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/plant-shop/internal/confirm"
	"github.com/example/plant-shop/internal/domain/catalog"
	"github.com/example/plant-shop/internal/shopapi"
)

// Client is the part of the collaborator product administration needs.
type Client interface {
	GetProduct(ctx context.Context, id int64) (*shopapi.Product, error)
	CreateProduct(ctx context.Context, in shopapi.ProductInput) (*shopapi.Product, error)
	UpdateProduct(ctx context.Context, id int64, in shopapi.ProductInput) (*shopapi.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// Catalog is the cached product list that mutations invalidate.
type Catalog interface {
	Refresh(ctx context.Context) error
	Snapshot() catalog.Snapshot
}

// Admin performs product mutations. Each success refreshes the catalog so
// the storefront never shows a stale record.
type Admin struct {
	client  Client
	catalog Catalog
	logger  *slog.Logger
}

func NewAdmin(client Client, cat Catalog, logger *slog.Logger) *Admin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Admin{
		client:  client,
		catalog: cat,
		logger:  logger.With("component", "product-admin"),
	}
}

// Products refreshes the catalog and returns its snapshot for the admin
// table.
func (a *Admin) Products(ctx context.Context) (catalog.Snapshot, error) {
	err := a.catalog.Refresh(ctx)
	return a.catalog.Snapshot(), err
}

func (a *Admin) Create(ctx context.Context, f Form) (*shopapi.Product, error) {
	in, err := f.Parse()
	if err != nil {
		return nil, err
	}

	p, err := a.client.CreateProduct(ctx, in)
	if err != nil {
		a.logger.WarnContext(ctx, "failed to create product", "name", in.Name, "error", err)
		return nil, err
	}
	a.logger.InfoContext(ctx, "product created", "product_id", p.ID, "name", p.Name)
	a.invalidate(ctx)
	return p, nil
}

// Update replaces every writable field of the product.
func (a *Admin) Update(ctx context.Context, id int64, f Form) (*shopapi.Product, error) {
	in, err := f.Parse()
	if err != nil {
		return nil, err
	}
	return a.put(ctx, id, in)
}

// Delete removes a product after confirmation. A declined confirmation
// returns confirm.ErrNotConfirmed and makes no request.
func (a *Admin) Delete(ctx context.Context, id int64, c confirm.Confirmer) error {
	if err := confirm.Ask(c, fmt.Sprintf("Are you sure you want to delete product #%d?", id)); err != nil {
		return err
	}

	if err := a.client.DeleteProduct(ctx, id); err != nil {
		a.logger.WarnContext(ctx, "failed to delete product", "product_id", id, "error", err)
		return err
	}
	a.logger.InfoContext(ctx, "product deleted", "product_id", id)
	a.invalidate(ctx)
	return nil
}

// SetStock re-reads the product and writes it back with only the stock
// changed. Concurrent edits between the read and the write are lost.
func (a *Admin) SetStock(ctx context.Context, id int64, stock int) (*shopapi.Product, error) {
	if stock < 0 {
		return nil, &ValidationError{Problems: []FieldError{{Field: "stock", Reason: "must not be negative"}}}
	}

	current, err := a.client.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	in := current.Input()
	in.Stock = stock
	return a.put(ctx, id, in)
}

func (a *Admin) put(ctx context.Context, id int64, in shopapi.ProductInput) (*shopapi.Product, error) {
	p, err := a.client.UpdateProduct(ctx, id, in)
	if err != nil {
		a.logger.WarnContext(ctx, "failed to update product", "product_id", id, "error", err)
		return nil, err
	}
	a.logger.InfoContext(ctx, "product updated", "product_id", id, "stock", p.Stock)
	a.invalidate(ctx)
	return p, nil
}

func (a *Admin) invalidate(ctx context.Context) {
	if err := a.catalog.Refresh(ctx); err != nil {
		a.logger.WarnContext(ctx, "catalog refresh after product change failed", "error", err)
	}
}
