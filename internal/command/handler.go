package command

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/example/plant-shop/internal/events"
	"github.com/example/plant-shop/internal/infrastructure/cache"
	"github.com/example/plant-shop/internal/infrastructure/store"
	"github.com/example/plant-shop/internal/shopapi"
)

// Handler runs write operations. Every successful write publishes a domain
// event; writes that change products or stock also invalidate the product
// list cache. Cache and publisher are optional.
type Handler struct {
	store     store.Store
	cache     cache.ProductCache
	publisher events.Publisher
	logger    *slog.Logger
}

func NewHandler(st store.Store, pc cache.ProductCache, pub events.Publisher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:     st,
		cache:     pc,
		publisher: pub,
		logger:    logger.With("component", "command"),
	}
}

// CreateProduct creates a product. Stock defaults to DefaultStock.
func (h *Handler) CreateProduct(ctx context.Context, cmd CreateProduct) (*shopapi.Product, error) {
	if err := validateProduct(productFields{cmd.Name, cmd.Description, cmd.Price}); err != nil {
		return nil, err
	}
	stock := DefaultStock
	if cmd.Stock != nil {
		stock = *cmd.Stock
	}
	if err := validateStock(stock); err != nil {
		return nil, err
	}

	p, err := h.store.CreateProduct(ctx, shopapi.ProductInput{
		Name:        strings.TrimSpace(cmd.Name),
		Description: strings.TrimSpace(cmd.Description),
		Price:       cmd.Price.Decimal,
		Stock:       stock,
		Category:    strings.TrimSpace(cmd.Category),
		Image:       strings.TrimSpace(cmd.Image),
	})
	if err != nil {
		return nil, err
	}

	h.invalidateProducts(ctx)
	h.publish(ctx, events.AggregateProduct, p.ID, events.EventProductCreated, events.ProductCreated{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   time.Now().UTC(),
	})
	return p, nil
}

// UpdateProduct replaces the product's fields. A missing stock keeps the
// current level.
func (h *Handler) UpdateProduct(ctx context.Context, cmd UpdateProduct) (*shopapi.Product, error) {
	if err := validateProduct(productFields{cmd.Name, cmd.Description, cmd.Price}); err != nil {
		return nil, err
	}

	var stock int
	if cmd.Stock != nil {
		stock = *cmd.Stock
	} else {
		current, err := h.store.GetProduct(ctx, cmd.ProductID)
		if err != nil {
			return nil, err
		}
		stock = current.Stock
	}
	if err := validateStock(stock); err != nil {
		return nil, err
	}

	p, err := h.store.UpdateProduct(ctx, cmd.ProductID, shopapi.ProductInput{
		Name:        strings.TrimSpace(cmd.Name),
		Description: strings.TrimSpace(cmd.Description),
		Price:       cmd.Price.Decimal,
		Stock:       stock,
		Category:    strings.TrimSpace(cmd.Category),
		Image:       strings.TrimSpace(cmd.Image),
	})
	if err != nil {
		return nil, err
	}

	h.invalidateProducts(ctx)
	h.publish(ctx, events.AggregateProduct, p.ID, events.EventProductUpdated, events.ProductUpdated{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		UpdatedAt:   time.Now().UTC(),
	})
	return p, nil
}

// DeleteProduct deletes a product together with its order lines.
func (h *Handler) DeleteProduct(ctx context.Context, cmd DeleteProduct) error {
	if err := h.store.DeleteProduct(ctx, cmd.ProductID); err != nil {
		return err
	}

	h.invalidateProducts(ctx)
	h.publish(ctx, events.AggregateProduct, cmd.ProductID, events.EventProductDeleted, events.ProductDeleted{
		ProductID: cmd.ProductID,
		DeletedAt: time.Now().UTC(),
	})
	return nil
}

// PlaceOrder validates the submission and places the order, decrementing
// stock for every item.
func (h *Handler) PlaceOrder(ctx context.Context, cmd PlaceOrder) (*shopapi.Order, error) {
	if err := validateOrder(cmd); err != nil {
		return nil, err
	}

	items := make([]shopapi.SubmissionItem, 0, len(cmd.Items))
	for _, it := range cmd.Items {
		items = append(items, shopapi.SubmissionItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	o, err := h.store.PlaceOrder(ctx, shopapi.OrderSubmission{
		Items:           items,
		CustomerName:    strings.TrimSpace(cmd.CustomerName),
		CustomerPhone:   strings.TrimSpace(cmd.CustomerPhone),
		CustomerAddress: strings.TrimSpace(cmd.CustomerAddress),
	})
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order placed", "order_id", o.ID, "total", o.TotalPrice.StringFixed(2), "lines", len(o.Items))
	h.invalidateProducts(ctx)

	placed := events.OrderPlaced{
		OrderID:         o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		Total:           o.TotalPrice,
		PlacedAt:        o.CreatedAt,
	}
	for _, it := range o.Items {
		placed.Items = append(placed.Items, events.OrderItem{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Price:     it.Product.Price,
			Quantity:  it.Quantity,
		})
	}
	h.publish(ctx, events.AggregateOrder, o.ID, events.EventOrderPlaced, placed)
	return o, nil
}

// UpdateOrderStatus sets any valid status regardless of the current one.
func (h *Handler) UpdateOrderStatus(ctx context.Context, cmd UpdateOrderStatus) (*shopapi.Order, error) {
	status := strings.ToLower(strings.TrimSpace(cmd.Status))
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	o, err := h.store.UpdateOrderStatus(ctx, cmd.OrderID, status)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, events.AggregateOrder, o.ID, events.EventOrderStatusChanged, events.OrderStatusChanged{
		OrderID:   o.ID,
		Status:    o.Status,
		ChangedAt: time.Now().UTC(),
	})
	return o, nil
}

// DeleteOrder deletes an order. Stock is not restored.
func (h *Handler) DeleteOrder(ctx context.Context, cmd DeleteOrder) error {
	if err := h.store.DeleteOrder(ctx, cmd.OrderID); err != nil {
		return err
	}

	h.publish(ctx, events.AggregateOrder, cmd.OrderID, events.EventOrderDeleted, events.OrderDeleted{
		OrderID:   cmd.OrderID,
		DeletedAt: time.Now().UTC(),
	})
	return nil
}

func (h *Handler) invalidateProducts(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx); err != nil {
		h.logger.WarnContext(ctx, "failed to invalidate product cache", "error", err)
	}
}

// publish sends the event after the write has been committed. A publish
// failure is logged; the write stands.
func (h *Handler) publish(ctx context.Context, aggregateType string, id int64, eventType string, data any) {
	if h.publisher == nil {
		return
	}
	key := strconv.FormatInt(id, 10)
	event, err := events.New(aggregateType, key, eventType, data)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build event", "event_type", eventType, "error", err)
		return
	}
	if err := h.publisher.Publish(ctx, key, event); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish event", "event_type", eventType, "aggregate_id", key, "error", err)
	}
}
