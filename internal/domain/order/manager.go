package order

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/example/plant-shop/internal/confirm"
	"github.com/example/plant-shop/internal/shopapi"
)

// Client is the part of the collaborator the manager needs.
type Client interface {
	ListOrders(ctx context.Context) ([]shopapi.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) (*shopapi.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

// Manager holds the displayed order list. Every successful mutation is
// followed by a full refetch; nothing is patched locally.
type Manager struct {
	client Client
	logger *slog.Logger

	mu     sync.RWMutex
	orders []Order
}

func NewManager(client Client, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client: client,
		logger: logger.With("component", "orders"),
	}
}

// List fetches all orders, newest first, and makes them the displayed list.
// On failure the displayed list is left as it was.
func (m *Manager) List(ctx context.Context) ([]Order, error) {
	records, err := m.client.ListOrders(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "failed to load orders", "error", err)
		return nil, err
	}

	orders := make([]Order, 0, len(records))
	for _, r := range records {
		orders = append(orders, FromRecord(r))
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	m.mu.Lock()
	m.orders = orders
	m.mu.Unlock()
	return slices.Clone(orders), nil
}

// Orders returns the displayed list.
func (m *Manager) Orders() []Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.orders)
}

// Find returns an order from the displayed list.
func (m *Manager) Find(id int64) (Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

// SetStatus moves an order to completed or cancelled. Pending is not a
// target an administrator can set.
func (m *Manager) SetStatus(ctx context.Context, id int64, status Status) error {
	if status != StatusCompleted && status != StatusCancelled {
		return fmt.Errorf("%w: cannot set %q", ErrInvalidStatus, status)
	}

	if _, err := m.client.UpdateOrderStatus(ctx, id, string(status)); err != nil {
		m.logger.WarnContext(ctx, "failed to update order", "order_id", id, "status", status, "error", err)
		return err
	}
	m.logger.InfoContext(ctx, "order status updated", "order_id", id, "status", status)
	m.refresh(ctx)
	return nil
}

// Apply takes action on the order. The order does not need to be in the
// displayed list.
func (m *Manager) Apply(ctx context.Context, id int64, action Action) error {
	current := StatusPending
	if o, ok := m.Find(id); ok {
		current = o.Status
	}
	target, err := Transition(current, action)
	if err != nil {
		return err
	}
	return m.SetStatus(ctx, id, target)
}

// Delete removes an order after confirmation. A declined confirmation
// returns confirm.ErrNotConfirmed and makes no request.
func (m *Manager) Delete(ctx context.Context, id int64, c confirm.Confirmer) error {
	if err := confirm.Ask(c, fmt.Sprintf("Are you sure you want to delete order #%d?", id)); err != nil {
		return err
	}

	if err := m.client.DeleteOrder(ctx, id); err != nil {
		m.logger.WarnContext(ctx, "failed to delete order", "order_id", id, "error", err)
		return err
	}
	m.logger.InfoContext(ctx, "order deleted", "order_id", id)
	m.refresh(ctx)
	return nil
}

// refresh reloads the list after a mutation that already succeeded. A
// failure keeps the previous list and is only logged.
func (m *Manager) refresh(ctx context.Context) {
	if _, err := m.List(ctx); err != nil {
		m.logger.WarnContext(ctx, "order list refresh failed", "error", err)
	}
}
