package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/example/plant-shop/internal/domain/catalog"
	"github.com/example/plant-shop/internal/email"
	"github.com/example/plant-shop/internal/events"
)

// Mailer sends the new-order notice.
type Mailer interface {
	SendNewOrder(to string, o email.NewOrder) error
}

// Handler processes events for sending notifications
type Handler struct {
	mailer     Mailer
	adminEmail string
	logger     *slog.Logger
}

// NewHandler creates a new notification handler
func NewHandler(mailer Mailer, adminEmail string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		mailer:     mailer,
		adminEmail: adminEmail,
		logger:     logger.With("component", "notifier"),
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event events.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	// Only process OrderPlaced events
	if event.EventType != events.EventOrderPlaced {
		return nil
	}
	return h.handleOrderPlaced(ctx, event)
}

func (h *Handler) handleOrderPlaced(ctx context.Context, event events.Event) error {
	var e events.OrderPlaced
	if err := event.Decode(&e); err != nil {
		return fmt.Errorf("unmarshal OrderPlaced event: %w", err)
	}

	h.logger.InfoContext(ctx, "processing OrderPlaced", "order_id", e.OrderID, "event_id", event.ID)

	notice := email.NewOrder{
		OrderID:         e.OrderID,
		CustomerName:    e.CustomerName,
		CustomerPhone:   e.CustomerPhone,
		CustomerAddress: e.CustomerAddress,
		Total:           e.Total,
		Currency:        catalog.Currency,
	}
	for _, item := range e.Items {
		notice.Items = append(notice.Items, email.OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	if err := h.mailer.SendNewOrder(h.adminEmail, notice); err != nil {
		return fmt.Errorf("send new order notice for order %d: %w", e.OrderID, err)
	}

	h.logger.InfoContext(ctx, "new order notice sent", "order_id", e.OrderID, "to", h.adminEmail)
	return nil
}
