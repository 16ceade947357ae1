package checkout

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/example/plant-shop/internal/domain/cart"
	"github.com/example/plant-shop/internal/shopapi"
	"github.com/shopspring/decimal"
)

type State int

const (
	StateIdle State = iota
	StateAwaitingCustomerInfo
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingCustomerInfo:
		return "awaiting-customer-info"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	ErrEmptyCart            = errors.New("your cart is empty")
	ErrNotStarted           = errors.New("checkout has not been started")
	ErrSubmissionInProgress = errors.New("an order submission is already in progress")
)

// OrderCreator submits orders to the collaborator.
type OrderCreator interface {
	CreateOrder(ctx context.Context, sub shopapi.OrderSubmission) (*shopapi.Order, error)
}

// CatalogRefresher reloads the product catalog.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// Receipt describes a placed order.
type Receipt struct {
	OrderID    int64
	Total      decimal.Decimal // cart total at submission time
	OrderTotal decimal.Decimal // total computed by the collaborator
	ItemCount  int
	Customer   CustomerInfo
}

// Orchestrator drives one storefront session's checkout.
//
//	idle -> awaiting-customer-info -> submitting -> succeeded
//	                 ^                     |
//	                 +------ failed <------+
type Orchestrator struct {
	mu       sync.Mutex
	cart     *cart.Cart
	creator  OrderCreator
	catalog  CatalogRefresher
	state    State
	customer CustomerInfo
	lastErr  error
	logger   *slog.Logger
}

func NewOrchestrator(c *cart.Cart, creator OrderCreator, catalog CatalogRefresher, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cart:    c,
		creator: creator,
		catalog: catalog,
		state:   StateIdle,
		logger:  logger.With("component", "checkout"),
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) Customer() CustomerInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.customer
}

// LastError is the failure of the most recent submission, if it failed.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Begin opens the customer form. An empty cart is rejected without a state
// change.
func (o *Orchestrator) Begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateSubmitting {
		return ErrSubmissionInProgress
	}
	if o.cart.IsEmpty() {
		return ErrEmptyCart
	}
	o.state = StateAwaitingCustomerInfo
	o.lastErr = nil
	return nil
}

// SetCustomer replaces the form fields. Any interaction after a failure
// returns the session to awaiting-customer-info.
func (o *Orchestrator) SetCustomer(info CustomerInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.customer = info
	if o.state == StateFailed {
		o.state = StateAwaitingCustomerInfo
	}
}

// Cancel closes the form. Customer fields are kept.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateSubmitting {
		o.state = StateIdle
	}
}

// Submit validates the form and places the order. Validation failures make
// no network call and leave the state unchanged. On success the cart and
// customer fields are cleared and the catalog is refreshed; on failure both
// are kept so the shopper can resubmit.
func (o *Orchestrator) Submit(ctx context.Context) (*Receipt, error) {
	o.mu.Lock()
	switch o.state {
	case StateSubmitting:
		o.mu.Unlock()
		return nil, ErrSubmissionInProgress
	case StateFailed:
		o.state = StateAwaitingCustomerInfo
	case StateAwaitingCustomerInfo:
	default:
		o.mu.Unlock()
		return nil, ErrNotStarted
	}
	if o.cart.IsEmpty() {
		o.mu.Unlock()
		return nil, ErrEmptyCart
	}
	if err := o.customer.Validate(); err != nil {
		o.mu.Unlock()
		return nil, err
	}

	sub := BuildSubmission(o.cart, o.customer)
	total := o.cart.Total()
	count := o.cart.ItemCount()
	customer := o.customer.Trimmed()
	o.state = StateSubmitting
	o.lastErr = nil
	o.mu.Unlock()

	o.logger.InfoContext(ctx, "submitting order", "lines", len(sub.Items), "items", count, "total", total.StringFixed(2))
	order, err := o.creator.CreateOrder(ctx, sub)

	o.mu.Lock()
	if err != nil {
		o.state = StateFailed
		o.lastErr = err
		o.mu.Unlock()
		o.logger.WarnContext(ctx, "order submission failed", "error", err)
		return nil, err
	}

	receipt := &Receipt{
		OrderID:    order.ID,
		Total:      total,
		OrderTotal: order.TotalPrice,
		ItemCount:  count,
		Customer:   customer,
	}
	o.cart.Clear()
	o.customer = CustomerInfo{}
	o.state = StateSucceeded
	o.mu.Unlock()

	o.logger.InfoContext(ctx, "order placed", "order_id", order.ID)

	// Stock was decremented server-side.
	if o.catalog != nil {
		if err := o.catalog.Refresh(ctx); err != nil {
			o.logger.WarnContext(ctx, "catalog refresh after checkout failed", "error", err)
		}
	}
	return receipt, nil
}

// BuildSubmission projects the cart and customer fields into the
// order-creation payload. Customer fields are trimmed.
func BuildSubmission(c *cart.Cart, info CustomerInfo) shopapi.OrderSubmission {
	info = info.Trimmed()
	return shopapi.OrderSubmission{
		Items:           c.Submission(),
		CustomerName:    info.Name,
		CustomerPhone:   info.Phone,
		CustomerAddress: info.Address,
	}
}

// CustomerInfo holds the checkout form fields.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Trimmed returns the fields with surrounding whitespace removed.
func (c CustomerInfo) Trimmed() CustomerInfo {
	return CustomerInfo{
		Name:    strings.TrimSpace(c.Name),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
}

// Validate requires all three fields to be non-empty after trimming.
func (c CustomerInfo) Validate() error {
	t := c.Trimmed()
	var missing []string
	if t.Name == "" {
		missing = append(missing, "name")
	}
	if t.Phone == "" {
		missing = append(missing, "phone")
	}
	if t.Address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// ValidationError lists the customer fields that are missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "please fill in all fields (missing: " + strings.Join(e.Fields, ", ") + ")"
}
