// Package order is the administrative view of placed orders: listing them
// newest first, moving them through the status lifecycle and deleting them.
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/plant-shop/internal/shopapi"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusCompleted, StatusCancelled}

var (
	ErrInvalidStatus = errors.New("invalid order status")
	ErrOrderNotFound = errors.New("order not found")
)

// Action is an administrative command on an order.
type Action string

const (
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// actionTargets defines the status each action moves an order to. Any order
// may take any action regardless of its current status.
var actionTargets = map[Action]Status{
	ActionComplete: StatusCompleted,
	ActionCancel:   StatusCancelled,
}

// Transition returns the status an order in status from reaches by taking
// action. It is total over the known statuses.
func Transition(from Status, action Action) (Status, error) {
	target, ok := actionTargets[action]
	if !ok {
		return from, fmt.Errorf("%w: unknown action %q", ErrInvalidStatus, action)
	}
	return target, nil
}

// ParseStatus accepts a known status, case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Normalize treats an absent or empty status as pending.
func Normalize(s string) Status {
	if strings.TrimSpace(s) == "" {
		return StatusPending
	}
	return Status(strings.ToLower(s))
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Order is the admin display record of a placed order.
type Order struct {
	ID              int64           `json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	Total           decimal.Decimal `json:"total"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	Status          Status          `json:"status"`
	Lines           []Line          `json:"lines"`
}

// Line is one product in an order with the product as it was at the time
// of the listing.
type Line struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// FromRecord maps a collaborator order to its display record.
func FromRecord(r shopapi.Order) Order {
	lines := make([]Line, 0, len(r.Items))
	for _, it := range r.Items {
		lines = append(lines, Line{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Price:     it.Product.Price,
			Quantity:  it.Quantity,
		})
	}
	return Order{
		ID:              r.ID,
		CreatedAt:       r.CreatedAt,
		Total:           r.TotalPrice,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CustomerAddress: r.CustomerAddress,
		Status:          Normalize(r.Status),
		Lines:           lines,
	}
}
