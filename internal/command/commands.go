package command

import (
	"github.com/shopspring/decimal"
)

// DefaultStock is used when a product is created without a stock level.
const DefaultStock = 30

// Product Commands
type CreateProduct struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
	Stock       *int                `json:"stock"`
	Category    string              `json:"category"`
	Image       string              `json:"image"`
}

// UpdateProduct replaces every writable field.
type UpdateProduct struct {
	ProductID   int64               `json:"-"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
	Stock       *int                `json:"stock"`
	Category    string              `json:"category"`
	Image       string              `json:"image"`
}

type DeleteProduct struct {
	ProductID int64 `json:"product_id"`
}

// Order Commands
type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type PlaceOrder struct {
	Items           []OrderItem `json:"items"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerAddress string      `json:"customer_address"`
}

type UpdateOrderStatus struct {
	OrderID int64  `json:"-"`
	Status  string `json:"status"`
}

type DeleteOrder struct {
	OrderID int64 `json:"order_id"`
}
