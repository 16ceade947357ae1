package shopapi

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the collaborator's product record.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category,omitempty"`
	Image       string          `json:"image,omitempty"`
}

// ProductInput carries the full set of writable product fields.
// Both create and update send every field.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category,omitempty"`
	Image       string          `json:"image,omitempty"`
}

// Input returns the writable fields of p.
func (p Product) Input() ProductInput {
	return ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Image:       p.Image,
	}
}

// OrderItem is one line of a persisted order.
type OrderItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Order is the collaborator's order record.
type Order struct {
	ID              int64           `json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	Status          string          `json:"status,omitempty"`
	Items           []OrderItem     `json:"items"`
}

// SubmissionItem references a product by id in an order submission.
type SubmissionItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderSubmission is the body of the order-creation request.
type OrderSubmission struct {
	Items           []SubmissionItem `json:"items"`
	CustomerName    string           `json:"customer_name"`
	CustomerPhone   string           `json:"customer_phone"`
	CustomerAddress string           `json:"customer_address"`
}

// StatusUpdate is the body of the order status PATCH.
type StatusUpdate struct {
	Status string `json:"status"`
}

// ErrorBody is the failure payload convention shared by client and server.
type ErrorBody struct {
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}
