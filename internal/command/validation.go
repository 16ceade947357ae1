package command

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError is a request the handler refuses before touching the store.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

var (
	ErrNoItems              = &ValidationError{Message: "No items provided"}
	ErrCustomerInfoRequired = &ValidationError{Message: "Customer information is required (name, phone, address)"}
)

const (
	maxNameLength  = 100
	maxPhoneLength = 20
)

// Prices are stored as NUMERIC(8,2).
var maxPrice = decimal.New(1, 6)

// OrderStatuses are the statuses an order can hold.
var OrderStatuses = []string{"pending", "completed", "cancelled"}

type productFields struct {
	name        string
	description string
	price       decimal.NullDecimal
}

func validateProduct(f productFields) error {
	var problems []string
	name := strings.TrimSpace(f.name)
	switch {
	case name == "":
		problems = append(problems, "name: This field is required.")
	case len([]rune(name)) > maxNameLength:
		problems = append(problems, fmt.Sprintf("name: Ensure this field has no more than %d characters.", maxNameLength))
	}
	if strings.TrimSpace(f.description) == "" {
		problems = append(problems, "description: This field is required.")
	}
	switch {
	case !f.price.Valid:
		problems = append(problems, "price: This field is required.")
	case f.price.Decimal.IsNegative():
		problems = append(problems, "price: Ensure this value is greater than or equal to 0.")
	case !f.price.Decimal.Equal(f.price.Decimal.Round(2)):
		problems = append(problems, "price: Ensure that there are no more than 2 decimal places.")
	case f.price.Decimal.GreaterThanOrEqual(maxPrice):
		problems = append(problems, "price: Ensure that there are no more than 8 digits in total.")
	}
	if len(problems) > 0 {
		return &ValidationError{Message: strings.Join(problems, " ")}
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return invalid("stock: Ensure this value is greater than or equal to 0.")
	}
	return nil
}

func validateOrder(cmd PlaceOrder) error {
	if len(cmd.Items) == 0 {
		return ErrNoItems
	}
	if strings.TrimSpace(cmd.CustomerName) == "" ||
		strings.TrimSpace(cmd.CustomerPhone) == "" ||
		strings.TrimSpace(cmd.CustomerAddress) == "" {
		return ErrCustomerInfoRequired
	}
	if len([]rune(strings.TrimSpace(cmd.CustomerName))) > maxNameLength {
		return invalid("customer_name: Ensure this field has no more than %d characters.", maxNameLength)
	}
	if len([]rune(strings.TrimSpace(cmd.CustomerPhone))) > maxPhoneLength {
		return invalid("customer_phone: Ensure this field has no more than %d characters.", maxPhoneLength)
	}
	for _, it := range cmd.Items {
		if it.Quantity <= 0 {
			return invalid("Quantity for product %d must be at least 1", it.ProductID)
		}
	}
	return nil
}

func validateStatus(status string) error {
	for _, s := range OrderStatuses {
		if status == s {
			return nil
		}
	}
	return invalid("status: %q is not a valid choice.", status)
}
