// Package product is the administrative side of the catalog: creating,
// editing and deleting products and adjusting stock.
package product

import (
	"strconv"
	"strings"

	"github.com/example/plant-shop/internal/shopapi"
	"github.com/shopspring/decimal"
)

// Form holds product fields as entered by an administrator.
type Form struct {
	Name        string
	Description string
	Price       string
	Stock       string
	Category    string
	Image       string
}

// FormFrom fills a form from an existing record, for editing.
func FormFrom(p shopapi.Product) Form {
	return Form{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       strconv.Itoa(p.Stock),
		Category:    p.Category,
		Image:       p.Image,
	}
}

// Parse validates the form and converts it to the full writable record.
// All problems are reported together.
func (f Form) Parse() (shopapi.ProductInput, error) {
	var verr ValidationError
	in := shopapi.ProductInput{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Category:    strings.TrimSpace(f.Category),
		Image:       strings.TrimSpace(f.Image),
	}

	if in.Name == "" {
		verr.add("name", "is required")
	}
	if in.Description == "" {
		verr.add("description", "is required")
	}

	if price := strings.TrimSpace(f.Price); price == "" {
		verr.add("price", "is required")
	} else if d, err := decimal.NewFromString(price); err != nil {
		verr.add("price", "must be a number")
	} else if d.IsNegative() {
		verr.add("price", "must not be negative")
	} else {
		in.Price = d
	}

	if stock := strings.TrimSpace(f.Stock); stock == "" {
		verr.add("stock", "is required")
	} else if n, err := strconv.Atoi(stock); err != nil {
		verr.add("stock", "must be a whole number")
	} else if n < 0 {
		verr.add("stock", "must not be negative")
	} else {
		in.Stock = n
	}

	if len(verr.Problems) > 0 {
		return shopapi.ProductInput{}, &verr
	}
	return in, nil
}

// FieldError is one invalid form field.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError lists every invalid field of a product form.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) add(field, reason string) {
	e.Problems = append(e.Problems, FieldError{Field: field, Reason: reason})
}

// Fields returns the names of the invalid fields.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		out = append(out, p.Field)
	}
	return out
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+" "+p.Reason)
	}
	return "invalid product: " + strings.Join(parts, "; ")
}
