// Package cart is the storefront's session-local cart. It is never persisted
// and has no remote counterpart.
package cart

import (
	"github.com/example/plant-shop/internal/domain/catalog"
	"github.com/example/plant-shop/internal/shopapi"
	"github.com/shopspring/decimal"
)

// Line is a product snapshot taken at add-time plus a quantity (always >= 1).
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price x quantity without rounding.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart maps product id to a line. Lines keep insertion order.
type Cart struct {
	lines []Line
	index map[int64]int // productID -> position in lines
}

func New() *Cart {
	return &Cart{index: make(map[int64]int)}
}

// Add increments the line for p.ID, or inserts a new line with quantity 1.
// The product's fields, price included, are frozen at this moment.
func (c *Cart) Add(p catalog.Product) {
	if i, ok := c.index[p.ID]; ok {
		c.lines[i].Quantity++
		return
	}
	c.index[p.ID] = len(c.lines)
	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
}

// SetQuantity sets the quantity of a present line; n <= 0 removes it.
// Unknown ids are ignored.
func (c *Cart) SetQuantity(productID int64, n int) {
	if n <= 0 {
		c.Remove(productID)
		return
	}
	if i, ok := c.index[productID]; ok {
		c.lines[i].Quantity = n
	}
}

// Remove deletes the line if present.
func (c *Cart) Remove(productID int64) {
	i, ok := c.index[productID]
	if !ok {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, productID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].Product.ID] = j
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[int64]int)
}

// Total is the exact sum of price x quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities (the badge number).
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for productID.
func (c *Cart) Line(productID int64) (Line, bool) {
	i, ok := c.index[productID]
	if !ok {
		return Line{}, false
	}
	return c.lines[i], true
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Submission projects the lines into order-creation items.
func (c *Cart) Submission() []shopapi.SubmissionItem {
	items := make([]shopapi.SubmissionItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, shopapi.SubmissionItem{ProductID: l.Product.ID, Quantity: l.Quantity})
	}
	return items
}
