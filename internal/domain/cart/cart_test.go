package cart

import (
	"testing"

	"github.com/example/plant-shop/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id int64, price string) catalog.Product {
	return catalog.Product{ID: id, Name: "plant", Price: decimal.RequireFromString(price), Stock: 10}
}

// ============================================
// Add Tests
// ============================================

func TestCart_Add_NewLine(t *testing.T) {
	c := New()

	c.Add(product(1, "10.00"))

	require.Equal(t, 1, c.Len())
	line, ok := c.Line(1)
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
}

func TestCart_Add_SameProductTwice(t *testing.T) {
	c := New()

	c.Add(product(1, "10.00"))
	c.Add(product(1, "10.00"))

	assert.Equal(t, 1, c.Len())
	line, _ := c.Line(1)
	assert.Equal(t, 2, line.Quantity)
}

func TestCart_Add_FreezesPriceAtAddTime(t *testing.T) {
	c := New()
	c.Add(product(1, "10.00"))

	// Catalog price changed; the line keeps the original snapshot.
	c.Add(product(1, "99.00"))

	line, _ := c.Line(1)
	assert.True(t, decimal.RequireFromString("10").Equal(line.Product.Price))
	assert.True(t, decimal.RequireFromString("20").Equal(c.Total()))
}

func TestCart_Lines_KeepInsertionOrder(t *testing.T) {
	c := New()
	c.Add(product(3, "1"))
	c.Add(product(1, "1"))
	c.Add(product(2, "1"))

	lines := c.Lines()

	require.Len(t, lines, 3)
	assert.Equal(t, int64(3), lines[0].Product.ID)
	assert.Equal(t, int64(1), lines[1].Product.ID)
	assert.Equal(t, int64(2), lines[2].Product.ID)
}

// ============================================
// Quantity / Remove Tests
// ============================================

func TestCart_SetQuantity(t *testing.T) {
	c := New()
	c.Add(product(1, "10.00"))

	c.SetQuantity(1, 5)

	line, _ := c.Line(1)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, 5, c.ItemCount())
}

func TestCart_SetQuantity_ZeroOrNegativeRemoves(t *testing.T) {
	for _, n := range []int{0, -1, -10} {
		c := New()
		c.Add(product(1, "10.00"))
		c.Add(product(2, "3.00"))

		c.SetQuantity(1, n)

		_, ok := c.Line(1)
		assert.False(t, ok)
		assert.Equal(t, 1, c.Len())
	}
}

func TestCart_SetQuantity_UnknownIDIsNoop(t *testing.T) {
	c := New()
	c.Add(product(1, "10.00"))

	c.SetQuantity(42, 3)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.ItemCount())
}

func TestCart_Remove_ReindexesRemainingLines(t *testing.T) {
	c := New()
	c.Add(product(1, "1"))
	c.Add(product(2, "2"))
	c.Add(product(3, "3"))

	c.Remove(1)
	c.SetQuantity(3, 4)

	line, ok := c.Line(3)
	require.True(t, ok)
	assert.Equal(t, 4, line.Quantity)
	line, ok = c.Line(2)
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
}

func TestCart_Remove_AbsentIsNoop(t *testing.T) {
	c := New()
	c.Add(product(1, "1"))

	c.Remove(9)

	assert.Equal(t, 1, c.Len())
}

func TestCart_SetQuantityZeroEqualsRemove(t *testing.T) {
	a := New()
	b := New()
	for _, c := range []*Cart{a, b} {
		c.Add(product(1, "10.00"))
		c.Add(product(2, "5.50"))
		c.Add(product(2, "5.50"))
	}

	a.SetQuantity(1, 0)
	b.Remove(1)

	assert.Equal(t, a.Lines(), b.Lines())
	assert.True(t, a.Total().Equal(b.Total()))
}

// ============================================
// Totals Tests
// ============================================

func TestCart_Total_Scenario(t *testing.T) {
	c := New()
	c.Add(product(1, "10.00"))
	c.SetQuantity(1, 2)
	c.Add(product(2, "5.50"))

	assert.True(t, decimal.RequireFromString("25.50").Equal(c.Total()))
	assert.Equal(t, "25.50", catalog.FormatPrice(c.Total()))
	assert.Equal(t, 3, c.ItemCount())
}

func TestCart_Total_NoIntermediateRounding(t *testing.T) {
	c := New()
	c.Add(product(1, "0.333"))
	c.SetQuantity(1, 3)

	assert.True(t, decimal.RequireFromString("0.999").Equal(c.Total()))
	assert.Equal(t, "1.00", catalog.FormatPrice(c.Total()))
}

func TestCart_Clear(t *testing.T) {
	c := New()
	c.Add(product(1, "1"))
	c.Add(product(2, "2"))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
	assert.Equal(t, 0, c.ItemCount())

	c.Add(product(1, "1"))
	assert.Equal(t, 1, c.Len())
}

func TestCart_EmptyTotals(t *testing.T) {
	c := New()

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
	assert.Equal(t, 0, c.ItemCount())
	assert.Empty(t, c.Lines())
}

func TestCart_Submission(t *testing.T) {
	c := New()
	c.Add(product(4, "1"))
	c.Add(product(2, "1"))
	c.SetQuantity(2, 3)

	items := c.Submission()

	require.Len(t, items, 2)
	assert.Equal(t, int64(4), items[0].ProductID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, int64(2), items[1].ProductID)
	assert.Equal(t, 3, items[1].Quantity)
}
