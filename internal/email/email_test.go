package email

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() NewOrder {
	return NewOrder{
		OrderID:         7,
		CustomerName:    "Ali <script>",
		CustomerPhone:   "0100",
		CustomerAddress: "Cairo",
		Items: []OrderItem{
			{Name: "Fern", Quantity: 2, Price: decimal.RequireFromString("10")},
			{Name: "Cactus", Quantity: 1, Price: decimal.RequireFromString("5.5")},
		},
		Total:    decimal.RequireFromString("25.5"),
		Currency: "EGP",
	}
}

// ============================================
// Template Tests
// ============================================

func TestBuildNewOrderBody(t *testing.T) {
	body, err := BuildNewOrderBody(sampleOrder())

	require.NoError(t, err)
	assert.Contains(t, body, "New order #7")
	assert.Contains(t, body, "Fern")
	assert.Contains(t, body, "20.00")
	assert.Contains(t, body, "5.50")
	assert.Contains(t, body, "25.50 EGP")
}

func TestBuildNewOrderBody_EscapesCustomerInput(t *testing.T) {
	body, err := BuildNewOrderBody(sampleOrder())

	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "Ali &lt;script&gt;")
}

func TestNewOrderSubject(t *testing.T) {
	assert.Equal(t, "New order #7 from Ali <script> (25.50 EGP)", NewOrderSubject(sampleOrder()))
}

func TestOrderItem_LineTotal(t *testing.T) {
	item := OrderItem{Quantity: 3, Price: decimal.RequireFromString("1.25")}
	assert.Equal(t, "3.75", item.LineTotal().StringFixed(2))
}

// ============================================
// Message Tests
// ============================================

func TestBuildMessage_StripsHeaderNewlines(t *testing.T) {
	msg := string(buildMessage("shop@example.com", "admin@example.com", "hello\r\nBcc: x@example.com", "<p>hi</p>"))

	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found)
	assert.Contains(t, headers, "Subject: hello  Bcc: x@example.com")
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.Equal(t, "<p>hi</p>", body)
}
