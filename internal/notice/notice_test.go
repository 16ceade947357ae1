package notice

import (
	"errors"
	"fmt"
	"testing"

	"github.com/example/plant-shop/internal/confirm"
	"github.com/example/plant-shop/internal/domain/checkout"
	"github.com/example/plant-shop/internal/domain/order"
	"github.com/example/plant-shop/internal/domain/product"
	"github.com/example/plant-shop/internal/shopapi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	stockErr := &shopapi.RequestError{
		Op:         "create order",
		StatusCode: 400,
		Message:    "Insufficient stock for Cactus. Available: 1, Requested: 3",
	}

	tests := []struct {
		name    string
		err     error
		kind    Kind
		message string
	}{
		{"nil", nil, KindNone, ""},
		{"transport", &shopapi.TransportError{Op: "fetch products", Err: errors.New("dial tcp: refused")}, KindTransport, TransportMessage},
		{"request verbatim", stockErr, KindRequest, stockErr.Message},
		{"wrapped request", fmt.Errorf("checkout: %w", stockErr), KindRequest, stockErr.Message},
		{"empty cart", checkout.ErrEmptyCart, KindValidation, "Your cart is empty!"},
		{"customer fields", &checkout.ValidationError{Fields: []string{"phone"}}, KindValidation, "Please fill in all fields"},
		{"product form", &product.ValidationError{Problems: []product.FieldError{{Field: "price", Reason: "must be a number"}}}, KindValidation, "invalid product: price must be a number"},
		{"declined", confirm.ErrNotConfirmed, KindValidation, "Cancelled"},
		{"in flight", checkout.ErrSubmissionInProgress, KindValidation, checkout.ErrSubmissionInProgress.Error()},
		{"bad status", fmt.Errorf("%w: cannot set %q", order.ErrInvalidStatus, "pending"), KindValidation, `invalid order status: cannot set "pending"`},
		{"unknown", errors.New("something odd"), KindRequest, "something odd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := From(tt.err)

			assert.Equal(t, tt.kind, n.Kind)
			assert.Equal(t, tt.message, n.Message)
		})
	}
}

func TestNotice_String(t *testing.T) {
	assert.Equal(t, "", From(nil).String())
	assert.Equal(t, "Error: "+TransportMessage, From(&shopapi.TransportError{Op: "x", Err: errors.New("y")}).String())
}

func TestSuccess(t *testing.T) {
	msg := Success(&checkout.Receipt{
		OrderID:  12,
		Total:    decimal.RequireFromString("25.5"),
		Customer: checkout.CustomerInfo{Name: "Ali", Phone: "0100", Address: "Cairo"},
	})

	assert.Equal(t, "Order placed successfully!\nOrder ID: 12\nTotal: 25.50 EGP\n\nYour order will be delivered to:\nAli\n0100\nCairo", msg)
}
