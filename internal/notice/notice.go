// Package notice turns errors from the client core into the dismissible
// messages shown to shoppers and administrators.
package notice

import (
	"errors"
	"fmt"

	"github.com/example/plant-shop/internal/confirm"
	"github.com/example/plant-shop/internal/domain/catalog"
	"github.com/example/plant-shop/internal/domain/checkout"
	"github.com/example/plant-shop/internal/domain/order"
	"github.com/example/plant-shop/internal/domain/product"
	"github.com/example/plant-shop/internal/shopapi"
)

type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindRequest
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindRequest:
		return "request"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// TransportMessage is shown for any failure to reach the collaborator.
const TransportMessage = "Network error: could not connect to server"

// Notice is one user-facing message.
type Notice struct {
	Kind    Kind
	Message string
}

func (n Notice) String() string {
	if n.Kind == KindNone {
		return ""
	}
	return "Error: " + n.Message
}

// Classify reports which part of the taxonomy err belongs to. Errors that
// match none of the known types count as request failures.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	var transportErr *shopapi.TransportError
	if errors.As(err, &transportErr) {
		return KindTransport
	}
	var requestErr *shopapi.RequestError
	if errors.As(err, &requestErr) {
		return KindRequest
	}

	var checkoutErr *checkout.ValidationError
	var productErr *product.ValidationError
	switch {
	case errors.As(err, &checkoutErr),
		errors.As(err, &productErr),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrNotStarted),
		errors.Is(err, checkout.ErrSubmissionInProgress),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, confirm.ErrNotConfirmed):
		return KindValidation
	}
	return KindRequest
}

// Message renders err as display text. Request failures carry the
// collaborator's own message verbatim.
func Message(err error) string {
	switch Classify(err) {
	case KindNone:
		return ""
	case KindTransport:
		return TransportMessage
	case KindRequest:
		var requestErr *shopapi.RequestError
		if errors.As(err, &requestErr) {
			return requestErr.Message
		}
		return err.Error()
	}

	var checkoutErr *checkout.ValidationError
	if errors.As(err, &checkoutErr) {
		return "Please fill in all fields"
	}
	var productErr *product.ValidationError
	if errors.As(err, &productErr) {
		return productErr.Error()
	}
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return "Your cart is empty!"
	case errors.Is(err, confirm.ErrNotConfirmed):
		return "Cancelled"
	}
	return err.Error()
}

// From builds the notice for err.
func From(err error) Notice {
	return Notice{Kind: Classify(err), Message: Message(err)}
}

// Success builds the confirmation shown after a placed order.
func Success(r *checkout.Receipt) string {
	return fmt.Sprintf("Order placed successfully!\nOrder ID: %d\nTotal: %s %s\n\nYour order will be delivered to:\n%s\n%s\n%s",
		r.OrderID, catalog.FormatPrice(r.Total), catalog.Currency, r.Customer.Name, r.Customer.Phone, r.Customer.Address)
}
