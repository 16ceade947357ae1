package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
)

// OrderItem represents an item in an order for email purposes
type OrderItem struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// LineTotal is price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewOrder is the content of the administrator's new-order notice.
type NewOrder struct {
	OrderID         int64
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Items           []OrderItem
	Total           decimal.Decimal
	Currency        string
}

var newOrderTemplate = template.Must(template.New("new-order").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #2e7d32; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">New order #{{.OrderID}}</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<h2 style="font-size: 18px; border-bottom: 2px solid #2e7d32; padding-bottom: 10px;">Customer</h2>
		<p style="margin: 0;">{{.CustomerName}}</p>
		<p style="margin: 0;">{{.CustomerPhone}}</p>
		<p style="margin: 0;">{{.CustomerAddress}}</p>

		<h2 style="font-size: 18px; border-bottom: 2px solid #2e7d32; padding-bottom: 10px;">Items</h2>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left;">Product</th>
					<th style="padding: 12px; text-align: center;">Qty</th>
					<th style="padding: 12px; text-align: right;">Price</th>
					<th style="padding: 12px; text-align: right;">Subtotal</th>
				</tr>
			</thead>
			<tbody>
			{{- range .Items}}
				<tr>
					<td style="padding: 12px; border-bottom: 1px solid #eee;">{{.Name}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">{{money .Price}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">{{money .LineTotal}}</td>
				</tr>
			{{- end}}
			</tbody>
		</table>

		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">Total</span>
			<span style="font-size: 24px; font-weight: bold; color: #2e7d32; margin-left: 10px;">{{money .Total}} {{.Currency}}</span>
		</div>
	</div>
</body>
</html>`))

// BuildNewOrderBody renders the HTML body of the new-order notice.
func BuildNewOrderBody(o NewOrder) (string, error) {
	var buf bytes.Buffer
	if err := newOrderTemplate.Execute(&buf, o); err != nil {
		return "", fmt.Errorf("render new order email: %w", err)
	}
	return buf.String(), nil
}

// NewOrderSubject is the subject line of the new-order notice.
func NewOrderSubject(o NewOrder) string {
	return fmt.Sprintf("New order #%d from %s (%s %s)", o.OrderID, o.CustomerName, o.Total.StringFixed(2), o.Currency)
}
