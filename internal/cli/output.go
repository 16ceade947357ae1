package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/plant-shop/internal/domain/cart"
	"github.com/example/plant-shop/internal/domain/catalog"
	"github.com/example/plant-shop/internal/domain/order"
	"github.com/example/plant-shop/internal/notice"
	"github.com/shopspring/decimal"
)

// Exit codes for CLI commands.
const (
	ExitSuccess    = 0
	ExitFailure    = 1 // the shop rejected the request or could not be reached
	ExitValidation = 2 // the input was refused locally
)

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitValidation
	}
	switch notice.Classify(err) {
	case notice.KindNone:
		return ExitSuccess
	case notice.KindValidation:
		return ExitValidation
	default:
		return ExitFailure
	}
}

// ErrorText is the line printed for a failed command.
func ErrorText(err error) string {
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return "Error: " + usageErr.Message
	}
	return notice.From(err).String()
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
}

// Emit writes data as JSON, or calls text to render it for humans.
func (f *OutputFormatter) Emit(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	text(f.Writer)
	return nil
}

// Message writes a plain status line in text mode, or {"message": ...}.
func (f *OutputFormatter) Message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return f.Emit(map[string]string{"message": msg}, func(w io.Writer) {
		fmt.Fprintln(w, msg)
	})
}

func money(d decimal.Decimal) string {
	return catalog.FormatPrice(d) + " " + catalog.Currency
}

func writeProducts(w io.Writer, products []catalog.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products available.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, money(p.Price), p.Stock)
	}
	tw.Flush()
}

func writeCart(w io.Writer, c *cart.Cart) {
	if c.IsEmpty() {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range c.Lines() {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", l.Product.ID, l.Product.Name, l.Quantity, money(l.Product.Price), money(l.Subtotal()))
	}
	tw.Flush()
	fmt.Fprintf(w, "Total: %s (%d items)\n", money(c.Total()), c.ItemCount())
}

func writeOrders(w io.Writer, orders []order.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPLACED\tCUSTOMER\tPHONE\tTOTAL\tSTATUS\tITEMS")
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"), o.CustomerName, o.CustomerPhone, money(o.Total), o.Status, len(o.Lines))
	}
	tw.Flush()
}

func writeOrder(w io.Writer, o order.Order) {
	fmt.Fprintf(w, "Order #%d (%s)\n", o.ID, o.Status)
	fmt.Fprintf(w, "Placed:   %s\n", o.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Customer: %s, %s\n", o.CustomerName, o.CustomerPhone)
	fmt.Fprintf(w, "Address:  %s\n\n", o.CustomerAddress)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range o.Lines {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", l.Name, l.Quantity, money(l.Price), money(l.LineTotal()))
	}
	tw.Flush()
	fmt.Fprintf(w, "Total: %s\n", money(o.Total))
}

// UsageError is a malformed argument or flag.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

func usagef(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}
