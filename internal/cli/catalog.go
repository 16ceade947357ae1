package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/example/plant-shop/internal/domain/cart"
	"github.com/example/plant-shop/internal/domain/catalog"
	"github.com/spf13/cobra"
)

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the products on sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.connect(cmd)
			if err != nil {
				return err
			}
			if err := s.catalog.Refresh(cmd.Context()); err != nil {
				return err
			}
			products := s.catalog.Snapshot().Products
			return s.out.Emit(products, func(w io.Writer) { writeProducts(w, products) })
		},
	}
}

// parseItem reads "id" or "id:qty".
func parseItem(raw string) (int64, int, error) {
	idPart, qtyPart, hasQty := strings.Cut(strings.TrimSpace(raw), ":")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return 0, 0, usagef("invalid item %q: want <product-id>[:<quantity>]", raw)
	}
	qty := 1
	if hasQty {
		qty, err = strconv.Atoi(qtyPart)
		if err != nil || qty <= 0 {
			return 0, 0, usagef("invalid quantity in %q", raw)
		}
	}
	return id, qty, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, usagef("invalid id %q", raw)
	}
	return id, nil
}

// addQuantity puts qty more of p into the cart.
func addQuantity(c *cart.Cart, p catalog.Product, qty int) {
	if line, ok := c.Line(p.ID); ok {
		c.SetQuantity(p.ID, line.Quantity+qty)
		return
	}
	c.Add(p)
	if qty > 1 {
		c.SetQuantity(p.ID, qty)
	}
}

// parseStock accepts any integer; range checks belong to the admin.
func parseStock(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, usagef("invalid stock %q", raw)
	}
	return n, nil
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
