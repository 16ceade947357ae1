package cli

import (
	"io"

	"github.com/example/plant-shop/internal/domain/cart"
	"github.com/example/plant-shop/internal/domain/checkout"
	"github.com/example/plant-shop/internal/notice"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// CheckoutOptions holds flags for the checkout command.
type CheckoutOptions struct {
	*RootOptions
	Items   []string
	Name    string
	Phone   string
	Address string
}

type receiptView struct {
	OrderID    int64           `json:"order_id"`
	Total      decimal.Decimal `json:"total"`
	OrderTotal decimal.Decimal `json:"order_total"`
	ItemCount  int             `json:"item_count"`
	Name       string          `json:"customer_name"`
	Phone      string          `json:"customer_phone"`
	Address    string          `json:"customer_address"`
}

func viewReceipt(r *checkout.Receipt) receiptView {
	return receiptView{
		OrderID:    r.OrderID,
		Total:      r.Total,
		OrderTotal: r.OrderTotal,
		ItemCount:  r.ItemCount,
		Name:       r.Customer.Name,
		Phone:      r.Customer.Phone,
		Address:    r.Customer.Address,
	}
}

// NewCheckoutCommand creates the one-shot checkout command.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckoutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order in one step",
		Long: `Place an order without the interactive session.

Example:
  shopctl checkout --item 3:2 --item 5 --name "Mona" --phone 0100 --address "Cairo"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckout(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Items, "item", nil, "product to buy as <id>[:<quantity>] (repeatable)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "customer name")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "customer phone")
	cmd.Flags().StringVar(&opts.Address, "address", "", "delivery address")

	return cmd
}

func runCheckout(cmd *cobra.Command, opts *CheckoutOptions) error {
	type request struct {
		id  int64
		qty int
	}
	requests := make([]request, 0, len(opts.Items))
	for _, raw := range opts.Items {
		id, qty, err := parseItem(raw)
		if err != nil {
			return err
		}
		requests = append(requests, request{id, qty})
	}
	if len(requests) == 0 {
		return checkout.ErrEmptyCart
	}
	customer := checkout.CustomerInfo{Name: opts.Name, Phone: opts.Phone, Address: opts.Address}
	if err := customer.Validate(); err != nil {
		return err
	}

	s, err := opts.connect(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := s.catalog.Refresh(ctx); err != nil {
		return err
	}

	c := cart.New()
	for _, r := range requests {
		p, ok := s.catalog.Lookup(r.id)
		if !ok {
			return usagef("product %d is not in the catalog", r.id)
		}
		addQuantity(c, p, r.qty)
	}

	orch := checkout.NewOrchestrator(c, s.client, s.catalog, s.logger)
	if err := orch.Begin(); err != nil {
		return err
	}
	orch.SetCustomer(customer)
	receipt, err := orch.Submit(ctx)
	if err != nil {
		return err
	}
	return s.out.Emit(viewReceipt(receipt), func(w io.Writer) {
		io.WriteString(w, notice.Success(receipt)+"\n")
	})
}
