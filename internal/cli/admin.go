package cli

import (
	"io"

	"github.com/example/plant-shop/internal/domain/order"
	"github.com/example/plant-shop/internal/domain/product"
	"github.com/spf13/cobra"
)

// NewAdminCommand creates the admin command tree.
func NewAdminCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage products and orders",
	}
	cmd.AddCommand(newAdminProductsCommand(opts))
	cmd.AddCommand(newAdminOrdersCommand(opts))
	return cmd
}

// ProductFormOptions holds the product field flags.
type ProductFormOptions struct {
	*RootOptions
	Form product.Form
	Yes  bool
}

func bindProductFlags(cmd *cobra.Command, f *product.Form, defaultStock string) {
	cmd.Flags().StringVar(&f.Name, "name", "", "product name")
	cmd.Flags().StringVar(&f.Description, "description", "", "product description")
	cmd.Flags().StringVar(&f.Price, "price", "", "unit price, e.g. 12.50")
	cmd.Flags().StringVar(&f.Stock, "stock", defaultStock, "units in stock")
	cmd.Flags().StringVar(&f.Category, "category", "", "display category")
	cmd.Flags().StringVar(&f.Image, "image", "", "image URL")
}

func newAdminProductsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Create, edit and delete products",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.connect(cmd)
			if err != nil {
				return err
			}
			snap, err := product.NewAdmin(s.client, s.catalog, s.logger).Products(cmd.Context())
			if err != nil {
				return err
			}
			return s.out.Emit(snap.Products, func(w io.Writer) { writeProducts(w, snap.Products) })
		},
	}

	createOpts := &ProductFormOptions{RootOptions: rootOpts}
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.connect(cmd)
			if err != nil {
				return err
			}
			p, err := product.NewAdmin(s.client, s.catalog, s.logger).Create(cmd.Context(), createOpts.Form)
			if err != nil {
				return err
			}
			return s.out.Emit(p, func(w io.Writer) {
				io.WriteString(w, "Product #"+itoa(p.ID)+" created.\n")
			})
		},
	}
	bindProductFlags(create, &createOpts.Form, "30")

	updateOpts := &ProductFormOptions{RootOptions: rootOpts}
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a product; fields without a flag keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := rootOpts.connect(cmd)
			if err != nil {
				return err
			}
			current, err := s.client.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			form := mergeForm(cmd, product.FormFrom(*current), updateOpts.Form)
			p, err := product.NewAdmin(s.client, s.catalog, s.logger).Update(cmd.Context(), id, form)
			if err != nil {
				return err
			}
			return s.out.Emit(p, func(w io.Writer) {
				io.WriteString(w, "Product #"+itoa(p.ID)+" updated.\n")
			})
		},
	}
	bindProductFlags(update, &updateOpts.Form, "")

	deleteOpts := &ProductFormOptions{RootOptions: rootOpts}
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := rootOpts.connect(cmd)
			if err != nil {
				return err
			}
			admin := product.NewAdmin(s.client, s.catalog, s.logger)
			if err := admin.Delete(cmd.Context(), id, confirmer(cmd, deleteOpts.Yes)); err != nil {
				return err
			}
			return s.out.Message("Product #%d deleted.", id)
		},
	}
	del.Flags().BoolVarP(&deleteOpts.Yes, "yes", "y", false, "skip the confirmation prompt")

	setStock := &cobra.Command{
		Use:   "set-stock <id> <stock>",
		Short: "Change only the stock of a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			stock, err := parseStock(args[1])
			if err != nil {
				return err
			}
			s, err := rootOpts.connect(cmd)
			if err != nil {
				return err
			}
			p, err := product.NewAdmin(s.client, s.catalog, s.logger).SetStock(cmd.Context(), id, stock)
			if err != nil {
				return err
			}
			return s.out.Emit(p, func(w io.Writer) {
				io.WriteString(w, "Stock of "+p.Name+" set to "+itoa(int64(p.Stock))+".\n")
			})
		},
	}

	cmd.AddCommand(list, create, update, del, setStock)
	return cmd
}

// mergeForm overlays the flags the user actually set on base.
func mergeForm(cmd *cobra.Command, base, flags product.Form) product.Form {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("name", &base.Name, flags.Name)
	set("description", &base.Description, flags.Description)
	set("price", &base.Price, flags.Price)
	set("stock", &base.Stock, flags.Stock)
	set("category", &base.Category, flags.Category)
	set("image", &base.Image, flags.Image)
	return base
}

// OrderOptions holds flags for the order commands.
type OrderOptions struct {
	*RootOptions
	Yes bool
}

func newAdminOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "Review orders and move them through their lifecycle",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.connect(cmd)
			if err != nil {
				return err
			}
			orders, err := order.NewManager(s.client, s.logger).List(cmd.Context())
			if err != nil {
				return err
			}
			return s.out.Emit(orders, func(w io.Writer) { writeOrders(w, orders) })
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one order with its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := rootOpts.connect(cmd)
			if err != nil {
				return err
			}
			record, err := s.client.GetOrder(cmd.Context(), id)
			if err != nil {
				return err
			}
			o := order.FromRecord(*record)
			return s.out.Emit(o, func(w io.Writer) { writeOrder(w, o) })
		},
	}

	transition := func(action order.Action, short string) *cobra.Command {
		return &cobra.Command{
			Use:   string(action) + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				s, err := rootOpts.connect(cmd)
				if err != nil {
					return err
				}
				m := order.NewManager(s.client, s.logger)
				if err := m.Apply(cmd.Context(), id, action); err != nil {
					return err
				}
				o, ok := m.Find(id)
				if !ok {
					o = order.Order{ID: id}
					o.Status, _ = order.Transition(o.Status, action)
				}
				return s.out.Emit(o, func(w io.Writer) {
					io.WriteString(w, "Order #"+itoa(id)+" is now "+string(o.Status)+".\n")
				})
			},
		}
	}

	deleteOpts := &OrderOptions{RootOptions: rootOpts}
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := rootOpts.connect(cmd)
			if err != nil {
				return err
			}
			m := order.NewManager(s.client, s.logger)
			if err := m.Delete(cmd.Context(), id, confirmer(cmd, deleteOpts.Yes)); err != nil {
				return err
			}
			return s.out.Message("Order #%d deleted.", id)
		},
	}
	del.Flags().BoolVarP(&deleteOpts.Yes, "yes", "y", false, "skip the confirmation prompt")

	cmd.AddCommand(
		list,
		show,
		transition(order.ActionComplete, "Mark an order as completed"),
		transition(order.ActionCancel, "Mark an order as cancelled"),
		del,
	)
	return cmd
}
