package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/plant-shop/internal/domain/cart"
	"github.com/example/plant-shop/internal/domain/checkout"
	"github.com/example/plant-shop/internal/notice"
	"github.com/spf13/cobra"
)

const shopHelp = `Commands:
  list                 show the catalog
  refresh              reload the catalog
  add <id> [qty]       put a product in the cart
  qty <id> <n>         change a quantity (0 removes the line)
  rm <id>              remove a product from the cart
  cart                 show the cart
  checkout             enter your details and place the order
  help                 show this text
  quit                 leave the shop`

// NewShopCommand creates the interactive storefront session.
func NewShopCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Start an interactive shopping session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.connect(cmd)
			if err != nil {
				return err
			}
			sh := newShopSession(s, cmd.InOrStdin(), cmd.OutOrStdout())
			return sh.run(cmd)
		},
	}
}

// shopSession is one shopper's storefront: a catalog, a cart and a checkout.
type shopSession struct {
	*session
	cart *cart.Cart
	orch *checkout.Orchestrator
	in   *bufio.Reader
	w    io.Writer
}

func newShopSession(s *session, in io.Reader, w io.Writer) *shopSession {
	c := cart.New()
	return &shopSession{
		session: s,
		cart:    c,
		orch:    checkout.NewOrchestrator(c, s.client, s.catalog, s.logger),
		in:      bufio.NewReader(in),
		w:       w,
	}
}

func (sh *shopSession) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	fmt.Fprintln(sh.w, "Welcome to the plant shop. Type help for commands.")
	if err := sh.catalog.Refresh(ctx); err != nil {
		sh.fail(err)
	} else {
		writeProducts(sh.w, sh.catalog.Snapshot().Products)
	}

	for {
		fmt.Fprint(sh.w, "> ")
		line, err := sh.readLine()
		if err != nil {
			fmt.Fprintln(sh.w)
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if quit := sh.dispatch(cmd, fields[0], fields[1:]); quit {
			return nil
		}
	}
}

func (sh *shopSession) dispatch(cmd *cobra.Command, name string, args []string) bool {
	ctx := cmd.Context()
	var err error
	switch strings.ToLower(name) {
	case "quit", "exit", "q":
		fmt.Fprintln(sh.w, "Bye!")
		return true
	case "help", "?":
		fmt.Fprintln(sh.w, shopHelp)
	case "list", "ls":
		snap := sh.catalog.Snapshot()
		if snap.Err != nil {
			err = snap.Err
			break
		}
		writeProducts(sh.w, snap.Products)
	case "refresh":
		if err = sh.catalog.Refresh(ctx); err == nil {
			writeProducts(sh.w, sh.catalog.Snapshot().Products)
		}
	case "add":
		err = sh.add(args)
	case "qty":
		err = sh.setQuantity(args)
	case "rm", "remove":
		err = sh.remove(args)
	case "cart":
		writeCart(sh.w, sh.cart)
	case "checkout":
		err = sh.checkout(cmd)
	default:
		fmt.Fprintf(sh.w, "Unknown command %q. Type help for commands.\n", name)
	}
	if err != nil {
		sh.fail(err)
	}
	return false
}

func (sh *shopSession) add(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usagef("usage: add <id> [qty]")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	qty := 1
	if len(args) == 2 {
		if qty, err = strconv.Atoi(args[1]); err != nil || qty <= 0 {
			return usagef("invalid quantity %q", args[1])
		}
	}
	p, ok := sh.catalog.Lookup(id)
	if !ok {
		return usagef("product %d is not in the catalog", id)
	}
	addQuantity(sh.cart, p, qty)
	fmt.Fprintf(sh.w, "%s added to cart!\n", p.Name)
	return nil
}

func (sh *shopSession) setQuantity(args []string) error {
	if len(args) != 2 {
		return usagef("usage: qty <id> <n>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return usagef("invalid quantity %q", args[1])
	}
	if _, ok := sh.cart.Line(id); !ok {
		return usagef("product %d is not in your cart", id)
	}
	sh.cart.SetQuantity(id, n)
	writeCart(sh.w, sh.cart)
	return nil
}

func (sh *shopSession) remove(args []string) error {
	if len(args) != 1 {
		return usagef("usage: rm <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	sh.cart.Remove(id)
	writeCart(sh.w, sh.cart)
	return nil
}

// checkout asks for the customer details, offering the previous answers
// as defaults, and submits the order. A failed submission keeps the cart
// and the details for the next attempt.
func (sh *shopSession) checkout(cmd *cobra.Command) error {
	if err := sh.orch.Begin(); err != nil {
		return err
	}
	writeCart(sh.w, sh.cart)

	info := sh.orch.Customer()
	var err error
	if info.Name, err = sh.ask("Name", info.Name); err == nil {
		if info.Phone, err = sh.ask("Phone", info.Phone); err == nil {
			info.Address, err = sh.ask("Address", info.Address)
		}
	}
	sh.orch.SetCustomer(info)
	if err != nil {
		sh.orch.Cancel()
		fmt.Fprintln(sh.w)
		return nil
	}

	receipt, err := sh.orch.Submit(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(sh.w, notice.Success(receipt))
	return nil
}

func (sh *shopSession) ask(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(sh.w, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(sh.w, "%s: ", label)
	}
	answer, err := sh.readLine()
	if err != nil {
		return current, err
	}
	if strings.TrimSpace(answer) == "" {
		return current, nil
	}
	return answer, nil
}

// readLine returns the next line without its newline. A final line with no
// newline is returned before io.EOF.
func (sh *shopSession) readLine() (string, error) {
	line, err := sh.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (sh *shopSession) fail(err error) {
	fmt.Fprintln(sh.w, ErrorText(err))
}
