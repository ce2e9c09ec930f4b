// Package shell implements the interactive storefront used by cmd/client.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/atinyakov/GophShop/internal/models"
	"github.com/atinyakov/GophShop/internal/service"
)

const helpText = `Commands:
  register                 create an account
  login                    log in
  logout                   log out
  whoami                   show the logged-in user
  products                 list products
  add-product              create a product (admin)
  edit-product <id>        edit a product (admin)
  delete-product <id>      delete a product (admin)
  add <id> [qty]           add a product to the cart
  qty <id> <n>             set a cart quantity
  remove <id>              remove a cart line
  cart                     show the cart
  clear                    empty the cart
  checkout                 place the order
  exit                     quit`

// Accounts is the account API used by the shell.
type Accounts interface {
	Register(ctx context.Context, req service.RegisterRequest) (models.User, error)
	Login(ctx context.Context, email, password string) (models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (models.User, error)
	IsCurrentAdmin(ctx context.Context) (bool, error)
}

// Catalog is the product API used by the shell.
type Catalog interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id int64) (models.Product, error)
	Create(ctx context.Context, draft models.ProductDraft) (models.Product, error)
	Update(ctx context.Context, id int64, draft models.ProductDraft) (models.Product, error)
	Delete(ctx context.Context, id int64) error
}

// Cart is the cart API used by the shell.
type Cart interface {
	Items(ctx context.Context) ([]models.CartItem, error)
	Total(ctx context.Context) (float64, error)
	Count(ctx context.Context) (int, error)
	AddItem(ctx context.Context, productID int64, qty int) error
	UpdateQty(ctx context.Context, productID int64, qty int) error
	RemoveItem(ctx context.Context, productID int64) error
	Clear(ctx context.Context) error
	Checkout(ctx context.Context) (models.Receipt, error)
}

// Shell reads commands line by line and runs them against the services.
type Shell struct {
	accounts Accounts
	catalog  Catalog
	cart     Cart

	in    *bufio.Scanner
	out   io.Writer
	count atomic.Int64
}

// New returns a Shell reading from in and writing to out.
func New(accounts Accounts, catalog Catalog, cart Cart, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		accounts: accounts,
		catalog:  catalog,
		cart:     cart,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// SetCount updates the cart badge shown in the prompt. It is safe to call
// from another goroutine.
func (s *Shell) SetCount(n int) {
	s.count.Store(int64(n))
}

// Run executes commands until exit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	s.refreshCount(ctx)
	for {
		fmt.Fprintf(s.out, "gophshop [%d]> ", s.count.Load())
		if !s.in.Scan() {
			return s.in.Err()
		}
		args := strings.Fields(s.in.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			fmt.Fprintln(s.out, "Bye")
			return nil
		}
		if err := s.exec(ctx, args); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		s.refreshCount(ctx)
	}
}

func (s *Shell) refreshCount(ctx context.Context) {
	if n, err := s.cart.Count(ctx); err == nil {
		s.SetCount(n)
	}
}

var errUsage = errors.New("usage")

func (s *Shell) exec(ctx context.Context, args []string) error {
	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "register":
		u, err := s.accounts.Register(ctx, s.promptRegistration())
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Registered %s. You can now log in.\n", u.Email)
	case "login":
		u, err := s.accounts.Login(ctx, s.ask("Email", ""), s.askSecret("Password"))
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Welcome, %s!\n", u.FirstName)
	case "logout":
		if err := s.accounts.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Logged out")
	case "whoami":
		u, err := s.accounts.CurrentUser(ctx)
		if errors.Is(err, service.ErrNoSession) {
			fmt.Fprintln(s.out, "Not logged in")
			return nil
		}
		if err != nil {
			return err
		}
		role := "customer"
		if u.IsAdmin {
			role = "admin"
		}
		fmt.Fprintf(s.out, "%s %s <%s> (%s)\n", u.FirstName, u.LastName, u.Email, role)
	case "products":
		return s.listProducts(ctx)
	case "add-product", "edit-product", "delete-product":
		return s.adminCommand(ctx, args)
	case "add":
		id, err := argID(args, 1, "add <id> [qty]")
		if err != nil {
			return err
		}
		qty := 1
		if len(args) > 2 {
			if qty, err = strconv.Atoi(args[2]); err != nil {
				return fmt.Errorf("%w: add <id> [qty]", errUsage)
			}
		}
		if err := s.cart.AddItem(ctx, id, qty); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Added to cart")
	case "qty":
		id, err := argID(args, 1, "qty <id> <n>")
		if err != nil {
			return err
		}
		if len(args) < 3 {
			return fmt.Errorf("%w: qty <id> <n>", errUsage)
		}
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("%w: qty <id> <n>", errUsage)
		}
		return s.cart.UpdateQty(ctx, id, n)
	case "remove":
		id, err := argID(args, 1, "remove <id>")
		if err != nil {
			return err
		}
		return s.cart.RemoveItem(ctx, id)
	case "cart":
		return s.showCart(ctx)
	case "clear":
		if err := s.cart.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Cart cleared")
	case "checkout":
		receipt, err := s.cart.Checkout(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Order %s placed. Total $%.2f\n", receipt.ID, receipt.Total)
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
	return nil
}

func (s *Shell) adminCommand(ctx context.Context, args []string) error {
	isAdmin, err := s.accounts.IsCurrentAdmin(ctx)
	if err != nil {
		return err
	}
	if !isAdmin {
		fmt.Fprintln(s.out, "Admin access only")
		return nil
	}

	switch args[0] {
	case "add-product":
		p, err := s.catalog.Create(ctx, s.promptDraft(nil))
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Created product %d\n", p.ID)
	case "edit-product":
		id, err := argID(args, 1, "edit-product <id>")
		if err != nil {
			return err
		}
		current, err := s.catalog.Get(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.catalog.Update(ctx, id, s.promptDraft(&current)); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Product updated")
	case "delete-product":
		id, err := argID(args, 1, "delete-product <id>")
		if err != nil {
			return err
		}
		if err := s.catalog.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Product deleted")
	}
	return nil
}

func (s *Shell) listProducts(ctx context.Context) error {
	products, err := s.catalog.List(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(s.out, "No products")
		return nil
	}
	for _, p := range products {
		fmt.Fprintf(s.out, "%d  %s  $%.2f  stock %d  %s\n", p.ID, p.Name, p.Price, p.Stock, p.Image)
		if p.Desc != "" {
			fmt.Fprintf(s.out, "    %s\n", p.Desc)
		}
	}
	return nil
}

func (s *Shell) showCart(ctx context.Context) error {
	items, err := s.cart.Items(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(s.out, "Your cart is empty")
		return nil
	}
	for _, it := range items {
		note := ""
		if it.Product == nil {
			note = "  (no longer available)"
		}
		fmt.Fprintf(s.out, "%d  %s  %d x $%.2f = $%.2f%s\n", it.ID, it.Name, it.Qty, it.Price, it.Subtotal(), note)
	}
	total, err := s.cart.Total(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Total: $%.2f\n", total)
	return nil
}

func argID(args []string, i int, usage string) (int64, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	return id, nil
}
