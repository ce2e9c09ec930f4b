package shell

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophShop/internal/repository"
	"github.com/atinyakov/GophShop/internal/service"
	"github.com/atinyakov/GophShop/internal/storage"
)

type fixture struct {
	catalog *service.CatalogService
	cart    *service.CartService
	records *repository.Records
	shell   func(input string) (*Shell, *bytes.Buffer)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	records := repository.NewRecords(storage.NewMemory())
	session := service.NewSession(records)
	accounts := service.NewAccountService(records, session)
	catalog := service.NewCatalogService(records)
	cart := service.NewCartService(records, catalog, session)

	_, err := accounts.EnsureAdmin(ctx)
	require.NoError(t, err)

	return &fixture{
		catalog: catalog,
		cart:    cart,
		records: records,
		shell: func(input string) (*Shell, *bytes.Buffer) {
			var out bytes.Buffer
			return New(accounts, catalog, cart, strings.NewReader(input), &out), &out
		},
	}
}

func run(t *testing.T, f *fixture, lines ...string) string {
	t.Helper()
	sh, out := f.shell(strings.Join(lines, "\n") + "\n")
	require.NoError(t, sh.Run(context.Background()))
	return out.String()
}

func TestShell_HelpAndUnknown(t *testing.T) {
	f := newFixture(t)
	out := run(t, f, "help", "frobnicate", "", "exit")

	assert.Contains(t, out, "checkout")
	assert.Contains(t, out, "Unknown command")
	assert.Contains(t, out, "Bye")
	assert.True(t, strings.HasPrefix(out, "gophshop [0]> "))
}

func TestShell_RegisterLoginWhoami(t *testing.T) {
	f := newFixture(t)
	out := run(t, f,
		"whoami",
		"register", "Ann", "Lee", "ann@x.com", "secret1", "",
		"login", "ANN@x.com", "secret1",
		"whoami",
		"logout",
		"whoami",
	)

	assert.Equal(t, 2, strings.Count(out, "Not logged in"))
	assert.Contains(t, out, "Registered ann@x.com")
	assert.Contains(t, out, "Welcome, Ann!")
	assert.Contains(t, out, "Ann Lee <ann@x.com> (customer)")
	assert.Contains(t, out, "Logged out")
}

func TestShell_Errors(t *testing.T) {
	f := newFixture(t)
	out := run(t, f,
		"add 1",
		"login", "nobody@x.com", "whatever",
		"register", "A", "B", "a@x.com", "123", "n",
	)

	assert.Contains(t, out, "error: login required")
	assert.Contains(t, out, "error: invalid credentials")
	assert.Contains(t, out, "error: validation failed")
}

func TestShell_AdminCommands(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out := run(t, f,
		"add-product",
		"login", service.AdminEmail, service.AdminPassword,
		"add-product", "Lamp", "desk lamp", "19.5", "4", `C:\img\lamp.png`,
		"products",
	)
	assert.Contains(t, out, "Admin access only")
	assert.Contains(t, out, "Created product")
	assert.Contains(t, out, "Lamp  $19.50  stock 4  images/lamp.png")

	products, err := f.catalog.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	id := strconv.FormatInt(products[0].ID, 10)

	// Session persists in the records, so a fresh shell is still the admin.
	out = run(t, f,
		"edit-product "+id, "", "", "21", "", "",
		"products",
		"delete-product "+id,
		"products",
	)
	assert.Contains(t, out, "Product updated")
	assert.Contains(t, out, "Lamp  $21.00  stock 4")
	assert.Contains(t, out, "Product deleted")
	assert.Contains(t, out, "No products")
}

func TestShell_CartFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.catalog.Seed(ctx)
	require.NoError(t, err)
	products, err := f.catalog.List(ctx)
	require.NoError(t, err)
	id := strconv.FormatInt(products[0].ID, 10)

	out := run(t, f,
		"register", "A", "B", "a@x.com", "secret1", "",
		"login", "a@x.com", "secret1",
		"add "+id,
		"add "+id+" 2",
		"cart",
		"qty "+id+" 1",
		"add",
		"checkout",
		"cart",
	)

	assert.Contains(t, out, "gophshop [3]> ")
	assert.Contains(t, out, "Wireless Headphones  3 x $1499.00 = $4497.00")
	assert.Contains(t, out, "Total: $4497.00")
	assert.Contains(t, out, "error: usage: add <id> [qty]")
	assert.Contains(t, out, "Total $1499.00")
	assert.Contains(t, out, "Your cart is empty")
	assert.True(t, strings.HasSuffix(out, "gophshop [0]> "))
}

func TestShell_SetCountShownInPrompt(t *testing.T) {
	f := newFixture(t)
	sh, out := f.shell("help\n")
	sh.SetCount(7)
	assert.Equal(t, int64(7), sh.count.Load())

	require.NoError(t, sh.Run(context.Background()))
	assert.True(t, strings.HasSuffix(out.String(), "gophshop [0]> "), "Run refreshes the badge from the cart")
}

func TestShell_PasswordKeepsSpaces(t *testing.T) {
	f := newFixture(t)
	out := run(t, f,
		"register", "Sam", "Ray", "sam@x.com", "  pass 12 ", "",
		"login", "sam@x.com", "pass 12",
		"login", "sam@x.com", "  pass 12 ",
	)

	assert.Contains(t, out, "Registered sam@x.com")
	assert.Contains(t, out, "error: invalid credentials", "trimmed password must not match")
	assert.Contains(t, out, "Welcome, Sam!")

	users, err := f.records.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "  pass 12 ", users[1].Password)
}
