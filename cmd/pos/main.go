package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sergen67/4CodeApps/internal/cart"
	"github.com/sergen67/4CodeApps/internal/checkout"
	"github.com/sergen67/4CodeApps/internal/client"
	"github.com/sergen67/4CodeApps/pkg/config"
	"github.com/sergen67/4CodeApps/pkg/logger"
)

// pos is a terminal point-of-sale: log in, ring up products into the cart,
// complete the sale. State lives in memory; only completed sales hit the
// backend.
type pos struct {
	api      *client.Client
	session  *client.Session
	cart     *cart.Cart
	checkout *checkout.Sequencer

	// products as last listed, so "add 2" refers to the printed numbering
	listing []client.Product
}

func main() {
	logger.New(logger.Options{
		Service: "pos-terminal",
		Env:     config.Env("APP_ENV", "dev"),
		Level:   config.Env("LOG_LEVEL", "warn"),
	})

	api := client.New(client.Options{
		BaseURL: config.Env("POS_BACKEND_URL", "http://localhost:3000"),
		Timeout: config.EnvDuration("POS_REQUEST_TIMEOUT", 30*time.Second),
	})
	session := &client.Session{}
	basket := cart.New()

	p := &pos{
		api:      api,
		session:  session,
		cart:     basket,
		checkout: checkout.NewSequencer(basket, api, session),
	}
	p.run()
}

func (p *pos) run() {
	fmt.Println("POS terminal. Type 'help' for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		ctx := context.Background()
		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "help":
			printHelp()
		case "login":
			p.login(ctx, args)
		case "logout":
			p.session.Clear()
			p.cart.Clear()
			fmt.Println("logged out")
		case "products":
			p.listProducts(ctx)
		case "add":
			p.add(args)
		case "remove":
			p.remove(args)
		case "cart":
			p.printCart()
		case "checkout":
			p.completeSale(ctx, args)
		case "revenue":
			p.revenue(ctx)
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command %q, type 'help'\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  login <email> <password>   authenticate against the backend
  logout                     drop the session and empty the cart
  products                   list the catalog
  add <n> [variant]          add product n from the last listing (variant by name)
  remove <n> [variant]       remove one unit
  cart                       show the cart and its total
  checkout <cash|card>       submit the sale and clear the cart
  revenue                    show daily/weekly/monthly revenue
  quit`)
}

func (p *pos) login(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: login <email> <password>")
		return
	}
	u, err := p.api.Login(ctx, args[0], args[1])
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 401 {
			fmt.Println("invalid email or password")
			return
		}
		fmt.Println("login failed:", err)
		return
	}
	p.session.SetUser(u)
	fmt.Printf("welcome, %s (%s)\n", u.Name, u.Role)
}

func (p *pos) listProducts(ctx context.Context) {
	products, err := p.api.Products(ctx)
	if err != nil {
		fmt.Println("could not load products:", err)
		return
	}
	p.listing = products
	for i, prod := range products {
		if len(prod.Variants) == 0 {
			fmt.Printf("%3d. %-24s %8.2f\n", i+1, prod.Name, prod.Price)
			continue
		}
		fmt.Printf("%3d. %s\n", i+1, prod.Name)
		for _, v := range prod.Variants {
			fmt.Printf("       - %-20s %8.2f\n", v.Name, v.Price)
		}
	}
}

// pick resolves "add 2 Large" against the last listing, synthesizing the
// variant-priced product when a variant name is given.
func (p *pos) pick(args []string) (cart.Product, bool) {
	if len(args) == 0 {
		fmt.Println("usage: add|remove <n> [variant]")
		return cart.Product{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(p.listing) {
		fmt.Println("no such product; run 'products' first")
		return cart.Product{}, false
	}
	listed := p.listing[n-1]
	base := cart.Product{ID: listed.ID, Name: listed.Name, Price: listed.Price}

	if len(args) == 1 {
		if len(listed.Variants) > 0 {
			fmt.Printf("%s needs a variant, e.g. 'add %d %s'\n", listed.Name, n, listed.Variants[0].Name)
			return cart.Product{}, false
		}
		return base, true
	}

	want := strings.Join(args[1:], " ")
	for _, v := range listed.Variants {
		if strings.EqualFold(v.Name, want) {
			return base.WithVariant(cart.Variant{Name: v.Name, Price: v.Price}), true
		}
	}
	fmt.Printf("%s has no variant %q\n", listed.Name, want)
	return cart.Product{}, false
}

func (p *pos) add(args []string) {
	prod, ok := p.pick(args)
	if !ok {
		return
	}
	p.cart.Add(prod)
	fmt.Printf("added %s, total %.2f\n", prod.Name, p.cart.TotalPrice())
}

func (p *pos) remove(args []string) {
	prod, ok := p.pick(args)
	if !ok {
		return
	}
	p.cart.Remove(prod)
	fmt.Printf("total %.2f\n", p.cart.TotalPrice())
}

func (p *pos) printCart() {
	lines := p.cart.Lines()
	if len(lines) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, l := range lines {
		fmt.Printf("%3dx %-28s %8.2f\n", l.Quantity, l.Product.Name, l.Product.Price*float64(l.Quantity))
	}
	fmt.Printf("total: %.2f\n", p.cart.TotalPrice())
}

func (p *pos) completeSale(ctx context.Context, args []string) {
	if len(args) != 1 || (args[0] != "cash" && args[0] != "card") {
		fmt.Println("usage: checkout <cash|card>")
		return
	}
	if p.cart.Len() == 0 {
		fmt.Println("cart is empty")
		return
	}

	sale, err := p.checkout.CompleteSale(ctx, args[0])
	if err != nil {
		p.reportCheckoutError(err)
		return
	}
	fmt.Printf("sale #%d recorded, %.2f by %s\n", sale.ID, sale.TotalPrice, sale.PaymentType)
}

func (p *pos) reportCheckoutError(err error) {
	switch {
	case errors.Is(err, checkout.ErrNotLoggedIn):
		fmt.Println("log in first")
	case errors.Is(err, checkout.ErrCheckoutInFlight):
		fmt.Println("a checkout is already in progress")
	default:
		var rejected *checkout.RejectedError
		if errors.As(err, &rejected) {
			fmt.Printf("sale rejected (%d): %s; cart kept\n", rejected.Status, rejected.Message)
			return
		}
		var transport *checkout.TransportError
		if errors.As(err, &transport) {
			if transport.OutcomeUnknown {
				fmt.Println("no answer from the backend; the sale MAY have been recorded, check before retrying")
			} else {
				fmt.Println("could not reach the backend; cart kept:", transport.Err)
			}
			return
		}
		fmt.Println("checkout failed:", err)
	}
}

func (p *pos) revenue(ctx context.Context) {
	daily, err := p.api.DailyRevenue(ctx)
	if err != nil {
		fmt.Println("could not load revenue:", err)
		return
	}
	for _, row := range daily {
		fmt.Printf("today %s: %.2f\n", row.Date, row.Total)
	}
	weekly, err := p.api.WeeklyRevenue(ctx)
	if err == nil {
		fmt.Printf("last 7 days:  %.2f\n", weekly)
	}
	monthly, err := p.api.MonthlyRevenue(ctx)
	if err == nil {
		fmt.Printf("last 30 days: %.2f\n", monthly)
	}
}
