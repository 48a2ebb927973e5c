package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"storefront/internal/client/api"
	"storefront/internal/client/cart"
	"storefront/internal/client/session"
	"storefront/internal/client/storage"
	"storefront/internal/domain/model"
	"storefront/internal/logger"

	"github.com/shopspring/decimal"
)

const usage = `usage: shopcli [-api URL] [-state FILE] <command> [args]

commands:
  register <name> <email> <phone> <password>
  login <email> <password>
  logout
  whoami
  products [query]
  add <productId> [quantity]
  remove <productId>
  qty <productId> <delta>
  cart
  checkout <address> <city> <postalCode> <country> [paymentMethod]
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "shopcli.json"
	}
	return filepath.Join(dir, "storefront", "shopcli.json")
}

func run(args []string) error {
	fs := flag.NewFlagSet("shopcli", flag.ContinueOnError)
	apiURL := fs.String("api", envOr("STOREFRONT_API", "http://localhost:8080"), "API base URL")
	statePath := fs.String("state", envOr("STOREFRONT_STATE", defaultStatePath()), "local state file")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("command required")
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logger.New(logger.Options{
		ServiceName: "shopcli",
		Level:       logger.ParseLevel(level),
		Format:      "console",
		Output:      os.Stderr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	kv := storage.NewFileStore(*statePath)
	store := cart.NewStore(kv, log)
	store.Load(ctx)
	client := api.New(*apiURL)
	sess := session.New(client, kv, store, log)
	sess.Restore(ctx)

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "register":
		if len(rest) != 4 {
			return errors.New("register <name> <email> <phone> <password>")
		}
		u, err := client.Register(ctx, api.RegisterRequest{Name: rest[0], Email: rest[1], Phone: rest[2], Password: rest[3]})
		if err != nil {
			return err
		}
		fmt.Printf("registered %s (%s)\n", u.Email, u.ID)

	case "login":
		if len(rest) != 2 {
			return errors.New("login <email> <password>")
		}
		if err := sess.Login(ctx, rest[0], rest[1]); err != nil {
			return err
		}
		u, _ := sess.User()
		fmt.Printf("logged in as %s\n", u.Email)
		printCart(store.Items())

	case "logout":
		if err := sess.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")

	case "whoami":
		u, ok := sess.User()
		if !ok {
			return session.ErrNotLoggedIn
		}
		fmt.Printf("%s <%s> %s\n", u.Name, u.Email, u.Role)

	case "products":
		q := ""
		if len(rest) > 0 {
			q = rest[0]
		}
		list, err := client.ListProducts(ctx, 1, 20, q)
		if err != nil {
			return err
		}
		for _, p := range list.Items {
			fmt.Printf("%s  %-30s %10s  stock=%d\n", p.ID, p.Name, p.EffectivePrice().StringFixed(2), p.CountInStock)
		}

	case "add":
		if len(rest) < 1 {
			return errors.New("add <productId> [quantity]")
		}
		qty := int64(1)
		if len(rest) > 1 {
			if _, err := fmt.Sscan(rest[1], &qty); err != nil || qty <= 0 {
				return errors.New("quantity must be a positive integer")
			}
		}
		p, err := client.GetProduct(ctx, rest[0])
		if err != nil {
			return err
		}
		items, err := sess.AddToCart(ctx, lineItemFromProduct(p, qty))
		printCart(items)
		return err

	case "remove":
		if len(rest) != 1 {
			return errors.New("remove <productId>")
		}
		items, err := store.Dispatch(cart.RemoveItem{ProductID: rest[0]})
		if err != nil {
			return err
		}
		printCart(items)

	case "qty":
		if len(rest) != 2 {
			return errors.New("qty <productId> <delta>")
		}
		var delta int64
		if _, err := fmt.Sscan(rest[1], &delta); err != nil {
			return errors.New("delta must be an integer")
		}
		items, err := store.Dispatch(cart.ChangeQuantityBy{ProductID: rest[0], Delta: delta})
		if err != nil {
			return err
		}
		printCart(items)

	case "cart":
		printCart(store.Items())

	case "checkout":
		if len(rest) < 4 {
			return errors.New("checkout <address> <city> <postalCode> <country> [paymentMethod]")
		}
		if _, ok := sess.User(); !ok {
			return session.ErrNotLoggedIn
		}
		method := "PayPal"
		if len(rest) > 4 {
			method = rest[4]
		}
		items := store.Items()
		req := api.PlaceOrderRequest{
			ShippingAddress: model.ShippingAddress{Address: rest[0], City: rest[1], PostalCode: rest[2], Country: rest[3]},
			PaymentMethod:   method,
			ShippingPrice:   decimal.Zero,
			TaxPrice:        decimal.Zero,
		}
		for _, it := range items {
			req.Items = append(req.Items, api.OrderItem{Product: it.ProductID, Quantity: it.Quantity})
		}
		order, err := client.PlaceOrder(ctx, req)
		if err != nil {
			return err
		}
		out, _ := json.MarshalIndent(order, "", "  ")
		fmt.Println(string(out))

	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func lineItemFromProduct(p model.Product, qty int64) cart.LineItem {
	return cart.LineItem{
		ProductID:     p.ID,
		Name:          p.Name,
		Images:        p.Images,
		RegularPrice:  p.RegularPrice,
		DiscountPrice: p.DiscountPrice,
		Quantity:      qty,
	}
}

func printCart(items []cart.LineItem) {
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, it := range items {
		fmt.Printf("%s  %-30s x%-3d %10s\n", it.ProductID, it.Name, it.Quantity, it.Subtotal().StringFixed(2))
	}
	fmt.Printf("total %s\n", cart.Total(items).StringFixed(2))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
