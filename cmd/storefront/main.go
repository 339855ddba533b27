package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/linemk/artisan-store/internal/cart"
	"github.com/linemk/artisan-store/internal/catalog"
	"github.com/linemk/artisan-store/internal/checkout"
	"github.com/linemk/artisan-store/internal/client"
	"github.com/linemk/artisan-store/internal/config"
	"github.com/linemk/artisan-store/internal/lib/logger"
	"github.com/redis/go-redis/v9"
)

const requestTimeout = 15 * time.Second

const usage = `usage: storefront [-config path] <command> [flags]

commands:
  catalog    list products
  checkout   place a cash-on-delivery order
  whatsapp   print a WhatsApp order link for the cart
  orders     list recent orders (admin)
`

// cartItems - повторяемый флаг -add id[:qty]
type cartItems []cartItem

type cartItem struct {
	productID int64
	quantity  int
}

func (c *cartItems) String() string {
	parts := make([]string, 0, len(*c))
	for _, it := range *c {
		parts = append(parts, fmt.Sprintf("%d:%d", it.productID, it.quantity))
	}
	return strings.Join(parts, ",")
}

func (c *cartItems) Set(value string) error {
	it, err := parseCartItem(value)
	if err != nil {
		return err
	}
	*c = append(*c, it)
	return nil
}

func parseCartItem(value string) (cartItem, error) {
	idPart, qtyPart, hasQty := strings.Cut(strings.TrimSpace(value), ":")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return cartItem{}, fmt.Errorf("invalid product id %q", idPart)
	}
	qty := 1
	if hasQty {
		qty, err = strconv.Atoi(qtyPart)
		if err != nil {
			return cartItem{}, fmt.Errorf("invalid quantity %q", qtyPart)
		}
	}
	return cartItem{productID: id, quantity: qty}, nil
}

func main() {
	flag.String("config", "", "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.MustLoad()
	log := logger.SetupLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := flag.Arg(0), flag.Args()[1:]; cmd {
	case "catalog":
		printCatalog()
	case "checkout":
		err = runCheckout(ctx, log, cfg, args)
	case "whatsapp":
		err = runWhatsApp(ctx, log, cfg, args)
	case "orders":
		err = runOrders(ctx, cfg, args)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printCatalog() {
	for _, p := range catalog.All() {
		fmt.Printf("%d\t%s\t%d BDT\n", p.ID, p.Name, p.Price)
	}
}

// session - корзина покупателя, при наличии Redis переживает перезапуск
type session struct {
	log       *slog.Logger
	id        string
	store     *cart.Store
	snapshots cart.SnapshotStore
}

func openSession(ctx context.Context, log *slog.Logger, cfg *config.Config, id string) (*session, error) {
	s := &session{log: log, id: id, store: cart.NewStore()}
	if cfg.Storefront.RedisAddr == "" || id == "" {
		return s, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Storefront.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis is unavailable: %w", err)
	}
	s.snapshots = cart.NewRedisSnapshotStore(rdb, cfg.Storefront.CartTTL)

	lines, err := s.snapshots.Load(ctx, id)
	switch {
	case errors.Is(err, cart.ErrSnapshotNotFound):
	case err != nil:
		return nil, err
	default:
		s.store.Restore(lines)
		log.Debug("cart restored", slog.String("session", id), slog.Int("lines", len(lines)))
	}
	return s, nil
}

func (s *session) add(items cartItems) error {
	for _, it := range items {
		p, err := catalog.ByID(it.productID)
		if err != nil {
			return fmt.Errorf("product %d: %w", it.productID, err)
		}
		if err := s.store.AddItem(p, it.quantity); err != nil {
			return fmt.Errorf("product %d: %w", it.productID, err)
		}
	}
	return nil
}

func (s *session) save(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	var err error
	if s.store.IsEmpty() {
		err = s.snapshots.Delete(ctx, s.id)
	} else {
		err = s.snapshots.Save(ctx, s.id, s.store.Lines())
	}
	if err != nil {
		s.log.Warn("failed to persist cart", slog.String("session", s.id), logger.Err(err))
	}
}

func runCheckout(ctx context.Context, log *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	var items cartItems
	var form checkout.Form
	fs.Var(&items, "add", "product to add as id[:qty], repeatable")
	fs.StringVar(&form.CustomerName, "name", "", "customer name")
	fs.StringVar(&form.PhoneNumber, "phone", "", "phone number")
	fs.StringVar(&form.Address, "address", "", "delivery address")
	fs.StringVar(&form.Birthday, "birthday", "", "customer birthday (YYYY-MM-DD)")
	fs.BoolVar(&form.IsGift, "gift", false, "order is a gift")
	fs.StringVar(&form.GiftRecipientName, "recipient", "", "gift recipient name")
	sessionID := fs.String("session", "", "cart session id (requires REDIS_ADDR)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := openSession(ctx, log, cfg, *sessionID)
	if err != nil {
		return err
	}
	if err := sess.add(items); err != nil {
		return err
	}
	// корзина сохраняется в любом исходе: после успеха она уже пуста
	defer sess.save(context.WithoutCancel(ctx))

	api := client.New(cfg.Storefront.APIURL, requestTimeout)
	ctrl := checkout.NewController(log, sess.store, api)
	if !ctrl.CanCheckout() {
		fmt.Println("Your cart is empty. Browse the collection with `storefront catalog`.")
		return nil
	}

	fmt.Printf("Order total: %d BDT (%d items)\n", sess.store.Total(), sess.store.Count())

	conf, err := ctrl.Submit(ctx, form)
	if err != nil {
		var vErr *checkout.ValidationError
		if errors.As(err, &vErr) {
			return vErr
		}
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("failed to place order: %s", apiErr.Message)
		}
		return err
	}

	if conf.OrderID != nil {
		fmt.Printf("Order placed! Order #%d, %d BDT payable on delivery.\n", *conf.OrderID, conf.Total)
	} else {
		fmt.Printf("Order placed! %d BDT payable on delivery.\n", conf.Total)
	}
	return nil
}

func runWhatsApp(ctx context.Context, log *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("whatsapp", flag.ExitOnError)
	var items cartItems
	fs.Var(&items, "add", "product to add as id[:qty], repeatable")
	sessionID := fs.String("session", "", "cart session id (requires REDIS_ADDR)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := openSession(ctx, log, cfg, *sessionID)
	if err != nil {
		return err
	}
	if err := sess.add(items); err != nil {
		return err
	}
	sess.save(ctx)

	link := checkout.WhatsAppLink(cfg.Storefront.WhatsAppPhone, sess.store.Lines())
	if link == "" {
		fmt.Println("Your cart is empty.")
		return nil
	}
	fmt.Println(link)
	return nil
}

func runOrders(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	token := fs.String("token", os.Getenv("ADMIN_TOKEN"), "admin token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orders, err := client.New(cfg.Storefront.APIURL, requestTimeout).ListOrders(ctx, *token)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return nil
	}

	for _, o := range orders {
		gift := ""
		if o.IsGiftOrder {
			gift = " (gift"
			if o.GiftRecipientName != nil {
				gift += " for " + *o.GiftRecipientName
			}
			gift += ")"
		}
		fmt.Printf("#%d  %s  %s  %s  %d BDT%s\n",
			o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"), o.CustomerName, o.PhoneNumber, o.TotalAmount, gift)
		for _, it := range o.Items {
			fmt.Printf("      %s x%d = %d BDT\n", it.Name, it.Quantity, it.Subtotal)
		}
	}
	return nil
}
