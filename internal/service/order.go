package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/artisan-store/internal/domain/models"
	"github.com/linemk/artisan-store/internal/lib/logger"
	"github.com/linemk/artisan-store/internal/storage"
)

var (
	ErrNotConfigured = errors.New("database is not configured")
	ErrInvalidOrder  = errors.New("invalid order payload")
	ErrTotalMismatch = errors.New("order total does not match items")
)

// Notifier получает уже сохранённый заказ. Реализация не должна блокировать вызывающего.
type Notifier interface {
	OrderCreated(order models.Order)
}

// OrderService оформляет и отдаёт заказы
type OrderService interface {
	// Configured - false, если строка подключения к БД не задана
	Configured() bool
	PlaceOrder(ctx context.Context, sub models.OrderSubmission) (*int64, error)
	ListRecentOrders(ctx context.Context) ([]*models.Order, error)
}

type orderService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
	notifier  Notifier
}

// NewOrderService создаёт сервис. orderRepo == nil - БД не настроена, notifier == nil - без уведомлений.
func NewOrderService(log *slog.Logger, orderRepo storage.OrderStorage, notifier Notifier) OrderService {
	return &orderService{
		log:       log,
		orderRepo: orderRepo,
		notifier:  notifier,
	}
}

func (s *orderService) Configured() bool {
	return s.orderRepo != nil
}

// PlaceOrder проверяет суммы, применяет значения по умолчанию, сохраняет заказ одной вставкой
// и после записи запускает уведомление. Возвращает id заказа или nil, если БД его не вернула.
func (s *orderService) PlaceOrder(ctx context.Context, sub models.OrderSubmission) (*int64, error) {
	const op = "service.OrderService.PlaceOrder"
	log := s.log.With(slog.String("op", op))

	if !s.Configured() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}
	if sub.TotalAmount == nil || len(sub.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidOrder)
	}

	if err := checkTotals(sub.Items, *sub.TotalAmount); err != nil {
		log.Warn("order totals rejected", logger.Err(err), slog.Int64("totalAmount", *sub.TotalAmount))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order := newOrderFromSubmission(sub)
	log = log.With(slog.String("customer", order.CustomerName), slog.Int("items", len(order.Items)))
	log.Info("creating order")

	id, err := s.orderRepo.CreateOrder(ctx, &order)
	if err != nil {
		log.Error("failed to create order", logger.Err(err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}
	if id == nil {
		log.Warn("database returned no order id")
	} else {
		log.Info("order created", slog.Int64("orderID", *id))
	}

	if s.notifier != nil {
		s.notifier.OrderCreated(order)
	}

	return id, nil
}

// ListRecentOrders возвращает последние заказы, новые первыми
func (s *orderService) ListRecentOrders(ctx context.Context) ([]*models.Order, error) {
	const op = "service.OrderService.ListRecentOrders"

	if !s.Configured() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	orders, err := s.orderRepo.ListRecentOrders(ctx, storage.RecentOrdersLimit)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), logger.Err(err))
		return nil, fmt.Errorf("%s: failed to list orders: %w", op, err)
	}
	return orders, nil
}

// checkTotals - клиент присылает subtotal и totalAmount сам, сервер их перепроверяет
func checkTotals(items []models.OrderItem, total int64) error {
	var sum int64
	for i, item := range items {
		if item.Quantity < 1 || item.Price < 0 {
			return fmt.Errorf("%w: item %d has invalid quantity or price", ErrInvalidOrder, i+1)
		}
		if want := int64(item.Quantity) * item.Price; item.Subtotal != want {
			return fmt.Errorf("%w: item %d subtotal %d, expected %d", ErrTotalMismatch, i+1, item.Subtotal, want)
		}
		sum += item.Subtotal
	}
	if sum != total {
		return fmt.Errorf("%w: total %d, items sum to %d", ErrTotalMismatch, total, sum)
	}
	return nil
}

func newOrderFromSubmission(sub models.OrderSubmission) models.Order {
	method := sub.Method
	if method == "" {
		method = models.MethodCOD
	}

	var recipient *string
	if sub.IsGiftOrder && sub.GiftRecipientName != nil && *sub.GiftRecipientName != "" {
		name := *sub.GiftRecipientName
		recipient = &name
	}

	items := make([]models.OrderItem, len(sub.Items))
	copy(items, sub.Items)

	return models.Order{
		Method:            method,
		CustomerName:      sub.CustomerName,
		PhoneNumber:       sub.PhoneNumber,
		Address:           sub.Address,
		Birthday:          sub.Birthday,
		IsGiftOrder:       sub.IsGiftOrder,
		GiftRecipientName: recipient,
		Items:             items,
		TotalAmount:       *sub.TotalAmount,
		SubmittedAt:       sub.Timestamp,
	}
}
