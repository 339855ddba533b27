// Package notify отправляет персоналу письмо о новом заказе.
// Доставка best-effort: ошибки только логируются и никогда не влияют на результат заказа.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/linemk/artisan-store/internal/domain/models"
	"github.com/linemk/artisan-store/internal/lib/logger"
)

const defaultTimeout = 10 * time.Second

// Message - готовое к отправке письмо
type Message struct {
	Subject string
	Body    string
}

// Sender - транспорт уведомлений (SMTP или API почтового сервиса)
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher запускает отправку в отдельной горутине и не блокирует ответ клиенту
type Dispatcher struct {
	log     *slog.Logger
	sender  Sender
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher создаёт диспетчер. sender == nil означает, что уведомления выключены.
func NewDispatcher(log *slog.Logger, sender Sender, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{
		log:     log,
		sender:  sender,
		timeout: timeout,
	}
}

// Enabled сообщает, настроен ли транспорт
func (d *Dispatcher) Enabled() bool {
	return d != nil && d.sender != nil
}

// OrderCreated отправляет сводку по уже сохранённому заказу
func (d *Dispatcher) OrderCreated(order models.Order) {
	const op = "notify.Dispatcher.OrderCreated"
	if !d.Enabled() {
		return
	}
	log := d.log.With(slog.String("op", op), slog.Int64("orderID", order.ID))
	msg := FormatSummary(order)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error("notification panicked", slog.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.Send(ctx, msg); err != nil {
			log.Error("failed to send order notification", logger.Err(err))
			return
		}
		log.Info("order notification sent")
	}()
}

// Wait ждёт завершения отправок, запущенных до вызова, или отмены ctx
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FormatSummary собирает текст письма о заказе
func FormatSummary(order models.Order) Message {
	orderRef := "n/a"
	if order.ID != 0 {
		orderRef = fmt.Sprintf("#%d", order.ID)
	}

	var b strings.Builder
	b.WriteString("New cash-on-delivery order\n\n")
	fmt.Fprintf(&b, "Order: %s\n", orderRef)
	fmt.Fprintf(&b, "Customer: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", order.PhoneNumber)
	fmt.Fprintf(&b, "Address: %s\n", order.Address)
	fmt.Fprintf(&b, "Birthday: %s\n", order.Birthday)
	if order.IsGiftOrder {
		recipient := "not specified"
		if order.GiftRecipientName != nil && *order.GiftRecipientName != "" {
			recipient = *order.GiftRecipientName
		}
		fmt.Fprintf(&b, "Gift order: yes (recipient: %s)\n", recipient)
	} else {
		b.WriteString("Gift order: no\n")
	}

	b.WriteString("\nItems:\n")
	for i, item := range order.Items {
		fmt.Fprintf(&b, "%d. %s x%d - %d BDT\n", i+1, item.Name, item.Quantity, item.Subtotal)
	}

	fmt.Fprintf(&b, "\nTotal: %d BDT\n", order.TotalAmount)
	fmt.Fprintf(&b, "Placed at: %s\n", placedAt(order))

	return Message{
		Subject: fmt.Sprintf("New COD order %s from %s", orderRef, order.CustomerName),
		Body:    b.String(),
	}
}

func placedAt(order models.Order) string {
	if order.SubmittedAt != "" {
		return order.SubmittedAt
	}
	if !order.CreatedAt.IsZero() {
		return order.CreatedAt.UTC().Format(time.RFC3339)
	}
	return "unknown"
}
