// Package checkout превращает корзину и форму доставки в заказ с оплатой при получении.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/artisan-store/internal/cart"
	"github.com/linemk/artisan-store/internal/domain/models"
	"github.com/linemk/artisan-store/internal/lib/logger"
)

// RedirectAfter - через сколько после подтверждения витрина возвращает на главную
const RedirectAfter = 5 * time.Second

// ErrEmptyCart - оформлять нечего, покупателя надо вернуть к каталогу
var ErrEmptyCart = errors.New("cart is empty")

// Form - поля доставки
type Form struct {
	CustomerName      string `form:"customerName" validate:"required"`
	PhoneNumber       string `form:"phoneNumber" validate:"required"`
	Address           string `form:"address" validate:"required"`
	Birthday          string `form:"birthday" validate:"required"`
	IsGift            bool   `form:"isGift"`
	GiftRecipientName string `form:"giftRecipientName"`
}

var validate = newValidator()

// newValidator называет поля в ошибках так же, как в теле запроса
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return v
}

// ValidationError - ошибки по полям формы, запрос при этом не отправляется
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "please fill in all required fields: " + strings.Join(names, ", ")
}

// Validate проверяет обязательные поля после обрезки пробелов
func (f Form) Validate() error {
	trimmed := Form{
		CustomerName: strings.TrimSpace(f.CustomerName),
		PhoneNumber:  strings.TrimSpace(f.PhoneNumber),
		Address:      strings.TrimSpace(f.Address),
		Birthday:     strings.TrimSpace(f.Birthday),
	}

	err := validate.Struct(trimmed)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}
	fields := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		fields[fe.Field()] = "this field is required"
	}
	return &ValidationError{Fields: fields}
}

// BuildSubmission собирает тело запроса. Итог считается по тем же строкам, что и позиции.
func BuildSubmission(form Form, lines []cart.Line, now time.Time) models.OrderSubmission {
	items := make([]models.OrderItem, 0, len(lines))
	var total int64
	for _, l := range lines {
		items = append(items, models.OrderItem{
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    l.UnitPrice,
			Subtotal: l.Subtotal(),
		})
		total += l.Subtotal()
	}

	// получатель подарка только для подарочного заказа, устаревший ввод отбрасывается
	var recipient *string
	if form.IsGift {
		if name := strings.TrimSpace(form.GiftRecipientName); name != "" {
			recipient = &name
		}
	}

	return models.OrderSubmission{
		Method:            models.MethodCOD,
		CustomerName:      strings.TrimSpace(form.CustomerName),
		PhoneNumber:       strings.TrimSpace(form.PhoneNumber),
		Address:           strings.TrimSpace(form.Address),
		Birthday:          strings.TrimSpace(form.Birthday),
		IsGiftOrder:       form.IsGift,
		GiftRecipientName: recipient,
		Items:             items,
		TotalAmount:       &total,
		Timestamp:         now.UTC().Format(time.RFC3339Nano),
	}
}

// Submitter отправляет заказ на сервер
type Submitter interface {
	SubmitOrder(ctx context.Context, sub models.OrderSubmission) (*int64, error)
}

// Confirmation - состояние после успешного оформления
type Confirmation struct {
	OrderID       *int64
	Total         int64
	Items         int
	RedirectAfter time.Duration
}

type Controller struct {
	log       *slog.Logger
	cart      *cart.Store
	submitter Submitter
	now       func() time.Time
}

func NewController(log *slog.Logger, store *cart.Store, submitter Submitter) *Controller {
	return &Controller{
		log:       log,
		cart:      store,
		submitter: submitter,
		now:       time.Now,
	}
}

// CanCheckout - false, если форму показывать не нужно и надо вернуть покупателя в каталог
func (c *Controller) CanCheckout() bool {
	return !c.cart.IsEmpty()
}

// Submit проверяет форму, отправляет заказ и очищает корзину только при успехе.
// При любой ошибке корзина не меняется, чтобы покупатель мог повторить.
func (c *Controller) Submit(ctx context.Context, form Form) (*Confirmation, error) {
	const op = "checkout.Controller.Submit"
	log := c.log.With(slog.String("op", op))

	lines := c.cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	sub := BuildSubmission(form, lines, c.now())
	orderID, err := c.submitter.SubmitOrder(ctx, sub)
	if err != nil {
		log.Error("order submission failed", logger.Err(err))
		return nil, fmt.Errorf("order submission failed: %w", err)
	}

	c.cart.Clear()
	if orderID != nil {
		log.Info("order submitted", slog.Int64("orderID", *orderID))
	} else {
		log.Info("order submitted without id")
	}

	return &Confirmation{
		OrderID:       orderID,
		Total:         *sub.TotalAmount,
		Items:         len(sub.Items),
		RedirectAfter: RedirectAfter,
	}, nil
}
