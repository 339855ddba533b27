package models

import (
	"strings"
	"time"
)

// MethodCOD - единственный поддерживаемый способ оплаты (наложенный платёж)
const MethodCOD = "cod"

// OrderItem - строка заказа. Subtotal фиксируется в момент оформления и не пересчитывается при чтении.
type OrderItem struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
	Price    int64  `json:"price" validate:"gte=0"`
	Subtotal int64  `json:"subtotal" validate:"gte=0"`
}

// OrderSubmission - тело запроса POST /api/orders
type OrderSubmission struct {
	Method            string      `json:"method" validate:"omitempty,eq=cod"`
	CustomerName      string      `json:"customerName" validate:"required"`
	PhoneNumber       string      `json:"phoneNumber" validate:"required"`
	Address           string      `json:"address" validate:"required"`
	Birthday          string      `json:"birthday" validate:"required"`
	IsGiftOrder       bool        `json:"isGiftOrder"`
	GiftRecipientName *string     `json:"giftRecipientName"`
	Items             []OrderItem `json:"items" validate:"required,min=1,dive"`
	TotalAmount       *int64      `json:"totalAmount" validate:"required"`
	Timestamp         string      `json:"timestamp,omitempty"`
}

// Normalize обрезает пробелы в текстовых полях, чтобы "   " не проходил как заполненное поле
func (s *OrderSubmission) Normalize() {
	s.Method = strings.TrimSpace(s.Method)
	s.CustomerName = strings.TrimSpace(s.CustomerName)
	s.PhoneNumber = strings.TrimSpace(s.PhoneNumber)
	s.Address = strings.TrimSpace(s.Address)
	s.Birthday = strings.TrimSpace(s.Birthday)
	if s.GiftRecipientName != nil {
		name := strings.TrimSpace(*s.GiftRecipientName)
		s.GiftRecipientName = &name
	}
	for i := range s.Items {
		s.Items[i].Name = strings.TrimSpace(s.Items[i].Name)
	}
}

// Order - сохранённый заказ. После создания не изменяется.
type Order struct {
	ID                int64       `json:"id"`
	CreatedAt         time.Time   `json:"created_at"`
	Method            string      `json:"method"`
	CustomerName      string      `json:"customer_name"`
	PhoneNumber       string      `json:"phone_number"`
	Address           string      `json:"address"`
	Birthday          string      `json:"birthday"`
	IsGiftOrder       bool        `json:"is_gift_order"`
	GiftRecipientName *string     `json:"gift_recipient_name"`
	Items             []OrderItem `json:"items"`
	TotalAmount       int64       `json:"total_amount"`
	// Время оформления на стороне клиента, в БД не хранится
	SubmittedAt string `json:"-"`
}
