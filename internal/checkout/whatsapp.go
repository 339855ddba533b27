package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/linemk/artisan-store/internal/cart"
)

// WhatsAppLink - альтернативное оформление: ссылка wa.me с готовым текстом заказа.
// Пустая строка, если корзина пуста.
func WhatsAppLink(phone string, lines []cart.Line) string {
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Hello, I'd like to order the following items:\n\n")
	var total int64
	for i, l := range lines {
		fmt.Fprintf(&b, "%d. %s (x%d) - %d BDT\n", i+1, l.Name, l.Quantity, l.Subtotal())
		total += l.Subtotal()
	}
	fmt.Fprintf(&b, "\nTotal: %d BDT\n\nPlease confirm availability.", total)

	phone = strings.TrimPrefix(strings.TrimSpace(phone), "+")
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(b.String()))
}
