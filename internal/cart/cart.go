// Package cart хранит выбор покупателя до оформления заказа.
package cart

import (
	"errors"
	"sync"

	"github.com/linemk/artisan-store/internal/domain/models"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidPrice    = errors.New("unit price must not be negative")
)

// Line - позиция корзины. Quantity всегда >= 1.
type Line struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// Subtotal - стоимость позиции
func (l Line) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Store - корзина в памяти. Позиции сохраняют порядок добавления.
type Store struct {
	mu    sync.RWMutex
	lines []Line
}

func NewStore() *Store {
	return &Store{}
}

// Add добавляет одну единицу товара
func (s *Store) Add(p models.Product) error {
	return s.AddItem(p, 1)
}

// AddItem увеличивает количество, если товар уже в корзине, иначе добавляет новую позицию
func (s *Store) AddItem(p models.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if p.Price < 0 {
		return ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(p.ID); i >= 0 {
		s.lines[i].Quantity += quantity
		return nil
	}
	s.lines = append(s.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  quantity,
	})
	return nil
}

// RemoveItem удаляет позицию; отсутствие товара - не ошибка
func (s *Store) RemoveItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
}

// SetQuantity: quantity <= 0 удаляет позицию, иначе заменяет количество
func (s *Store) SetQuantity(productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(productID)
		return
	}
	if i := s.indexOf(productID); i >= 0 {
		s.lines[i].Quantity = quantity
	}
}

// Clear очищает корзину (после успешного заказа)
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Total - сумма unitPrice × quantity по всем позициям
func (s *Store) Total() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

// Count - общее количество единиц товара (счётчик на иконке корзины)
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Len - количество позиций
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// Lines возвращает копию позиций
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Restore заменяет содержимое сохранённым снимком. Некорректные позиции отбрасываются,
// повторяющиеся товары складываются.
func (s *Store) Restore(lines []Line) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	for _, l := range lines {
		if l.Quantity <= 0 || l.UnitPrice < 0 {
			continue
		}
		if i := s.indexOf(l.ProductID); i >= 0 {
			s.lines[i].Quantity += l.Quantity
			continue
		}
		s.lines = append(s.lines, l)
	}
}

func (s *Store) indexOf(productID int64) int {
	for i, l := range s.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeLocked(productID int64) {
	if i := s.indexOf(productID); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
}
