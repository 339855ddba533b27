package models

// Product представляет товар витрины
type Product struct {
	ID    int64  // Уникальный идентификатор товара
	Name  string // Название товара
	Price int64  // Цена в BDT, без дробной части
}
