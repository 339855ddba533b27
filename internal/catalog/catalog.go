package catalog

import (
	"errors"

	"github.com/linemk/artisan-store/internal/domain/models"
)

var ErrProductNotFound = errors.New("product not found")

// products - коллекция журналов ручной работы, цены в BDT
var products = []models.Product{
	{ID: 1, Name: "Solace Time Keep Journal", Price: 850},
	{ID: 2, Name: "Ember Time Keep Journal", Price: 850},
	{ID: 3, Name: "Écru Flower Journal", Price: 850},
	{ID: 4, Name: "Noir Red Heart Journal", Price: 850},
}

// All возвращает копию каталога
func All() []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}

func ByID(id int64) (models.Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}
