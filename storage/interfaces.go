package storage

import "product-research/models"

// ResultWriter is the interface any result backend must satisfy.
type ResultWriter interface {
	WriteProducts(products []*models.AggregatedProduct) error
	WriteTopProducts(products []*models.AggregatedProduct) error
	WriteCategories(categories []*models.CategorySummary) error
}
