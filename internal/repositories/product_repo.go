package repositories

import (
	"context"

	"shopkart/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// Lookups return (product, found, err): a missing row is reported as found == false
// with a nil error, never as an error.
type ProductRepository interface {
	// Save inserts the product when its ID is zero, assigning the new ID,
	// and overwrites the stored row otherwise.
	Save(ctx context.Context, product *models.Product) error
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id int64) (*models.Product, bool, error)
	FindByName(ctx context.Context, name string) (*models.Product, bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// DeleteByID reports whether a row was actually removed.
	DeleteByID(ctx context.Context, id int64) (bool, error)
}
