package repositories

import (
	"context"
	"errors"
	"fmt"

	"shopkart/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Save creates the product when it has no ID yet and updates every column otherwise.
func (r *GORMProductRepository) Save(ctx context.Context, product *models.Product) error {
	if product.ID == 0 {
		if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("name", "description", "price", "image_url").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", product.ID, models.ErrProductNotFound)
	}
	return nil
}

// FindAll retrieves all products ordered by ID.
func (r *GORMProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a single product by its ID.
func (r *GORMProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, bool, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByName retrieves the first product whose name matches exactly.
func (r *GORMProductRepository) FindByName(ctx context.Context, name string) (*models.Product, bool, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *GORMProductRepository) first(ctx context.Context, query string, arg interface{}) (*models.Product, bool, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where(query, arg).Order("id").Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get product where %s %v: %w", query, arg, err)
	}
	return &product, true, nil
}

// ExistsByID reports whether a product with the given ID is stored.
func (r *GORMProductRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product %d: %w", id, err)
	}
	return count > 0, nil
}

// DeleteByID deletes a product by its ID. Deleting a missing row is not an error,
// it is reported as false.
func (r *GORMProductRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete product %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
