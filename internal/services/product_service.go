package services

import (
	"context"
	"fmt"
	"time"

	"shopkart/internal/models"
	"shopkart/internal/repositories"

	"github.com/hashicorp/go-hclog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	publisher  EventPublisher
	logger     hclog.Logger
	tracer     trace.Tracer
	operations metric.Int64Counter
}

// NewProductService creates a new ProductService. publisher may be nil, in which
// case lifecycle events are not emitted.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, logger hclog.Logger, meter metric.Meter) *ProductService {
	operations, err := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)
	if err != nil {
		logger.Warn("Unable to create products.operations counter", "error", err)
	}
	return &ProductService{
		repo:       repo,
		publisher:  publisher,
		logger:     logger,
		tracer:     otel.Tracer("shopkart/internal/services"),
		operations: operations,
	}
}

// CreateProduct validates and stores a new product, returning it with its assigned ID.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	if err := product.Validate(); err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}
	product.ID = 0
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}

	span.SetAttributes(attribute.Int64("product.id", product.ID))
	s.logger.Info("Product created", "id", product.ID, "name", product.Name)
	s.record(ctx, "create", "success")
	s.publish(ProductEvent{Event: ProductCreatedEvent, ProductID: product.ID, Product: product})
	return product, nil
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetAllProducts")
	defer span.End()

	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "list", err)
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.record(ctx, "list", "success")
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductByID",
		trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	product, err := s.findByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "read", err)
	}
	s.record(ctx, "read", "success")
	return product, nil
}

// GetProductByName retrieves a product whose name matches exactly.
func (s *ProductService) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductByName",
		trace.WithAttributes(attribute.String("product.name", name)))
	defer span.End()

	product, found, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, s.fail(ctx, span, "read", err)
	}
	if !found {
		return nil, s.fail(ctx, span, "read", fmt.Errorf("product with name %q: %w", name, models.ErrProductNotFound))
	}
	s.record(ctx, "read", "success")
	return product, nil
}

// UpdateProductPrice sets a new price on an existing product.
func (s *ProductService) UpdateProductPrice(ctx context.Context, id int64, price float64) (*models.Product, error) {
	return s.updateField(ctx, id, "price", models.ValidatePrice(price), func(p *models.Product) {
		p.Price = price
	})
}

// UpdateProductName sets a new name on an existing product.
func (s *ProductService) UpdateProductName(ctx context.Context, id int64, name string) (*models.Product, error) {
	return s.updateField(ctx, id, "name", models.ValidateName(name), func(p *models.Product) {
		p.Name = name
	})
}

// UpdateProductDescription sets a new description on an existing product.
func (s *ProductService) UpdateProductDescription(ctx context.Context, id int64, description string) (*models.Product, error) {
	return s.updateField(ctx, id, "description", models.ValidateDescription(description), func(p *models.Product) {
		p.Description = description
	})
}

// UpdateProductImageURL sets a new image URL on an existing product.
func (s *ProductService) UpdateProductImageURL(ctx context.Context, id int64, imageURL string) (*models.Product, error) {
	return s.updateField(ctx, id, "imageUrl", models.ValidateImageURL(imageURL), func(p *models.Product) {
		p.ImageURL = imageURL
	})
}

// updateField is the shared read-modify-write path of the single-field updates.
// A concurrent update between the read and the save is overwritten.
func (s *ProductService) updateField(ctx context.Context, id int64, field string, invalid error, set func(*models.Product)) (*models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct",
		trace.WithAttributes(attribute.Int64("product.id", id), attribute.String("product.field", field)))
	defer span.End()

	if invalid != nil {
		return nil, s.fail(ctx, span, "update", invalid)
	}
	product, err := s.findByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}
	set(product)
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}

	s.logger.Info("Product updated", "id", id, "field", field)
	s.record(ctx, "update", "success")
	s.publish(ProductEvent{Event: ProductUpdatedEvent, ProductID: id, Field: field, Product: product})
	return product, nil
}

// DeleteProduct deletes a product by its ID. It reports false, without an error,
// when no product has that ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteProduct",
		trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return false, s.fail(ctx, span, "delete", err)
	}
	if !exists {
		s.record(ctx, "delete", "not_found")
		return false, nil
	}
	removed, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return false, s.fail(ctx, span, "delete", err)
	}
	if !removed {
		s.record(ctx, "delete", "not_found")
		return false, nil
	}

	s.logger.Info("Product deleted", "id", id)
	s.record(ctx, "delete", "success")
	s.publish(ProductEvent{Event: ProductDeletedEvent, ProductID: id})
	return true, nil
}

func (s *ProductService) findByID(ctx context.Context, id int64) (*models.Product, error) {
	product, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrProductNotFound)
	}
	return product, nil
}

// fail records the failed operation on the span and counter and returns err unchanged.
func (s *ProductService) fail(ctx context.Context, span trace.Span, operation string, err error) error {
	result := resultOf(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, result)
	if result == "failure" {
		s.logger.Error("Product operation failed", "operation", operation, "error", err)
	} else {
		s.logger.Debug("Product operation rejected", "operation", operation, "result", result, "error", err)
	}
	s.record(ctx, operation, result)
	return err
}

func (s *ProductService) record(ctx context.Context, operation, result string) {
	if s.operations == nil {
		return
	}
	s.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("result", result),
	))
}

// publish emits a lifecycle event. Broker failures are logged and never reach the caller.
func (s *ProductService) publish(event ProductEvent) {
	if s.publisher == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	body, err := event.marshal()
	if err != nil {
		s.logger.Error("Failed to marshal product event", "event", event.Event, "error", err)
		return
	}
	if err := s.publisher.Publish(ProductEventsExchange, event.Event, body); err != nil {
		s.logger.Warn("Failed to publish product event", "event", event.Event, "id", event.ProductID, "error", err)
	}
}
