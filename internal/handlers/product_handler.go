package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"shopkart/internal/models"
	"shopkart/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/go-hclog"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	logger  hclog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger hclog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the product routes under /products. Handlers passed in
// guards run before every product route.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	productRoutes := router.Group("/products", guards...)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/byName", h.HandleGetProductByName)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Put("/:id/price", h.HandleUpdatePrice)
	productRoutes.Put("/:id/name", h.HandleUpdateName)
	productRoutes.Put("/:id/description", h.HandleUpdateDescription)
	productRoutes.Put("/:id/imageUrl", h.HandleUpdateImageURL)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// createProductRequest is the POST body. Any id sent by the client is ignored.
type createProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    string   `json:"imageUrl"`
}

func (r createProductRequest) toProduct() (*models.Product, error) {
	p := &models.Product{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
	}
	if r.Price != nil {
		p.Price = *r.Price
	}

	verr := &models.ValidationError{}
	if err := p.Validate(); err != nil {
		if !errors.As(err, &verr) {
			return nil, err
		}
	}
	if r.Price == nil {
		verr.Violations = append(verr.Violations, models.Violation{Field: "price", Message: "Product price is required."})
	}
	if len(verr.Violations) > 0 {
		return nil, verr
	}
	return p, nil
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Debug("Error parsing product body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := req.toProduct()
	if err != nil {
		return writeError(c, h.logger, err, "")
	}

	created, err := h.service.CreateProduct(c.UserContext(), product)
	if err != nil {
		return writeError(c, h.logger, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err, "")
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.logger, err, notFoundByID(id))
	}
	return c.JSON(product)
}

// HandleGetProductByName retrieves a product by exact name.
func (h *ProductHandler) HandleGetProductByName(c *fiber.Ctx) error {
	name, ok := requiredQuery(c, "name")
	if !ok {
		return missingQuery(c, "name")
	}
	product, err := h.service.GetProductByName(c.UserContext(), name)
	if err != nil {
		return writeError(c, h.logger, err, fmt.Sprintf("Product with name %q not found", name))
	}
	return c.JSON(product)
}

// HandleUpdatePrice handles PUT /products/:id/price?price=.
func (h *ProductHandler) HandleUpdatePrice(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	raw, ok := requiredQuery(c, "price")
	if !ok {
		return missingQuery(c, "price")
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return badRequest(c, "price", "Product price must be a number.")
	}
	product, err := h.service.UpdateProductPrice(c.UserContext(), id, price)
	if err != nil {
		return writeError(c, h.logger, err, notFoundByID(id))
	}
	return c.JSON(product)
}

// HandleUpdateName handles PUT /products/:id/name?name=.
func (h *ProductHandler) HandleUpdateName(c *fiber.Ctx) error {
	return h.updateText(c, "name", h.service.UpdateProductName)
}

// HandleUpdateDescription handles PUT /products/:id/description?description=.
func (h *ProductHandler) HandleUpdateDescription(c *fiber.Ctx) error {
	return h.updateText(c, "description", h.service.UpdateProductDescription)
}

// HandleUpdateImageURL handles PUT /products/:id/imageUrl?imageUrl=.
func (h *ProductHandler) HandleUpdateImageURL(c *fiber.Ctx) error {
	return h.updateText(c, "imageUrl", h.service.UpdateProductImageURL)
}

type textUpdate func(ctx context.Context, id int64, value string) (*models.Product, error)

func (h *ProductHandler) updateText(c *fiber.Ctx, param string, update textUpdate) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	value, ok := requiredQuery(c, param)
	if !ok {
		return missingQuery(c, param)
	}
	product, err := update(c.UserContext(), id, value)
	if err != nil {
		return writeError(c, h.logger, err, notFoundByID(id))
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	deleted, err := h.service.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.logger, err, "Product not found")
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return badRequest(c, "id", "Product ID must be a positive integer.")
}

// requiredQuery returns the query parameter and whether it was present at all.
// A present but empty value is returned as "" so the field validators reject it.
func requiredQuery(c *fiber.Ctx, key string) (string, bool) {
	if !c.Context().QueryArgs().Has(key) {
		return "", false
	}
	return c.Query(key), true
}

func missingQuery(c *fiber.Ctx, key string) error {
	return badRequest(c, key, fmt.Sprintf("Query parameter '%s' is required.", key))
}

func notFoundByID(id int64) string {
	return fmt.Sprintf("Product with ID %d not found", id)
}
