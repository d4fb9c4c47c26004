package models

// Product represents a product in the catalog.
type Product struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"type:varchar(50);not null;index" validate:"notblank,min=4,max=50"`
	Description string  `json:"description" gorm:"type:varchar(100);not null" validate:"notblank,min=10,max=100"`
	Price       float64 `json:"price" gorm:"not null" validate:"finite,gte=0"`
	ImageURL    string  `json:"imageUrl" gorm:"column:image_url;not null" validate:"notblank,url"`
}

// TableName pins the table name regardless of the naming strategy.
func (Product) TableName() string {
	return "products"
}

// NewProduct builds a product without an ID, rejecting it if any field is invalid.
// The returned error is a *ValidationError listing every violation.
func NewProduct(name, description string, price float64, imageURL string) (*Product, error) {
	p := &Product{
		Name:        name,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks every field constraint of the product.
func (p *Product) Validate() error {
	return validateStruct(p)
}

// Equal reports whether two products hold the same ID and field values.
func (p Product) Equal(other Product) bool {
	return p == other
}
