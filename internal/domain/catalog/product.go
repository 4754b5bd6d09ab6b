package catalog

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Product represents a sellable item in the catalog
// It is the aggregate root for product-related operations
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(80);not null"`
	Description string          `gorm:"type:text;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ImageURL    string          `gorm:"type:varchar(500)"`
	Categories  []Category      `gorm:"many2many:product_categories"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, description string, price valueobject.Money, imageURL string) (*Product, error) {
	v := shared.NewValidationError()
	validateProductName(v, name)
	validateProductDescription(v, description)
	validateProductPrice(v, price)
	validateImageURL(v, imageURL)
	if v.HasErrors() {
		return nil, v
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Price:             price.Amount().Round(2),
		ImageURL:          imageURL,
	}, nil
}

// Update replaces the product's descriptive fields and price
func (p *Product) Update(name, description string, price valueobject.Money, imageURL string) error {
	v := shared.NewValidationError()
	validateProductName(v, name)
	validateProductDescription(v, description)
	validateProductPrice(v, price)
	validateImageURL(v, imageURL)
	if v.HasErrors() {
		return v
	}

	p.Name = name
	p.Description = description
	p.Price = price.Amount().Round(2)
	p.ImageURL = imageURL
	p.Touch()
	p.IncrementVersion()

	return nil
}

// SetCategories replaces the product's category set
func (p *Product) SetCategories(categories []Category) error {
	if len(categories) == 0 {
		return shared.NewValidationError().Add("categories", "product must belong to at least one category")
	}

	p.Categories = categories
	p.Touch()
	p.IncrementVersion()

	return nil
}

// UnitPrice returns the current price as a money value
func (p *Product) UnitPrice() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

func validateProductName(v *shared.ValidationError, name string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		v.Add("name", "name is required")
		return
	}
	if len(trimmed) < 3 || len(trimmed) > 80 {
		v.Add("name", "name must be between 3 and 80 characters")
	}
}

func validateProductDescription(v *shared.ValidationError, description string) {
	if len(strings.TrimSpace(description)) < 10 {
		v.Add("description", "description must be at least 10 characters")
	}
}

func validateProductPrice(v *shared.ValidationError, price valueobject.Money) {
	if !price.IsPositive() {
		v.Add("price", "price must be positive")
	}
}

func validateImageURL(v *shared.ValidationError, imageURL string) {
	if imageURL == "" {
		return
	}
	u, err := url.Parse(imageURL)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		v.Add("imgUrl", "image URL must be a valid https URL")
	}
}
