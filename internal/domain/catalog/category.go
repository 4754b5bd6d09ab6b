package catalog

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Category groups products for browsing
type Category struct {
	shared.BaseAggregateRoot
	Name string `gorm:"type:varchar(50);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name string) (*Category, error) {
	v := shared.NewValidationError()
	validateCategoryName(v, name)
	if v.HasErrors() {
		return nil, v
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	v := shared.NewValidationError()
	validateCategoryName(v, name)
	if v.HasErrors() {
		return v
	}

	c.Name = name
	c.Touch()
	c.IncrementVersion()

	return nil
}

func validateCategoryName(v *shared.ValidationError, name string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		v.Add("name", "name is required")
		return
	}
	if len(trimmed) < 3 || len(trimmed) > 50 {
		v.Add("name", "name must be between 3 and 50 characters")
	}
}
