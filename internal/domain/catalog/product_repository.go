package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product with its categories by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll returns all products ordered by name
	FindAll(ctx context.Context) ([]Product, error)

	// Save creates or updates a product and its category links
	Save(ctx context.Context, product *Product) error

	// SaveWithLock updates a product using optimistic locking
	SaveWithLock(ctx context.Context, product *Product, expectedVersion int) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByID checks if a product exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByIDs finds multiple categories by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Category, error)

	// FindAll returns all categories ordered by name
	FindAll(ctx context.Context) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByID checks if a category exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}
