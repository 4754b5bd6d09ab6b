package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &category, nil
}

// FindByIDs finds multiple categories by their IDs
func (r *GormCategoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Category, error) {
	if len(ids) == 0 {
		return []catalog.Category{}, nil
	}
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&categories).Error; err != nil {
		return nil, mapError(err)
	}
	return categories, nil
}

// FindAll returns all categories ordered by name
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, mapError(err)
	}
	return categories, nil
}

// Save creates or updates a category. The unique index on name surfaces
// duplicates as ALREADY_EXISTS.
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return mapError(r.db.WithContext(ctx).Save(category).Error)
}

// Delete deletes a category. Categories still linked to products are
// protected by the join table's foreign key.
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var linked int64
	if err := r.db.WithContext(ctx).
		Table("product_categories").
		Where("category_id = ?", id).
		Count(&linked).Error; err != nil {
		return mapError(err)
	}
	if linked > 0 {
		return shared.ErrIntegrityViolation
	}

	result := r.db.WithContext(ctx).Delete(&catalog.Category{}, "id = ?", id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByID checks if a category exists
func (r *GormCategoryRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
