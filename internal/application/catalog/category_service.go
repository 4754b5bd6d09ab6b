package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryService handles category operations.
// Reads are public; writes require the admin role.
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// List returns all categories
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// Create creates a new category. Admin only.
func (s *CategoryService) Create(ctx context.Context, principal identity.Principal, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return nil, err
	}

	category, err := catalog.NewCategory(req.Name)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
	)

	response := ToCategoryResponse(category)
	return &response, nil
}

// Update renames a category. Admin only.
func (s *CategoryService) Update(ctx context.Context, principal identity.Principal, categoryID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if err := category.Rename(req.Name); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete removes a category. Admin only. Categories still linked to
// products surface an integrity conflict from the store.
func (s *CategoryService) Delete(ctx context.Context, principal identity.Principal, categoryID uuid.UUID) error {
	if err := identity.RequireAdmin(principal); err != nil {
		return err
	}

	exists, err := s.categoryRepo.ExistsByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return err
	}

	s.logger.Info("Category deleted", zap.String("category_id", categoryID.String()))
	return nil
}
