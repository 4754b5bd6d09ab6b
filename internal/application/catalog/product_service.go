package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductService handles product catalog operations.
// Reads are public; every write requires the admin role.
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// List returns all products with their categories
func (s *ProductService) List(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Create creates a new product. Admin only.
func (s *ProductService) Create(ctx context.Context, principal identity.Principal, req CreateProductRequest) (*ProductResponse, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return nil, err
	}

	price := valueobject.NewMoneyUSD(req.Price)
	product, err := catalog.NewProduct(req.Name, req.Description, price, req.ImageURL)
	if err != nil {
		return nil, err
	}

	categories, err := s.resolveCategories(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}
	if err := product.SetCategories(categories); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)

	response := ToProductResponse(product)
	return &response, nil
}

// Update updates a product using optimistic locking. Admin only.
func (s *ProductService) Update(ctx context.Context, principal identity.Principal, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	expectedVersion := product.GetVersion()

	price := valueobject.NewMoneyUSD(req.Price)
	if err := product.Update(req.Name, req.Description, price, req.ImageURL); err != nil {
		return nil, err
	}

	categories, err := s.resolveCategories(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}
	if err := product.SetCategories(categories); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.Info("Product updated", zap.String("product_id", product.ID.String()))

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product. Admin only. Products referenced by order
// items surface an integrity conflict from the store.
func (s *ProductService) Delete(ctx context.Context, principal identity.Principal, productID uuid.UUID) error {
	if err := identity.RequireAdmin(principal); err != nil {
		return err
	}

	exists, err := s.productRepo.ExistsByID(ctx, productID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.String("product_id", productID.String()))
	return nil
}

func (s *ProductService) resolveCategories(ctx context.Context, ids []uuid.UUID) ([]catalog.Category, error) {
	categories, err := s.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[uuid.UUID]struct{}, len(categories))
	for i := range categories {
		found[categories[i].ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Category %s not found", id))
		}
	}

	return categories, nil
}
