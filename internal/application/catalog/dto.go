package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=3,max=80"`
	Description string          `json:"description" binding:"required,min=10"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ImageURL    string          `json:"img_url"`
	CategoryIDs []uuid.UUID     `json:"category_ids" binding:"required,min=1"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=3,max=80"`
	Description string          `json:"description" binding:"required,min=10"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ImageURL    string          `json:"img_url"`
	CategoryIDs []uuid.UUID     `json:"category_ids" binding:"required,min=1"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=3,max=50"`
}

// UpdateCategoryRequest represents a request to rename a category
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=3,max=50"`
}

// CategoryResponse represents a category in responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductResponse represents a product in responses
type ProductResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	ImageURL    string             `json:"img_url,omitempty"`
	Categories  []CategoryResponse `json:"categories"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Version     int                `json:"version"`
}

// ToCategoryResponse converts a category to its response DTO
func ToCategoryResponse(category *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

// ToProductResponse converts a product to its response DTO
func ToProductResponse(product *catalog.Product) ProductResponse {
	categories := make([]CategoryResponse, len(product.Categories))
	for i := range product.Categories {
		categories[i] = ToCategoryResponse(&product.Categories[i])
	}

	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		ImageURL:    product.ImageURL,
		Categories:  categories,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
		Version:     product.GetVersion(),
	}
}

// ToProductResponses converts a list of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToCategoryResponses converts a list of categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}
