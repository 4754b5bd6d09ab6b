package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func TestNewProduct(t *testing.T) {
	price := valueobject.NewMoneyUSDFromFloat(90.50)

	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct("The Lord of the Rings", "A fantasy novel about the One Ring", price, "https://img.example.com/1.png")
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "The Lord of the Rings", product.Name)
		assert.Equal(t, "90.50", product.Price.StringFixed(2))
		assert.NotEmpty(t, product.ID)
		assert.Equal(t, 1, product.GetVersion())
	})

	t.Run("aggregates all field errors", func(t *testing.T) {
		_, err := NewProduct("ab", "too short", valueobject.ZeroUSD(), "http://insecure.example.com/1.png")
		require.Error(t, err)

		var v *shared.ValidationError
		require.ErrorAs(t, err, &v)
		fields := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			fields = append(fields, f.Field)
		}
		assert.ElementsMatch(t, []string{"name", "price", "imgUrl"}, fields)
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewProduct(strings.Repeat("a", 81), "A valid long description", price, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "between 3 and 80")
	})

	t.Run("fails with short description", func(t *testing.T) {
		_, err := NewProduct("Valid Name", "short", price, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 10 characters")
	})

	t.Run("fails with non-positive price", func(t *testing.T) {
		_, err := NewProduct("Valid Name", "A valid long description", valueobject.ZeroUSD(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "price must be positive")
	})

	t.Run("allows empty image URL", func(t *testing.T) {
		_, err := NewProduct("Valid Name", "A valid long description", price, "")
		require.NoError(t, err)
	})
}

func TestProductUpdate(t *testing.T) {
	price := valueobject.NewMoneyUSDFromFloat(90.50)

	t.Run("updates fields and bumps version", func(t *testing.T) {
		product, err := NewProduct("The Lord of the Rings", "A fantasy novel about the One Ring", price, "")
		require.NoError(t, err)

		err = product.Update("The Hobbit", "A fantasy novel about Bilbo Baggins", valueobject.NewMoneyUSDFromFloat(45.00), "https://img.example.com/2.png")
		require.NoError(t, err)

		assert.Equal(t, "The Hobbit", product.Name)
		assert.Equal(t, "45.00", product.Price.StringFixed(2))
		assert.Equal(t, 2, product.GetVersion())
	})

	t.Run("rejects invalid update", func(t *testing.T) {
		product, err := NewProduct("The Lord of the Rings", "A fantasy novel about the One Ring", price, "")
		require.NoError(t, err)

		err = product.Update("ab", "A fantasy novel about the One Ring", price, "")
		require.Error(t, err)
		assert.Equal(t, "The Lord of the Rings", product.Name)
	})
}

func TestProductSetCategories(t *testing.T) {
	price := valueobject.NewMoneyUSDFromFloat(90.50)

	t.Run("replaces category set", func(t *testing.T) {
		product, err := NewProduct("The Lord of the Rings", "A fantasy novel about the One Ring", price, "")
		require.NoError(t, err)

		books, err := NewCategory("Books")
		require.NoError(t, err)

		require.NoError(t, product.SetCategories([]Category{*books}))
		require.Len(t, product.Categories, 1)
		assert.Equal(t, "Books", product.Categories[0].Name)
	})

	t.Run("rejects empty set", func(t *testing.T) {
		product, err := NewProduct("The Lord of the Rings", "A fantasy novel about the One Ring", price, "")
		require.NoError(t, err)

		err = product.SetCategories(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one category")
	})
}

func TestNewCategory(t *testing.T) {
	t.Run("creates category", func(t *testing.T) {
		category, err := NewCategory("Electronics")
		require.NoError(t, err)
		assert.Equal(t, "Electronics", category.Name)
	})

	t.Run("fails with short name", func(t *testing.T) {
		_, err := NewCategory("ab")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "between 3 and 50")
	})

	t.Run("fails with long name", func(t *testing.T) {
		_, err := NewCategory(strings.Repeat("a", 51))
		require.Error(t, err)
	})
}
