package ordering

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]ordering.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]ordering.Order, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order, expectedVersion int) error {
	args := m.Called(ctx, order, expectedVersion)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product, expectedVersion int) error {
	args := m.Called(ctx, product, expectedVersion)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// Test helpers
var (
	testClientID = uuid.New()
	testAdminID  = uuid.New()
	testOrderID  = uuid.New()
)

func clientPrincipal() identity.Principal {
	return identity.Principal{UserID: testClientID, Email: "maria@gmail.com", Roles: []identity.Role{identity.RoleClient}}
}

func adminPrincipal() identity.Principal {
	return identity.Principal{UserID: testAdminID, Email: "alex@gmail.com", Roles: []identity.Role{identity.RoleAdmin}}
}

func otherClientPrincipal() identity.Principal {
	return identity.Principal{UserID: uuid.New(), Email: "bob@gmail.com", Roles: []identity.Role{identity.RoleClient}}
}

func createTestProduct(name string, price string) *catalog.Product {
	money, _ := valueobject.NewMoneyUSDFromString(price)
	product, _ := catalog.NewProduct(name, "Product description for "+name, money, "")
	return product
}

func createTestOrder(clientID uuid.UUID) *ordering.Order {
	order, _ := ordering.NewOrder(clientID)
	return order
}

func newService(orderRepo *MockOrderRepository, productRepo *MockProductRepository) *OrderService {
	return NewOrderService(orderRepo, productRepo, zap.NewNop())
}

func TestOrderServicePlace(t *testing.T) {
	t.Run("snapshots catalog price into items", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		service := newService(orderRepo, productRepo)

		product := createTestProduct("The Lord of the Rings", "10.00")
		productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)
		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*ordering.Order")).Return(nil)

		resp, err := service.Place(context.Background(), clientPrincipal(), PlaceOrderRequest{
			Items: []OrderItemInput{{ProductID: product.ID, Quantity: 3}},
		})
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.Equal(t, testClientID, resp.ClientID)
		assert.Equal(t, string(ordering.OrderStatusAwaitingPayment), resp.Status)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "10.00", resp.Items[0].UnitPrice.StringFixed(2))
		assert.Equal(t, "30.00", resp.Total.StringFixed(2))
		orderRepo.AssertExpectations(t)
	})

	t.Run("total survives later catalog price change", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		service := newService(orderRepo, productRepo)

		product := createTestProduct("The Lord of the Rings", "10.00")
		productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)

		var saved *ordering.Order
		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*ordering.Order")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*ordering.Order) }).
			Return(nil)

		_, err := service.Place(context.Background(), clientPrincipal(), PlaceOrderRequest{
			Items: []OrderItemInput{{ProductID: product.ID, Quantity: 3}},
		})
		require.NoError(t, err)
		require.NotNil(t, saved)

		newPrice := valueobject.NewMoneyUSDFromFloat(15.00)
		require.NoError(t, product.Update(product.Name, product.Description, newPrice, product.ImageURL))

		assert.Equal(t, "30.00", saved.Total().StringFixed(2))
	})

	t.Run("merges duplicate products", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		service := newService(orderRepo, productRepo)

		product := createTestProduct("Macbook Pro", "1250.00")
		productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]catalog.Product{*product}, nil)
		orderRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		resp, err := service.Place(context.Background(), clientPrincipal(), PlaceOrderRequest{
			Items: []OrderItemInput{
				{ProductID: product.ID, Quantity: 1},
				{ProductID: product.ID, Quantity: 2},
			},
		})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 3, resp.Items[0].Quantity)
	})

	t.Run("fails when a product is missing", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		service := newService(orderRepo, productRepo)

		missingID := uuid.New()
		productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)

		_, err := service.Place(context.Background(), clientPrincipal(), PlaceOrderRequest{
			Items: []OrderItemInput{{ProductID: missingID, Quantity: 1}},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
		assert.Contains(t, domainErr.Message, missingID.String())
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("fails with empty items", func(t *testing.T) {
		service := newService(new(MockOrderRepository), new(MockProductRepository))

		_, err := service.Place(context.Background(), clientPrincipal(), PlaceOrderRequest{})
		require.Error(t, err)

		var v *shared.ValidationError
		require.ErrorAs(t, err, &v)
	})

	t.Run("rejects anonymous", func(t *testing.T) {
		service := newService(new(MockOrderRepository), new(MockProductRepository))

		_, err := service.Place(context.Background(), identity.Principal{}, PlaceOrderRequest{
			Items: []OrderItemInput{{ProductID: uuid.New(), Quantity: 1}},
		})
		require.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}

func TestOrderServiceGetByID(t *testing.T) {
	t.Run("client reads own order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newService(orderRepo, new(MockProductRepository))

		order := createTestOrder(testClientID)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		resp, err := service.GetByID(context.Background(), clientPrincipal(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, resp.ID)
	})

	t.Run("other client is forbidden, not told about existence", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newService(orderRepo, new(MockProductRepository))

		order := createTestOrder(testClientID)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.GetByID(context.Background(), otherClientPrincipal(), order.ID)
		require.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("admin reads any order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newService(orderRepo, new(MockProductRepository))

		order := createTestOrder(testClientID)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.GetByID(context.Background(), adminPrincipal(), order.ID)
		require.NoError(t, err)
	})

	t.Run("missing order is not found", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newService(orderRepo, new(MockProductRepository))

		orderRepo.On("FindByID", mock.Anything, testOrderID).Return(nil, shared.ErrNotFound)

		_, err := service.GetByID(context.Background(), clientPrincipal(), testOrderID)
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOrderServiceList(t *testing.T) {
	t.Run("admin lists all orders", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newService(orderRepo, new(MockProductRepository))

		orders := []ordering.Order{*createTestOrder(testClientID), *createTestOrder(uuid.New())}
		orderRepo.On("FindAll", mock.Anything).Return(orders, nil)

		resp, err := service.List(context.Background(), adminPrincipal())
		require.NoError(t, err)
		assert.Len(t, resp, 2)
	})

	t.Run("client cannot list all orders", func(t *testing.T) {
		service := newService(new(MockOrderRepository), new(MockProductRepository))

		_, err := service.List(context.Background(), clientPrincipal())
		require.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("client lists own orders", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newService(orderRepo, new(MockProductRepository))

		orderRepo.On("FindByClientID", mock.Anything, testClientID).Return([]ordering.Order{*createTestOrder(testClientID)}, nil)

		resp, err := service.ListMine(context.Background(), clientPrincipal())
		require.NoError(t, err)
		assert.Len(t, resp, 1)
	})
}

func TestOrderServiceUpdate(t *testing.T) {
	t.Run("replaces items and re-snapshots prices", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		service := newService(orderRepo, productRepo)

		order := createTestOrder(testClientID)
		oldProduct := createTestProduct("Old Product", "5.00")
		require.NoError(t, order.AddItem(oldProduct.ID, oldProduct.Name, oldProduct.UnitPrice(), 2))

		newProduct := createTestProduct("Smart TV", "2190.00")
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{newProduct.ID}).Return([]catalog.Product{*newProduct}, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order, 1).Return(nil)

		resp, err := service.Update(context.Background(), adminPrincipal(), order.ID, UpdateOrderRequest{
			Items: []OrderItemInput{{ProductID: newProduct.ID, Quantity: 1}},
		})
		require.NoError(t, err)

		require.Len(t, resp.Items, 1)
		assert.Equal(t, newProduct.ID, resp.Items[0].ProductID)
		assert.Equal(t, "2190.00", resp.Total.StringFixed(2))
		// Client and status are preserved
		assert.Equal(t, testClientID, resp.ClientID)
		assert.Equal(t, string(ordering.OrderStatusAwaitingPayment), resp.Status)
		orderRepo.AssertExpectations(t)
	})

	t.Run("applies optional status transition", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		service := newService(orderRepo, productRepo)

		order := createTestOrder(testClientID)
		product := createTestProduct("Smart TV", "2190.00")
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order, 1).Return(nil)

		paid := string(ordering.OrderStatusPaid)
		resp, err := service.Update(context.Background(), adminPrincipal(), order.ID, UpdateOrderRequest{
			Items:  []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
			Status: &paid,
		})
		require.NoError(t, err)
		assert.Equal(t, paid, resp.Status)
		require.NotNil(t, resp.Payment)
	})

	t.Run("client cannot update", func(t *testing.T) {
		service := newService(new(MockOrderRepository), new(MockProductRepository))

		_, err := service.Update(context.Background(), clientPrincipal(), testOrderID, UpdateOrderRequest{
			Items: []OrderItemInput{{ProductID: uuid.New(), Quantity: 1}},
		})
		require.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("terminal order rejects update", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newService(orderRepo, new(MockProductRepository))

		order := createTestOrder(testClientID)
		require.NoError(t, order.Cancel())
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.Update(context.Background(), adminPrincipal(), order.ID, UpdateOrderRequest{
			Items: []OrderItemInput{{ProductID: uuid.New(), Quantity: 1}},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("stale version surfaces concurrency conflict", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		service := newService(orderRepo, productRepo)

		order := createTestOrder(testClientID)
		product := createTestProduct("Smart TV", "2190.00")
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order, 1).Return(shared.ErrConcurrencyConflict)

		_, err := service.Update(context.Background(), adminPrincipal(), order.ID, UpdateOrderRequest{
			Items: []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		})
		require.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestOrderServiceUpdateStatus(t *testing.T) {
	t.Run("legal transition", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newService(orderRepo, new(MockProductRepository))

		order := createTestOrder(testClientID)
		require.NoError(t, order.MarkPaid(order.PlacedAt))
		expected := order.GetVersion()
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order, expected).Return(nil)

		resp, err := service.UpdateStatus(context.Background(), adminPrincipal(), order.ID, UpdateOrderStatusRequest{
			Status: string(ordering.OrderStatusShipped),
		})
		require.NoError(t, err)
		assert.Equal(t, string(ordering.OrderStatusShipped), resp.Status)
	})

	t.Run("illegal transition is rejected", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newService(orderRepo, new(MockProductRepository))

		order := createTestOrder(testClientID)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.UpdateStatus(context.Background(), adminPrincipal(), order.ID, UpdateOrderStatusRequest{
			Status: string(ordering.OrderStatusDelivered),
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATUS_TRANSITION", domainErr.Code)
	})

	t.Run("client cannot transition", func(t *testing.T) {
		service := newService(new(MockOrderRepository), new(MockProductRepository))

		_, err := service.UpdateStatus(context.Background(), clientPrincipal(), testOrderID, UpdateOrderStatusRequest{
			Status: string(ordering.OrderStatusPaid),
		})
		require.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestOrderServicePay(t *testing.T) {
	t.Run("owner pays own order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newService(orderRepo, new(MockProductRepository))

		order := createTestOrder(testClientID)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order, 1).Return(nil)

		resp, err := service.Pay(context.Background(), clientPrincipal(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, string(ordering.OrderStatusPaid), resp.Status)
		require.NotNil(t, resp.Payment)
	})

	t.Run("other client cannot pay", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newService(orderRepo, new(MockProductRepository))

		order := createTestOrder(testClientID)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.Pay(context.Background(), otherClientPrincipal(), order.ID)
		require.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestOrderServiceDelete(t *testing.T) {
	t.Run("deletes existing order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newService(orderRepo, new(MockProductRepository))

		orderRepo.On("ExistsByID", mock.Anything, testOrderID).Return(true, nil)
		orderRepo.On("Delete", mock.Anything, testOrderID).Return(nil)

		err := service.Delete(context.Background(), adminPrincipal(), testOrderID)
		require.NoError(t, err)
		orderRepo.AssertExpectations(t)
	})

	t.Run("missing order is not found", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newService(orderRepo, new(MockProductRepository))

		orderRepo.On("ExistsByID", mock.Anything, testOrderID).Return(false, nil)

		err := service.Delete(context.Background(), adminPrincipal(), testOrderID)
		require.ErrorIs(t, err, shared.ErrNotFound)
		orderRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("referenced order surfaces integrity conflict", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := newService(orderRepo, new(MockProductRepository))

		orderRepo.On("ExistsByID", mock.Anything, testOrderID).Return(true, nil)
		orderRepo.On("Delete", mock.Anything, testOrderID).Return(shared.ErrIntegrityViolation)

		err := service.Delete(context.Background(), adminPrincipal(), testOrderID)
		require.ErrorIs(t, err, shared.ErrIntegrityViolation)
	})

	t.Run("client cannot delete", func(t *testing.T) {
		service := newService(new(MockOrderRepository), new(MockProductRepository))

		err := service.Delete(context.Background(), clientPrincipal(), testOrderID)
		require.ErrorIs(t, err, shared.ErrForbidden)
	})
}
