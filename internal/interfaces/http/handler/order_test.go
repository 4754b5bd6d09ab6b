package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderingapp "github.com/storefront/backend/internal/application/ordering"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

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

type orderTestEnv struct {
	router      *gin.Engine
	orderRepo   *MockOrderRepository
	productRepo *MockProductRepository
	jwtService  *auth.JWTService
}

func newOrderTestEnv(t *testing.T) *orderTestEnv {
	t.Helper()

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})

	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	orderService := orderingapp.NewOrderService(orderRepo, productRepo, zap.NewNop())
	orderHandler := NewOrderHandler(orderService)

	router := gin.New()
	router.Use(middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{JWTService: jwtService}))

	orders := router.Group("/api/v1/orders")
	{
		orders.GET("", orderHandler.List)
		orders.GET("/mine", orderHandler.ListMine)
		orders.GET("/:id", orderHandler.GetByID)
		orders.POST("", orderHandler.Place)
		orders.PUT("/:id/status", orderHandler.UpdateStatus)
		orders.POST("/:id/pay", orderHandler.Pay)
		orders.DELETE("/:id", orderHandler.Delete)
	}

	return &orderTestEnv{
		router:      router,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		jwtService:  jwtService,
	}
}

func (env *orderTestEnv) tokenFor(t *testing.T, userID uuid.UUID, roles ...string) string {
	t.Helper()
	pair, err := env.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: userID,
		Email:  "client@example.com",
		Roles:  roles,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func (env *orderTestEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func newCatalogProduct(t *testing.T, name string, price float64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, "A product used in order tests", valueobject.NewMoneyUSDFromFloat(price), "")
	require.NoError(t, err)
	return product
}

func newPlacedOrder(t *testing.T, clientID uuid.UUID, product *catalog.Product, quantity int) *ordering.Order {
	t.Helper()
	order, err := ordering.NewOrder(clientID)
	require.NoError(t, err)
	require.NoError(t, order.AddItem(product.ID, product.Name, valueobject.NewMoneyUSD(product.Price), quantity))
	return order
}

func TestOrderHandler_Place(t *testing.T) {
	env := newOrderTestEnv(t)
	clientID := uuid.New()
	product := newCatalogProduct(t, "Espresso Machine", 249.90)

	env.productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).
		Return([]catalog.Product{*product}, nil)
	env.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*ordering.Order")).Return(nil)

	body := gin.H{"items": []gin.H{{"product_id": product.ID, "quantity": 2}}}
	rec := env.do(http.MethodPost, "/api/v1/orders", env.tokenFor(t, clientID, "ROLE_CLIENT"), body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	respBody := rec.Body.String()
	assert.Contains(t, respBody, product.ID.String())
	assert.Contains(t, respBody, "249.9")
	assert.Contains(t, respBody, "AWAITING_PAYMENT")
	env.orderRepo.AssertExpectations(t)
}

func TestOrderHandler_Place_MissingItems(t *testing.T) {
	env := newOrderTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/orders", env.tokenFor(t, uuid.New(), "ROLE_CLIENT"), gin.H{"items": []gin.H{}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	env.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrderHandler_GetByID_OtherClientForbidden(t *testing.T) {
	env := newOrderTestEnv(t)
	ownerID := uuid.New()
	product := newCatalogProduct(t, "Grinder", 99.00)
	order := newPlacedOrder(t, ownerID, product, 1)

	env.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	rec := env.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%s", order.ID), env.tokenFor(t, uuid.New(), "ROLE_CLIENT"), nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestOrderHandler_GetByID_Owner(t *testing.T) {
	env := newOrderTestEnv(t)
	ownerID := uuid.New()
	product := newCatalogProduct(t, "Grinder", 99.00)
	order := newPlacedOrder(t, ownerID, product, 1)

	env.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	rec := env.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%s", order.ID), env.tokenFor(t, ownerID, "ROLE_CLIENT"), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), order.ID.String())
}

func TestOrderHandler_GetByID_InvalidID(t *testing.T) {
	env := newOrderTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/orders/not-a-uuid", env.tokenFor(t, uuid.New(), "ROLE_CLIENT"), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "BAD_REQUEST")
}

func TestOrderHandler_List_ClientForbidden(t *testing.T) {
	env := newOrderTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/orders", env.tokenFor(t, uuid.New(), "ROLE_CLIENT"), nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOrderHandler_UpdateStatus_InvalidTransition(t *testing.T) {
	env := newOrderTestEnv(t)
	adminID := uuid.New()
	product := newCatalogProduct(t, "Kettle", 39.00)
	order := newPlacedOrder(t, uuid.New(), product, 1)

	env.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	body := gin.H{"status": "SHIPPED"}
	rec := env.do(http.MethodPut, fmt.Sprintf("/api/v1/orders/%s/status", order.ID), env.tokenFor(t, adminID, "ROLE_ADMIN"), body)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_STATUS_TRANSITION")
	env.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_Pay_Owner(t *testing.T) {
	env := newOrderTestEnv(t)
	ownerID := uuid.New()
	product := newCatalogProduct(t, "Kettle", 39.00)
	order := newPlacedOrder(t, ownerID, product, 1)

	env.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	env.orderRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*ordering.Order"), 1).Return(nil)

	rec := env.do(http.MethodPost, fmt.Sprintf("/api/v1/orders/%s/pay", order.ID), env.tokenFor(t, ownerID, "ROLE_CLIENT"), nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"PAID"`)
	env.orderRepo.AssertExpectations(t)
}

func TestOrderHandler_Delete_AdminOnly(t *testing.T) {
	env := newOrderTestEnv(t)
	orderID := uuid.New()

	env.orderRepo.On("ExistsByID", mock.Anything, orderID).Return(true, nil)
	env.orderRepo.On("Delete", mock.Anything, orderID).Return(nil)

	rec := env.do(http.MethodDelete, fmt.Sprintf("/api/v1/orders/%s", orderID), env.tokenFor(t, uuid.New(), "ROLE_ADMIN"), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

var _ ordering.OrderRepository = (*MockOrderRepository)(nil)
var _ catalog.ProductRepository = (*MockProductRepository)(nil)
