package ordering

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderService handles order business operations.
// Every operation takes the authenticated principal explicitly and
// enforces the self-or-admin policy before touching state.
type OrderService struct {
	orderRepo   ordering.OrderRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo ordering.OrderRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// List returns all orders, newest first. Admin only.
func (s *OrderService) List(ctx context.Context, principal identity.Principal) ([]OrderResponse, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// ListMine returns the caller's own orders, newest first
func (s *OrderService) ListMine(ctx context.Context, principal identity.Principal) ([]OrderResponse, error) {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.FindByClientID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// GetByID retrieves an order. The order is loaded first so ownership can
// be checked against the stored client: a client asking for another
// user's existing order gets forbidden, not a not-found.
func (s *OrderService) GetByID(ctx context.Context, principal identity.Principal, orderID uuid.UUID) (*OrderResponse, error) {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireSelfOrAdmin(principal, order.ClientID); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Place creates a new order for the caller. Product prices are read from
// the catalog once and snapshotted into the line items; duplicate
// products in the request merge into a single line.
func (s *OrderService) Place(ctx context.Context, principal identity.Principal, req PlaceOrderRequest) (*OrderResponse, error) {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError().Add("items", "order must contain at least one item")
	}

	order, err := ordering.NewOrder(principal.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.fillItems(ctx, order, req.Items); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("client_id", order.ClientID.String()),
		zap.Int("items", len(order.Items)),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

// Update reworks an order's line items, replacing the stored set with the
// requested one and re-snapshotting prices from the current catalog. The
// client and status are preserved; an optional status transition in the
// same request goes through the status machine. Admin only.
func (s *OrderService) Update(ctx context.Context, principal identity.Principal, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError().Add("items", "order must contain at least one item")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	expectedVersion := order.GetVersion()

	if err := order.ReplaceItems(); err != nil {
		return nil, err
	}
	if err := s.fillItems(ctx, order, req.Items); err != nil {
		return nil, err
	}

	if req.Status != nil {
		if err := s.transition(order, ordering.OrderStatus(*req.Status)); err != nil {
			return nil, err
		}
	} else {
		order.IncrementVersion()
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.Info("Order updated",
		zap.String("order_id", order.ID.String()),
		zap.Int("items", len(order.Items)),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateStatus transitions an order along the status machine. Admin only.
func (s *OrderService) UpdateStatus(ctx context.Context, principal identity.Principal, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	if err := identity.RequireAdmin(principal); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	expectedVersion := order.GetVersion()

	if err := s.transition(order, ordering.OrderStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.Info("Order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

// Pay marks the caller's order as paid. Self or admin.
func (s *OrderService) Pay(ctx context.Context, principal identity.Principal, orderID uuid.UUID) (*OrderResponse, error) {
	if err := identity.RequireAuthenticated(principal); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireSelfOrAdmin(principal, order.ClientID); err != nil {
		return nil, err
	}
	expectedVersion := order.GetVersion()

	if err := order.MarkPaid(time.Now()); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.Info("Order paid", zap.String("order_id", order.ID.String()))

	response := ToOrderResponse(order)
	return &response, nil
}

// Delete removes an order. Admin only. Orders referenced by a payment
// record surface an integrity conflict from the store.
func (s *OrderService) Delete(ctx context.Context, principal identity.Principal, orderID uuid.UUID) error {
	if err := identity.RequireAdmin(principal); err != nil {
		return err
	}

	exists, err := s.orderRepo.ExistsByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}

	s.logger.Info("Order deleted", zap.String("order_id", orderID.String()))
	return nil
}

// fillItems resolves the requested products and adds snapshot-priced
// lines to the order. A missing product fails the whole request.
func (s *OrderService) fillItems(ctx context.Context, order *ordering.Order, inputs []OrderItemInput) error {
	ids := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]struct{}, len(inputs))
	for _, in := range inputs {
		if _, ok := seen[in.ProductID]; ok {
			continue
		}
		seen[in.ProductID] = struct{}{}
		ids = append(ids, in.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, in := range inputs {
		product, ok := byID[in.ProductID]
		if !ok {
			return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product %s not found", in.ProductID))
		}
		if err := order.AddItem(product.ID, product.Name, product.UnitPrice(), in.Quantity); err != nil {
			return err
		}
	}

	return nil
}

func (s *OrderService) transition(order *ordering.Order, target ordering.OrderStatus) error {
	if target == ordering.OrderStatusPaid {
		return order.MarkPaid(time.Now())
	}
	return order.TransitionTo(target)
}
