package handler

import (
	"github.com/gin-gonic/gin"

	orderingapp "github.com/storefront/backend/internal/application/ordering"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderingapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderingapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List returns every order in the system. Admin only.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// ListMine returns the authenticated caller's own orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.orderService.ListMine(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// GetByID returns a single order, visible to its owner or an admin
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Place creates an order for the authenticated caller, snapshotting the
// current price of every requested product
func (h *OrderHandler) Place(c *gin.Context) {
	var req orderingapp.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.Place(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// Update replaces an order's item set and optionally its status. Admin only.
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req orderingapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateStatus moves an order along the status machine. Admin only.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req orderingapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Pay records payment for an order awaiting it, visible to its owner or
// an admin
func (h *OrderHandler) Pay(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	order, err := h.orderService.Pay(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete removes an order. Admin only; paid orders are protected.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
