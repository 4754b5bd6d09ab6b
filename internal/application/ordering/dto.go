package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/ordering"
)

// OrderItemInput represents a requested order line
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// PlaceOrderRequest represents a request to place a new order
type PlaceOrderRequest struct {
	Items []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest represents an admin request to rework an order.
// The item set replaces the stored one wholesale; Status optionally
// moves the order along the status machine in the same call.
type UpdateOrderRequest struct {
	Items  []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	Status *string          `json:"status"`
}

// UpdateOrderStatusRequest represents a request to transition an order
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderItemResponse represents an order line in responses
type OrderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PaymentResponse represents the payment record of a paid order
type PaymentResponse struct {
	ID     uuid.UUID `json:"id"`
	PaidAt time.Time `json:"paid_at"`
}

// OrderResponse represents an order in responses
type OrderResponse struct {
	ID        uuid.UUID           `json:"id"`
	ClientID  uuid.UUID           `json:"client_id"`
	Status    string              `json:"status"`
	PlacedAt  time.Time           `json:"placed_at"`
	Items     []OrderItemResponse `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	Payment   *PaymentResponse    `json:"payment,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Version   int                 `json:"version"`
}

// ToOrderResponse converts an order aggregate to its response DTO
func ToOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal().Amount(),
		}
	}

	var payment *PaymentResponse
	if order.Payment != nil {
		payment = &PaymentResponse{
			ID:     order.Payment.ID,
			PaidAt: order.Payment.PaidAt,
		}
	}

	return OrderResponse{
		ID:        order.ID,
		ClientID:  order.ClientID,
		Status:    string(order.Status),
		PlacedAt:  order.PlacedAt,
		Items:     items,
		Total:     order.Total().Amount(),
		Payment:   payment,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
		Version:   order.GetVersion(),
	}
}

// ToOrderResponses converts a list of orders
func ToOrderResponses(orders []ordering.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
