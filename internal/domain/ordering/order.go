package ordering

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusAwaitingPayment OrderStatus = "AWAITING_PAYMENT"
	OrderStatusPaid            OrderStatus = "PAID"
	OrderStatusShipped         OrderStatus = "SHIPPED"
	OrderStatusDelivered       OrderStatus = "DELIVERED"
	OrderStatusCanceled        OrderStatus = "CANCELED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusAwaitingPayment, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCanceled
}

// CanTransitionTo checks if the status can transition to the target status.
// Orders move forward through the payment and fulfillment pipeline and can
// be canceled from any state before delivery.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusAwaitingPayment:
		return target == OrderStatusPaid || target == OrderStatusCanceled
	case OrderStatusPaid:
		return target == OrderStatusShipped || target == OrderStatusCanceled
	case OrderStatusShipped:
		return target == OrderStatusDelivered || target == OrderStatusCanceled
	case OrderStatusDelivered, OrderStatusCanceled:
		return false // Terminal states
	}
	return false
}

// OrderItem represents a line item in an order.
// UnitPrice is a snapshot of the product price taken when the item was
// added; later catalog price changes never alter it.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrderItem creates a new order item with a price snapshot
func NewOrderItem(orderID, productID uuid.UUID, productName string, unitPrice valueobject.Money, quantity int) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice.Amount().Round(2),
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Subtotal returns quantity times the snapshotted unit price
func (i *OrderItem) Subtotal() valueobject.Money {
	return valueobject.NewMoneyUSD(i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// Payment records that an order has been paid.
// The payments table restricts deletion of the order it references.
type Payment struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	PaidAt    time.Time
	CreatedAt time.Time
}

// Order represents a customer order aggregate root.
// It owns its line items and the payment record, and enforces the
// status machine on every transition.
type Order struct {
	shared.BaseAggregateRoot
	ClientID uuid.UUID
	Status   OrderStatus
	PlacedAt time.Time
	Items    []OrderItem
	Payment  *Payment
}

// NewOrder creates a new order awaiting payment for the given client
func NewOrder(clientID uuid.UUID) (*Order, error) {
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientID:          clientID,
		Status:            OrderStatusAwaitingPayment,
		PlacedAt:          time.Now(),
		Items:             make([]OrderItem, 0),
	}, nil
}

// AddItem adds a line item snapshotting the given price. Adding a product
// already present in the order merges into the existing line by summing
// quantities; the original snapshot price is kept.
func (o *Order) AddItem(productID uuid.UUID, productName string, unitPrice valueobject.Money, quantity int) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify items of a closed order")
	}

	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			if quantity <= 0 {
				return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
			}
			o.Items[idx].Quantity += quantity
			o.Items[idx].UpdatedAt = time.Now()
			return nil
		}
	}

	item, err := NewOrderItem(o.ID, productID, productName, unitPrice, quantity)
	if err != nil {
		return err
	}
	o.Items = append(o.Items, *item)
	return nil
}

// ReplaceItems discards the current item set. New lines are added with
// AddItem afterwards, re-snapshotting prices from the current catalog.
func (o *Order) ReplaceItems() error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify items of a closed order")
	}
	o.Items = make([]OrderItem, 0)
	return nil
}

// Total sums the subtotals of all line items
func (o *Order) Total() valueobject.Money {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(o.Items[i].Quantity))))
	}
	return valueobject.NewMoneyUSD(total)
}

// HasItems reports whether the order carries at least one line item
func (o *Order) HasItems() bool {
	return len(o.Items) > 0
}

// TransitionTo moves the order to the target status, rejecting illegal edges
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	o.Status = target
	o.Touch()
	o.IncrementVersion()

	return nil
}

// MarkPaid transitions the order to PAID and records the payment
func (o *Order) MarkPaid(paidAt time.Time) error {
	if err := o.TransitionTo(OrderStatusPaid); err != nil {
		return err
	}

	o.Payment = &Payment{
		ID:        uuid.New(),
		OrderID:   o.ID,
		PaidAt:    paidAt,
		CreatedAt: time.Now(),
	}

	return nil
}

// Cancel transitions the order to CANCELED
func (o *Order) Cancel() error {
	return o.TransitionTo(OrderStatusCanceled)
}

// IsOwnedBy reports whether the given user placed this order
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.ClientID == userID
}
