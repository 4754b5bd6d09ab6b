package ordering

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items and payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll returns all orders, newest first
	FindAll(ctx context.Context) ([]Order, error)

	// FindByClientID returns all orders placed by a client, newest first
	FindByClientID(ctx context.Context, clientID uuid.UUID) ([]Order, error)

	// Save creates or updates an order together with its items and payment
	// in a single transaction. Items absent from the aggregate are removed.
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves an order using optimistic locking. It fails with a
	// concurrency conflict when the stored version differs from expectedVersion.
	SaveWithLock(ctx context.Context, order *Order, expectedVersion int) error

	// Delete deletes an order and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByID checks if an order exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}
