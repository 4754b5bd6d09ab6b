package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items and payment by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		First(&model, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns all orders, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context) ([]ordering.Order, error) {
	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Order("placed_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, mapError(err)
	}
	return toDomainOrders(orderModels), nil
}

// FindByClientID returns all orders placed by a client, newest first
func (r *GormOrderRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]ordering.Order, error) {
	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Where("client_id = ?", clientID).
		Order("placed_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, mapError(err)
	}
	return toDomainOrders(orderModels), nil
}

// Save creates or updates an order together with its items and payment.
// Items absent from the aggregate are removed.
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	model := models.OrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Payment").Save(model).Error; err != nil {
			return err
		}
		return r.saveOrderChildren(tx, model)
	})
	return mapError(err)
}

// SaveWithLock saves an order using optimistic locking. The order's
// version must already be bumped by the domain; expectedVersion is the
// version read before the mutation.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order, expectedVersion int) error {
	model := models.OrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", model.ID, expectedVersion).
			Updates(map[string]interface{}{
				"client_id":  model.ClientID,
				"status":     model.Status,
				"placed_at":  model.PlacedAt,
				"version":    model.Version,
				"updated_at": model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.saveOrderChildren(tx, model)
	})
	return mapError(err)
}

// saveOrderChildren reconciles the items and payment rows with the aggregate
func (r *GormOrderRepository) saveOrderChildren(tx *gorm.DB, model *models.OrderModel) error {
	currentItemIDs := make([]uuid.UUID, len(model.Items))
	for i, item := range model.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", model.ID, currentItemIDs).
			Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", model.ID).
			Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
	}

	for i := range model.Items {
		model.Items[i].OrderID = model.ID
		if err := tx.Save(&model.Items[i]).Error; err != nil {
			return err
		}
	}

	if model.Payment != nil {
		if err := tx.Save(model.Payment).Error; err != nil {
			return err
		}
	}

	return nil
}

// Delete deletes an order and its items. Paid orders are protected by
// the payments foreign key and surface an integrity violation.
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).
			Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.OrderModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	return mapError(err)
}

// ExistsByID checks if an order exists
func (r *GormOrderRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

func toDomainOrders(orderModels []models.OrderModel) []ordering.Order {
	orders := make([]ordering.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders
}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
