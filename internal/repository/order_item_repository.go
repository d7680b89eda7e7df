package repository

import (
	"context"

	"kitchen_display/internal/models"

	"gorm.io/gorm"
)

type OrderItemRepository interface {
	WithTx(tx *gorm.DB) OrderItemRepository
	GetByID(ctx context.Context, id uint) (*models.OrderItem, error)
	UpdateStatus(ctx context.Context, id uint, status models.ItemStatus) error
	UpdateStatusIfVersion(ctx context.Context, id, version uint, status models.ItemStatus) (bool, error)
	CountUnresolved(ctx context.Context, orderID uint) (int64, error)
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) WithTx(tx *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: tx}
}

func (r *orderItemRepository) GetByID(ctx context.Context, id uint) (*models.OrderItem, error) {
	var orderItem models.OrderItem
	err := r.db.WithContext(ctx).First(&orderItem, id).Error
	if err != nil {
		return nil, err
	}
	return &orderItem, nil
}

// UpdateStatus writes unconditionally; the last writer wins.
func (r *orderItemRepository) UpdateStatus(ctx context.Context, id uint, status models.ItemStatus) error {
	result := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  string(status),
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStatusIfVersion writes only if the row still carries version. It
// reports false when another writer got there first.
func (r *orderItemRepository) UpdateStatusIfVersion(ctx context.Context, id, version uint, status models.ItemStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]interface{}{
			"status":  string(status),
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountUnresolved counts the order's items that are neither served nor cancelled.
func (r *orderItemRepository) CountUnresolved(ctx context.Context, orderID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("order_id = ? AND status NOT IN ?", orderID,
			[]string{string(models.ItemServed), string(models.ItemCancelled)}).
		Count(&count).Error
	return count, err
}
