package repository

import (
	"context"
	"time"

	"kitchen_display/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	LockByID(ctx context.Context, id uint) error
	GetLiveByBranch(ctx context.Context, branchID uint, start, end time.Time) ([]models.Order, error)
	MarkCompleted(ctx context.Context, id uint) (bool, error)
	MarkPaid(ctx context.Context, id uint) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// LockByID takes a row lock on the order for the rest of the transaction.
// Concurrent reconciliations of the same order queue behind it.
func (r *orderRepository) LockByID(ctx context.Context, id uint) error {
	var order models.Order
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&order, id).Error
}

// GetLiveByBranch loads the non-cancelled orders created in [start, end),
// oldest first, with items, products and tables attached.
func (r *orderRepository) GetLiveByBranch(ctx context.Context, branchID uint, start, end time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.id ASC")
		}).
		Preload("Items.Product").
		Preload("Tables", func(db *gorm.DB) *gorm.DB {
			return db.Order("tables.id ASC")
		}).
		Where("branch_id = ? AND created_at >= ? AND created_at < ? AND status <> ?",
			branchID, start.UTC(), end.UTC(), string(models.OrderCancelled)).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	return orders, err
}

// MarkCompleted never overrides a cancelled order and never re-completes a
// completed one. It reports whether the order was completed by this call.
func (r *orderRepository) MarkCompleted(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status NOT IN ?", id,
			[]string{string(models.OrderCancelled), string(models.OrderCompleted)}).
		Update("status", string(models.OrderCompleted))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) MarkPaid(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_status", string(models.PaymentPaid)).Error
}
