package services

import (
	"context"
	"time"

	"kitchen_display/internal/models"
	"kitchen_display/internal/repository"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) WithTx(tx *gorm.DB) repository.OrderRepository { return m }

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) LockByID(ctx context.Context, id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockOrderRepository) GetLiveByBranch(ctx context.Context, branchID uint, start, end time.Time) ([]models.Order, error) {
	args := m.Called(branchID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) MarkCompleted(ctx context.Context, id uint) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) WithTx(tx *gorm.DB) repository.OrderItemRepository { return m }

func (m *MockOrderItemRepository) GetByID(ctx context.Context, id uint) (*models.OrderItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderItem), args.Error(1)
}

func (m *MockOrderItemRepository) UpdateStatus(ctx context.Context, id uint, status models.ItemStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockOrderItemRepository) UpdateStatusIfVersion(ctx context.Context, id, version uint, status models.ItemStatus) (bool, error) {
	args := m.Called(id, version, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderItemRepository) CountUnresolved(ctx context.Context, orderID uint) (int64, error) {
	args := m.Called(orderID)
	return args.Get(0).(int64), args.Error(1)
}

type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) GetByID(ctx context.Context, id uint) (*models.Branch, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Branch), args.Error(1)
}

func (m *MockBranchRepository) IsManagedBy(ctx context.Context, branchID, userID uint) (bool, error) {
	args := m.Called(branchID, userID)
	return args.Bool(0), args.Error(1)
}
