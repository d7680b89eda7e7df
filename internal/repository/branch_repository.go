package repository

import (
	"context"

	"kitchen_display/internal/models"

	"gorm.io/gorm"
)

type BranchRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Branch, error)
	IsManagedBy(ctx context.Context, branchID, userID uint) (bool, error)
}

type branchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) GetByID(ctx context.Context, id uint) (*models.Branch, error) {
	var branch models.Branch
	err := r.db.WithContext(ctx).First(&branch, id).Error
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

// IsManagedBy reports whether userID manages the restaurant owning branchID.
func (r *branchRepository) IsManagedBy(ctx context.Context, branchID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Branch{}).
		Joins("JOIN restaurants ON restaurants.id = branches.restaurant_id").
		Where("branches.id = ? AND restaurants.manager_id = ?", branchID, userID).
		Count(&count).Error
	return count > 0, err
}
