package migrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kitchen_display/internal/database"
	"kitchen_display/internal/models"
	"kitchen_display/internal/repository"
	"kitchen_display/internal/services"

	"github.com/MonkyMars/gecho"
	"gorm.io/gorm"
)

const (
	DemoManagerUsername = "manager"
	DemoManagerPassword = "kitchen123"
)

// RunMigrations brings the schema up to date. It never drops tables.
func RunMigrations(db *gorm.DB, logger *gecho.Logger) error {
	logger.Info("Running database migrations...")

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedDemoData creates a demo restaurant with a manager, one branch, menu
// and a couple of open orders. It is a no-op once the demo manager exists.
func SeedDemoData(ctx context.Context, db *gorm.DB, timezone string, logger *gecho.Logger) error {
	userRepo := repository.NewUserRepository(db)

	existing, err := userRepo.GetByUsername(ctx, DemoManagerUsername)
	if err == nil && existing != nil {
		logger.Info("Demo data already exists", gecho.Field("manager_id", existing.ID))
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up demo manager: %w", err)
	}

	logger.Info("Creating demo data...")
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createDefaultData(ctx, tx, timezone, logger)
	})
}

func createDefaultData(ctx context.Context, tx *gorm.DB, timezone string, logger *gecho.Logger) error {
	hash, err := services.HashPassword(DemoManagerPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	manager := &models.User{
		Username:     DemoManagerUsername,
		Email:        "manager@kitchen.local",
		PasswordHash: hash,
		Role:         string(models.Manager),
		IsActive:     true,
	}
	if err := repository.NewUserRepository(tx).Create(ctx, manager); err != nil {
		return fmt.Errorf("failed to create demo manager: %w", err)
	}

	restaurant := &models.Restaurant{Name: "Quán Phở Hà Nội", ManagerID: manager.ID}
	if err := tx.Create(restaurant).Error; err != nil {
		return fmt.Errorf("failed to create demo restaurant: %w", err)
	}
	branch := &models.Branch{RestaurantID: restaurant.ID, Name: "Hoàn Kiếm", Timezone: timezone}
	if err := tx.Create(branch).Error; err != nil {
		return fmt.Errorf("failed to create demo branch: %w", err)
	}

	tables := make([]models.Table, 4)
	for i := range tables {
		tables[i] = models.Table{BranchID: branch.ID, Name: fmt.Sprintf("Bàn %d", i+1)}
	}
	if err := tx.Create(&tables).Error; err != nil {
		return fmt.Errorf("failed to create demo tables: %w", err)
	}

	food := &models.Category{Name: "Món chính"}
	drinks := &models.Category{Name: "Đồ uống"}
	if err := tx.Create(food).Error; err != nil {
		return err
	}
	if err := tx.Create(drinks).Error; err != nil {
		return err
	}

	products := []models.Product{
		{Name: "Phở bò tái", CategoryID: food.ID},
		{Name: "Bún chả", CategoryID: food.ID},
		{Name: "Trà đá", CategoryID: drinks.ID},
		{Name: "Cà phê sữa đá", CategoryID: drinks.ID},
	}
	if err := tx.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to create demo products: %w", err)
	}

	orders := repository.NewOrderRepository(tx)
	now := time.Now().UTC()
	demo := []*models.Order{
		{
			BranchID:  branch.ID,
			Tables:    tables[:1],
			CreatedAt: now.Add(-10 * time.Minute),
			Items: []models.OrderItem{
				{ProductID: products[0].ID, Quantity: 2},
				{ProductID: products[2].ID, Quantity: 1},
			},
		},
		{
			BranchID:  branch.ID,
			Tables:    tables[1:3],
			Note:      "Ít cay",
			CreatedAt: now.Add(-5 * time.Minute),
			Items: []models.OrderItem{
				{ProductID: products[1].ID, Quantity: 3, Note: "Thêm rau"},
				{ProductID: products[3].ID, Quantity: 2},
			},
		},
	}
	for _, order := range demo {
		order.Status = string(models.OrderPending)
		order.PaymentStatus = string(models.PaymentUnpaid)
		for i := range order.Items {
			order.Items[i].Status = string(models.ItemPending)
			order.Items[i].Version = 1
		}
		if err := orders.Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create demo order: %w", err)
		}
	}

	logger.Info("Demo data created successfully",
		gecho.Field("username", DemoManagerUsername),
		gecho.Field("branch_id", branch.ID))
	return nil
}
