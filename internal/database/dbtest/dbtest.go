// Package dbtest provides an in-memory sqlite store with kitchen fixtures
// for repository and service tests.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"kitchen_display/internal/database"
	"kitchen_display/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq int64

// New opens a fresh migrated in-memory database, private to the caller.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:kds_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := database.Open(sqlite.Open(dsn), logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Fixture is a small restaurant: one manager, one other manager, two
// branches, a food and a drink category.
type Fixture struct {
	Manager      models.User
	OtherManager models.User
	Restaurant   models.Restaurant
	Branch       models.Branch
	OtherBranch  models.Branch
	Food         models.Category
	Drinks       models.Category
	Pho          models.Product
	TraDa        models.Product
	BunCha       models.Product
	Table1       models.Table
	Table2       models.Table
}

// Seed inserts the fixture reference data.
func Seed(t testing.TB, db *gorm.DB) *Fixture {
	t.Helper()

	f := &Fixture{
		Manager:      models.User{Username: "manager", Email: "manager@example.com", PasswordHash: "x", Role: string(models.Manager), IsActive: true},
		OtherManager: models.User{Username: "other", Email: "other@example.com", PasswordHash: "x", Role: string(models.Manager), IsActive: true},
		Food:         models.Category{Name: "Món chính"},
		Drinks:       models.Category{Name: "Đồ uống"},
	}
	mustCreate(t, db, &f.Manager)
	mustCreate(t, db, &f.OtherManager)

	f.Restaurant = models.Restaurant{Name: "Quán Phở", ManagerID: f.Manager.ID}
	mustCreate(t, db, &f.Restaurant)
	other := models.Restaurant{Name: "Other", ManagerID: f.OtherManager.ID}
	mustCreate(t, db, &other)

	f.Branch = models.Branch{RestaurantID: f.Restaurant.ID, Name: "Hoàn Kiếm", Timezone: "UTC"}
	mustCreate(t, db, &f.Branch)
	f.OtherBranch = models.Branch{RestaurantID: other.ID, Name: "Elsewhere", Timezone: "UTC"}
	mustCreate(t, db, &f.OtherBranch)

	mustCreate(t, db, &f.Food)
	mustCreate(t, db, &f.Drinks)
	f.Pho = models.Product{Name: "Phở tái", CategoryID: f.Food.ID}
	f.TraDa = models.Product{Name: "Trà đá", CategoryID: f.Drinks.ID}
	f.BunCha = models.Product{Name: "Bún chả", CategoryID: f.Food.ID}
	mustCreate(t, db, &f.Pho)
	mustCreate(t, db, &f.TraDa)
	mustCreate(t, db, &f.BunCha)

	f.Table1 = models.Table{BranchID: f.Branch.ID, Name: "Bàn 1"}
	f.Table2 = models.Table{BranchID: f.Branch.ID, Name: "Bàn 2"}
	mustCreate(t, db, &f.Table1)
	mustCreate(t, db, &f.Table2)
	return f
}

// Item describes one line of an order created with CreateOrder.
type Item struct {
	Product  models.Product
	Quantity int
	Status   models.ItemStatus
}

// CreateOrder inserts an order with its items and tables. createdAt is
// stored in UTC.
func CreateOrder(t testing.TB, db *gorm.DB, branchID uint, createdAt time.Time, status models.OrderStatus, tables []models.Table, items ...Item) *models.Order {
	t.Helper()

	order := &models.Order{
		BranchID:      branchID,
		Status:        string(status),
		PaymentStatus: string(models.PaymentUnpaid),
		CreatedAt:     createdAt.UTC(),
		Tables:        tables,
	}
	for _, it := range items {
		status := it.Status
		if status == "" {
			status = models.ItemPending
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.Product.ID,
			Quantity:  it.Quantity,
			Status:    string(status),
			Version:   1,
		})
	}
	mustCreate(t, db, order)
	return order
}

func mustCreate(t testing.TB, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}
