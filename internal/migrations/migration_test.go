package migrations

import (
	"context"
	"testing"
	"time"

	"kitchen_display/internal/database/dbtest"
	"kitchen_display/internal/models"
	"kitchen_display/internal/repository"
	"kitchen_display/internal/services"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoData(t *testing.T) {
	db := dbtest.New(t)
	logger := gecho.NewDefaultLogger()
	ctx := context.Background()

	require.NoError(t, RunMigrations(db, logger))
	require.NoError(t, SeedDemoData(ctx, db, "Asia/Ho_Chi_Minh", logger))
	// Second run is a no-op.
	require.NoError(t, SeedDemoData(ctx, db, "Asia/Ho_Chi_Minh", logger))

	var managers, orders int64
	require.NoError(t, db.Model(&models.User{}).Count(&managers).Error)
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(1), managers)
	assert.Equal(t, int64(2), orders)

	users := repository.NewUserRepository(db)
	auth := services.NewAuthService(users, "secret", time.Hour, logger)
	_, _, err := auth.Login(ctx, DemoManagerUsername, DemoManagerPassword)
	assert.NoError(t, err)

	manager, err := users.GetByUsername(ctx, DemoManagerUsername)
	require.NoError(t, err)
	var branch models.Branch
	require.NoError(t, db.First(&branch).Error)
	managed, err := repository.NewBranchRepository(db).IsManagedBy(ctx, branch.ID, manager.ID)
	require.NoError(t, err)
	assert.True(t, managed)

	live, err := repository.NewOrderRepository(db).GetLiveByBranch(ctx, branch.ID, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, live, 2)
	assert.Len(t, live[1].Tables, 2)
	assert.Equal(t, "Thêm rau", live[1].Items[0].Note)
}
