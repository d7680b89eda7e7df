package repository

import (
	"context"
	"errors"
	"testing"

	"kitchen_display/internal/database/dbtest"
	"kitchen_display/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOrderItemRepository_UpdateStatusBumpsVersion(t *testing.T) {
	db := dbtest.New(t)
	f := dbtest.Seed(t, db)
	ctx := context.Background()
	repo := NewOrderItemRepository(db)

	order := dbtest.CreateOrder(t, db, f.Branch.ID, day, models.OrderPending, nil, dbtest.Item{Product: f.Pho, Quantity: 1})
	itemID := order.Items[0].ID

	require.NoError(t, repo.UpdateStatus(ctx, itemID, models.ItemCooking))
	item, err := repo.GetByID(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, string(models.ItemCooking), item.Status)
	assert.Equal(t, uint(2), item.Version)

	err = repo.UpdateStatus(ctx, 9999, models.ItemCooking)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestOrderItemRepository_UpdateStatusIfVersion(t *testing.T) {
	db := dbtest.New(t)
	f := dbtest.Seed(t, db)
	ctx := context.Background()
	repo := NewOrderItemRepository(db)

	order := dbtest.CreateOrder(t, db, f.Branch.ID, day, models.OrderPending, nil, dbtest.Item{Product: f.Pho, Quantity: 1})
	itemID := order.Items[0].ID

	ok, err := repo.UpdateStatusIfVersion(ctx, itemID, 1, models.ItemCooking)
	require.NoError(t, err)
	assert.True(t, ok)

	// A second writer still holding version 1 loses.
	ok, err = repo.UpdateStatusIfVersion(ctx, itemID, 1, models.ItemReady)
	require.NoError(t, err)
	assert.False(t, ok)

	item, err := repo.GetByID(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, string(models.ItemCooking), item.Status)
}

func TestOrderItemRepository_CountUnresolved(t *testing.T) {
	db := dbtest.New(t)
	f := dbtest.Seed(t, db)
	ctx := context.Background()
	repo := NewOrderItemRepository(db)

	order := dbtest.CreateOrder(t, db, f.Branch.ID, day, models.OrderPending, nil,
		dbtest.Item{Product: f.Pho, Quantity: 1, Status: models.ItemServed},
		dbtest.Item{Product: f.TraDa, Quantity: 1, Status: models.ItemCancelled},
		dbtest.Item{Product: f.BunCha, Quantity: 1, Status: models.ItemReady},
	)

	count, err := repo.CountUnresolved(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.UpdateStatus(ctx, order.Items[2].ID, models.ItemServed))
	count, err = repo.CountUnresolved(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestOrderItemRepository_WithTxRollsBack(t *testing.T) {
	db := dbtest.New(t)
	f := dbtest.Seed(t, db)
	ctx := context.Background()
	repo := NewOrderItemRepository(db)

	order := dbtest.CreateOrder(t, db, f.Branch.ID, day, models.OrderPending, nil, dbtest.Item{Product: f.Pho, Quantity: 1})
	itemID := order.Items[0].ID

	sentinel := errors.New("abort")
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).UpdateStatus(ctx, itemID, models.ItemServed); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	item, err := repo.GetByID(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, string(models.ItemPending), item.Status)
}
