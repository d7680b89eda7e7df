package services

import (
	"context"
	"errors"
	"fmt"

	"kitchen_display/internal/models"
	"kitchen_display/internal/repository"

	"gorm.io/gorm"
)

// StatusWriter persists one item status change. It decides what happens when
// two stations write the same item at once.
type StatusWriter interface {
	Write(ctx context.Context, items repository.OrderItemRepository, item *models.OrderItem, target models.ItemStatus, expectedVersion *uint) error
	Name() string
}

const (
	LastWriteWins  = "last_write_wins"
	CompareAndSwap = "compare_and_swap"
)

type lastWriteWinsWriter struct{}

// Write ignores versions entirely.
func (lastWriteWinsWriter) Write(ctx context.Context, items repository.OrderItemRepository, item *models.OrderItem, target models.ItemStatus, _ *uint) error {
	err := items.UpdateStatus(ctx, item.ID, target)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrItemNotFound
	}
	return err
}

func (lastWriteWinsWriter) Name() string { return LastWriteWins }

type compareAndSwapWriter struct{}

// Write succeeds only if the row still has the expected version, or the
// version read earlier in the same operation when none was supplied.
func (compareAndSwapWriter) Write(ctx context.Context, items repository.OrderItemRepository, item *models.OrderItem, target models.ItemStatus, expectedVersion *uint) error {
	version := item.Version
	if expectedVersion != nil {
		version = *expectedVersion
	}
	ok, err := items.UpdateStatusIfVersion(ctx, item.ID, version, target)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: expected version %d", ErrVersionConflict, version)
	}
	return nil
}

func (compareAndSwapWriter) Name() string { return CompareAndSwap }

// StatusWriterByName resolves the CONCURRENCY_MODE setting.
func StatusWriterByName(name string) (StatusWriter, error) {
	switch name {
	case "", LastWriteWins:
		return lastWriteWinsWriter{}, nil
	case CompareAndSwap:
		return compareAndSwapWriter{}, nil
	default:
		return nil, fmt.Errorf("unknown concurrency mode %q", name)
	}
}
