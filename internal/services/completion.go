package services

import (
	"context"
	"fmt"

	"kitchen_display/internal/repository"

	"gorm.io/gorm"
)

// CompletionResult keeps the two effects of reconciliation apart so that
// "all food served" and "bill paid" can be decoupled later.
type CompletionResult struct {
	OrderCompleted bool
	PaymentSettled bool
}

// OrderCompleter re-derives an order's lifecycle status from its items.
type OrderCompleter struct {
	orders             repository.OrderRepository
	items              repository.OrderItemRepository
	settleOnCompletion bool
}

func NewOrderCompleter(orders repository.OrderRepository, items repository.OrderItemRepository, settleOnCompletion bool) *OrderCompleter {
	return &OrderCompleter{orders: orders, items: items, settleOnCompletion: settleOnCompletion}
}

func (c *OrderCompleter) WithTx(tx *gorm.DB) *OrderCompleter {
	return &OrderCompleter{
		orders:             c.orders.WithTx(tx),
		items:              c.items.WithTx(tx),
		settleOnCompletion: c.settleOnCompletion,
	}
}

// Reconcile completes the order when none of its items is still in the
// kitchen (everything served or cancelled). Otherwise it writes nothing. The
// order row stays locked until the surrounding transaction ends.
func (c *OrderCompleter) Reconcile(ctx context.Context, orderID uint) (CompletionResult, error) {
	var result CompletionResult

	// Two stations serving the last two items must not both miss the other's write.
	if err := c.orders.LockByID(ctx, orderID); err != nil {
		return result, fmt.Errorf("failed to lock order: %w", err)
	}

	unresolved, err := c.items.CountUnresolved(ctx, orderID)
	if err != nil {
		return result, fmt.Errorf("failed to count unresolved items: %w", err)
	}
	if unresolved > 0 {
		return result, nil
	}

	result.OrderCompleted, err = c.completeOrder(ctx, orderID)
	if err != nil || !result.OrderCompleted {
		return result, err
	}

	result.PaymentSettled, err = c.settlePayment(ctx, orderID)
	return result, err
}

func (c *OrderCompleter) completeOrder(ctx context.Context, orderID uint) (bool, error) {
	completed, err := c.orders.MarkCompleted(ctx, orderID)
	if err != nil {
		return false, fmt.Errorf("failed to complete order: %w", err)
	}
	return completed, nil
}

// settlePayment is the completion-implies-paid business rule.
func (c *OrderCompleter) settlePayment(ctx context.Context, orderID uint) (bool, error) {
	if !c.settleOnCompletion {
		return false, nil
	}
	if err := c.orders.MarkPaid(ctx, orderID); err != nil {
		return false, fmt.Errorf("failed to settle payment: %w", err)
	}
	return true, nil
}
