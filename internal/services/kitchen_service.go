package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kitchen_display/internal/kitchen"
	"kitchen_display/internal/metrics"
	"kitchen_display/internal/models"
	"kitchen_display/internal/repository"
	"kitchen_display/pkg/kds"

	"github.com/MonkyMars/gecho"
	"gorm.io/gorm"
)

// ViewCache stores shaped kitchen views. Keys embed the branch revision, so
// bumping the revision retires every cached view of that branch.
type ViewCache interface {
	BranchRevision(ctx context.Context, branchID uint) (int64, error)
	BumpBranchRevision(ctx context.Context, branchID uint) error
	GetKitchenView(ctx context.Context, key string) ([]kds.OrderView, bool, error)
	SetKitchenView(ctx context.Context, key string, views []kds.OrderView) error
}

type KitchenService interface {
	GetKitchenView(ctx context.Context, query ViewQuery) ([]kds.OrderView, error)
	AdvanceItemStatus(ctx context.Context, req AdvanceRequest) (*AdvanceResult, error)
}

type ViewQuery struct {
	ManagerID  uint
	BranchID   uint
	CategoryID *uint
	// Window overrides the default "today in the branch timezone".
	Window *kitchen.TimeRange
}

type AdvanceRequest struct {
	ManagerID       uint
	ItemID          uint
	Status          string
	ExpectedVersion *uint
}

type AdvanceResult struct {
	Item       *models.OrderItem
	Completion CompletionResult
}

type KitchenOptions struct {
	Policy          kitchen.TransitionPolicy
	Writer          StatusWriter
	Clock           kitchen.Clock
	DefaultLocation *time.Location
	Cache           ViewCache
	Metrics         *metrics.Metrics
}

type kitchenService struct {
	db        *gorm.DB
	orders    repository.OrderRepository
	items     repository.OrderItemRepository
	branches  repository.BranchRepository
	completer *OrderCompleter
	opts      KitchenOptions
	logger    *gecho.Logger
}

func NewKitchenService(
	db *gorm.DB,
	orders repository.OrderRepository,
	items repository.OrderItemRepository,
	branches repository.BranchRepository,
	completer *OrderCompleter,
	opts KitchenOptions,
	logger *gecho.Logger,
) KitchenService {
	if opts.Policy == nil {
		opts.Policy = kitchen.PermissivePolicy()
	}
	if opts.Writer == nil {
		opts.Writer = lastWriteWinsWriter{}
	}
	if opts.Clock == nil {
		opts.Clock = kitchen.SystemClock
	}
	if opts.DefaultLocation == nil {
		opts.DefaultLocation = time.Local
	}
	return &kitchenService{
		db:        db,
		orders:    orders,
		items:     items,
		branches:  branches,
		completer: completer,
		opts:      opts,
		logger:    logger,
	}
}

func (s *kitchenService) GetKitchenView(ctx context.Context, query ViewQuery) ([]kds.OrderView, error) {
	branch, err := s.authorizedBranch(ctx, query.BranchID, query.ManagerID)
	if err != nil {
		return nil, err
	}

	window := kitchen.DayWindow(s.opts.Clock.Now(), kitchen.LoadLocation(branch.Timezone, s.opts.DefaultLocation))
	if query.Window != nil {
		window = *query.Window
	}

	key, cached := s.cachedView(ctx, branch.ID, query.CategoryID, window)
	if cached != nil {
		return cached, nil
	}

	orders, err := s.orders.GetLiveByBranch(ctx, branch.ID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load kitchen orders: %w", err)
	}
	views := kitchen.ShapeOrders(orders, query.CategoryID)

	if key != "" {
		if err := s.opts.Cache.SetKitchenView(ctx, key, views); err != nil {
			s.logger.Warn("Failed to cache kitchen view", gecho.Field("error", err), gecho.Field("branch_id", branch.ID))
		}
	}
	return views, nil
}

// cachedView returns the cache key to fill (empty when caching is off or
// unavailable) and the cached views on a hit.
func (s *kitchenService) cachedView(ctx context.Context, branchID uint, categoryID *uint, window kitchen.TimeRange) (string, []kds.OrderView) {
	if s.opts.Cache == nil {
		return "", nil
	}

	rev, err := s.opts.Cache.BranchRevision(ctx, branchID)
	if err != nil {
		s.logger.Warn("Failed to read branch revision", gecho.Field("error", err), gecho.Field("branch_id", branchID))
		return "", nil
	}
	key := KitchenViewKey(branchID, rev, categoryID, window)

	views, ok, err := s.opts.Cache.GetKitchenView(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to read cached kitchen view", gecho.Field("error", err), gecho.Field("key", key))
		return key, nil
	}
	s.opts.Metrics.CacheLookup(ok)
	if !ok {
		return key, nil
	}
	return key, views
}

// KitchenViewKey names one cached view.
func KitchenViewKey(branchID uint, rev int64, categoryID *uint, window kitchen.TimeRange) string {
	category := "all"
	if categoryID != nil {
		category = fmt.Sprint(*categoryID)
	}
	return fmt.Sprintf("kitchen_view:%d:%d:%s:%d:%d", branchID, rev, category, window.Start.UnixNano(), window.End.UnixNano())
}

func (s *kitchenService) AdvanceItemStatus(ctx context.Context, req AdvanceRequest) (*AdvanceResult, error) {
	target, err := models.ParseItemStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	item, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load order item: %w", err)
	}

	order, err := s.orders.GetByID(ctx, item.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	managed, err := s.branches.IsManagedBy(ctx, order.BranchID, req.ManagerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check branch ownership: %w", err)
	}
	if !managed {
		return nil, ErrItemNotFound
	}

	current := models.ItemStatus(item.Status)
	if !s.opts.Policy.Allow(current, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, target)
	}

	result := &AdvanceResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := s.items.WithTx(tx)
		if err := s.opts.Writer.Write(ctx, items, item, target, req.ExpectedVersion); err != nil {
			return err
		}

		// Only a move to served can finish an order.
		if target == models.ItemServed {
			completion, err := s.completer.WithTx(tx).Reconcile(ctx, item.OrderID)
			if err != nil {
				return err
			}
			result.Completion = completion
		}

		updated, err := items.GetByID(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("failed to reload order item: %w", err)
		}
		result.Item = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.Metrics.ItemTransition(string(target))
	if result.Completion.OrderCompleted {
		s.opts.Metrics.OrderCompleted(result.Completion.PaymentSettled)
		s.logger.Info("Order completed",
			gecho.Field("order_id", item.OrderID),
			gecho.Field("payment_settled", result.Completion.PaymentSettled))
	}

	if s.opts.Cache != nil {
		if err := s.opts.Cache.BumpBranchRevision(ctx, order.BranchID); err != nil {
			s.logger.Warn("Failed to bump branch revision", gecho.Field("error", err), gecho.Field("branch_id", order.BranchID))
		}
	}

	s.logger.Debug("Item status updated",
		gecho.Field("item_id", item.ID),
		gecho.Field("from", current),
		gecho.Field("to", target),
		gecho.Field("version", result.Item.Version))
	return result, nil
}

func (s *kitchenService) authorizedBranch(ctx context.Context, branchID, managerID uint) (*models.Branch, error) {
	managed, err := s.branches.IsManagedBy(ctx, branchID, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check branch ownership: %w", err)
	}
	if !managed {
		return nil, ErrBranchNotFound
	}

	branch, err := s.branches.GetByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("failed to load branch: %w", err)
	}
	return branch, nil
}
