package kds

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is how often a display re-fetches its board.
const DefaultPollInterval = 10 * time.Second

type ViewFetcher interface {
	FetchKitchenView(ctx context.Context, branchID uint, categoryID *uint) ([]OrderView, error)
}

type ItemAdvancer interface {
	AdvanceItem(ctx context.Context, itemID uint, status Status, expectedVersion *uint) (*AdvanceResponse, error)
}

type PollerConfig struct {
	BranchID   uint
	CategoryID *uint
	Interval   time.Duration
	// OnBoard receives every successfully rebuilt board.
	OnBoard func(Board)
	// OnError receives fetch failures. The previous board stays current.
	OnError func(error)
}

// Poller keeps one display board eventually consistent with the server. It
// replaces the board wholesale on every successful fetch and keeps the last
// good board when a fetch fails.
type Poller struct {
	fetcher ViewFetcher
	cfg     PollerConfig
	refresh chan struct{}

	mu        sync.RWMutex
	board     Board
	fetchedAt time.Time
	hasBoard  bool
}

func NewPoller(fetcher ViewFetcher, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	return &Poller{
		fetcher: fetcher,
		cfg:     cfg,
		refresh: make(chan struct{}, 1),
	}
}

// Run fetches once immediately, then on every tick and on every Refresh,
// until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.sync(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sync(ctx)
		case <-p.refresh:
			p.sync(ctx)
		}
	}
}

// Refresh asks for one out-of-cycle fetch. Requests made while one is
// already queued are coalesced.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Advance changes an item's status and refreshes the board right away so
// the acting station sees its own change without waiting for a tick.
func (p *Poller) Advance(ctx context.Context, advancer ItemAdvancer, itemID uint, status Status, expectedVersion *uint) (*AdvanceResponse, error) {
	resp, err := advancer.AdvanceItem(ctx, itemID, status, expectedVersion)
	if err != nil {
		return nil, err
	}
	p.Refresh()
	return resp, nil
}

// Board returns the last successfully fetched board and when it was fetched.
// ok is false until the first fetch succeeds.
func (p *Poller) Board() (board Board, fetchedAt time.Time, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.board, p.fetchedAt, p.hasBoard
}

func (p *Poller) sync(ctx context.Context) {
	orders, err := p.fetcher.FetchKitchenView(ctx, p.cfg.BranchID, p.cfg.CategoryID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if p.cfg.OnError != nil {
			p.cfg.OnError(err)
		}
		return
	}

	board := BuildBoard(orders)
	p.mu.Lock()
	p.board = board
	p.fetchedAt = time.Now()
	p.hasBoard = true
	p.mu.Unlock()

	if p.cfg.OnBoard != nil {
		p.cfg.OnBoard(board)
	}
}
