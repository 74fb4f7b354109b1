package services

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// CheckoutPoller confirms pending checkouts on a fixed interval and expires
// the ones that outlived their TTL.
type CheckoutPoller struct {
	svc      CheckoutServiceInterface
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewCheckoutPoller(svc CheckoutServiceInterface, interval time.Duration) *CheckoutPoller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &CheckoutPoller{svc: svc, interval: interval}
}

// Start is a no-op when the poller is already running.
func (p *CheckoutPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.loop(runCtx, p.done)
	slog.Info("checkout poller started", "interval", p.interval)
	return nil
}

func (p *CheckoutPoller) Stop(ctx context.Context) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		slog.Info("checkout poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *CheckoutPoller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *CheckoutPoller) tick(ctx context.Context) {
	if _, err := p.svc.PollOnce(ctx); err != nil && ctx.Err() == nil {
		slog.Warn("poll checkouts failed", "error", err)
	}
	if _, err := p.svc.ExpireStale(ctx); err != nil && ctx.Err() == nil {
		slog.Warn("expire checkouts failed", "error", err)
	}
}
