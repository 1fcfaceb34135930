// Package counts polls the badge numbers shown on the admin tabs.
//
// The poller only runs while the admin panel is visible: Start when the
// screen becomes active, Stop when it goes away. Context cancellation is
// the only stop mechanism.
package counts

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okuznetsova/newsdesk/internal/api"
	"github.com/okuznetsova/newsdesk/internal/logging"
	"github.com/okuznetsova/newsdesk/internal/model"
)

// DefaultInterval is the poll period when the config does not say otherwise.
const DefaultInterval = 20 * time.Second

// Notify receives each successfully fetched set of counts.
// Called from the poller goroutine.
type Notify func(model.Counts)

// Poller periodically refetches the pending/trash/archive counts.
type Poller struct {
	client   *api.Client
	interval time.Duration
	notify   Notify

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPoller creates a poller. interval <= 0 uses DefaultInterval.
func NewPoller(client *api.Client, interval time.Duration, notify Notify) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{client: client, interval: interval, notify: notify}
}

// SetNotify installs the delivery callback. The UI program does not exist
// yet when the poller is constructed, so wiring happens late.
func (p *Poller) SetNotify(notify Notify) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notify = notify
}

// Start begins polling: one immediate fetch, then one per interval.
// Calling Start on a running poller restarts it.
func (p *Poller) Start(ctx context.Context) {
	p.Stop()

	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		p.poll(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()
}

// Stop halts polling and waits for the goroutine to exit.
// Safe to call on a poller that was never started.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// poll fetches all three counts concurrently and notifies on success.
// A failed cycle is logged and skipped; the next tick tries again.
func (p *Poller) poll(ctx context.Context) {
	counts, err := p.Fetch(ctx)
	if err != nil {
		logging.Debug("count poll failed", "error", err)
		return
	}
	p.mu.Lock()
	notify := p.notify
	p.mu.Unlock()
	if notify != nil {
		notify(counts)
	}
}

// Fetch retrieves the three badge counts in parallel.
// Exported so the UI can trigger a one-shot refresh outside the poll loop.
func (p *Poller) Fetch(ctx context.Context) (model.Counts, error) {
	var pending, trash, archive model.CountResponse

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.client.Get(ctx, "/admin/pending-news/count", &pending) })
	g.Go(func() error { return p.client.Get(ctx, "/admin/trash/count", &trash) })
	g.Go(func() error { return p.client.Get(ctx, "/admin/archive/count", &archive) })

	if err := g.Wait(); err != nil {
		return model.Counts{}, err
	}
	return model.Counts{
		Pending: pending.Count,
		Trash:   trash.Count,
		Archive: archive.Count,
	}, nil
}
