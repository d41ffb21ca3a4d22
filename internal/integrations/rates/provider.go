package rates

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Dan9191/finpyme/internal/scheduler"
	"github.com/sirupsen/logrus"
)

// Fetcher returns a full snapshot of quotes
type Fetcher interface {
	Fetch(ctx context.Context) Snapshot
}

// Provider keeps the process-wide current snapshot. The snapshot is swapped
// as a whole value on every refresh and never mutated in place.
type Provider struct {
	fetcher Fetcher
	current atomic.Pointer[Snapshot]
	timeout time.Duration
	log     *logrus.Logger
}

// NewProvider creates a provider seeded with the fallback snapshot
func NewProvider(fetcher Fetcher, log *logrus.Logger) *Provider {
	p := &Provider{fetcher: fetcher, timeout: 15 * time.Second, log: log}
	initial := DefaultSnapshot()
	p.current.Store(&initial)
	return p
}

// Current returns the latest snapshot
func (p *Provider) Current() Snapshot {
	return *p.current.Load()
}

// Refresh fetches new quotes and replaces the current snapshot
func (p *Provider) Refresh(ctx context.Context) Snapshot {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	snap := p.fetcher.Fetch(ctx)
	p.current.Store(&snap)
	p.log.Infof("Rates refreshed: oficial=%.2f blue=%.2f mep=%.2f", snap.Oficial, snap.Blue, snap.MEP)
	return snap
}

// Start refreshes once and then on every interval. The returned function
// stops the polling.
func (p *Provider) Start(s scheduler.Scheduler, interval time.Duration) scheduler.CancelFunc {
	p.Refresh(context.Background())
	return s.Schedule(interval, func() {
		p.Refresh(context.Background())
	})
}
