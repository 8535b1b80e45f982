// =============================================================================
// internal/monitor/monitor.go - Periodic resolution sweeps
// =============================================================================
package monitor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bryanCE/dnspector/internal/dns"
)

// Resolver is the orchestration entry point the monitor drives.
type Resolver interface {
	ResolveAll(ctx context.Context, domain string, names ...string) map[string]dns.Result
}

// Monitor repeatedly sweeps a set of domains across the resolver registry
// and feeds every result through the change tracker.
type Monitor struct {
	resolver Resolver
	tracker  *Tracker
}

// New creates a monitor resolving through resolver and recording into store.
func New(resolver Resolver, store Store) *Monitor {
	return &Monitor{
		resolver: resolver,
		tracker:  NewTracker(store),
	}
}

// Tracker exposes the monitor's change tracker for one-shot callers that
// want their results recorded outside a sweep.
func (m *Monitor) Tracker() *Tracker {
	return m.tracker
}

// Sweep resolves every domain once across the default target set, records
// all results, and returns the change events raised.
func (m *Monitor) Sweep(ctx context.Context, domains []string) []dns.ChangeEvent {
	var events []dns.ChangeEvent
	for _, domain := range domains {
		results := m.resolver.ResolveAll(ctx, domain)
		for _, result := range results {
			entry := dns.Log.WithFields(logrus.Fields{
				"domain":   result.Domain,
				"resolver": result.Resolver,
				"status":   result.Status,
			})

			switch {
			case result.Status == dns.StatusTimeout:
				entry.Warn("resolution timed out")
			case result.Status == dns.StatusNxDomain || result.Status == dns.StatusServFail:
				entry.Warn("server reported an error")
			case !result.Status.IsSuccess():
				entry.Warn("no usable answer")
			}

			event, err := m.tracker.Observe(ctx, result)
			if err != nil {
				entry.WithError(err).Error("failed to record result")
				continue
			}
			if event != nil {
				events = append(events, *event)
				entry.WithFields(logrus.Fields{
					"old_ip": event.OldIP,
					"new_ip": event.NewIP,
				}).Warn("address changed")
			}
		}
	}
	return events
}

// Run sweeps immediately and then on every interval tick until ctx is done.
// Sweeps run inline on the ticker goroutine, so a sweep outlasting the
// interval delays the next sweep instead of overlapping it.
func (m *Monitor) Run(ctx context.Context, domains []string, interval time.Duration) {
	m.Sweep(ctx, domains)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx, domains)
		}
	}
}
