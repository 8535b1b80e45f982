// =============================================================================
// internal/monitor/tracker.go - Last-known-address tracking and change detection
// =============================================================================
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/bryanCE/dnspector/internal/dns"
)

// Store is the persistence collaborator the monitor records into. It owns
// all durable state; the tracker only reconciles new results against it.
type Store interface {
	AppendResult(ctx context.Context, result dns.Result) error
	AppendAlert(ctx context.Context, event dns.ChangeEvent) error
	// LastKnownAddress returns the most recent successful address for the
	// (domain, resolver) pair, or "" when the pair has never resolved.
	LastKnownAddress(ctx context.Context, domain, resolver string) (string, error)
	// History returns results for a domain, newest first. An empty resolver
	// matches all resolvers.
	History(ctx context.Context, domain, resolver string, limit int) ([]dns.Result, error)
}

// Tracker reconciles successful resolutions against the last known address
// per (domain, resolver) pair and raises a ChangeEvent when they disagree.
// The read-compare-write per pair is serialized by a per-key mutex; distinct
// pairs never contend.
type Tracker struct {
	store Store

	mu   sync.Mutex
	keys map[string]*sync.Mutex
}

// NewTracker creates a tracker over the given store.
func NewTracker(store Store) *Tracker {
	return &Tracker{
		store: store,
		keys:  make(map[string]*sync.Mutex),
	}
}

// Observe records a resolution result. A successful result whose address
// differs from the pair's last known address additionally raises an
// IP_CHANGED event, appended before the new result overwrites history.
// A first sighting creates history without an event; failed results are
// recorded but never touch history and never raise events.
func (t *Tracker) Observe(ctx context.Context, result dns.Result) (*dns.ChangeEvent, error) {
	if !result.Status.IsSuccess() || result.IP == "" {
		return nil, t.store.AppendResult(ctx, result)
	}

	lock := t.keyLock(result.Domain + "|" + result.Resolver)
	lock.Lock()
	defer lock.Unlock()

	last, err := t.store.LastKnownAddress(ctx, result.Domain, result.Resolver)
	if err != nil {
		return nil, err
	}

	var event *dns.ChangeEvent
	if last != "" && last != result.IP {
		event = &dns.ChangeEvent{
			Domain:    result.Domain,
			Resolver:  result.Resolver,
			OldIP:     last,
			NewIP:     result.IP,
			Reason:    dns.ReasonIPChanged,
			Timestamp: time.Now().UTC(),
		}
		if err := t.store.AppendAlert(ctx, *event); err != nil {
			return nil, err
		}
	}

	if err := t.store.AppendResult(ctx, result); err != nil {
		return event, err
	}
	return event, nil
}

func (t *Tracker) keyLock(key string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.keys[key]
	if !ok {
		lock = &sync.Mutex{}
		t.keys[key] = lock
	}
	return lock
}
