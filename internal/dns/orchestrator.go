// =============================================================================
// internal/dns/orchestrator.go - Multi-resolver fan-out
// =============================================================================
package dns

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single resolution attempt on any transport.
const DefaultTimeout = 2 * time.Second

// Orchestrator fans a single domain query out across the targets of a
// registry and aggregates one result per target. Targets share no mutable
// state, so each runs in its own goroutine with the shared per-call timeout.
type Orchestrator struct {
	registry *Registry
	timeout  time.Duration
	doh      map[string]*DoHClient
}

// NewOrchestrator wires an orchestrator to a registry. A non-positive
// timeout falls back to DefaultTimeout. DoH clients are created up front
// and reused so connections persist across sweeps.
func NewOrchestrator(registry *Registry, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	doh := make(map[string]*DoHClient)
	for _, name := range registry.NamesOfKind(TargetDoH) {
		target, _ := registry.Get(name)
		doh[name] = NewDoHClient(target.URL)
	}
	return &Orchestrator{
		registry: registry,
		timeout:  timeout,
		doh:      doh,
	}
}

// Registry returns the registry the orchestrator was built with.
func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// ResolveAll queries the named targets concurrently and returns one result
// per name. With no names it queries every UDP and system target. A failing
// target never suppresses its siblings' results.
func (o *Orchestrator) ResolveAll(ctx context.Context, domain string, names ...string) map[string]Result {
	if len(names) == 0 {
		names = o.registry.NamesOfKind(TargetUDP, TargetSystem)
	}

	results := make(map[string]Result, len(names))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			result := o.resolveOne(ctx, domain, name)
			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	return results
}

// CompareTransports benchmarks the raw-UDP targets against the DoH targets
// for the same domain.
func (o *Orchestrator) CompareTransports(ctx context.Context, domain string) map[string]Result {
	return o.ResolveAll(ctx, domain, o.registry.NamesOfKind(TargetUDP, TargetDoH)...)
}

func (o *Orchestrator) resolveOne(ctx context.Context, domain, name string) Result {
	target, ok := o.registry.Get(name)
	if !ok {
		return Result{
			Domain:    domain,
			Resolver:  name,
			Status:    StatusUnknownResolver,
			Timestamp: time.Now().UTC(),
		}
	}

	var result Result
	switch target.Kind {
	case TargetUDP:
		result = ResolveUDP(domain, target.Address, o.timeout)
	case TargetSystem:
		result = ResolveSystem(ctx, domain, o.timeout)
	case TargetDoH:
		result = o.doh[name].Resolve(ctx, domain, o.timeout)
	default:
		result = failedResult(domain, errorStatus(fmt.Errorf("unknown target kind %q", target.Kind)), time.Now())
	}
	result.Resolver = name

	logger(name, domain).WithFields(logrus.Fields{
		"status":     result.Status,
		"ip":         result.IP,
		"latency_ms": result.LatencyMs,
	}).Debug("resolved")
	return result
}
