// =============================================================================
// internal/dns/system.go - Host stub-resolver adapter
// =============================================================================
package dns

import (
	"context"
	"errors"
	"net"
	"time"
)

// ResolveSystem resolves domain through the host's stub resolver. The stub
// interface exposes no TTL, so a successful result carries an address only.
func ResolveSystem(ctx context.Context, domain string, timeout time.Duration) Result {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", domain)
	if err != nil {
		return failedResult(domain, systemStatus(err), start)
	}
	if len(ips) == 0 {
		return failedResult(domain, StatusNoAnswer, start)
	}

	return Result{
		Domain:    domain,
		IP:        ips[0].String(),
		Status:    StatusNoError,
		LatencyMs: msSince(start),
		Timestamp: time.Now().UTC(),
	}
}

// systemStatus maps a stub-resolver failure onto the status taxonomy.
func systemStatus(err error) Status {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		switch {
		case dnsErr.IsTimeout:
			return StatusTimeout
		case dnsErr.IsNotFound:
			return StatusNxDomain
		}
	}
	return errorStatus(err)
}
