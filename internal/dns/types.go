// =============================================================================
// internal/dns/types.go - Core resolution data structures
// =============================================================================
package dns

import (
	"fmt"
	"time"
)

// Status classifies the outcome of a single resolution attempt. Every
// adapter reduces its outcome, including unexpected faults, to exactly one
// status; callers inspect results instead of handling raised errors.
type Status string

const (
	StatusNoError         Status = "NOERROR"
	StatusNoAnswer        Status = "NO_ANSWER"
	StatusNxDomain        Status = "NXDOMAIN"
	StatusServFail        Status = "SERVFAIL"
	StatusFormErr         Status = "FORMERR"
	StatusNotImp          Status = "NOTIMP"
	StatusRefused         Status = "REFUSED"
	StatusTimeout         Status = "TIMEOUT"
	StatusInvalidResponse Status = "INVALID_RESPONSE"
	StatusParseError      Status = "PARSE_ERROR"
	StatusUnknownResolver Status = "UNKNOWN_RESOLVER"
)

// IsSuccess reports whether the status denotes a resolved address.
func (s Status) IsSuccess() bool {
	return s == StatusNoError
}

// errorStatus wraps an unexpected transport or system fault.
func errorStatus(err error) Status {
	return Status(fmt.Sprintf("ERROR: %v", err))
}

// dohErrorStatus wraps a DoH transport or JSON-parse fault.
func dohErrorStatus(err error) Status {
	return Status(fmt.Sprintf("DOH_ERROR: %v", err))
}

// dohStatus maps a non-zero Status field of a DoH JSON response.
func dohStatus(code int) Status {
	return Status(fmt.Sprintf("DOH_ERROR_%d", code))
}

// TargetKind selects the transport adapter serving a resolver target.
type TargetKind string

const (
	TargetUDP    TargetKind = "udp"
	TargetDoH    TargetKind = "doh"
	TargetSystem TargetKind = "system"
)

// Target is a single named resolution target. Targets are immutable once
// the registry holding them is built.
type Target struct {
	Name    string     `json:"name"`
	Kind    TargetKind `json:"kind"`
	Address string     `json:"address,omitempty"` // UDP server IP, port 53 implied
	URL     string     `json:"url,omitempty"`     // DoH endpoint
}

// Result is the outcome of one (domain, resolver) resolution attempt.
// IP is set if and only if Status is NOERROR; TTL is set only alongside
// an IP (the system stub reports no TTL, so a nil TTL with an IP is valid).
type Result struct {
	Domain    string    `json:"domain"`
	Resolver  string    `json:"resolver"`
	IP        string    `json:"ip,omitempty"`
	TTL       *uint32   `json:"ttl,omitempty"`
	Status    Status    `json:"status"`
	LatencyMs float64   `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// ReasonIPChanged tags a ChangeEvent raised because a resolver started
// returning a different address for a domain.
const ReasonIPChanged = "IP_CHANGED"

// ChangeEvent records a detected change in the address a resolver returns
// for a domain. Events are append-only and never mutated after creation.
type ChangeEvent struct {
	Domain    string    `json:"domain"`
	Resolver  string    `json:"resolver"`
	OldIP     string    `json:"old_ip"`
	NewIP     string    `json:"new_ip"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// failedResult builds a Result for an attempt that produced no address.
func failedResult(domain string, status Status, start time.Time) Result {
	return Result{
		Domain:    domain,
		Status:    status,
		LatencyMs: msSince(start),
		Timestamp: time.Now().UTC(),
	}
}

// msSince returns the wall-clock span since start in milliseconds.
func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
