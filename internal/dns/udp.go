// =============================================================================
// internal/dns/udp.go - Raw UDP transport adapter
// =============================================================================
package dns

import (
	"net"
	"strings"
	"time"
)

const (
	udpPort = "53"
	// maxUDPResponse is the classic DNS/UDP message ceiling; this tool does
	// not negotiate EDNS0, so servers will not send larger replies.
	maxUDPResponse = 512
)

// ResolveUDP sends a single A query to server over UDP port 53 and waits up
// to timeout for one reply. The reply's transaction id must match the
// query's; a mismatched datagram is rejected as an invalid response rather
// than accepted blindly. Latency spans from send to decode completion.
func ResolveUDP(domain, server string, timeout time.Duration) Result {
	start := time.Now()

	q, err := BuildQuery(domain)
	if err != nil {
		return failedResult(domain, errorStatus(err), start)
	}

	// Ensure the server has a port; bare addresses get the DNS default.
	if !strings.Contains(server, ":") {
		server = net.JoinHostPort(server, udpPort)
	}

	conn, err := net.DialTimeout("udp", server, timeout)
	if err != nil {
		return failedResult(domain, errorStatus(err), start)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return failedResult(domain, errorStatus(err), start)
	}
	if _, err := conn.Write(q.Wire); err != nil {
		return failedResult(domain, errorStatus(err), start)
	}

	buf := make([]byte, maxUDPResponse)
	n, err := conn.Read(buf)
	if err != nil {
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			return failedResult(domain, StatusTimeout, start)
		}
		return failedResult(domain, errorStatus(err), start)
	}
	data := buf[:n]

	if id, err := ResponseID(data); err != nil || id != q.ID {
		return failedResult(domain, StatusInvalidResponse, start)
	}

	parsed := ParseResponse(data)
	result := Result{
		Domain:    domain,
		Status:    parsed.Status,
		LatencyMs: msSince(start),
		Timestamp: time.Now().UTC(),
	}
	if parsed.Status.IsSuccess() {
		ttl := parsed.TTL
		result.IP = parsed.IP
		result.TTL = &ttl
	}
	return result
}
