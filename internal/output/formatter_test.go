package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bryanCE/dnspector/internal/dns"
)

func sampleResults() map[string]dns.Result {
	ttl := uint32(300)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return map[string]dns.Result{
		"google": {
			Domain: "example.com", Resolver: "google", IP: "192.0.2.1",
			TTL: &ttl, Status: dns.StatusNoError, LatencyMs: 12.34, Timestamp: ts,
		},
		"cloudflare": {
			Domain: "example.com", Resolver: "cloudflare",
			Status: dns.StatusTimeout, LatencyMs: 2000, Timestamp: ts,
		},
	}
}

func TestFormatResultsTable(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(FormatTable).FormatResults("example.com", sampleResults(), &buf)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "example.com")
	require.Contains(t, out, "google")
	require.Contains(t, out, "192.0.2.1")
	require.Contains(t, out, "NOERROR")
	require.Contains(t, out, "TIMEOUT")

	// The failed resolver shows a dash, not an empty cell.
	cloudflareLine := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "cloudflare") {
			cloudflareLine = line
		}
	}
	require.Contains(t, cloudflareLine, "-")
}

func TestFormatResultsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(FormatCSV).FormatResults("example.com", sampleResults(), &buf)
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, csvHeaders, rows[0])

	// Rows come out in resolver-name order.
	require.Equal(t, "cloudflare", rows[1][1])
	require.Equal(t, "google", rows[2][1])
	require.Equal(t, "192.0.2.1", rows[2][2])
	require.Equal(t, "300", rows[2][3])
	require.Equal(t, "", rows[1][3]) // no TTL without an address
}

func TestFormatAlertsTable(t *testing.T) {
	var buf bytes.Buffer
	events := []dns.ChangeEvent{{
		Domain:    "example.com",
		Resolver:  "google",
		OldIP:     "192.0.2.1",
		NewIP:     "192.0.2.2",
		Reason:    dns.ReasonIPChanged,
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}}

	err := NewFormatter(FormatTable).FormatAlerts(events, &buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "IP_CHANGED")
	require.Contains(t, buf.String(), "192.0.2.1")
	require.Contains(t, buf.String(), "192.0.2.2")
}

func TestFormatAlertsEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(FormatTable).FormatAlerts(nil, &buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "No alerts recorded.")
}
