// =============================================================================
// internal/output/formatter.go - Output formatting for different formats
// =============================================================================
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bryanCE/dnspector/internal/dns"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatCSV   OutputFormat = "csv"
)

// csvHeaders matches the layout of the monitoring CSV export.
var csvHeaders = []string{"Domain", "Resolver", "IP", "TTL", "Status", "Response Time (ms)", "Timestamp"}

// Formatter handles output formatting for different formats
type Formatter struct {
	format OutputFormat
}

// NewFormatter creates a new formatter with the specified format
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{format: format}
}

// FormatResults formats an aggregate of per-resolver results for one domain.
func (f *Formatter) FormatResults(domain string, results map[string]dns.Result, writer io.Writer) error {
	ordered := orderResults(results)
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(writer).Encode(results)
	case FormatCSV:
		return writeResultsCSV(ordered, writer)
	default:
		return formatResultsTable(domain, ordered, writer)
	}
}

// FormatHistory formats stored results, newest first.
func (f *Formatter) FormatHistory(results []dns.Result, writer io.Writer) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(writer).Encode(results)
	case FormatCSV:
		return writeResultsCSV(results, writer)
	default:
		return formatHistoryTable(results, writer)
	}
}

// FormatAlerts formats change events, newest first.
func (f *Formatter) FormatAlerts(events []dns.ChangeEvent, writer io.Writer) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(writer).Encode(events)
	case FormatCSV:
		return writeAlertsCSV(events, writer)
	default:
		return formatAlertsTable(events, writer)
	}
}

func formatResultsTable(domain string, results []dns.Result, writer io.Writer) error {
	fmt.Fprintf(writer, "🔍 Resolution results for %s\n\n", domain)

	table := NewTable([]string{"Resolver", "IP", "TTL", "Status", "Latency (ms)"})
	for _, result := range results {
		table.AddRow([]string{
			result.Resolver,
			orDash(result.IP),
			ttlString(result.TTL),
			string(result.Status),
			fmt.Sprintf("%.2f", result.LatencyMs),
		})
	}
	return table.Render(writer)
}

func formatHistoryTable(results []dns.Result, writer io.Writer) error {
	if len(results) == 0 {
		fmt.Fprintln(writer, "No history recorded.")
		return nil
	}

	table := NewTable([]string{"Timestamp", "Domain", "Resolver", "IP", "TTL", "Status", "Latency (ms)"})
	for _, result := range results {
		table.AddRow([]string{
			result.Timestamp.Format(time.DateTime),
			result.Domain,
			result.Resolver,
			orDash(result.IP),
			ttlString(result.TTL),
			string(result.Status),
			fmt.Sprintf("%.2f", result.LatencyMs),
		})
	}
	return table.Render(writer)
}

func formatAlertsTable(events []dns.ChangeEvent, writer io.Writer) error {
	if len(events) == 0 {
		fmt.Fprintln(writer, "No alerts recorded.")
		return nil
	}

	table := NewTable([]string{"Timestamp", "Domain", "Resolver", "Old IP", "New IP", "Reason"})
	for _, event := range events {
		table.AddRow([]string{
			event.Timestamp.Format(time.DateTime),
			event.Domain,
			event.Resolver,
			orDash(event.OldIP),
			orDash(event.NewIP),
			event.Reason,
		})
	}
	return table.Render(writer)
}

func writeResultsCSV(results []dns.Result, writer io.Writer) error {
	w := csv.NewWriter(writer)
	if err := w.Write(csvHeaders); err != nil {
		return err
	}
	for _, result := range results {
		row := []string{
			result.Domain,
			result.Resolver,
			result.IP,
			ttlCSV(result.TTL),
			string(result.Status),
			fmt.Sprintf("%.2f", result.LatencyMs),
			result.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeAlertsCSV(events []dns.ChangeEvent, writer io.Writer) error {
	w := csv.NewWriter(writer)
	if err := w.Write([]string{"Domain", "Resolver", "Old IP", "New IP", "Reason", "Timestamp"}); err != nil {
		return err
	}
	for _, event := range events {
		row := []string{
			event.Domain,
			event.Resolver,
			event.OldIP,
			event.NewIP,
			event.Reason,
			event.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// orderResults flattens a result map into resolver-name order so output is
// stable across runs.
func orderResults(results map[string]dns.Result) []dns.Result {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	ordered := make([]dns.Result, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, results[name])
	}
	return ordered
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func ttlString(ttl *uint32) string {
	if ttl == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *ttl)
}

func ttlCSV(ttl *uint32) string {
	if ttl == nil {
		return ""
	}
	return fmt.Sprintf("%d", *ttl)
}
