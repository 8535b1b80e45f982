// =============================================================================
// internal/monitor/domains.go - Domain list loading
// =============================================================================
package monitor

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/bryanCE/dnspector/internal/dns"
)

// ReadDomainsFromFile reads domains from a file, one per line. Empty lines
// and lines starting with # are skipped.
func ReadDomainsFromFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var domains []string
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		domain := strings.TrimSpace(scanner.Text())

		if domain == "" || strings.HasPrefix(domain, "#") {
			continue
		}

		if err := dns.ValidateDomain(domain); err != nil {
			return nil, fmt.Errorf("invalid domain on line %d: %s: %w", lineNum, domain, err)
		}

		domains = append(domains, domain)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	if len(domains) == 0 {
		return nil, fmt.Errorf("no valid domains found in file")
	}

	return domains, nil
}
