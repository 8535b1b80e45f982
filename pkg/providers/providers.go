package providers

import "github.com/bryanCE/dnspector/internal/dns"

// DefaultTargets is the built-in resolver registry used when no config file
// names one: two well-known public UDP providers, the host stub resolver,
// and the same providers' DoH JSON endpoints.
func DefaultTargets() []dns.Target {
	return []dns.Target{
		{Name: "google", Kind: dns.TargetUDP, Address: "8.8.8.8"},
		{Name: "cloudflare", Kind: dns.TargetUDP, Address: "1.1.1.1"},
		{Name: "system", Kind: dns.TargetSystem},
		{Name: "google_doh", Kind: dns.TargetDoH, URL: "https://dns.google/resolve"},
		{Name: "cloudflare_doh", Kind: dns.TargetDoH, URL: "https://cloudflare-dns.com/dns-query"},
	}
}
