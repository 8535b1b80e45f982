package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bryanCE/dnspector/internal/dns"
)

func TestLoad(t *testing.T) {
	content := `
db-path = "/tmp/dnspector.db"
interval = "45s"
timeout = "1500ms"
domains = ["example.com", "example.org"]

[resolvers.quad9]
kind = "udp"
address = "9.9.9.9"

[resolvers.system]
kind = "system"

[resolvers.quad9_doh]
kind = "doh"
url = "https://dns.quad9.net/dns-query"
`
	path := filepath.Join(t.TempDir(), "dnspector.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/dnspector.db", cfg.DBPath)
	require.Equal(t, 45*time.Second, cfg.Interval.Duration)
	require.Equal(t, 1500*time.Millisecond, cfg.Timeout.Duration)
	require.Equal(t, []string{"example.com", "example.org"}, cfg.Domains)

	targets := cfg.Targets()
	require.Equal(t, []dns.Target{
		{Name: "quad9", Kind: dns.TargetUDP, Address: "9.9.9.9"},
		{Name: "quad9_doh", Kind: dns.TargetDoH, URL: "https://dns.quad9.net/dns-query"},
		{Name: "system", Kind: dns.TargetSystem},
	}, targets)

	// The configured targets build a valid registry.
	_, err = dns.NewRegistry(targets)
	require.NoError(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dnspector.toml")
	require.NoError(t, os.WriteFile(path, []byte(`interval = "soon"`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestDefaultTargets(t *testing.T) {
	cfg := Default()
	require.Equal(t, "dns_log.db", cfg.DBPath)
	require.Equal(t, 30*time.Second, cfg.Interval.Duration)
	require.Equal(t, dns.DefaultTimeout, cfg.Timeout.Duration)

	targets := cfg.Targets()
	registry, err := dns.NewRegistry(targets)
	require.NoError(t, err)

	// The default registry covers all three transports.
	require.NotEmpty(t, registry.NamesOfKind(dns.TargetUDP))
	require.NotEmpty(t, registry.NamesOfKind(dns.TargetDoH))
	require.NotEmpty(t, registry.NamesOfKind(dns.TargetSystem))
}

func TestLoadKeepsDefaultsForOmittedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dnspector.toml")
	require.NoError(t, os.WriteFile(path, []byte(`domains = ["example.com"]`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "dns_log.db", cfg.DBPath)
	require.Equal(t, 30*time.Second, cfg.Interval.Duration)
	require.Len(t, cfg.Targets(), 5)
}
