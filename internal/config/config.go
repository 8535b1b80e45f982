// =============================================================================
// internal/config/config.go - TOML configuration
// =============================================================================
package config

import (
	"os"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/bryanCE/dnspector/internal/dns"
	"github.com/bryanCE/dnspector/pkg/providers"
)

// Duration decodes TOML strings like "30s" into a time.Duration.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config is the tool configuration. Zero values fall back to defaults.
type Config struct {
	DBPath    string              `toml:"db-path"`
	Interval  Duration            `toml:"interval"`
	Timeout   Duration            `toml:"timeout"`
	Domains   []string            `toml:"domains"`
	Resolvers map[string]Resolver `toml:"resolvers"`
}

// Resolver describes one configured resolution target.
type Resolver struct {
	Kind    string `toml:"kind"` // udp, doh or system
	Address string `toml:"address"`
	URL     string `toml:"url"`
}

// Default returns the built-in configuration: the providers registry, a
// 30 second sweep interval and a 2 second per-attempt timeout.
func Default() Config {
	return Config{
		DBPath:   "dns_log.db",
		Interval: Duration{30 * time.Second},
		Timeout:  Duration{dns.DefaultTimeout},
	}
}

// Load reads a config file and returns the decoded configuration merged
// over the defaults.
func Load(name string) (Config, error) {
	c := Default()
	f, err := os.Open(name)
	if err != nil {
		return c, errors.Wrap(err, "opening config file")
	}
	defer f.Close()
	if _, err := toml.NewDecoder(f).Decode(&c); err != nil {
		return c, errors.Wrap(err, "decoding config file")
	}
	return c, nil
}

// Targets converts the configured resolvers into registry targets. When no
// resolvers are configured, the built-in provider set is used. Configured
// targets are emitted in sorted name order so registries build
// deterministically.
func (c Config) Targets() []dns.Target {
	if len(c.Resolvers) == 0 {
		return providers.DefaultTargets()
	}

	names := make([]string, 0, len(c.Resolvers))
	for name := range c.Resolvers {
		names = append(names, name)
	}
	sort.Strings(names)

	targets := make([]dns.Target, 0, len(names))
	for _, name := range names {
		r := c.Resolvers[name]
		targets = append(targets, dns.Target{
			Name:    name,
			Kind:    dns.TargetKind(r.Kind),
			Address: r.Address,
			URL:     r.URL,
		})
	}
	return targets
}
